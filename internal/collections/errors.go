package collections

import "github.com/JaimeStill/dossier/pkg/apperrors"

var (
	ErrAccessDenied        = apperrors.New(apperrors.ErrAccessDenied, "collection not found or access denied")
	ErrCaseAccessDenied    = apperrors.New(apperrors.ErrAccessDenied, "only the case owner can add it to a collection")
	ErrAlreadyInCollection = apperrors.New(apperrors.ErrDuplicateAssociation, "case is already in this collection")
	ErrNotInCollection     = apperrors.New(apperrors.ErrNotFound, "case is not in this collection")
	ErrInvalidTitle        = apperrors.New(apperrors.ErrInvalidInput, "title is required")
	ErrInvalidID           = apperrors.New(apperrors.ErrInvalidInput, "invalid id")
)
