package groups

import "github.com/JaimeStill/dossier/pkg/apperrors"

var (
	ErrAccessDenied     = apperrors.New(apperrors.ErrAccessDenied, "group not found or access denied")
	ErrCaseAccessDenied = apperrors.New(apperrors.ErrAccessDenied, "case not found or access denied")
	ErrCreatorRemoval   = apperrors.New(apperrors.ErrAccessDenied, "the group creator cannot be removed from the group")
	ErrEmptyGroup       = apperrors.New(apperrors.ErrNotFound, "group not found or empty")
	ErrUserNotFound     = apperrors.New(apperrors.ErrNotFound, "user not found")
	ErrNotMember        = apperrors.New(apperrors.ErrNotFound, "user not in group")
	ErrNotShared        = apperrors.New(apperrors.ErrNotFound, "case not shared with group")
	ErrAlreadyMember    = apperrors.New(apperrors.ErrDuplicateAssociation, "user already in group")
	ErrAlreadyShared    = apperrors.New(apperrors.ErrDuplicateAssociation, "case already shared with this group")
	ErrInvalidName      = apperrors.New(apperrors.ErrInvalidInput, "name is required")
	ErrInvalidID        = apperrors.New(apperrors.ErrInvalidInput, "invalid id")
)
