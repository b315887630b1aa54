package evidence

import "github.com/JaimeStill/dossier/pkg/apperrors"

var (
	ErrAccessDenied  = apperrors.New(apperrors.ErrAccessDenied, "evidence not found or access denied")
	ErrNoFiles       = apperrors.New(apperrors.ErrInvalidInput, "at least one file is required in the evidences field")
	ErrInvalidCaseID = apperrors.New(apperrors.ErrInvalidInput, "case_id must be a valid uuid")
	ErrInvalidID     = apperrors.New(apperrors.ErrInvalidInput, "invalid evidence id")
	ErrFileTooLarge  = apperrors.New(apperrors.ErrInvalidInput, "upload exceeds the maximum allowed size")
	ErrSourceMissing = apperrors.New(apperrors.ErrNotFound, "evidence source file not found")
)
