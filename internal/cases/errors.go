package cases

import "github.com/JaimeStill/dossier/pkg/apperrors"

var (
	// ErrAccessDenied covers both a case that does not exist and one the
	// requester cannot see.
	ErrAccessDenied  = apperrors.New(apperrors.ErrAccessDenied, "case not found or access denied")
	ErrNotOwner      = apperrors.New(apperrors.ErrAccessDenied, "only the case owner can modify this case")
	ErrDuplicate     = apperrors.New(apperrors.ErrDuplicateAssociation, "case is already shared with this user")
	ErrInvalidTitle  = apperrors.New(apperrors.ErrInvalidInput, "title is required")
	ErrInvalidStatus = apperrors.New(apperrors.ErrInvalidInput, "status must be open, closed, or archived")
)

// MapHTTPStatus maps case domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	return apperrors.MapHTTPStatus(err)
}
