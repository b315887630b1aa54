package users

import "github.com/JaimeStill/dossier/pkg/apperrors"

var (
	ErrNotFound        = apperrors.New(apperrors.ErrNotFound, "user not found")
	ErrUsernameTaken   = apperrors.New(apperrors.ErrDuplicateAssociation, "username already taken")
	ErrInvalidUsername = apperrors.New(apperrors.ErrInvalidInput, "username must be 3 to 64 characters without spaces")
	ErrMissingPassword = apperrors.New(apperrors.ErrInvalidInput, "password is required")
	ErrPasswordTooLong = apperrors.New(apperrors.ErrInvalidInput, "password must be at most 72 bytes")
	ErrInvalidProfile  = apperrors.New(apperrors.ErrInvalidInput, "profile requires first_name and last_name")
)

// MapHTTPStatus maps user domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	return apperrors.MapHTTPStatus(err)
}
