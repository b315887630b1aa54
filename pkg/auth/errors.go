package auth

import "github.com/JaimeStill/dossier/pkg/apperrors"

var (
	// ErrInvalidCredentials is returned when a username or password does not match.
	ErrInvalidCredentials = apperrors.New(apperrors.ErrUnauthenticated, "invalid username or password")
	// ErrInvalidToken is returned for a malformed, expired, or wrongly signed token.
	ErrInvalidToken = apperrors.New(apperrors.ErrUnauthenticated, "invalid or expired token")
	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = apperrors.New(apperrors.ErrUnauthenticated, "authentication required")
)
