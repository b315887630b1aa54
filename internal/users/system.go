package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/auth"
)

// System defines the public contract for user operations.
type System interface {
	Handler(tokens *auth.Tokens) *Handler

	Register(ctx context.Context, cmd RegisterCommand) (*User, error)
	// Authenticate returns auth.ErrInvalidCredentials for an unknown
	// username and for a wrong password alike.
	Authenticate(ctx context.Context, cmd LoginCommand) (*User, error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}
