package cases

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/repository"
)

// CanRead reports whether userID holds a share row for caseID. Owners hold
// one from the moment the case is created, so this is the only read check.
func CanRead(ctx context.Context, q repository.Querier, caseID, userID uuid.UUID) (bool, error) {
	return repository.QueryExists(ctx, q,
		"SELECT 1 FROM shared_case_users WHERE case_id = $1 AND user_id = $2",
		caseID, userID,
	)
}

// RequireRead returns ErrAccessDenied unless userID can read caseID.
func RequireRead(ctx context.Context, q repository.Querier, caseID, userID uuid.UUID) error {
	ok, err := CanRead(ctx, q, caseID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

// IsOwner reports whether userID owns caseID.
func IsOwner(ctx context.Context, q repository.Querier, caseID, userID uuid.UUID) (bool, error) {
	return repository.QueryExists(ctx, q,
		"SELECT 1 FROM cases WHERE id = $1 AND user_id = $2",
		caseID, userID,
	)
}

// RequireOwner returns ErrNotOwner unless userID owns caseID.
func RequireOwner(ctx context.Context, q repository.Querier, caseID, userID uuid.UUID) error {
	ok, err := IsOwner(ctx, q, caseID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwner
	}
	return nil
}
