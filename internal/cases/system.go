package cases

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for case operations. Every method
// takes the acting user and enforces access before touching data.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, cmd CreateCommand, owner uuid.UUID) (*Case, error)
	Find(ctx context.Context, caseID, requester uuid.UUID) (*Case, error)
	ListOwned(ctx context.Context, userID uuid.UUID) ([]Case, error)
	ListShared(ctx context.Context, userID uuid.UUID) ([]Case, error)
	Update(ctx context.Context, caseID uuid.UUID, cmd UpdateCommand, userID uuid.UUID) (*Case, error)
	Delete(ctx context.Context, caseID, userID uuid.UUID) error
}
