package collections

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for collection operations. Only the
// owner of a collection can see or change it.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, cmd CreateCommand, owner uuid.UUID) (*Collection, error)
	Find(ctx context.Context, collectionID, userID uuid.UUID) (*Collection, error)
	List(ctx context.Context, userID uuid.UUID) ([]Collection, error)
	Update(ctx context.Context, collectionID uuid.UUID, cmd UpdateCommand, userID uuid.UUID) (*Collection, error)
	Delete(ctx context.Context, collectionID, userID uuid.UUID) error

	AddCase(ctx context.Context, collectionID, caseID, userID uuid.UUID) error
	RemoveCase(ctx context.Context, collectionID, caseID, userID uuid.UUID) error
}
