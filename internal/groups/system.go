package groups

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for group operations. Members can read
// a group; only its creator can change it or its membership.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, cmd Command, creator uuid.UUID) (*Group, error)
	Find(ctx context.Context, groupID, userID uuid.UUID) (*Group, error)
	List(ctx context.Context, userID uuid.UUID) ([]Group, error)
	Update(ctx context.Context, groupID uuid.UUID, cmd Command, userID uuid.UUID) (*Group, error)
	Delete(ctx context.Context, groupID, userID uuid.UUID) error

	AddUser(ctx context.Context, target, groupID, userID uuid.UUID) error
	RemoveUser(ctx context.Context, target, groupID, userID uuid.UUID) error

	// ShareCase grants every current member read access to the case.
	// Users who join the group later do not gain access.
	ShareCase(ctx context.Context, caseID, groupID, userID uuid.UUID) error
	// RemoveCase deletes the group share. Access already granted to
	// individual members is kept.
	RemoveCase(ctx context.Context, caseID, groupID, userID uuid.UUID) error
}
