// Package groups manages user groups and sharing cases with every member
// of a group at once.
package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/internal/cases"
	"github.com/JaimeStill/dossier/internal/users"
)

// Group is a named set of users created and administered by one user.
type Group struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	CreatedBy uuid.UUID    `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at"`
	Members   []Member     `json:"members,omitempty"`
	Cases     []cases.Case `json:"cases,omitempty"`
}

// Member is the public view of a user inside a group.
type Member struct {
	ID        uuid.UUID      `json:"id"`
	Username  string         `json:"username"`
	CreatedAt time.Time      `json:"created_at"`
	Profile   *users.Profile `json:"profile,omitempty"`
}

// Command carries the mutable fields of a group.
type Command struct {
	Name string `json:"name"`
}
