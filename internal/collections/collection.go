// Package collections groups a user's own cases into named folders.
package collections

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/internal/cases"
)

// Collection is an owner-private grouping of cases.
type Collection struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at"`
	Cases       []cases.Case `json:"cases,omitempty"`
}

// CreateCommand contains the fields for creating a collection.
type CreateCommand struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateCommand changes the non-nil fields of a collection.
type UpdateCommand struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
