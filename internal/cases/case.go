// Package cases owns investigation cases and the share rows that gate
// every read of a case and the evidence beneath it.
package cases

import (
	"time"

	"github.com/google/uuid"
)

// Case statuses.
const (
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusArchived = "archived"
)

// Case is an investigation owned by a single user.
type Case struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Description *string    `json:"description"`
	Slug        *string    `json:"slug"`
	Summary     *string    `json:"summary"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// CreateCommand contains the fields for creating a case.
type CreateCommand struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Summary     *string `json:"summary,omitempty"`
}

// UpdateCommand changes the non-nil fields of a case.
type UpdateCommand struct {
	Title       *string `json:"title,omitempty"`
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Summary     *string `json:"summary,omitempty"`
}

func validStatus(s string) bool {
	switch s {
	case StatusOpen, StatusClosed, StatusArchived:
		return true
	}
	return false
}
