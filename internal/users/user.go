// Package users implements account registration, credential checks, and
// profile lookup.
package users

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a registered account. The password hash never leaves the package.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Profile   *Profile   `json:"profile,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	hashedPassword string
}

// Profile holds optional personal details for a user.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterCommand carries the data needed to create an account.
type RegisterCommand struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Profile  *Profile `json:"profile,omitempty"`
}

// LoginCommand carries submitted credentials.
type LoginCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
