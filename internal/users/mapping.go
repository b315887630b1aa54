package users

import (
	"database/sql"
	"strings"
	"unicode"

	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/repository"
)

const selectUser = `
	SELECT u.id, u.username, u.role, u.hashed_password, u.created_at, u.updated_at,
		p.first_name, p.last_name
	FROM users u
	LEFT JOIN profiles p ON p.user_id = u.id`

func scanUser(s repository.Scanner) (User, error) {
	var (
		u         User
		firstName sql.NullString
		lastName  sql.NullString
	)

	err := s.Scan(
		&u.ID,
		&u.Username,
		&u.Role,
		&u.hashedPassword,
		&u.CreatedAt,
		&u.UpdatedAt,
		&firstName,
		&lastName,
	)
	if err != nil {
		return u, err
	}

	if firstName.Valid {
		u.Profile = &Profile{FirstName: firstName.String, LastName: lastName.String}
	}
	return u, nil
}

func (c *RegisterCommand) normalize() error {
	c.Username = strings.TrimSpace(c.Username)
	if n := len(c.Username); n < 3 || n > 64 || strings.IndexFunc(c.Username, unicode.IsSpace) >= 0 {
		return ErrInvalidUsername
	}
	if c.Password == "" {
		return ErrMissingPassword
	}
	if len(c.Password) > auth.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	if c.Profile != nil {
		c.Profile.FirstName = strings.TrimSpace(c.Profile.FirstName)
		c.Profile.LastName = strings.TrimSpace(c.Profile.LastName)
		if c.Profile.FirstName == "" || c.Profile.LastName == "" {
			return ErrInvalidProfile
		}
	}
	return nil
}
