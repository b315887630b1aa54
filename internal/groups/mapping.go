package groups

import (
	"database/sql"
	"strings"

	"github.com/JaimeStill/dossier/internal/users"
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "groups", "g").
	Project("id", "ID").
	Project("name", "Name").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// memberProjection selects groups through the caller's membership row.
var memberProjection = query.
	NewProjectionMap("public", "groups", "g").
	Project("id", "ID").
	Project("name", "Name").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "user_group_associations", "m", "JOIN", "m.group_id = g.id")

var defaultSort = []query.SortField{
	{Field: "CreatedAt"},
	{Field: "ID"},
}

const returning = "RETURNING id, name, created_by, created_at, updated_at"

const selectMembers = `
	SELECT u.id, u.username, u.created_at, p.first_name, p.last_name
	FROM user_group_associations a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN profiles p ON p.user_id = u.id
	WHERE a.group_id = $1
	ORDER BY a.created_at, u.id`

func scanGroup(s repository.Scanner) (Group, error) {
	var g Group
	err := s.Scan(
		&g.ID,
		&g.Name,
		&g.CreatedBy,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func scanMember(s repository.Scanner) (Member, error) {
	var (
		m         Member
		firstName sql.NullString
		lastName  sql.NullString
	)
	if err := s.Scan(&m.ID, &m.Username, &m.CreatedAt, &firstName, &lastName); err != nil {
		return m, err
	}
	if firstName.Valid {
		m.Profile = &users.Profile{FirstName: firstName.String, LastName: lastName.String}
	}
	return m, nil
}

func (c *Command) normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrInvalidName
	}
	return nil
}
