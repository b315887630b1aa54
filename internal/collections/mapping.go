package collections

import (
	"strings"

	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "collections", "col").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("title", "Title").
	Project("description", "Description").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "CreatedAt"},
	{Field: "ID"},
}

const returning = "RETURNING id, user_id, title, description, created_at, updated_at"

func scanCollection(s repository.Scanner) (Collection, error) {
	var c Collection
	err := s.Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrInvalidTitle
	}
	return title, nil
}
