package cases

import (
	"strings"

	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("title", "Title").
	Project("status", "Status").
	Project("description", "Description").
	Project("slug", "Slug").
	Project("summary", "Summary").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// sharedProjection selects the same columns through the share rows.
var sharedProjection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("title", "Title").
	Project("status", "Status").
	Project("description", "Description").
	Project("slug", "Slug").
	Project("summary", "Summary").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "shared_case_users", "s", "JOIN", "s.case_id = c.id")

var defaultSort = []query.SortField{
	{Field: "CreatedAt"},
	{Field: "ID"},
}

// Columns is the case column list qualified with the c alias, for packages
// that join cases into their own queries.
func Columns() string {
	return projection.Columns()
}

// Scan reads a row produced by Columns.
func Scan(s repository.Scanner) (Case, error) {
	var c Case
	err := s.Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Status,
		&c.Description,
		&c.Slug,
		&c.Summary,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (c *CreateCommand) normalize() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return ErrInvalidTitle
	}
	return nil
}

func (c *UpdateCommand) normalize() error {
	if c.Title != nil {
		t := strings.TrimSpace(*c.Title)
		if t == "" {
			return ErrInvalidTitle
		}
		c.Title = &t
	}
	if c.Status != nil && !validStatus(*c.Status) {
		return ErrInvalidStatus
	}
	return nil
}
