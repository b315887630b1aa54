package collections_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/internal/cases"
	"github.com/JaimeStill/dossier/internal/collections"
	"github.com/JaimeStill/dossier/internal/testutil"
	"github.com/JaimeStill/dossier/pkg/apperrors"
)

type fixture struct {
	db          *sql.DB
	cases       cases.System
	collections collections.System
	owner       uuid.UUID
	other       uuid.UUID
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.DB(t)
	return fixture{
		db:          db,
		cases:       cases.New(db, testutil.Logger()),
		collections: collections.New(db, testutil.Logger()),
		owner:       testutil.CreateUser(t, db, "owner"),
		other:       testutil.CreateUser(t, db, "other"),
	}
}

func TestNoDuplicateAssociations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, cases.CreateCommand{Title: "case"}, f.owner)
	require.NoError(t, err)
	col, err := f.collections.Create(ctx, collections.CreateCommand{Title: "folder"}, f.owner)
	require.NoError(t, err)

	require.NoError(t, f.collections.AddCase(ctx, col.ID, c.ID, f.owner))

	err = f.collections.AddCase(ctx, col.ID, c.ID, f.owner)
	assert.ErrorIs(t, err, collections.ErrAlreadyInCollection)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateAssociation)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, 1, testutil.Count(t, f.db, "case_collection_associations", "collection_id = $1", col.ID))
}

func TestAddCaseRequiresOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	mine, err := f.cases.Create(ctx, cases.CreateCommand{Title: "mine"}, f.owner)
	require.NoError(t, err)
	theirs, err := f.cases.Create(ctx, cases.CreateCommand{Title: "theirs"}, f.other)
	require.NoError(t, err)
	col, err := f.collections.Create(ctx, collections.CreateCommand{Title: "folder"}, f.owner)
	require.NoError(t, err)

	err = f.collections.AddCase(ctx, col.ID, mine.ID, f.other)
	assert.ErrorIs(t, err, collections.ErrAccessDenied)

	err = f.collections.AddCase(ctx, col.ID, theirs.ID, f.owner)
	assert.ErrorIs(t, err, collections.ErrCaseAccessDenied)

	require.NoError(t, cases.Share(ctx, f.db, theirs.ID, f.owner))
	err = f.collections.AddCase(ctx, col.ID, theirs.ID, f.owner)
	assert.ErrorIs(t, err, collections.ErrCaseAccessDenied, "read access is not ownership")
}

func TestFindIncludesCases(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	col, err := f.collections.Create(ctx, collections.CreateCommand{Title: "folder"}, f.owner)
	require.NoError(t, err)

	for _, title := range []string{"a", "b"} {
		c, err := f.cases.Create(ctx, cases.CreateCommand{Title: title}, f.owner)
		require.NoError(t, err)
		require.NoError(t, f.collections.AddCase(ctx, col.ID, c.ID, f.owner))
	}

	found, err := f.collections.Find(ctx, col.ID, f.owner)
	require.NoError(t, err)
	assert.Len(t, found.Cases, 2)

	_, err = f.collections.Find(ctx, col.ID, f.other)
	assert.ErrorIs(t, err, collections.ErrAccessDenied)
}

func TestRemoveCase(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, cases.CreateCommand{Title: "case"}, f.owner)
	require.NoError(t, err)
	col, err := f.collections.Create(ctx, collections.CreateCommand{Title: "folder"}, f.owner)
	require.NoError(t, err)
	require.NoError(t, f.collections.AddCase(ctx, col.ID, c.ID, f.owner))

	assert.ErrorIs(t, f.collections.RemoveCase(ctx, col.ID, c.ID, f.other), collections.ErrAccessDenied)
	require.NoError(t, f.collections.RemoveCase(ctx, col.ID, c.ID, f.owner))
	assert.ErrorIs(t, f.collections.RemoveCase(ctx, col.ID, c.ID, f.owner), collections.ErrNotInCollection)
}

func TestUpdateListDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	col, err := f.collections.Create(ctx, collections.CreateCommand{Title: "folder"}, f.owner)
	require.NoError(t, err)

	title := "renamed"
	updated, err := f.collections.Update(ctx, col.ID, collections.UpdateCommand{Title: &title}, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = f.collections.Update(ctx, col.ID, collections.UpdateCommand{Title: &title}, f.other)
	assert.ErrorIs(t, err, collections.ErrAccessDenied)

	list, err := f.collections.List(ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.collections.List(ctx, f.other)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.collections.Delete(ctx, col.ID, f.other), collections.ErrAccessDenied)
	require.NoError(t, f.collections.Delete(ctx, col.ID, f.owner))
}
