package cases_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/internal/cases"
	"github.com/JaimeStill/dossier/internal/testutil"
	"github.com/JaimeStill/dossier/pkg/apperrors"
)

func setup(t *testing.T) (*sql.DB, cases.System) {
	t.Helper()
	db := testutil.DB(t)
	return db, cases.New(db, testutil.Logger())
}

func ptr[T any](v T) *T { return &v }

func TestCreateSharesWithOwner(t *testing.T) {
	db, sys := setup(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")

	c, err := sys.Create(ctx, cases.CreateCommand{Title: "  Fraud ring ", Summary: ptr("wire transfers")}, owner)
	require.NoError(t, err)

	assert.Equal(t, "Fraud ring", c.Title)
	assert.Equal(t, cases.StatusOpen, c.Status)
	assert.Equal(t, owner, c.UserID)
	assert.Nil(t, c.UpdatedAt)
	assert.Equal(t, 1, testutil.Count(t, db, "shared_case_users", "case_id = $1 AND user_id = $2", c.ID, owner))

	ok, err := cases.CanRead(ctx, db, c.ID, owner)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateRollsBackOnFailure(t *testing.T) {
	db, sys := setup(t)

	_, err := sys.Create(context.Background(), cases.CreateCommand{Title: "orphan"}, uuid.New())
	require.Error(t, err)

	assert.Equal(t, 0, testutil.Count(t, db, "cases", ""))
	assert.Equal(t, 0, testutil.Count(t, db, "shared_case_users", ""))
}

func TestCreateRequiresTitle(t *testing.T) {
	db, sys := setup(t)
	owner := testutil.CreateUser(t, db, "owner")

	_, err := sys.Create(context.Background(), cases.CreateCommand{Title: "   "}, owner)
	assert.ErrorIs(t, err, cases.ErrInvalidTitle)
}

func TestAccessIsolation(t *testing.T) {
	db, sys := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	c, err := sys.Create(ctx, cases.CreateCommand{Title: "private"}, alice)
	require.NoError(t, err)

	_, err = sys.Find(ctx, c.ID, bob)
	assert.ErrorIs(t, err, cases.ErrAccessDenied)

	_, err = sys.Find(ctx, uuid.New(), bob)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied, "a missing case is indistinguishable from an unshared one")

	require.NoError(t, cases.Share(ctx, db, c.ID, bob))

	found, err := sys.Find(ctx, c.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = sys.Update(ctx, c.ID, cases.UpdateCommand{Title: ptr("hijacked")}, bob)
	assert.ErrorIs(t, err, cases.ErrNotOwner)

	assert.ErrorIs(t, sys.Delete(ctx, c.ID, bob), cases.ErrNotOwner)
}

func TestListOwnedOrder(t *testing.T) {
	db, sys := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	for _, title := range []string{"first", "second", "third"} {
		_, err := sys.Create(ctx, cases.CreateCommand{Title: title}, alice)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}
	bobs, err := sys.Create(ctx, cases.CreateCommand{Title: "bob's"}, bob)
	require.NoError(t, err)

	owned, err := sys.ListOwned(ctx, alice)
	require.NoError(t, err)
	require.Len(t, owned, 3)
	assert.Equal(t, "first", owned[0].Title)
	assert.Equal(t, "third", owned[2].Title)

	require.NoError(t, cases.Share(ctx, db, bobs.ID, alice))

	shared, err := sys.ListShared(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, shared, 4)

	owned, err = sys.ListOwned(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, owned, 3)
}

func TestUpdateAndDelete(t *testing.T) {
	db, sys := setup(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")

	c, err := sys.Create(ctx, cases.CreateCommand{Title: "draft", Description: ptr("notes")}, owner)
	require.NoError(t, err)

	updated, err := sys.Update(ctx, c.ID, cases.UpdateCommand{Status: ptr(cases.StatusClosed)}, owner)
	require.NoError(t, err)
	assert.Equal(t, cases.StatusClosed, updated.Status)
	assert.Equal(t, "draft", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "notes", *updated.Description)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = sys.Update(ctx, c.ID, cases.UpdateCommand{Status: ptr("deleted")}, owner)
	assert.ErrorIs(t, err, cases.ErrInvalidStatus)

	require.NoError(t, sys.Delete(ctx, c.ID, owner))
	assert.Equal(t, 0, testutil.Count(t, db, "shared_case_users", "case_id = $1", c.ID))

	_, err = sys.Find(ctx, c.ID, owner)
	assert.ErrorIs(t, err, cases.ErrAccessDenied)
}
