package groups_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/internal/cases"
	"github.com/JaimeStill/dossier/internal/groups"
	"github.com/JaimeStill/dossier/internal/testutil"
	"github.com/JaimeStill/dossier/pkg/apperrors"
)

type fixture struct {
	db     *sql.DB
	cases  cases.System
	groups groups.System
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.DB(t)
	return fixture{
		db:     db,
		cases:  cases.New(db, testutil.Logger()),
		groups: groups.New(db, testutil.Logger()),
	}
}

func TestCreateAddsCreator(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	creator := testutil.CreateUser(t, f.db, "creator")

	g, err := f.groups.Create(ctx, groups.Command{Name: " analysts "}, creator)
	require.NoError(t, err)

	assert.Equal(t, "analysts", g.Name)
	require.Len(t, g.Members, 1)
	assert.Equal(t, creator, g.Members[0].ID)
	assert.Equal(t, "creator", g.Members[0].Username)
}

func TestPointInTimeFanOut(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "owner")
	member := testutil.CreateUser(t, f.db, "member")
	late := testutil.CreateUser(t, f.db, "late")

	c, err := f.cases.Create(ctx, cases.CreateCommand{Title: "shared"}, owner)
	require.NoError(t, err)
	g, err := f.groups.Create(ctx, groups.Command{Name: "team"}, owner)
	require.NoError(t, err)
	require.NoError(t, f.groups.AddUser(ctx, member, g.ID, owner))

	require.NoError(t, f.groups.ShareCase(ctx, c.ID, g.ID, owner))

	assert.Equal(t, 1, testutil.Count(t, f.db, "shared_case_groups", "case_id = $1", c.ID))
	assert.Equal(t, 2, testutil.Count(t, f.db, "shared_case_users", "case_id = $1", c.ID), "owner row kept, member row added")

	_, err = f.cases.Find(ctx, c.ID, member)
	require.NoError(t, err)

	require.NoError(t, f.groups.AddUser(ctx, late, g.ID, owner))
	_, err = f.cases.Find(ctx, c.ID, late)
	assert.ErrorIs(t, err, cases.ErrAccessDenied, "members added after the share gain nothing")

	err = f.groups.ShareCase(ctx, c.ID, g.ID, owner)
	assert.ErrorIs(t, err, groups.ErrAlreadyShared)

	require.NoError(t, f.groups.RemoveCase(ctx, c.ID, g.ID, owner))
	assert.Equal(t, 0, testutil.Count(t, f.db, "shared_case_groups", "case_id = $1", c.ID))
	_, err = f.cases.Find(ctx, c.ID, member)
	assert.NoError(t, err, "fanned-out user rows survive removal of the group share")

	assert.ErrorIs(t, f.groups.RemoveCase(ctx, c.ID, g.ID, owner), groups.ErrNotShared)
}

func TestShareCaseChecks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "owner")
	other := testutil.CreateUser(t, f.db, "other")

	c, err := f.cases.Create(ctx, cases.CreateCommand{Title: "case"}, owner)
	require.NoError(t, err)
	g, err := f.groups.Create(ctx, groups.Command{Name: "team"}, other)
	require.NoError(t, err)

	err = f.groups.ShareCase(ctx, c.ID, g.ID, other)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	err = f.groups.ShareCase(ctx, c.ID, uuid.New(), owner)
	assert.ErrorIs(t, err, groups.ErrEmptyGroup)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMembership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	creator := testutil.CreateUser(t, f.db, "creator")
	member := testutil.CreateUser(t, f.db, "member")
	outsider := testutil.CreateUser(t, f.db, "outsider")

	g, err := f.groups.Create(ctx, groups.Command{Name: "team"}, creator)
	require.NoError(t, err)

	require.NoError(t, f.groups.AddUser(ctx, member, g.ID, creator))
	assert.ErrorIs(t, f.groups.AddUser(ctx, member, g.ID, creator), groups.ErrAlreadyMember)
	assert.ErrorIs(t, f.groups.AddUser(ctx, uuid.New(), g.ID, creator), groups.ErrUserNotFound)
	assert.ErrorIs(t, f.groups.AddUser(ctx, outsider, g.ID, member), groups.ErrAccessDenied)

	found, err := f.groups.Find(ctx, g.ID, member)
	require.NoError(t, err)
	assert.Len(t, found.Members, 2)

	_, err = f.groups.Find(ctx, g.ID, outsider)
	assert.ErrorIs(t, err, groups.ErrAccessDenied)

	list, err := f.groups.List(ctx, member)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, f.groups.RemoveUser(ctx, creator, g.ID, creator), groups.ErrCreatorRemoval)
	assert.ErrorIs(t, f.groups.RemoveUser(ctx, outsider, g.ID, creator), groups.ErrNotMember)
	assert.ErrorIs(t, f.groups.RemoveUser(ctx, member, g.ID, member), groups.ErrAccessDenied)
	require.NoError(t, f.groups.RemoveUser(ctx, member, g.ID, creator))

	list, err = f.groups.List(ctx, member)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateDeleteCreatorOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	creator := testutil.CreateUser(t, f.db, "creator")
	member := testutil.CreateUser(t, f.db, "member")

	g, err := f.groups.Create(ctx, groups.Command{Name: "team"}, creator)
	require.NoError(t, err)
	require.NoError(t, f.groups.AddUser(ctx, member, g.ID, creator))

	_, err = f.groups.Update(ctx, g.ID, groups.Command{Name: "mine now"}, member)
	assert.ErrorIs(t, err, groups.ErrAccessDenied)

	updated, err := f.groups.Update(ctx, g.ID, groups.Command{Name: "renamed"}, creator)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.NotNil(t, updated.UpdatedAt)

	assert.ErrorIs(t, f.groups.Delete(ctx, g.ID, member), groups.ErrAccessDenied)
	require.NoError(t, f.groups.Delete(ctx, g.ID, creator))
	assert.Equal(t, 0, testutil.Count(t, f.db, "user_group_associations", "group_id = $1", g.ID))
}
