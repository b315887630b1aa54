package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

type execCall struct {
	query string
	args  []any
}

type recordingExecutor struct {
	calls []execCall
	err   error
}

type rowsAffected int64

func (r rowsAffected) LastInsertId() (int64, error) { return 0, nil }
func (r rowsAffected) RowsAffected() (int64, error) { return int64(r), nil }

func (e *recordingExecutor) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	e.calls = append(e.calls, execCall{query: query, args: args})
	if e.err != nil {
		return nil, e.err
	}
	return rowsAffected(0), nil
}

func TestMapError(t *testing.T) {
	other := errors.New("some other error")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, errNotFound},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapErrorPgOtherCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	assert.Same(t, pgErr, got)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, repository.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, repository.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, repository.IsUniqueViolation(errors.New("boom")))
}

func TestInsertManyEmptyIsNoop(t *testing.T) {
	exec := &recordingExecutor{}

	n, err := repository.InsertMany(context.Background(), exec, "messages", []string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, exec.calls)
}

func TestInsertManyBuildsNumberedPlaceholders(t *testing.T) {
	exec := &recordingExecutor{}

	rows := [][]any{
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
	}

	_, err := repository.InsertMany(context.Background(), exec, "public.t", []string{"a", "b"}, rows)
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)

	assert.Equal(t,
		"INSERT INTO public.t (a, b) VALUES ($1, $2), ($3, $4), ($5, $6)",
		exec.calls[0].query,
	)
	assert.Equal(t, []any{"a1", "b1", "a2", "b2", "a3", "b3"}, exec.calls[0].args)
}

func TestInsertManyRejectsRaggedRows(t *testing.T) {
	exec := &recordingExecutor{}

	_, err := repository.InsertMany(
		context.Background(), exec, "t", []string{"a", "b"},
		[][]any{{"a1", "b1"}, {"a2"}},
	)
	require.Error(t, err)
	assert.Empty(t, exec.calls)
}

func TestInsertManyPropagatesExecError(t *testing.T) {
	boom := errors.New("boom")
	exec := &recordingExecutor{err: boom}

	_, err := repository.InsertMany(context.Background(), exec, "t", []string{"a"}, [][]any{{1}})
	assert.ErrorIs(t, err, boom)
}
