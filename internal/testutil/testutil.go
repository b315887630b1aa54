// Package testutil starts a shared PostgreSQL container for integration
// tests and provides fixtures on top of it.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/dossier/migrations"
)

// Image is a PostgreSQL build that ships the pgvector extension.
const Image = "pgvector/pgvector:pg16"

// tables in truncation order; CASCADE covers the rest.
var tables = []string{
	"messages",
	"evidences",
	"shared_case_groups",
	"shared_case_users",
	"user_group_associations",
	"groups",
	"case_collection_associations",
	"collections",
	"cases",
	"profiles",
	"users",
}

var (
	shared     *sql.DB
	sharedURL  string
	sharedOnce sync.Once
	sharedErr  error
)

// DB returns a connection to the shared, migrated test database with every
// table emptied. Tests using it must not run in parallel. Skipped under -short.
func DB(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode (requires Docker)")
	}

	sharedOnce.Do(func() {
		shared, sharedURL, sharedErr = setup()
	})
	if sharedErr != nil {
		t.Fatalf("setup test database: %v", sharedErr)
	}

	Reset(t, shared)
	return shared
}

// URL returns the postgres:// URL of the shared database. DB must be called first.
func URL() string {
	return sharedURL
}

func setup() (*sql.DB, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		Image,
		postgres.WithDatabase("dossier"),
		postgres.WithUsername("dossier"),
		postgres.WithPassword("dossier"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("start postgres container: %w", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("connection string: %w", err)
	}

	if err := migrations.Up(url); err != nil {
		return nil, "", err
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, "", fmt.Errorf("ping database: %w", err)
	}

	return db, url, nil
}

// Reset truncates every application table.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()

	stmt := "TRUNCATE " + strings.Join(tables, ", ") + " CASCADE"
	if _, err := db.ExecContext(context.Background(), stmt); err != nil {
		t.Fatalf("reset database: %v", err)
	}
}

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateUser inserts a user row directly and returns its id.
func CreateUser(t *testing.T, db *sql.DB, username string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO users (id, username, hashed_password) VALUES ($1, $2, $3)",
		id, username, "not-a-real-hash",
	)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}

// Count returns the number of rows matching a WHERE clause on table.
func Count(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
