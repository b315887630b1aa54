package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/repository"
)

type repo struct {
	db        *sql.DB
	passwords *auth.Passwords
	logger    *slog.Logger
}

// New creates a user repository implementing the System interface.
func New(db *sql.DB, passwords *auth.Passwords, logger *slog.Logger) System {
	return &repo{
		db:        db,
		passwords: passwords,
		logger:    logger.With("system", "users"),
	}
}

func (r *repo) Handler(tokens *auth.Tokens) *Handler {
	return NewHandler(r, tokens, r.logger)
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*User, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	hash, err := r.passwords.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	id := uuid.New()

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, username, hashed_password, role) VALUES ($1, $2, $3, $4)",
			id, cmd.Username, hash, RoleUser,
		); err != nil {
			return User{}, err
		}

		if cmd.Profile != nil {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO profiles (id, user_id, first_name, last_name) VALUES ($1, $2, $3, $4)",
				uuid.New(), id, cmd.Profile.FirstName, cmd.Profile.LastName,
			); err != nil {
				return User{}, err
			}
		}

		return repository.QueryOne(ctx, tx, selectUser+" WHERE u.id = $1", []any{id}, scanUser)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrUsernameTaken)
	}

	r.logger.Info("user registered", "id", u.ID, "username", u.Username)
	return &u, nil
}

func (r *repo) Authenticate(ctx context.Context, cmd LoginCommand) (*User, error) {
	u, err := r.FindByUsername(ctx, strings.TrimSpace(cmd.Username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, r.passwords.Reject(cmd.Password)
		}
		return nil, err
	}

	if err := r.passwords.Verify(u.hashedPassword, cmd.Password); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *repo) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, "u.username = $1", username)
}

func (r *repo) findOne(ctx context.Context, where string, arg any) (*User, error) {
	u, err := repository.QueryOne(ctx, r.db, selectUser+" WHERE "+where, []any{arg}, scanUser)
	if err != nil {
		if mapped := repository.MapError(err, ErrNotFound, ErrUsernameTaken); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
