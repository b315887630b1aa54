package cases

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a case repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "cases"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Create inserts the case and the owner's share row in one transaction.
func (r *repo) Create(ctx context.Context, cmd CreateCommand, owner uuid.UUID) (*Case, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	id := uuid.New()

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		c, err := repository.QueryOne(ctx, tx, `
			INSERT INTO cases (id, user_id, title, status, description, slug, summary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, user_id, title, status, description, slug, summary, created_at, updated_at`,
			[]any{id, owner, cmd.Title, StatusOpen, cmd.Description, cmd.Slug, cmd.Summary},
			Scan,
		)
		if err != nil {
			return Case{}, err
		}

		if err := Share(ctx, tx, c.ID, owner); err != nil {
			return Case{}, err
		}
		return c, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrDuplicate)
	}

	r.logger.Info("case created", "id", c.ID, "owner", owner)
	return &c, nil
}

func (r *repo) Find(ctx context.Context, caseID, requester uuid.UUID) (*Case, error) {
	if err := RequireRead(ctx, r.db, caseID, requester); err != nil {
		return nil, err
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", caseID)
	c, err := repository.QueryOne(ctx, r.db, q, args, Scan)
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) ListOwned(ctx context.Context, userID uuid.UUID) ([]Case, error) {
	q, args := query.NewBuilder(projection, defaultSort...).
		WhereEquals("UserID", userID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, Scan)
}

func (r *repo) ListShared(ctx context.Context, userID uuid.UUID) ([]Case, error) {
	q, args := query.NewBuilder(sharedProjection, defaultSort...).
		WhereEquals("s.user_id", userID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, Scan)
}

func (r *repo) Update(ctx context.Context, caseID uuid.UUID, cmd UpdateCommand, userID uuid.UUID) (*Case, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		if err := RequireOwner(ctx, tx, caseID, userID); err != nil {
			return Case{}, err
		}

		return repository.QueryOne(ctx, tx, `
			UPDATE cases SET
				title = COALESCE($2, title),
				status = COALESCE($3, status),
				description = COALESCE($4, description),
				slug = COALESCE($5, slug),
				summary = COALESCE($6, summary),
				updated_at = now()
			WHERE id = $1
			RETURNING id, user_id, title, status, description, slug, summary, created_at, updated_at`,
			[]any{caseID, cmd.Title, cmd.Status, cmd.Description, cmd.Slug, cmd.Summary},
			Scan,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrDuplicate)
	}

	r.logger.Info("case updated", "id", c.ID)
	return &c, nil
}

// Delete removes the case. Evidence, messages, shares, and collection
// associations go with it through ON DELETE CASCADE.
func (r *repo) Delete(ctx context.Context, caseID, userID uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"DELETE FROM cases WHERE id = $1 AND user_id = $2",
		caseID, userID,
	)
	if err != nil {
		return repository.MapError(err, ErrNotOwner, ErrDuplicate)
	}

	r.logger.Info("case deleted", "id", caseID)
	return nil
}

// Share writes a share row granting userID read access to caseID.
func Share(ctx context.Context, e repository.Executor, caseID, userID uuid.UUID) error {
	_, err := e.ExecContext(ctx,
		"INSERT INTO shared_case_users (id, case_id, user_id) VALUES ($1, $2, $3)",
		uuid.New(), caseID, userID,
	)
	return err
}
