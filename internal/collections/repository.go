package collections

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/internal/cases"
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a collection repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "collections"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand, owner uuid.UUID) (*Collection, error) {
	title, err := normalizeTitle(cmd.Title)
	if err != nil {
		return nil, err
	}

	c, err := repository.QueryOne(ctx, r.db,
		"INSERT INTO collections (id, user_id, title, description) VALUES ($1, $2, $3, $4) "+returning,
		[]any{uuid.New(), owner, title, cmd.Description},
		scanCollection,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrAlreadyInCollection)
	}

	r.logger.Info("collection created", "id", c.ID, "owner", owner)
	return &c, nil
}

func (r *repo) Find(ctx context.Context, collectionID, userID uuid.UUID) (*Collection, error) {
	q, args := query.NewBuilder(projection).
		WhereEquals("ID", collectionID).
		WhereEquals("UserID", userID).
		Build()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCollection)
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrAlreadyInCollection)
	}

	c.Cases, err = repository.QueryMany(ctx, r.db,
		"SELECT "+cases.Columns()+` FROM cases c
		JOIN case_collection_associations a ON a.case_id = c.id
		WHERE a.collection_id = $1
		ORDER BY a.created_at, c.id`,
		[]any{collectionID},
		cases.Scan,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repo) List(ctx context.Context, userID uuid.UUID) ([]Collection, error) {
	q, args := query.NewBuilder(projection, defaultSort...).
		WhereEquals("UserID", userID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanCollection)
}

func (r *repo) Update(ctx context.Context, collectionID uuid.UUID, cmd UpdateCommand, userID uuid.UUID) (*Collection, error) {
	if cmd.Title != nil {
		title, err := normalizeTitle(*cmd.Title)
		if err != nil {
			return nil, err
		}
		cmd.Title = &title
	}

	c, err := repository.QueryOne(ctx, r.db, `
		UPDATE collections SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			updated_at = now()
		WHERE id = $1 AND user_id = $2 `+returning,
		[]any{collectionID, userID, cmd.Title, cmd.Description},
		scanCollection,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrAlreadyInCollection)
	}

	r.logger.Info("collection updated", "id", c.ID)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, collectionID, userID uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"DELETE FROM collections WHERE id = $1 AND user_id = $2",
		collectionID, userID,
	)
	if err != nil {
		return repository.MapError(err, ErrAccessDenied, ErrAlreadyInCollection)
	}

	r.logger.Info("collection deleted", "id", collectionID)
	return nil
}

// AddCase associates a case with a collection. The caller must own both.
func (r *repo) AddCase(ctx context.Context, collectionID, caseID, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := r.requireOwner(ctx, tx, collectionID, userID); err != nil {
			return struct{}{}, err
		}

		owns, err := cases.IsOwner(ctx, tx, caseID, userID)
		if err != nil {
			return struct{}{}, err
		}
		if !owns {
			return struct{}{}, ErrCaseAccessDenied
		}

		exists, err := repository.QueryExists(ctx, tx,
			"SELECT 1 FROM case_collection_associations WHERE case_id = $1 AND collection_id = $2",
			caseID, collectionID,
		)
		if err != nil {
			return struct{}{}, err
		}
		if exists {
			return struct{}{}, ErrAlreadyInCollection
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO case_collection_associations (id, case_id, collection_id) VALUES ($1, $2, $3)",
			uuid.New(), caseID, collectionID,
		)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrAccessDenied, ErrAlreadyInCollection)
	}

	r.logger.Info("case added to collection", "collection_id", collectionID, "case_id", caseID)
	return nil
}

func (r *repo) RemoveCase(ctx context.Context, collectionID, caseID, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := r.requireOwner(ctx, tx, collectionID, userID); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			"DELETE FROM case_collection_associations WHERE case_id = $1 AND collection_id = $2",
			caseID, collectionID,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotInCollection, ErrAlreadyInCollection)
	}

	r.logger.Info("case removed from collection", "collection_id", collectionID, "case_id", caseID)
	return nil
}

func (r *repo) requireOwner(ctx context.Context, q repository.Querier, collectionID, userID uuid.UUID) error {
	ok, err := repository.QueryExists(ctx, q,
		"SELECT 1 FROM collections WHERE id = $1 AND user_id = $2",
		collectionID, userID,
	)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}
