package groups

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

// New creates a group repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "groups"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Create inserts the group and the creator's membership in one transaction.
func (r *repo) Create(ctx context.Context, cmd Command, creator uuid.UUID) (*Group, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Group, error) {
		g, err := repository.QueryOne(ctx, tx,
			"INSERT INTO groups (id, name, created_by) VALUES ($1, $2, $3) "+returning,
			[]any{uuid.New(), cmd.Name, creator},
			scanGroup,
		)
		if err != nil {
			return Group{}, err
		}

		if err := addMember(ctx, tx, g.ID, creator); err != nil {
			return Group{}, err
		}
		return g, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrUserNotFound, ErrAlreadyMember)
	}

	r.logger.Info("group created", "id", g.ID, "created_by", creator)
	return r.Find(ctx, g.ID, creator)
}

func (r *repo) Find(ctx context.Context, groupID, userID uuid.UUID) (*Group, error) {
	q, args := query.NewBuilder(memberProjection).
		WhereEquals("ID", groupID).
		WhereEquals("m.user_id", userID).
		Build()

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGroup)
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrAlreadyMember)
	}

	if g.Members, err = repository.QueryMany(ctx, r.db, selectMembers, []any{groupID}, scanMember); err != nil {
		return nil, err
	}

	g.Cases, err = repository.QueryMany(ctx, r.db,
		"SELECT "+cases.Columns()+` FROM cases c
		JOIN shared_case_groups s ON s.case_id = c.id
		WHERE s.group_id = $1
		ORDER BY s.created_at, c.id`,
		[]any{groupID},
		cases.Scan,
	)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *repo) List(ctx context.Context, userID uuid.UUID) ([]Group, error) {
	q, args := query.NewBuilder(memberProjection, defaultSort...).
		WhereEquals("m.user_id", userID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanGroup)
}

func (r *repo) Update(ctx context.Context, groupID uuid.UUID, cmd Command, userID uuid.UUID) (*Group, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE groups SET name = $3, updated_at = now() WHERE id = $1 AND created_by = $2",
		groupID, userID, cmd.Name,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrAlreadyMember)
	}

	r.logger.Info("group updated", "id", groupID)
	return r.Find(ctx, groupID, userID)
}

func (r *repo) Delete(ctx context.Context, groupID, userID uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"DELETE FROM groups WHERE id = $1 AND created_by = $2",
		groupID, userID,
	)
	if err != nil {
		return repository.MapError(err, ErrAccessDenied, ErrAlreadyMember)
	}

	r.logger.Info("group deleted", "id", groupID)
	return nil
}

func (r *repo) AddUser(ctx context.Context, target, groupID, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := requireCreator(ctx, tx, groupID, userID); err != nil {
			return struct{}{}, err
		}

		member, err := isMember(ctx, tx, groupID, target)
		if err != nil {
			return struct{}{}, err
		}
		if member {
			return struct{}{}, ErrAlreadyMember
		}

		return struct{}{}, addMember(ctx, tx, groupID, target)
	})
	if err != nil {
		return repository.MapError(err, ErrUserNotFound, ErrAlreadyMember)
	}

	r.logger.Info("user added to group", "group_id", groupID, "user_id", target)
	return nil
}

func (r *repo) RemoveUser(ctx context.Context, target, groupID, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := requireCreator(ctx, tx, groupID, userID); err != nil {
			return struct{}{}, err
		}
		if target == userID {
			return struct{}{}, ErrCreatorRemoval
		}

		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			"DELETE FROM user_group_associations WHERE group_id = $1 AND user_id = $2",
			groupID, target,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotMember, ErrAlreadyMember)
	}

	r.logger.Info("user removed from group", "group_id", groupID, "user_id", target)
	return nil
}

func (r *repo) ShareCase(ctx context.Context, caseID, groupID, userID uuid.UUID) error {
	granted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		owns, err := cases.IsOwner(ctx, tx, caseID, userID)
		if err != nil {
			return 0, err
		}
		if !owns {
			return 0, ErrCaseAccessDenied
		}

		hasMembers, err := repository.QueryExists(ctx, tx,
			"SELECT 1 FROM user_group_associations WHERE group_id = $1",
			groupID,
		)
		if err != nil {
			return 0, err
		}
		if !hasMembers {
			return 0, ErrEmptyGroup
		}

		shared, err := repository.QueryExists(ctx, tx,
			"SELECT 1 FROM shared_case_groups WHERE case_id = $1 AND group_id = $2",
			caseID, groupID,
		)
		if err != nil {
			return 0, err
		}
		if shared {
			return 0, ErrAlreadyShared
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO shared_case_groups (id, case_id, group_id) VALUES ($1, $2, $3)",
			uuid.New(), caseID, groupID,
		); err != nil {
			return 0, err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO shared_case_users (id, case_id, user_id)
			SELECT gen_random_uuid(), $1, a.user_id
			FROM user_group_associations a
			WHERE a.group_id = $2
			ON CONFLICT (case_id, user_id) DO NOTHING`,
			caseID, groupID,
		)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
	if err != nil {
		return repository.MapError(err, ErrEmptyGroup, ErrAlreadyShared)
	}

	r.logger.Info("case shared with group",
		"case_id", caseID,
		"group_id", groupID,
		"granted", granted,
	)
	return nil
}

func (r *repo) RemoveCase(ctx context.Context, caseID, groupID, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := requireCreator(ctx, tx, groupID, userID); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			"DELETE FROM shared_case_groups WHERE case_id = $1 AND group_id = $2",
			caseID, groupID,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotShared, ErrAlreadyShared)
	}

	r.logger.Info("case removed from group", "case_id", caseID, "group_id", groupID)
	return nil
}

func requireCreator(ctx context.Context, q repository.Querier, groupID, userID uuid.UUID) error {
	ok, err := repository.QueryExists(ctx, q,
		"SELECT 1 FROM groups WHERE id = $1 AND created_by = $2",
		groupID, userID,
	)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

func isMember(ctx context.Context, q repository.Querier, groupID, userID uuid.UUID) (bool, error) {
	return repository.QueryExists(ctx, q,
		"SELECT 1 FROM user_group_associations WHERE group_id = $1 AND user_id = $2",
		groupID, userID,
	)
}

func addMember(ctx context.Context, e repository.Executor, groupID, userID uuid.UUID) error {
	_, err := e.ExecContext(ctx,
		"INSERT INTO user_group_associations (id, user_id, group_id) VALUES ($1, $2, $3)",
		uuid.New(), userID, groupID,
	)
	return err
}
