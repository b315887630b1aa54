package evidence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/internal/cases"
	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/queue"
	"github.com/JaimeStill/dossier/pkg/repository"
	"github.com/JaimeStill/dossier/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	dispatcher queue.Dispatcher
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an evidence repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	dispatcher queue.Dispatcher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		dispatcher: dispatcher,
		logger:     logger.With("system", "evidence"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) UploadAndDispatch(ctx context.Context, caseID uuid.UUID, files []File, requester uuid.UUID) (*Dispatch, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	if err := cases.RequireRead(ctx, r.db, caseID, requester); err != nil {
		return nil, err
	}

	dispatch := &Dispatch{
		DispatchID: uuid.New(),
		SavedPaths: make([]string, 0, len(files)),
	}

	for _, f := range files {
		key := buildStorageKey(caseID, uuid.New(), sanitizeFilename(f.Name))

		if err := r.storage.Upload(ctx, key, f.Body, f.ContentType); err != nil {
			r.discard(ctx, dispatch.SavedPaths)
			return nil, fmt.Errorf("store evidence %s: %w", f.Name, err)
		}
		dispatch.SavedPaths = append(dispatch.SavedPaths, key)
	}

	for _, key := range dispatch.SavedPaths {
		payload := ParsePayload{
			CaseID:     caseID,
			FilePath:   key,
			DispatchID: dispatch.DispatchID,
		}
		if err := r.dispatcher.Enqueue(ctx, JobParse, payload); err != nil {
			r.discard(ctx, dispatch.SavedPaths)
			return nil, fmt.Errorf("enqueue parse job: %w", err)
		}
	}

	r.logger.Info("evidence dispatched",
		"case_id", caseID,
		"dispatch_id", dispatch.DispatchID,
		"files", len(dispatch.SavedPaths),
	)
	return dispatch, nil
}

// discard removes stored blobs after a failed dispatch. It runs detached
// from ctx so a cancelled request still cleans up.
func (r *repo) discard(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Error("failed to remove stored evidence", "key", key, "error", err)
		}
	}
}

func (r *repo) Reconcile(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE evidences SET status = $1, updated_at = now()
		WHERE status IN ('pending', 'processing')
		AND created_at < now() - make_interval(secs => $2)`,
		StatusFailed, olderThan.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("reconcile evidence: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if n > 0 {
		r.logger.Warn("stale evidence marked failed", "count", n, "older_than", olderThan)
	}
	return n, nil
}

func (r *repo) Find(ctx context.Context, id, requester uuid.UUID) (*Evidence, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	e, err := repository.QueryOne(ctx, r.db, q, args, scanEvidence)
	if err != nil {
		return nil, repository.MapError(err, ErrAccessDenied, ErrAccessDenied)
	}

	ok, err := cases.CanRead(ctx, r.db, e.CaseID, requester)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessDenied
	}
	return &e, nil
}

func (r *repo) ListByCase(ctx context.Context, caseID, requester uuid.UUID) ([]Evidence, error) {
	if err := cases.RequireRead(ctx, r.db, caseID, requester); err != nil {
		return nil, err
	}

	q, args := query.NewBuilder(projection, defaultSort...).
		WhereEquals("CaseID", caseID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanEvidence)
}

func (r *repo) ListMessages(
	ctx context.Context,
	evidenceID, requester uuid.UUID,
	page pagination.PageRequest,
) (*pagination.PageResult[Message], error) {
	if _, err := r.Find(ctx, evidenceID, requester); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(messageProjection, defaultSort...).
		WhereEquals("EvidenceID", evidenceID).
		WhereSearch(page.Search, "Sender", "Receiver", "Payload")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	msgs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	result := pagination.NewPageResult(msgs, total, page)
	return &result, nil
}

func (r *repo) OpenSource(ctx context.Context, id, requester uuid.UUID) (*Evidence, io.ReadCloser, error) {
	e, err := r.Find(ctx, id, requester)
	if err != nil {
		return nil, nil, err
	}

	rc, err := r.storage.Download(ctx, e.Source)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrSourceMissing
		}
		return nil, nil, err
	}
	return e, rc, nil
}
