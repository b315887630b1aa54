package evidence

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/queue"
)

// System defines the public contract for evidence ingestion and reads.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// UploadAndDispatch stores every file under the case and enqueues one
	// parse job per stored file. Either every file is stored and queued or
	// every stored file is removed again.
	UploadAndDispatch(ctx context.Context, caseID uuid.UUID, files []File, requester uuid.UUID) (*Dispatch, error)

	// ParseFile creates the Evidence row for a stored file and writes its
	// messages in batches. Failures are reported in the result, never
	// returned as errors.
	ParseFile(ctx context.Context, payload ParsePayload) ParseResult

	// Reconcile fails evidence stuck in pending or processing for longer
	// than olderThan and returns the number of rows changed.
	Reconcile(ctx context.Context, olderThan time.Duration) (int64, error)

	Find(ctx context.Context, id, requester uuid.UUID) (*Evidence, error)
	ListByCase(ctx context.Context, caseID, requester uuid.UUID) ([]Evidence, error)
	ListMessages(ctx context.Context, evidenceID, requester uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Message], error)
	OpenSource(ctx context.Context, id, requester uuid.UUID) (*Evidence, io.ReadCloser, error)

	// RegisterJobs binds the parse job handler to registry.
	RegisterJobs(registry *queue.Registry)
}
