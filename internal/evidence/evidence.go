// Package evidence ingests uploaded message exports. Uploads are stored as
// blobs and parsed asynchronously into Message rows by queue workers.
package evidence

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Evidence statuses. Status only moves forward: pending or processing may
// become parsed or failed, and nothing leaves parsed or failed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusParsed     = "parsed"
	StatusFailed     = "failed"
)

// Message statuses.
const (
	MessageProcessing = "processing"
	MessageEmbedded   = "embedded"
)

const (
	// JobParse is the queue job name for parsing one stored file.
	JobParse = "evidence.parse"

	// BatchSize is the number of messages written per insert transaction.
	BatchSize = 500

	// FormatCSV is the only supported evidence format.
	FormatCSV = "csv"
)

// Columns every evidence file must provide.
var requiredColumns = []string{"sender", "receiver", "payload"}

// Evidence is one ingested file belonging to a case.
type Evidence struct {
	ID         uuid.UUID      `json:"id"`
	CaseID     uuid.UUID      `json:"case_id"`
	Source     string         `json:"source"`
	Format     string         `json:"format"`
	Status     string         `json:"status"`
	Metadata   map[string]any `json:"metadata"`
	Attributes []string       `json:"attributes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  *time.Time     `json:"updated_at"`
}

// Message is a single parsed row of an evidence file.
type Message struct {
	ID         uuid.UUID        `json:"id"`
	EvidenceID uuid.UUID        `json:"evidence_id"`
	Sender     string           `json:"sender"`
	Receiver   string           `json:"receiver"`
	Payload    string           `json:"payload"`
	Status     string           `json:"status"`
	Embeddings *pgvector.Vector `json:"embeddings,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  *time.Time       `json:"updated_at"`
}

// File is one upload in a dispatch request.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Dispatch reports the storage keys saved and queued by one upload request.
type Dispatch struct {
	DispatchID uuid.UUID `json:"dispatch_id"`
	SavedPaths []string  `json:"saved_paths"`
}

// ParsePayload is the body of a JobParse job.
type ParsePayload struct {
	CaseID     uuid.UUID `json:"case_id"`
	FilePath   string    `json:"file_path"`
	DispatchID uuid.UUID `json:"dispatch_id"`
}

// ParseResult is the outcome of parsing one file. Error is set when the
// file could not be parsed. EvidenceID is uuid.Nil when no row was created.
type ParseResult struct {
	EvidenceID uuid.UUID `json:"evidence_id"`
	TotalRows  int       `json:"total_rows"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether parsing ended in an error.
func (r ParseResult) Failed() bool {
	return r.Error != ""
}
