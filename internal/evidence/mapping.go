package evidence

import (
	"encoding/json"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "evidences", "e").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("source", "Source").
	Project("format", "Format").
	Project("status", "Status").
	Project("metadata", "Metadata").
	Project("attributes", "Attributes").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var messageProjection = query.
	NewProjectionMap("public", "messages", "m").
	Project("id", "ID").
	Project("evidence_id", "EvidenceID").
	Project("sender", "Sender").
	Project("receiver", "Receiver").
	Project("payload", "Payload").
	Project("status", "Status").
	Project("embeddings", "Embeddings").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "CreatedAt"},
	{Field: "ID"},
}

var messageColumns = []string{"id", "evidence_id", "sender", "receiver", "payload", "status"}

// textArray scans a PostgreSQL text[] through pgtype since database/sql
// has no native array support.
type textArray []string

func (a *textArray) Scan(src any) error {
	return pgtype.NewMap().SQLScanner((*[]string)(a)).Scan(src)
}

func scanEvidence(s repository.Scanner) (Evidence, error) {
	var (
		e        Evidence
		metadata []byte
		attrs    textArray
	)

	err := s.Scan(
		&e.ID,
		&e.CaseID,
		&e.Source,
		&e.Format,
		&e.Status,
		&metadata,
		&attrs,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return e, err
	}

	e.Attributes = []string(attrs)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return e, err
		}
	}
	return e, nil
}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(
		&m.ID,
		&m.EvidenceID,
		&m.Sender,
		&m.Receiver,
		&m.Payload,
		&m.Status,
		&m.Embeddings,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// buildStorageKey joins with "/" regardless of host OS so keys are portable
// across storage backends.
func buildStorageKey(caseID, fileID uuid.UUID, filename string) string {
	return path.Join("evidence", caseID.String(), fileID.String(), filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		name = "evidence.csv"
	}
	return url.PathEscape(name)
}

// originalFilename recovers the uploaded filename from a storage key.
func originalFilename(key string) string {
	base := path.Base(key)
	if name, err := url.PathUnescape(base); err == nil {
		return name
	}
	return base
}
