package evidence

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/repository"
)

// statusTimeout bounds the final status write, which runs detached from the
// job context.
const statusTimeout = 10 * time.Second

func (r *repo) ParseFile(ctx context.Context, p ParsePayload) ParseResult {
	logger := r.logger.With("case_id", p.CaseID, "file_path", p.FilePath)

	exists, err := r.storage.Exists(ctx, p.FilePath)
	if err != nil {
		logger.Error("failed to check evidence file", "error", err)
		return ParseResult{Error: fmt.Sprintf("check file %s: %v", p.FilePath, err)}
	}
	if !exists {
		logger.Error("evidence file not found")
		return ParseResult{Error: "file not found: " + p.FilePath}
	}

	e, err := r.createEvidence(ctx, p)
	if err != nil {
		logger.Error("failed to create evidence", "error", err)
		return ParseResult{Error: fmt.Sprintf("create evidence: %v", err)}
	}
	logger = logger.With("evidence_id", e.ID)
	logger.Info("evidence parsing started")

	total, err := r.parseMessages(ctx, e.ID, p.FilePath)
	if err != nil {
		r.setStatus(context.WithoutCancel(ctx), logger, e.ID, StatusFailed)
		logger.Error("evidence parsing failed", "rows", total, "error", err)
		return ParseResult{EvidenceID: e.ID, TotalRows: total, Error: err.Error()}
	}

	if err := r.setStatus(ctx, logger, e.ID, StatusParsed); err != nil {
		r.setStatus(context.WithoutCancel(ctx), logger, e.ID, StatusFailed)
		return ParseResult{EvidenceID: e.ID, TotalRows: total, Error: err.Error()}
	}

	logger.Info("evidence parsed", "rows", total)
	return ParseResult{EvidenceID: e.ID, TotalRows: total}
}

func (r *repo) createEvidence(ctx context.Context, p ParsePayload) (Evidence, error) {
	metadata, err := json.Marshal(map[string]any{
		"original_filename": originalFilename(p.FilePath),
		"dispatch_id":       p.DispatchID,
	})
	if err != nil {
		return Evidence{}, err
	}

	return repository.QueryOne(ctx, r.db, `
		INSERT INTO evidences (id, case_id, source, format, status, metadata, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, case_id, source, format, status, metadata, attributes, created_at, updated_at`,
		[]any{uuid.New(), p.CaseID, p.FilePath, FormatCSV, StatusProcessing, metadata, requiredColumns},
		scanEvidence,
	)
}

// parseMessages streams the stored file and writes its rows in batches of
// BatchSize. Each batch commits in its own transaction before the next row
// is read, so a failure leaves every earlier batch in place.
func (r *repo) parseMessages(ctx context.Context, evidenceID uuid.UUID, key string) (int, error) {
	rc, err := r.storage.Download(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", key, err)
	}
	defer rc.Close()

	// Field counts may vary and stray quotes are kept as text. A row fails
	// only when it stops short of a required column.
	reader := csv.NewReader(rc)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errors.New("evidence file is empty")
		}
		return 0, fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return 0, err
	}
	width := 0
	for _, col := range requiredColumns {
		width = max(width, index[col]+1)
	}

	total := 0
	batch := make([][]any, 0, BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
			return repository.InsertMany(ctx, tx, "messages", messageColumns, batch)
		})
		if err != nil {
			return fmt.Errorf("insert batch at row %d: %w", total+1, err)
		}
		total += len(batch)
		r.logger.Debug("message batch inserted", "evidence_id", evidenceID, "rows", len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read row: %w", err)
		}
		if len(record) < width {
			line, _ := reader.FieldPos(0)
			return total, fmt.Errorf("record on line %d: has %d fields, required columns need %d", line, len(record), width)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return total, err
		}

		batch = append(batch, []any{
			id,
			evidenceID,
			record[index["sender"]],
			record[index["receiver"]],
			record[index["payload"]],
			MessageProcessing,
		})

		if len(batch) == BatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// columnIndex locates the required columns in header. Names match exactly;
// extra columns are ignored and order is free.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	return index, nil
}

// setStatus moves evidence out of pending or processing. Rows already in a
// terminal status are left untouched.
func (r *repo) setStatus(ctx context.Context, logger *slog.Logger, id uuid.UUID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE evidences SET status = $2, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')`,
		id, status,
	)
	if err != nil {
		logger.Error("failed to update evidence status", "status", status, "error", err)
		return fmt.Errorf("set evidence status %s: %w", status, err)
	}
	return nil
}
