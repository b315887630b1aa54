package evidence

import (
	"context"

	"github.com/JaimeStill/dossier/pkg/queue"
)

func (r *repo) RegisterJobs(registry *queue.Registry) {
	registry.Register(JobParse, r.handleParse)
}

// handleParse runs ParseFile for one job. A failed parse is terminal and
// already recorded on the Evidence row, so it is acknowledged rather than
// retried. Payloads that cannot be decoded are dropped.
func (r *repo) handleParse(ctx context.Context, job *queue.Job) error {
	var p ParsePayload
	if err := job.Decode(&p); err != nil {
		return queue.Permanent(err)
	}

	res := r.ParseFile(ctx, p)
	if res.Failed() {
		r.logger.Warn("parse job finished with error",
			"job_id", job.ID,
			"evidence_id", res.EvidenceID,
			"error", res.Error,
		)
		return nil
	}

	r.logger.Info("parse job completed",
		"job_id", job.ID,
		"evidence_id", res.EvidenceID,
		"total_rows", res.TotalRows,
	)
	return nil
}
