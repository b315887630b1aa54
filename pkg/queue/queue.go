// Package queue provides a named-job queue with Redis and in-memory backends
// and a bounded worker pool that dispatches jobs to registered handlers.
//
// Delivery is at least once. A job is held in a processing set between
// Dequeue and Ack; jobs whose consumer died before Ack are returned to the
// pending list by Recover.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/lifecycle"
)

// ErrClosed is returned by operations on a queue that has been closed.
var ErrClosed = errors.New("queue closed")

// Job is one unit of work addressed to a handler by Name.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`

	// raw is the exact encoded form, needed to remove the job from the
	// processing list on Ack.
	raw string
}

// Decode unmarshals the job payload into v.
func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", j.Name, err)
	}
	return nil
}

func newJob(name string, payload any) (*Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", name, err)
	}

	job := &Job{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    data,
		EnqueuedAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}
	job.raw = string(raw)
	return job, nil
}

func parseJob(raw string) (*Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	job.raw = raw
	return &job, nil
}

// Dispatcher enqueues jobs. Request handlers depend on this side only.
type Dispatcher interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

// Consumer is the worker side of a queue.
type Consumer interface {
	// Dequeue blocks up to timeout for the next job. It returns (nil, nil)
	// when the timeout elapses with nothing pending.
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)
	// Ack removes a dequeued job from the processing set.
	Ack(ctx context.Context, job *Job) error
	// Recover moves every unacknowledged job back to pending and reports how many moved.
	Recover(ctx context.Context) (int, error)
}

// Queue combines both sides with resource cleanup.
type Queue interface {
	Dispatcher
	Consumer
	Start(lc *lifecycle.Coordinator) error
	Close() error
}

// New creates the queue selected by cfg.Provider.
func New(cfg *Config, logger *slog.Logger) (Queue, error) {
	logger = logger.With("system", "queue", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderRedis:
		return NewRedis(cfg, logger), nil
	case ProviderMemory:
		return NewMemory(cfg.Capacity), nil
	default:
		return nil, fmt.Errorf("unknown queue provider %q", cfg.Provider)
	}
}
