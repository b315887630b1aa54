package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/dossier/pkg/lifecycle"
)

// HandlerFunc processes one job. Returning an error leaves the job
// unacknowledged so Recover redelivers it, unless the error is Permanent.
type HandlerFunc func(ctx context.Context, job *Job) error

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. The pool logs and acks the job.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Registry maps job names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

// Register binds name to h. Registering the same name twice panics.
func (r *Registry) Register(name string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[name]; ok {
		panic(fmt.Sprintf("queue: handler %q already registered", name))
	}
	r.handlers[name] = h
}

func (r *Registry) lookup(name string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Pool runs a fixed number of consumers that dispatch jobs through a Registry.
type Pool struct {
	consumer    Consumer
	registry    *Registry
	workers     int
	pollTimeout time.Duration
	logger      *slog.Logger
}

func NewPool(consumer Consumer, registry *Registry, cfg *Config, logger *slog.Logger) *Pool {
	return &Pool{
		consumer:    consumer,
		registry:    registry,
		workers:     max(cfg.Workers, 1),
		pollTimeout: cfg.PollTimeoutDuration(),
		logger:      logger.With("system", "worker"),
	}
}

// Start runs the pool on the coordinator until shutdown.
func (p *Pool) Start(lc *lifecycle.Coordinator) {
	lc.Go(func(ctx context.Context) {
		if err := p.Run(ctx); err != nil {
			p.logger.Error("worker pool stopped", "error", err)
		}
	})
}

// Run blocks until ctx is cancelled or the queue is closed.
func (p *Pool) Run(ctx context.Context) error {
	p.logger.Info("worker pool started", "workers", p.workers)

	g, gctx := errgroup.WithContext(ctx)
	for id := range p.workers {
		g.Go(func() error {
			return p.loop(gctx, id)
		})
	}

	err := g.Wait()
	p.logger.Info("worker pool stopped")
	return err
}

func (p *Pool) loop(ctx context.Context, id int) error {
	logger := p.logger.With("worker_id", id)
	backoff := 100 * time.Millisecond

	for {
		if ctx.Err() != nil {
			return nil
		}

		job, err := p.consumer.Dequeue(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrClosed) {
				return nil
			}
			logger.Error("dequeue failed", "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, 5*time.Second)
			continue
		}
		backoff = 100 * time.Millisecond

		if job == nil {
			continue
		}
		p.Process(ctx, job)
	}
}

// Process runs the handler for one job and acks it unless the failure is retryable.
func (p *Pool) Process(ctx context.Context, job *Job) {
	logger := p.logger.With("job_id", job.ID, "job", job.Name)

	h, ok := p.registry.lookup(job.Name)
	if !ok {
		logger.Error("no handler registered for job")
		p.ack(ctx, logger, job)
		return
	}

	start := time.Now()
	err := invoke(ctx, h, job)

	switch {
	case err == nil:
		logger.Info("job completed", "duration", time.Since(start))
		p.ack(ctx, logger, job)
	case IsPermanent(err):
		logger.Error("job failed permanently", "error", err)
		p.ack(ctx, logger, job)
	default:
		logger.Error("job failed, left for recovery", "error", err)
	}
}

func (p *Pool) ack(ctx context.Context, logger *slog.Logger, job *Job) {
	// ack even when ctx is done so finished work is not redelivered
	if err := p.consumer.Ack(context.WithoutCancel(ctx), job); err != nil {
		logger.Error("ack failed", "error", err)
	}
}

func invoke(ctx context.Context, h HandlerFunc, job *Job) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = Permanent(fmt.Errorf("handler panic: %v", v))
		}
	}()
	return h(ctx, job)
}
