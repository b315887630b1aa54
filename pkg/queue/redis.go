package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/dossier/pkg/lifecycle"
)

// Redis is a list-backed queue. Producers LPUSH onto the pending list;
// consumers BLMOVE from its tail into a processing list and LREM on Ack.
type Redis struct {
	client     *redis.Client
	pending    string
	processing string
	logger     *slog.Logger
	ready      atomic.Bool
}

// NewRedis creates a Redis queue. No connection is made until first use or Start.
func NewRedis(cfg *Config, logger *slog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		client:     client,
		pending:    cfg.Name,
		processing: cfg.Name + ":processing",
		logger:     logger,
	}
}

func (r *Redis) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting queue connection", "queue", r.pending)

	lc.OnStartup(func() {
		if err := r.client.Ping(lc.Context()).Err(); err != nil {
			r.logger.Error("queue ping failed", "error", err)
			return
		}
		r.ready.Store(true)
		r.logger.Info("queue connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		r.ready.Store(false)
		if err := r.Close(); err != nil {
			r.logger.Error("queue close failed", "error", err)
			return
		}
		r.logger.Info("queue connection closed")
	})

	lc.Require(r)
	return nil
}

// Ready reports whether the startup ping succeeded.
func (r *Redis) Ready() bool {
	return r.ready.Load()
}

func (r *Redis) Enqueue(ctx context.Context, name string, payload any) error {
	job, err := newJob(name, payload)
	if err != nil {
		return err
	}
	if err := r.client.LPush(ctx, r.pending, job.raw).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", name, err)
	}
	return nil
}

func (r *Redis) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	raw, err := r.client.BLMove(ctx, r.pending, r.processing, "RIGHT", "LEFT", timeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if errors.Is(err, redis.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("dequeue: %w", err)
	}

	job, err := parseJob(raw)
	if err != nil {
		// unparseable entries would be recovered forever
		r.client.LRem(ctx, r.processing, 1, raw)
		return nil, err
	}
	return job, nil
}

func (r *Redis) Ack(ctx context.Context, job *Job) error {
	if err := r.client.LRem(ctx, r.processing, 1, job.raw).Err(); err != nil {
		return fmt.Errorf("ack %s: %w", job.ID, err)
	}
	return nil
}

// Recover moves the processing list back onto the consuming end of the
// pending list, keeping the original order. Call it only while no other
// consumer is active on the same queue.
func (r *Redis) Recover(ctx context.Context) (int, error) {
	n := 0
	for {
		err := r.client.LMove(ctx, r.processing, r.pending, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("recover: %w", err)
		}
		n++
	}
}

// Len reports the number of pending jobs.
func (r *Redis) Len(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, r.pending).Result()
}

func (r *Redis) Close() error {
	err := r.client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
