package queue

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/dossier/pkg/lifecycle"
)

// ErrFull is returned by the memory queue when capacity is reached.
var ErrFull = errors.New("queue full")

// Memory is a process-local queue. It serves tests and single-process
// deployments where the worker pool runs inside the server.
type Memory struct {
	mu       sync.Mutex
	pending  []*Job
	inflight map[string]*Job
	capacity int

	notify chan struct{}
	done   chan struct{}
	closed bool
}

// NewMemory creates an in-memory queue holding at most capacity pending jobs.
// A non-positive capacity means unbounded.
func NewMemory(capacity int) *Memory {
	return &Memory{
		inflight: make(map[string]*Job),
		capacity: capacity,
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (m *Memory) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		m.Close()
	})
	return nil
}

func (m *Memory) Enqueue(_ context.Context, name string, payload any) error {
	job, err := newJob(name, payload)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.capacity > 0 && len(m.pending) >= m.capacity {
		return ErrFull
	}

	m.pending = append(m.pending, job)
	m.signal()
	return nil
}

func (m *Memory) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if job, err := m.pop(); job != nil || err != nil {
			return job, err
		}

		select {
		case <-m.notify:
		case <-m.done:
			return nil, ErrClosed
		case <-timer.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (m *Memory) pop() (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if len(m.pending) == 0 {
		return nil, nil
	}

	job := m.pending[0]
	m.pending = m.pending[1:]
	m.inflight[job.ID] = job

	if len(m.pending) > 0 {
		m.signal()
	}
	return job, nil
}

func (m *Memory) Ack(_ context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, job.ID)
	return nil
}

// Recover puts in-flight jobs back at the head of the pending list, oldest first.
func (m *Memory) Recover(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.inflight) == 0 {
		return 0, nil
	}

	jobs := make([]*Job, 0, len(m.inflight))
	for id, job := range m.inflight {
		jobs = append(jobs, job)
		delete(m.inflight, id)
	}
	slices.SortFunc(jobs, func(a, b *Job) int {
		return a.EnqueuedAt.Compare(b.EnqueuedAt)
	})

	m.pending = append(jobs, m.pending...)
	m.signal()
	return len(jobs), nil
}

// Len reports the number of pending jobs.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
