// Package async processes queued cases on a bounded pool of workers.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/logging"
)

type ProcessorQueue struct {
	proc    CaseProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch       chan Job
	wg       sync.WaitGroup
	once     sync.Once
	stopOnce sync.Once

	// done wakes enqueuers blocked on a full buffer. mu guards closed and the
	// close of ch; senders hold the read lock.
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc CaseProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go q.work(i + 1)
		}
	})
}

func (q *ProcessorQueue) work(workerID int) {
	defer q.wg.Done()
	q.logger.Debug("worker started", "worker_id", workerID)

	for job := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		if job.RequestID != "" {
			ctx = logging.WithAttrs(common.WithRequestID(ctx, job.RequestID), slog.String("request_id", job.RequestID))
		}
		_, err := q.proc.ProcessCase(ctx, job.CaseID)
		cancel()

		waited := time.Since(job.SubmittedAt)
		if err != nil {
			q.logger.Error("processing failed", "worker_id", workerID, "case_id", job.CaseID, "error", err)
		} else {
			q.logger.Info("processed case", "worker_id", workerID, "case_id", job.CaseID, "since_submit_ms", waited.Milliseconds())
		}
	}

	q.logger.Debug("worker stopped", "worker_id", workerID)
}

// Enqueue blocks while the buffer is full, until ctx is done. After Shutdown
// it returns common.ErrQueueShutdown.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "case_id", job.CaseID)
		return common.ErrQueueShutdown
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued case for processing", "case_id", job.CaseID)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "case_id", job.CaseID)
	select {
	case q.ch <- job:
		return nil
	case <-q.done:
		q.logger.Warn("cannot enqueue: queue is shutting down", "case_id", job.CaseID)
		return common.ErrQueueShutdown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain, or for ctx.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.stopOnce.Do(func() {
		close(q.done)
		q.mu.Lock()
		q.closed = true
		close(q.ch)
		q.mu.Unlock()
	})

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
