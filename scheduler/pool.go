package scheduler

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/tierdb/jitexec/errors"
)

// Task is a unit of asynchronous work.
type Task interface {
	Run(ctx context.Context)
}

// Pool executes tasks on a fixed set of worker goroutines. Submission is
// fire-and-forget: Enqueue returns once the task is queued and gives no
// completion signal, and independently submitted tasks run in no particular
// order. Submitted tasks are never cancelled; Close waits for them.
type Pool struct {
	tasks   chan Task
	logger  *zap.Logger
	wg      sync.WaitGroup
	closeMu sync.RWMutex
	closed  bool
}

// Config holds pool construction options.
type Config struct {
	// Workers is the number of worker goroutines. 0 means GOMAXPROCS.
	Workers int

	// QueueDepth bounds the submission queue. 0 means 256.
	QueueDepth int

	// Logger receives worker lifecycle and task panic logs. nil means no-op.
	Logger *zap.Logger
}

// NewPool starts a pool and its workers.
func NewPool(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = 256
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		tasks:  make(chan Task, depth),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

// Enqueue submits a task for asynchronous execution. It blocks only when the
// queue is full, never on task execution. Enqueue fails once the pool is
// closed.
func (p *Pool) Enqueue(t Task) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	if p.closed {
		return errors.Closed(errors.PhaseSchedule, "scheduler pool")
	}
	p.tasks <- t
	return nil
}

// Close stops accepting tasks and waits for queued and running tasks to
// finish.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.closeMu.Unlock()

	p.wg.Wait()
}

// worker is the processing loop for a single concurrent worker.
func (p *Pool) worker(id int) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Int("worker", id))

	// A panicking task takes the process down. Recoverable failures are
	// error values inside the task; a panic here is a violated invariant.
	for t := range p.tasks {
		t.Run(context.Background())
	}

	p.logger.Debug("worker stopped", zap.Int("worker", id))
}
