package concurrency

import (
	"context"
	"errors"
)

var (
	// ErrInvalidPoolSize is returned by NewWorkerPool for a pool size below one.
	ErrInvalidPoolSize = errors.New("invalid pool size")

	// ErrPoolClosed is returned by Submit once shutdown has begun.
	// The task was not enqueued and will not run.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrNilTask is returned by Submit for a nil task.
	ErrNilTask = errors.New("task cannot be nil")
)

// WorkerPool owns a fixed set of workers consuming one shared Queue.
//
// Workers are started by NewWorkerPool. Shutdown is close-then-join: the
// running flag drops, the queue is closed to new tasks, and every worker is
// joined in index order after it has drained the queue. In-flight tasks are
// never interrupted.
type WorkerPool interface {
	// Submit enqueues a task. It never waits for a free worker.
	// Returns ErrPoolClosed once shutdown has begun, ErrNilTask for nil.
	Submit(task Task) error

	// Close shuts the pool down and blocks until every worker has exited.
	// Safe to call more than once and from several goroutines.
	Close() error

	// Shutdown is Close with a bound on how long the caller waits.
	// When ctx ends first the workers keep draining in the background and
	// the context error is returned; a later Close still joins them.
	Shutdown(ctx context.Context) error

	// IsRunning reports whether the pool still accepts tasks.
	// It is advisory: the pool may close right after it returns true.
	IsRunning() bool

	// Workers returns the configured number of workers.
	Workers() int

	// LiveWorkers returns the number of worker goroutines that have not exited.
	LiveWorkers() int

	// Stats returns current pool statistics.
	Stats() PoolStats
}
