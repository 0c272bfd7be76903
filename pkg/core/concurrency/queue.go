package concurrency

import (
	"errors"
)

var (
	// ErrQueueClosed is returned by Send once the queue is closed, and by
	// Receive once the queue is closed and drained.
	ErrQueueClosed = errors.New("queue is closed")
)

// Queue is the job queue shared between a WorkerPool and its workers.
//
// It is unbounded and FIFO, safe for any number of producers and consumers.
// Closing it is a one-way transition: Send is rejected from then on, while
// every task enqueued before Close is still delivered to exactly one receiver.
type Queue interface {
	// Send appends a task to the tail of the queue.
	// Never blocks. Returns ErrQueueClosed after Close.
	Send(task Task) error

	// Receive removes the task at the head of the queue,
	// blocking while the queue is empty and open.
	// Returns ErrQueueClosed only when the queue is closed and empty.
	Receive() (Task, error)

	// TryReceive is Receive without blocking.
	// Returns (nil, false, nil) when the queue is open and empty.
	TryReceive() (Task, bool, error)

	// Close closes the queue and wakes every blocked receiver.
	// Calling Close more than once is a no-op.
	Close()

	// Size returns the number of queued tasks.
	Size() int

	// IsClosed returns true once Close has been called.
	IsClosed() bool
}
