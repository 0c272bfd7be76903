package concurrency

import (
	"sync"
)

// compactThreshold is the number of consumed slots after which the backing
// slice is compacted, so a long-lived queue does not grow without bound.
const compactThreshold = 64

// unboundedQueue implements Queue with a slice guarded by a mutex and a
// condition variable. Receivers park on the condition instead of polling.
type unboundedQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Task
	head   int
	closed bool
}

// NewQueue creates an empty, open Queue.
func NewQueue() Queue {
	q := &unboundedQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Send implements Queue interface
func (q *unboundedQueue) Send(task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, task)
	q.cond.Signal()
	return nil
}

// Receive implements Queue interface
func (q *unboundedQueue) Receive() (Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.sizeLocked() == 0 {
		if q.closed {
			return nil, ErrQueueClosed
		}
		q.cond.Wait()
	}
	return q.popLocked(), nil
}

// TryReceive implements Queue interface
func (q *unboundedQueue) TryReceive() (Task, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sizeLocked() == 0 {
		if q.closed {
			return nil, false, ErrQueueClosed
		}
		return nil, false, nil
	}
	return q.popLocked(), true, nil
}

// Close implements Queue interface
func (q *unboundedQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Size implements Queue interface
func (q *unboundedQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sizeLocked()
}

// IsClosed implements Queue interface
func (q *unboundedQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *unboundedQueue) sizeLocked() int {
	return len(q.items) - q.head
}

func (q *unboundedQueue) popLocked() Task {
	task := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return task
}
