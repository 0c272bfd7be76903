package concurrency

import (
	"context"
)

// Task is a unit of work handed to a WorkerPool.
// A submitted task is executed exactly once, by exactly one worker, and its
// result is never observed by the submitter (fire-and-forget).
type Task interface {
	// Execute performs the task work.
	// ctx is the pool's base context; it is not cancelled when the pool shuts down.
	Execute(ctx context.Context) error

	// Name returns a human-readable name for the task (for logging/debugging)
	Name() string
}

// TaskFunc is a function type that implements Task
type TaskFunc func(ctx context.Context) error

// Execute implements Task interface for TaskFunc
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Name returns a default name for TaskFunc
func (f TaskFunc) Name() string {
	return "TaskFunc"
}

// NamedTask wraps a TaskFunc with a custom name
type NamedTask struct {
	name string
	task TaskFunc
}

// NewNamedTask creates a new NamedTask
func NewNamedTask(name string, task TaskFunc) *NamedTask {
	return &NamedTask{
		name: name,
		task: task,
	}
}

// Execute implements Task interface
func (nt *NamedTask) Execute(ctx context.Context) error {
	return nt.task(ctx)
}

// Name returns the task name
func (nt *NamedTask) Name() string {
	return nt.name
}

// Job adapts a no-argument closure into a named Task.
func Job(name string, fn func()) *NamedTask {
	return NewNamedTask(name, func(context.Context) error {
		fn()
		return nil
	})
}
