package concurrency

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// defaultWorkerPool implements WorkerPool
type defaultWorkerPool struct {
	ctx     context.Context
	queue   Queue
	workers []*worker
	logger  Logger
	metrics MetricsPolicy

	running   atomic.Bool
	closeOnce sync.Once
	joinMu    sync.Mutex

	live atomic.Int32
	busy atomic.Int64

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
	rejected  atomic.Int64
}

// WorkerPoolConfig configures a WorkerPool
type WorkerPoolConfig struct {
	Workers int           // Number of worker goroutines, must be >= 1
	Logger  Logger        // Defaults to the global zap logger
	Metrics MetricsPolicy // Defaults to NoopMetrics
}

// NewWorkerPool creates a WorkerPool and starts config.Workers workers.
//
// ctx is handed to every task and is not cancelled by the pool. A size
// below one returns ErrInvalidPoolSize and starts nothing.
func NewWorkerPool(ctx context.Context, config WorkerPoolConfig) (WorkerPool, error) {
	if config.Workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPoolSize, config.Workers)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if config.Logger == nil {
		config.Logger = newDefaultLogger()
	}
	if config.Metrics == nil {
		config.Metrics = NoopMetrics{}
	}

	wp := &defaultWorkerPool{
		ctx:     ctx,
		queue:   NewQueue(),
		workers: make([]*worker, 0, config.Workers),
		logger:  config.Logger,
		metrics: config.Metrics,
	}
	wp.running.Store(true)

	for i := 0; i < config.Workers; i++ {
		wp.workers = append(wp.workers, startWorker(i, wp))
	}
	wp.logger.Debugf("worker pool started with %d workers", config.Workers)

	return wp, nil
}

// Submit implements WorkerPool interface
func (wp *defaultWorkerPool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	if !wp.running.Load() {
		wp.reject()
		return ErrPoolClosed
	}

	// The queue is the authority: a task it accepted is always delivered,
	// even if shutdown began between the check above and this call.
	if err := wp.queue.Send(task); err != nil {
		wp.reject()
		return fmt.Errorf("%w: %w", ErrPoolClosed, err)
	}

	wp.submitted.Add(1)
	wp.metrics.IncSubmitted()
	wp.metrics.SetQueued(int64(wp.queue.Size()))
	return nil
}

func (wp *defaultWorkerPool) reject() {
	wp.rejected.Add(1)
	wp.metrics.IncRejected()
}

// execute runs one task on behalf of worker id. A failing or panicking task
// is logged and counted; it never takes the worker down.
func (wp *defaultWorkerPool) execute(id int, task Task) {
	wp.metrics.SetQueued(int64(wp.queue.Size()))
	wp.metrics.SetBusy(wp.busy.Add(1))

	defer func() {
		if r := recover(); r != nil {
			wp.panicked.Add(1)
			wp.metrics.IncPanicked()
			wp.logger.Errorf("worker %d: task %s panicked: %v\n%s", id, task.Name(), r, debug.Stack())
		}
		wp.metrics.SetBusy(wp.busy.Add(-1))
		wp.completed.Add(1)
		wp.metrics.IncCompleted()
	}()

	if err := task.Execute(wp.ctx); err != nil {
		wp.failed.Add(1)
		wp.metrics.IncFailed()
		wp.logger.Errorf("worker %d: task %s failed: %v", id, task.Name(), err)
	}
}

// beginShutdown flips the running flag and closes the queue, once.
func (wp *defaultWorkerPool) beginShutdown() {
	wp.closeOnce.Do(func() {
		wp.running.Store(false)
		wp.queue.Close()
		wp.logger.Debugf("worker pool shutting down, %d tasks left in queue", wp.queue.Size())
	})
}

// joinAll joins the workers in index order.
func (wp *defaultWorkerPool) joinAll() {
	wp.joinMu.Lock()
	defer wp.joinMu.Unlock()

	for _, w := range wp.workers {
		w.join()
	}
}

// Close implements WorkerPool interface
func (wp *defaultWorkerPool) Close() error {
	wp.beginShutdown()
	wp.joinAll()
	return nil
}

// Shutdown implements WorkerPool interface
func (wp *defaultWorkerPool) Shutdown(ctx context.Context) error {
	wp.beginShutdown()

	done := make(chan struct{})
	go func() {
		wp.joinAll()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// IsRunning implements WorkerPool interface
func (wp *defaultWorkerPool) IsRunning() bool {
	return wp.running.Load()
}

// Workers implements WorkerPool interface
func (wp *defaultWorkerPool) Workers() int {
	return len(wp.workers)
}

// LiveWorkers implements WorkerPool interface
func (wp *defaultWorkerPool) LiveWorkers() int {
	return int(wp.live.Load())
}

// Stats implements WorkerPool interface
func (wp *defaultWorkerPool) Stats() PoolStats {
	return PoolStats{
		Workers:     len(wp.workers),
		LiveWorkers: int(wp.live.Load()),
		BusyWorkers: wp.busy.Load(),
		Queued:      int64(wp.queue.Size()),
		Submitted:   wp.submitted.Load(),
		Completed:   wp.completed.Load(),
		Failed:      wp.failed.Load(),
		Panicked:    wp.panicked.Load(),
		Rejected:    wp.rejected.Load(),
	}
}
