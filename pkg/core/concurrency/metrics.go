package concurrency

// MetricsPolicy receives pool activity as it happens.
//
// Implementations must be safe for concurrent use and must not block:
// they are called on the submission path and from every worker.
type MetricsPolicy interface {
	// IncSubmitted counts a task accepted into the queue.
	IncSubmitted()

	// IncRejected counts a task refused because the pool was shutting down.
	IncRejected()

	// IncCompleted counts a task that finished executing, successfully or not.
	IncCompleted()

	// IncFailed counts a task that returned an error.
	IncFailed()

	// IncPanicked counts a task that panicked.
	IncPanicked()

	// SetBusy reports the number of workers currently executing a task.
	SetBusy(n int64)

	// SetQueued reports the number of tasks waiting in the queue.
	SetQueued(n int64)
}

// PoolStats is a point-in-time snapshot of a WorkerPool.
type PoolStats struct {
	Workers     int   // Configured pool size
	LiveWorkers int   // Worker goroutines that have not exited yet
	BusyWorkers int64 // Workers currently executing a task
	Queued      int64 // Tasks waiting in the queue
	Submitted   int64 // Total tasks accepted by Submit
	Completed   int64 // Total tasks that finished executing
	Failed      int64 // Total tasks that returned an error
	Panicked    int64 // Total tasks that panicked
	Rejected    int64 // Total submissions refused after shutdown began
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics discards all metric updates.
type NoopMetrics struct{}

func (NoopMetrics) IncSubmitted()   {}
func (NoopMetrics) IncRejected()    {}
func (NoopMetrics) IncCompleted()   {}
func (NoopMetrics) IncFailed()      {}
func (NoopMetrics) IncPanicked()    {}
func (NoopMetrics) SetBusy(int64)   {}
func (NoopMetrics) SetQueued(int64) {}
