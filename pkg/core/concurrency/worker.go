package concurrency

// worker is a single goroutine consuming the pool queue.
type worker struct {
	id   int
	pool *defaultWorkerPool

	// done is closed when the goroutine exits. join sets it to nil, so the
	// handle is taken exactly once.
	done chan struct{}
}

// startWorker spawns the worker goroutine; it is consuming when this returns.
func startWorker(id int, pool *defaultWorkerPool) *worker {
	w := &worker{
		id:   id,
		pool: pool,
		done: make(chan struct{}),
	}
	pool.live.Add(1)
	go w.run()
	return w
}

// ID is the worker's index in the pool, also its join order.
func (w *worker) ID() int { return w.id }

// run receives tasks until the queue is closed and drained.
func (w *worker) run() {
	defer close(w.done)
	defer w.pool.live.Add(-1)

	for {
		task, err := w.pool.queue.Receive()
		if err != nil {
			w.pool.logger.Debugf("worker %d: queue drained, exiting", w.ID())
			return
		}
		w.pool.execute(w.ID(), task)
	}
}

// join blocks until the goroutine has exited. Callers serialize on the
// pool's join mutex.
func (w *worker) join() {
	if w.done == nil {
		return
	}
	<-w.done
	w.done = nil
}
