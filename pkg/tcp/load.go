package tcp

import "sync/atomic"

// LoadTracker counts in-flight connections (accepted and not yet finished)
// against a normal capacity, the worker count. It never rejects: the pool
// queue is unbounded, so load above capacity means work is queueing.
type LoadTracker struct {
	normalCapacity int64
	current        atomic.Int64
	peak           atomic.Int64
	saturations    atomic.Int64
}

// NewLoadTracker creates a tracker for the given normal capacity.
func NewLoadTracker(normalCapacity int) *LoadTracker {
	if normalCapacity < 1 {
		normalCapacity = 1
	}
	return &LoadTracker{normalCapacity: int64(normalCapacity)}
}

// Acquire records a new in-flight connection and returns the new count.
func (lt *LoadTracker) Acquire() int64 {
	n := lt.current.Add(1)
	if n > lt.normalCapacity {
		lt.saturations.Add(1)
	}
	for {
		p := lt.peak.Load()
		if n <= p || lt.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return n
}

// Release records a finished connection and returns the new count.
func (lt *LoadTracker) Release() int64 {
	return lt.current.Add(-1)
}

// InFlight returns the current in-flight count.
func (lt *LoadTracker) InFlight() int64 {
	return lt.current.Load()
}

// Saturated reports whether every worker is spoken for.
func (lt *LoadTracker) Saturated() bool {
	return lt.current.Load() > lt.normalCapacity
}

// Metrics returns a snapshot.
func (lt *LoadTracker) Metrics() LoadMetrics {
	cur := lt.current.Load()
	queued := cur - lt.normalCapacity
	if queued < 0 {
		queued = 0
	}
	return LoadMetrics{
		NormalCapacity: lt.normalCapacity,
		InFlight:       cur,
		Queued:         queued,
		Peak:           lt.peak.Load(),
		Saturations:    lt.saturations.Load(),
		Utilization:    float64(cur) / float64(lt.normalCapacity) * 100,
	}
}

// LoadMetrics provides load statistics.
type LoadMetrics struct {
	NormalCapacity int64   // Worker count
	InFlight       int64   // Accepted, not yet finished
	Queued         int64   // InFlight beyond NormalCapacity
	Peak           int64   // Highest InFlight seen
	Saturations    int64   // Acquisitions that found every worker busy
	Utilization    float64 // InFlight relative to NormalCapacity, percent
}
