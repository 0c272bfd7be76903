// Package shutdown provides the process-wide stop signal shared by the
// acceptor and the signal handler.
package shutdown

import (
	"sync"
	"sync/atomic"
)

// Flag is a write-once boolean. It starts unset and, once set, stays set.
// All methods are safe for concurrent use.
type Flag struct {
	set      atomic.Bool
	once     sync.Once
	done     chan struct{}
	initOnce sync.Once
}

// NewFlag returns an unset Flag.
func NewFlag() *Flag {
	f := &Flag{}
	f.lazyInit()
	return f
}

func (f *Flag) lazyInit() {
	f.initOnce.Do(func() { f.done = make(chan struct{}) })
}

// Trigger sets the flag. It reports whether this call was the one that set it.
func (f *Flag) Trigger() bool {
	f.lazyInit()
	triggered := false
	f.once.Do(func() {
		f.set.Store(true)
		close(f.done)
		triggered = true
	})
	return triggered
}

// IsSet reports whether Trigger has been called.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Done returns a channel that is closed when the flag is set.
func (f *Flag) Done() <-chan struct{} {
	f.lazyInit()
	return f.done
}
