package core

import (
	"errors"
	"sync"

	"github.com/fluxorio/webpool/pkg/core/failfast"
)

// ErrAlreadyStarted is returned by Start on a server that is running.
var ErrAlreadyStarted = errors.New("server already started")

// Server is the lifecycle shared by long-running listeners.
type Server interface {
	Start() error
	Stop() error
}

// BaseServer carries the Start/Stop bookkeeping for concrete servers.
// Concrete servers embed it and install their own behavior with SetHooks.
type BaseServer struct {
	name string

	mu      sync.RWMutex
	started bool
	stopped bool

	logger Logger

	// Embedded-method "overrides" are not dispatched dynamically when the
	// embedded type calls its own methods, so explicit hooks are stored.
	startHook func() error
	stopHook  func() error
}

// NewBaseServer creates a new BaseServer
func NewBaseServer(name string, logger Logger) *BaseServer {
	failfast.If(name != "", "server name is empty")
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &BaseServer{
		name:   name,
		logger: logger,
	}
}

// SetHooks configures hook functions for Start/Stop.
// Call this from the concrete server after construction:
//
//	s.BaseServer.SetHooks(s.doStart, s.doStop)
func (bs *BaseServer) SetHooks(startHook func() error, stopHook func() error) {
	failfast.NotNil(startHook, "startHook")
	failfast.NotNil(stopHook, "stopHook")

	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.startHook = startHook
	bs.stopHook = stopHook
}

// Start runs the start hook. The server counts as started while the hook
// runs, since servers usually block inside it. A hook error rolls that back.
func (bs *BaseServer) Start() error {
	bs.mu.Lock()
	if bs.started {
		bs.mu.Unlock()
		return ErrAlreadyStarted
	}
	startHook := bs.startHook
	bs.started = true
	bs.mu.Unlock()

	if startHook == nil {
		return nil
	}
	if err := startHook(); err != nil {
		bs.mu.Lock()
		bs.started = false
		bs.mu.Unlock()
		return err
	}
	return nil
}

// Stop runs the stop hook once. A failed stop may be retried.
func (bs *BaseServer) Stop() error {
	bs.mu.Lock()
	if bs.stopped {
		bs.mu.Unlock()
		return nil
	}
	stopHook := bs.stopHook
	bs.mu.Unlock()

	if stopHook != nil {
		if err := stopHook(); err != nil {
			return err
		}
	}

	bs.mu.Lock()
	bs.stopped = true
	bs.mu.Unlock()
	return nil
}

// Name returns the server name
func (bs *BaseServer) Name() string {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.name
}

// Logger returns the logger instance
func (bs *BaseServer) Logger() Logger {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.logger
}

// SetLogger sets a custom logger for this server
func (bs *BaseServer) SetLogger(logger Logger) {
	failfast.NotNil(logger, "logger")
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.logger = logger
}

// IsStarted returns whether the server has been started
func (bs *BaseServer) IsStarted() bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.started
}

// IsStopped returns whether the server has been stopped
func (bs *BaseServer) IsStopped() bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.stopped
}
