package tcp

import (
	"context"
	"net"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/core/concurrency"
)

// ConnectionHandler handles a single TCP connection.
// Implementations must not block forever.
// The server closes the connection after handler returns.
type ConnectionHandler func(ctx *ConnContext) error

// Middleware wraps a ConnectionHandler.
type Middleware func(next ConnectionHandler) ConnectionHandler

// ConnContext is what a handler gets for one accepted connection.
// It is owned by the job that serves the connection and is not shared.
type ConnContext struct {
	Context context.Context
	Conn    net.Conn

	// ConnID identifies the connection in logs and in the job name.
	ConnID string
	Logger core.Logger

	LocalAddr  net.Addr
	RemoteAddr net.Addr
}

// ConnMetrics receives acceptor activity. Implementations must be safe for
// concurrent use.
type ConnMetrics interface {
	IncAccepted()
	IncHandled()
	IncErrors()
	IncSubmitFailures()
	SetInFlight(n int64)
}

type noopConnMetrics struct{}

func (noopConnMetrics) IncAccepted()       {}
func (noopConnMetrics) IncHandled()        {}
func (noopConnMetrics) IncErrors()         {}
func (noopConnMetrics) IncSubmitFailures() {}
func (noopConnMetrics) SetInFlight(int64)  {}

// ServerMetrics provides TCP server performance metrics.
type ServerMetrics struct {
	TotalAccepted  int64 // Total connections accepted
	Handled        int64 // Connections whose job finished
	Errors         int64 // Connections whose handler returned an error
	SubmitFailures int64 // Connections closed because the pool refused the job
	InFlight       int64 // Accepted connections not yet finished (queued + serving)
	Saturated      bool  // InFlight exceeds the worker count, new work queues

	Pool concurrency.PoolStats
}
