package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/core/concurrency"
	"github.com/fluxorio/webpool/pkg/core/failfast"
	"github.com/fluxorio/webpool/pkg/shutdown"
)

// Server accepts connections on a polled listener and hands each one to a
// fixed-size worker pool as a job.
//
// Start blocks in the accept loop until the shutdown flag is set, the pool
// stops running, or the listener fails. Stop drains the pool; callers
// usually pair them as
//
//	srv, err := tcp.NewServer(cfg, flag)
//	...
//	defer srv.Stop()
//	err = srv.Start()
type Server struct {
	*core.BaseServer

	config *ServerConfig
	flag   *shutdown.Flag
	pool   concurrency.WorkerPool
	load   *LoadTracker

	connMetrics ConnMetrics

	mu          sync.RWMutex
	listener    *net.TCPListener
	closed      bool
	loopDone    chan struct{}
	handler     ConnectionHandler
	middlewares []Middleware
	effective   ConnectionHandler

	totalAccepted  atomic.Int64
	handled        atomic.Int64
	errorConns     atomic.Int64
	submitFailures atomic.Int64
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	ctx         context.Context
	logger      core.Logger
	handler     ConnectionHandler
	poolMetrics concurrency.MetricsPolicy
	connMetrics ConnMetrics
}

// WithContext sets the base context handed to every connection job.
func WithContext(ctx context.Context) Option {
	return func(o *serverOptions) { o.ctx = ctx }
}

// WithLogger sets the server and pool logger.
func WithLogger(logger core.Logger) Option {
	return func(o *serverOptions) { o.logger = logger }
}

// WithHandler sets the connection handler.
func WithHandler(h ConnectionHandler) Option {
	return func(o *serverOptions) { o.handler = h }
}

// WithPoolMetrics reports worker pool activity to m.
func WithPoolMetrics(m concurrency.MetricsPolicy) Option {
	return func(o *serverOptions) { o.poolMetrics = m }
}

// WithConnMetrics reports acceptor activity to m.
func WithConnMetrics(m ConnMetrics) Option {
	return func(o *serverOptions) { o.connMetrics = m }
}

// NewServer creates the server and its worker pool. The workers are running
// when this returns; nothing is bound until Listen or Start.
//
// A non-positive cfg.Workers yields an error wrapping
// concurrency.ErrInvalidPoolSize.
func NewServer(cfg *ServerConfig, flag *shutdown.Flag, opts ...Option) (*Server, error) {
	failfast.NotNil(flag, "shutdown flag")
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := serverOptions{
		ctx:         context.Background(),
		handler:     defaultConnectionHandler,
		poolMetrics: concurrency.NoopMetrics{},
		connMetrics: noopConnMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = core.With(core.NewDefaultLogger(), "component", "tcp-server")
	}
	failfast.NotNil(o.handler, "tcp handler")

	pool, err := concurrency.NewWorkerPool(o.ctx, concurrency.WorkerPoolConfig{
		Workers: cfg.Workers,
		Logger:  o.logger,
		Metrics: o.poolMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	s := &Server{
		BaseServer:  core.NewBaseServer("tcp-server", o.logger),
		config:      cfg,
		flag:        flag,
		pool:        pool,
		load:        NewLoadTracker(cfg.Workers),
		connMetrics: o.connMetrics,
		handler:     o.handler,
	}
	s.effective = s.handler
	s.BaseServer.SetHooks(s.doStart, s.doStop)

	return s, nil
}

func defaultConnectionHandler(*ConnContext) error {
	return nil
}

// SetHandler sets the connection handler. Panics on nil.
func (s *Server) SetHandler(handler ConnectionHandler) {
	failfast.NotNil(handler, "tcp handler")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
	s.rebuildHandlerLocked()
}

// Use adds middleware. Call before Start. Panics if any middleware is nil.
func (s *Server) Use(mw ...Middleware) {
	if len(mw) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range mw {
		failfast.NotNil(m, "tcp middleware")
		s.middlewares = append(s.middlewares, m)
	}
	s.rebuildHandlerLocked()
}

func (s *Server) rebuildHandlerLocked() {
	h := s.handler
	// First added runs outermost.
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = s.middlewares[i](h)
	}
	s.effective = h
}

// Listen binds the configured address. It is a no-op once bound, and fails
// with net.ErrClosed after Stop.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenLocked()
}

func (s *Server) listenLocked() error {
	if s.closed {
		return fmt.Errorf("listen %s: %w", s.config.Addr, net.ErrClosed)
	}
	if s.listener != nil {
		return nil
	}

	addr, err := net.ResolveTCPAddr("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.config.Addr, err)
	}
	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or "" when not listening.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Pool returns the worker pool serving connections.
func (s *Server) Pool() concurrency.WorkerPool {
	return s.pool
}

// doStart is called by BaseServer.Start() and blocks in the accept loop.
func (s *Server) doStart() error {
	s.mu.Lock()
	if err := s.listenLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	ln := s.listener
	done := make(chan struct{})
	s.loopDone = done
	s.mu.Unlock()
	defer close(done)

	s.Logger().Infof("listening on %s with %d workers", ln.Addr(), s.pool.Workers())
	return s.acceptLoop(ln)
}

// acceptLoop checks the shutdown flag and pool liveness before every accept
// attempt. Each attempt waits at most PollInterval; running out of time is
// the "nothing pending" case and just goes round again.
func (s *Server) acceptLoop(ln *net.TCPListener) error {
	for {
		if s.flag.IsSet() {
			s.Logger().Infof("shutdown requested, no longer accepting on %s", ln.Addr())
			return nil
		}
		if !s.pool.IsRunning() {
			s.Logger().Warnf("worker pool stopped, no longer accepting on %s", ln.Addr())
			return nil
		}

		if err := ln.SetDeadline(time.Now().Add(s.config.PollInterval)); err != nil {
			if s.flag.IsSet() {
				return nil
			}
			return fmt.Errorf("set accept deadline: %w", err)
		}

		conn, err := ln.AcceptTCP()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if s.flag.IsSet() {
				return nil
			}
			return fmt.Errorf("accept on %s: %w", ln.Addr(), err)
		}

		s.dispatch(conn)
	}
}

// dispatch wraps conn in a job and submits it. If the pool refuses the
// job the connection is closed here, since no worker will own it.
func (s *Server) dispatch(conn *net.TCPConn) {
	s.totalAccepted.Add(1)
	s.connMetrics.IncAccepted()

	id := core.NewConnID()
	inFlight := s.load.Acquire()
	s.connMetrics.SetInFlight(inFlight)
	if s.load.Saturated() {
		s.Logger().Debugf("all %d workers busy, connection %s queued (%d in flight)", s.pool.Workers(), id, inFlight)
	}

	task := concurrency.NewNamedTask("conn-"+id, func(ctx context.Context) error {
		return s.serveConn(ctx, id, conn)
	})
	if err := s.pool.Submit(task); err != nil {
		s.submitFailures.Add(1)
		s.connMetrics.IncSubmitFailures()
		s.connMetrics.SetInFlight(s.load.Release())
		s.Logger().Warnf("dropping connection %s from %s: %v", id, conn.RemoteAddr(), err)
		_ = conn.Close()
	}
}

// serveConn runs on a worker. The connection is closed before the load
// slot is released.
func (s *Server) serveConn(ctx context.Context, id string, conn net.Conn) error {
	defer func() {
		_ = conn.Close()
		s.connMetrics.SetInFlight(s.load.Release())
		s.handled.Add(1)
		s.connMetrics.IncHandled()
	}()

	s.mu.RLock()
	h := s.effective
	s.mu.RUnlock()

	cctx := &ConnContext{
		Context:    core.WithConnID(ctx, id),
		Conn:       &deadlineConn{Conn: conn, readTimeout: s.config.ReadTimeout, writeTimeout: s.config.WriteTimeout},
		ConnID:     id,
		Logger:     core.With(s.Logger(), "conn_id", id),
		LocalAddr:  conn.LocalAddr(),
		RemoteAddr: conn.RemoteAddr(),
	}

	if err := h(cctx); err != nil {
		s.errorConns.Add(1)
		s.connMetrics.IncErrors()
		return fmt.Errorf("connection from %s: %w", cctx.RemoteAddr, err)
	}
	return nil
}

// doStop is called by BaseServer.Stop(). It sets the flag, waits for the
// accept loop to leave, closes the listener and then drains the pool.
func (s *Server) doStop() error {
	s.flag.Trigger()

	s.mu.RLock()
	done := s.loopDone
	s.mu.RUnlock()
	if done != nil {
		<-done
	}

	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	s.closed = true
	s.mu.Unlock()
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.Logger().Warnf("close listener: %v", err)
		}
	}

	stats := s.pool.Stats()
	s.Logger().Infof("waiting for %d queued and %d running connections", stats.Queued, stats.BusyWorkers)
	if err := s.pool.Close(); err != nil {
		return err
	}
	s.Logger().Infof("all workers stopped, %d connections served", s.handled.Load())
	return nil
}

// Metrics returns current server metrics.
func (s *Server) Metrics() ServerMetrics {
	return ServerMetrics{
		TotalAccepted:  s.totalAccepted.Load(),
		Handled:        s.handled.Load(),
		Errors:         s.errorConns.Load(),
		SubmitFailures: s.submitFailures.Load(),
		InFlight:       s.load.InFlight(),
		Saturated:      s.load.Saturated(),
		Pool:           s.pool.Stats(),
	}
}

// Load returns the in-flight tracker snapshot.
func (s *Server) Load() LoadMetrics {
	return s.load.Metrics()
}
