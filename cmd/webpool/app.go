package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/httpx"
	metrics "github.com/fluxorio/webpool/pkg/observability/prometheus"
	"github.com/fluxorio/webpool/pkg/shutdown"
	"github.com/fluxorio/webpool/pkg/tcp"
)

// app wires the acceptor, its handler and the optional metrics endpoint
// around one shutdown flag.
type app struct {
	cfg    *appConfig
	flag   *shutdown.Flag
	logger core.Logger

	srv      *tcp.Server
	pages    *httpx.DirLoader
	registry *prometheus.Registry
}

func newApp(cfg *appConfig, flag *shutdown.Flag, logger core.Logger) (*app, error) {
	dir, err := httpx.NewDirLoader(cfg.Pages)
	if err != nil {
		return nil, err
	}

	handler := httpx.NewHandler(httpx.NewCachedLoader(httpx.ChainLoader{dir, httpx.EmbedLoader{}}), cfg.Sleep)
	handler.BufferSize = cfg.BufferSize

	opts := []tcp.Option{
		tcp.WithLogger(core.With(logger, "component", "tcp-server")),
		tcp.WithHandler(handler.Serve),
	}

	a := &app{cfg: cfg, flag: flag, logger: logger, pages: dir}
	if cfg.MetricsAddr != "" {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := metrics.NewMetrics(prometheus.WrapRegistererWith(prometheus.Labels{"service": "webpool"}, a.registry))
		m.SetWorkers(cfg.Server.Workers)
		opts = append(opts, tcp.WithPoolMetrics(m), tcp.WithConnMetrics(m))
	}

	srv, err := tcp.NewServer(&cfg.Server, flag, opts...)
	if err != nil {
		_ = dir.Close()
		return nil, err
	}
	srv.Use(tcp.Recover(), tcp.Logging())
	a.srv = srv

	return a, nil
}

// run blocks until the flag is set or ctx ends, then drains the pool.
// A listener or metrics endpoint failure also stops everything and is
// returned.
func (a *app) run(ctx context.Context) error {
	defer func() {
		if err := a.pages.Close(); err != nil {
			a.logger.Warnf("close pages dir: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		select {
		case <-a.flag.Done():
		case <-runCtx.Done():
			a.flag.Trigger()
		}
		cancel()
		return nil
	})

	g.Go(func() error {
		defer a.flag.Trigger()
		if err := a.srv.Start(); err != nil {
			return fmt.Errorf("tcp server: %w", err)
		}
		return nil
	})

	if a.registry != nil {
		g.Go(func() error {
			a.logger.Infof("serving metrics on %s", a.cfg.MetricsAddr)
			return metrics.ListenAndServe(runCtx, a.cfg.MetricsAddr, a.registry)
		})
	}

	err := g.Wait()
	if stopErr := a.srv.Stop(); stopErr != nil {
		err = errors.Join(err, fmt.Errorf("stop tcp server: %w", stopErr))
	}
	return err
}
