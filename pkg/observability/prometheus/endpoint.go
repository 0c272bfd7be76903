package prometheus

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Handler serves /metrics from gatherer and a /live probe.
func Handler(gatherer prometheus.Gatherer) fasthttp.RequestHandler {
	if gatherer == nil {
		gatherer = DefaultRegistry
	}
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/metrics":
			metricsHandler(ctx)
		case "/live":
			ctx.SetContentType("text/plain; charset=utf-8")
			ctx.SetBodyString("ok\n")
		default:
			ctx.Error("not found", fasthttp.StatusNotFound)
		}
	}
}

// Serve runs the metrics endpoint on ln until ctx is done.
func Serve(ctx context.Context, ln net.Listener, gatherer prometheus.Gatherer) error {
	srv := &fasthttp.Server{
		Handler:      Handler(gatherer),
		Name:         "webpool-metrics",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics endpoint: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("metrics endpoint shutdown: %w", err)
	}
	return <-errCh
}

// ListenAndServe binds addr and calls Serve.
func ListenAndServe(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics endpoint: %w", err)
	}
	return Serve(ctx, ln, gatherer)
}
