package prometheus

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func serve(t *testing.T, h fasthttp.RequestHandler, path string) *fasthttp.Response {
	t.Helper()
	var req fasthttp.Request
	req.SetRequestURI("http://localhost" + path)

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	h(&ctx)

	resp := &fasthttp.Response{}
	ctx.Response.CopyTo(resp)
	return resp
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.IncAccepted()

	h := Handler(reg)

	resp := serve(t, h, "/metrics")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	require.Contains(t, string(resp.Body()), "webpool_server_connections_accepted_total 1")

	resp = serve(t, h, "/live")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	require.Equal(t, "ok\n", string(resp.Body()))

	resp = serve(t, h, "/nope")
	require.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg).SetWorkers(5)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, reg) }()

	var (
		status int
		body   []byte
	)
	require.Eventually(t, func() bool {
		status, body, err = fasthttp.Get(nil, "http://"+ln.Addr().String()+"/metrics")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, fasthttp.StatusOK, status)
	require.True(t, strings.Contains(string(body), "webpool_pool_workers 5"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestListenAndServe_BadAddr(t *testing.T) {
	err := ListenAndServe(context.Background(), "256.0.0.1:99999", prometheus.NewRegistry())
	require.Error(t, err)
}
