package tcp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fluxorio/webpool/pkg/shutdown"
)

func TestRecover(t *testing.T) {
	h := Recover()(func(*ConnContext) error { panic("boom") })
	err := h(&ConnContext{})
	require.ErrorContains(t, err, "panic in connection handler: boom")

	want := errors.New("plain")
	h = Recover()(func(*ConnContext) error { return want })
	require.ErrorIs(t, h(&ConnContext{}), want)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := &ConnContext{Logger: zap.New(core).Sugar()}

	require.NoError(t, Logging()(func(*ConnContext) error { return nil })(ctx))
	require.Error(t, Logging()(func(*ConnContext) error { return errors.New("reset") })(ctx))

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Contains(t, entries[0].Message, "served in")
	require.Contains(t, entries[1].Message, "failed after")
	require.Contains(t, entries[1].Message, "reset")
}

func TestServer_MiddlewareOrder(t *testing.T) {
	s, err := NewServer(testConfig(), shutdown.NewFlag())
	require.NoError(t, err)
	defer s.Stop()

	var order []string
	mark := func(name string) Middleware {
		return func(next ConnectionHandler) ConnectionHandler {
			return func(ctx *ConnContext) error {
				order = append(order, name+">")
				err := next(ctx)
				order = append(order, "<"+name)
				return err
			}
		}
	}
	s.SetHandler(func(*ConnContext) error {
		order = append(order, "handler")
		return nil
	})
	s.Use(mark("outer"), mark("inner"))

	s.mu.RLock()
	h := s.effective
	s.mu.RUnlock()
	require.NoError(t, h(&ConnContext{}))
	require.Equal(t, []string{"outer>", "inner>", "handler", "<inner", "<outer"}, order)

	// Replacing the handler keeps the chain.
	order = nil
	s.SetHandler(func(*ConnContext) error { return nil })
	s.mu.RLock()
	h = s.effective
	s.mu.RUnlock()
	require.NoError(t, h(&ConnContext{}))
	require.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, order)
}
