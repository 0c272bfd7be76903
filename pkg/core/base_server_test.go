package core

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBaseServer_Start_RollbackStartedOnHookError(t *testing.T) {
	bs := NewBaseServer("test", zaptest.NewLogger(t).Sugar())
	bs.SetHooks(
		func() error { return errors.New("boom") },
		func() error { return nil },
	)

	require.EqualError(t, bs.Start(), "boom")
	require.False(t, bs.IsStarted())

	// A failed start can be retried.
	bs.SetHooks(func() error { return nil }, func() error { return nil })
	require.NoError(t, bs.Start())
	require.True(t, bs.IsStarted())
}

func TestBaseServer_Start_BlocksButMarksStarted(t *testing.T) {
	bs := NewBaseServer("test", nil)

	release := make(chan struct{})
	var entered atomic.Int32
	bs.SetHooks(
		func() error {
			entered.Add(1)
			<-release
			return nil
		},
		func() error { return nil },
	)

	errCh := make(chan error, 1)
	go func() { errCh <- bs.Start() }()

	require.Eventually(t, func() bool {
		return entered.Load() == 1 && bs.IsStarted()
	}, 2*time.Second, 5*time.Millisecond)

	require.ErrorIs(t, bs.Start(), ErrAlreadyStarted)

	close(release)
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("start did not return after unblocking hook")
	}
}

func TestBaseServer_Stop(t *testing.T) {
	bs := NewBaseServer("test", nil)

	var calls atomic.Int32
	fail := true
	bs.SetHooks(
		func() error { return nil },
		func() error {
			calls.Add(1)
			if fail {
				return errors.New("busy")
			}
			return nil
		},
	)

	require.Error(t, bs.Stop())
	require.False(t, bs.IsStopped())

	fail = false
	require.NoError(t, bs.Stop())
	require.True(t, bs.IsStopped())
	require.NoError(t, bs.Stop())
	require.EqualValues(t, 2, calls.Load())
}

func TestBaseServer_FailFast(t *testing.T) {
	require.Panics(t, func() { NewBaseServer("", nil) })

	bs := NewBaseServer("test", nil)
	require.Equal(t, "test", bs.Name())
	require.NotNil(t, bs.Logger())
	require.Panics(t, func() { bs.SetHooks(nil, func() error { return nil }) })
	require.Panics(t, func() { bs.SetLogger(nil) })
}
