package tcp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadTracker(t *testing.T) {
	lt := NewLoadTracker(2)

	require.EqualValues(t, 1, lt.Acquire())
	require.EqualValues(t, 2, lt.Acquire())
	require.False(t, lt.Saturated())

	require.EqualValues(t, 3, lt.Acquire())
	require.True(t, lt.Saturated())

	m := lt.Metrics()
	require.EqualValues(t, 2, m.NormalCapacity)
	require.EqualValues(t, 3, m.InFlight)
	require.EqualValues(t, 1, m.Queued)
	require.EqualValues(t, 1, m.Saturations)
	require.InDelta(t, 150.0, m.Utilization, 0.001)

	require.EqualValues(t, 2, lt.Release())
	require.False(t, lt.Saturated())
	require.EqualValues(t, 3, lt.Metrics().Peak)
	require.Zero(t, lt.Metrics().Queued)
}

func TestLoadTracker_MinimumCapacity(t *testing.T) {
	lt := NewLoadTracker(0)
	lt.Acquire()
	require.False(t, lt.Saturated())
	lt.Acquire()
	require.True(t, lt.Saturated())
}

func TestLoadTracker_Concurrent(t *testing.T) {
	lt := NewLoadTracker(4)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				lt.Acquire()
				lt.Release()
			}
		}()
	}
	wg.Wait()

	require.Zero(t, lt.InFlight())
	require.LessOrEqual(t, lt.Metrics().Peak, int64(16))
}
