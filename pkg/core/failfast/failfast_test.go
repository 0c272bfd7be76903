package failfast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestErr(t *testing.T) {
	require.NotPanics(t, func() { Err(nil) })

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.Contains(t, err.Error(), "fail-fast: listen failed")
		require.Contains(t, err.Error(), "goroutine")
	}()
	Err(errors.New("listen failed"))
}

func TestIf(t *testing.T) {
	require.NotPanics(t, func() { If(true, "unused") })
	require.PanicsWithError(t, "fail-fast: workers is 0", func() {
		If(false, "workers is %d", 0)
	})
}

func TestNotNil(t *testing.T) {
	val := "x"
	require.NotPanics(t, func() { NotNil(&val, "val") })
	require.NotPanics(t, func() { NotNil(val, "val") })
	require.NotPanics(t, func() { NotNil(func() {}, "fn") })

	var ptr *string
	var fn func()
	var m map[string]int
	var ch chan int
	for name, v := range map[string]interface{}{
		"untyped": nil,
		"ptr":     ptr,
		"fn":      fn,
		"map":     m,
		"chan":    ch,
	} {
		require.PanicsWithError(t, "fail-fast: "+name+" is nil", func() { NotNil(v, name) }, name)
	}
}

func TestPositive(t *testing.T) {
	require.NotPanics(t, func() { Positive(5, "workers") })
	require.NotPanics(t, func() { Positive(5*time.Millisecond, "poll") })
	require.PanicsWithError(t, "fail-fast: workers must be positive, got 0", func() { Positive(0, "workers") })
	require.Panics(t, func() { Positive(-1.5, "ratio") })
}
