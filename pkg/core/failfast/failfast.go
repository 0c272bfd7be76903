// Package failfast panics on programmer errors at construction time, so a
// misconfigured server never reaches its accept loop.
package failfast

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

// Err panics if err != nil, with the stack attached.
func Err(err error) {
	if err != nil {
		panic(fmt.Errorf("fail-fast: %w\n%s", err, debug.Stack()))
	}
}

// If panics with the formatted message when condition is false.
func If(condition bool, message string, args ...interface{}) {
	if !condition {
		panic(fmt.Errorf("fail-fast: "+message, args...))
	}
}

// NotNil panics if v is nil, including typed nils of nillable kinds.
func NotNil(v interface{}, name string) {
	if isNil(v) {
		panic(fmt.Errorf("fail-fast: %s is nil", name))
	}
}

// Positive panics unless n > 0.
func Positive[T ~int | ~int64 | ~float64](n T, name string) {
	if n <= 0 {
		panic(fmt.Errorf("fail-fast: %s must be positive, got %v", name, n))
	}
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
