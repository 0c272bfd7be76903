package tcp

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Logging logs each connection at debug level with its duration and outcome.
func Logging() Middleware {
	return func(next ConnectionHandler) ConnectionHandler {
		return func(ctx *ConnContext) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Logger.Debugf("connection from %s failed after %s: %v", ctx.RemoteAddr, time.Since(start), err)
				return err
			}
			ctx.Logger.Debugf("connection from %s served in %s", ctx.RemoteAddr, time.Since(start))
			return nil
		}
	}
}

// Recover turns a handler panic into an error carrying the stack, so it is
// counted against the connection.
func Recover() Middleware {
	return func(next ConnectionHandler) ConnectionHandler {
		return func(ctx *ConnContext) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic in connection handler: %v\n%s", r, debug.Stack())
				}
			}()
			return next(ctx)
		}
	}
}
