package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

// Logger is the subset of a sugared logger used by NotifyOnSignal.
type Logger interface {
	Infof(template string, args ...interface{})
}

// NotifyOnSignal sets flag the first time one of sigs is delivered. With no
// sigs it listens for SIGINT and SIGTERM. Later signals are ignored so an
// in-progress drain is not interrupted.
//
// The returned stop func unregisters the handler and waits for its goroutine.
func NotifyOnSignal(flag *Flag, logger Logger, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	quit := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case sig := <-ch:
				if flag.Trigger() && logger != nil {
					logger.Infof("%s detected; shutting down", sig)
				}
			case <-quit:
				return
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		signal.Stop(ch)
		close(quit)
		<-exited
	}
}
