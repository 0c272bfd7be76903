package concurrency

import (
	"go.uber.org/zap"
)

// Logger is the minimal logger the pool needs. It is declared here instead
// of importing core so that core can depend on concurrency.
// *zap.SugaredLogger and core.Logger both satisfy it.
type Logger interface {
	Errorf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// newDefaultLogger returns the process-wide zap logger at call time, so a
// pool built after zap.ReplaceGlobals picks up the configured logger.
func newDefaultLogger() Logger {
	return zap.S().Named("pool")
}
