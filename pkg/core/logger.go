package core

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled, printf-style logging.
// *zap.SugaredLogger satisfies it, and so does zaptest's logger in tests.
type Logger interface {
	// Errorf logs a formatted error message
	Errorf(format string, args ...interface{})

	// Warnf logs a formatted warning message
	Warnf(format string, args ...interface{})

	// Infof logs a formatted informational message
	Infof(format string, args ...interface{})

	// Debugf logs a formatted debug message
	Debugf(format string, args ...interface{})
}

// LogFormat selects the zap encoder.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// NewLogger builds a zap logger for the given level name
// (debug, info, warn, error) and format.
func NewLogger(level string, format LogFormat) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch format {
	case LogFormatJSON:
		cfg = zap.NewProductionConfig()
	case LogFormatConsole, "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.Development = false
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.Sampling = nil

	return cfg.Build()
}

// ParseLevel maps a level name onto a zapcore.Level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// NewDefaultLogger returns the process-wide sugared logger.
// It is a no-op until the caller installs one with zap.ReplaceGlobals.
func NewDefaultLogger() Logger {
	return zap.S()
}

// With attaches key/value context to logger when it is a zap logger.
// Other implementations are returned unchanged.
func With(logger Logger, keysAndValues ...interface{}) Logger {
	if s, ok := logger.(*zap.SugaredLogger); ok {
		return s.With(keysAndValues...)
	}
	return logger
}
