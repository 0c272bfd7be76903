package core

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []LogFormat{"", LogFormatConsole, LogFormatJSON} {
		logger, err := NewLogger("warn", format)
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	}

	_, err := NewLogger("info", "xml")
	require.Error(t, err)
	_, err = NewLogger("loud", LogFormatJSON)
	require.Error(t, err)
}

func TestNewDefaultLogger_FollowsGlobals(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	NewDefaultLogger().Infof("listening on %s", "127.0.0.1:2333")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "listening on 127.0.0.1:2333", logs.All()[0].Message)
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := With(zap.New(core).Sugar(), "conn_id", "abc")
	logger.Debugf("closed")

	entries := logs.FilterField(zap.String("conn_id", "abc")).All()
	require.Len(t, entries, 1)

	var plain plainLogger
	require.Equal(t, Logger(plain), With(plain, "conn_id", "abc"))
}

type plainLogger struct{}

func (plainLogger) Errorf(string, ...interface{}) {}
func (plainLogger) Warnf(string, ...interface{})  {}
func (plainLogger) Infof(string, ...interface{})  {}
func (plainLogger) Debugf(string, ...interface{}) {}
