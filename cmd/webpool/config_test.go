package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func effectiveConfig(t *testing.T, args ...string) *appConfig {
	t.Helper()
	out, err := execute(t, append([]string{"config"}, args...)...)
	require.NoError(t, err)

	cfg := &appConfig{}
	require.NoError(t, yaml.Unmarshal([]byte(out), cfg))
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := effectiveConfig(t)
	require.Equal(t, defaultAppConfig(), cfg)
	require.Equal(t, "127.0.0.1:2333", cfg.Server.Addr)
	require.Equal(t, 5, cfg.Server.Workers)
	require.Equal(t, 5*time.Millisecond, cfg.Server.PollInterval)
	require.Equal(t, 5*time.Second, cfg.Sleep)
	require.Equal(t, 1024, cfg.BufferSize)
}

func TestConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webpool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: 127.0.0.1:8000
  workers: 3
sleep: 1s
log:
  level: warn
`), 0o644))

	t.Setenv("WEBPOOL_SERVER_WORKERS", "7")
	t.Setenv("WEBPOOL_LOG_LEVEL", "debug")

	cfg := effectiveConfig(t, "--config", path, "--addr", "127.0.0.1:9999")

	require.Equal(t, "127.0.0.1:9999", cfg.Server.Addr, "flag beats file")
	require.Equal(t, 7, cfg.Server.Workers, "env beats file")
	require.Equal(t, "debug", cfg.Log.Level, "env beats file")
	require.Equal(t, time.Second, cfg.Sleep, "file beats default")
	require.Equal(t, 5*time.Millisecond, cfg.Server.PollInterval, "default kept")
}

func TestConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv("WEBPOOL_SERVER_WORKERS", "7")
	cfg := effectiveConfig(t, "--workers", "2")
	require.Equal(t, 2, cfg.Server.Workers)
}

func TestConfig_PathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webpool.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pages": "/srv/pages"}`), 0o644))
	t.Setenv("WEBPOOL_CONFIG", path)

	cfg := effectiveConfig(t)
	require.Equal(t, "/srv/pages", cfg.Pages)
}

func TestConfig_JSONOutput(t *testing.T) {
	out, err := execute(t, "config", "--format", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, ".", got["pages"])
	require.EqualValues(t, 5, got["server"].(map[string]any)["workers"])
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "zero workers", args: []string{"--workers", "0"}, want: "Server.Workers"},
		{name: "empty addr", args: []string{"--addr", ""}, want: "Server.Addr"},
		{name: "unknown level", args: []string{"--log-level", "loud"}, want: "Log.Level"},
		{name: "unknown format", args: []string{"--log-format", "xml"}, want: "Log.Format"},
		{name: "negative sleep", args: []string{"--sleep", "-1s"}, want: "Sleep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"config"}, tt.args...)...)
			require.ErrorContains(t, err, "invalid configuration")
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestConfig_MissingFile(t *testing.T) {
	_, err := execute(t, "config", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "failed to load config file")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "webpool:")
}
