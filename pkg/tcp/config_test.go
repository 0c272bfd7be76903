package tcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	require.Equal(t, "127.0.0.1:2333", cfg.Addr)
	require.Equal(t, 5, cfg.Workers)
	require.Equal(t, 5*time.Millisecond, cfg.PollInterval)
	require.Equal(t, 5*time.Second, cfg.ReadTimeout)
	require.Equal(t, 5*time.Second, cfg.WriteTimeout)
	require.NoError(t, cfg.Validate())
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"empty addr", func(c *ServerConfig) { c.Addr = "" }},
		{"poll too short", func(c *ServerConfig) { c.PollInterval = 100 * time.Microsecond }},
		{"negative read timeout", func(c *ServerConfig) { c.ReadTimeout = -time.Second }},
		{"negative write timeout", func(c *ServerConfig) { c.WriteTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestServerConfig_WithDefaults(t *testing.T) {
	in := &ServerConfig{Addr: ":0", Workers: 3}
	out := in.withDefaults()

	require.Equal(t, DefaultPollInterval, out.PollInterval)
	require.Equal(t, DefaultReadTimeout, out.ReadTimeout)
	require.Equal(t, DefaultWriteTimeout, out.WriteTimeout)
	require.Equal(t, 3, out.Workers)
	require.Zero(t, in.PollInterval, "input must not be modified")
}
