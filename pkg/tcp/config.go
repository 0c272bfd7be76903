package tcp

import (
	"time"

	"github.com/fluxorio/webpool/pkg/config"
)

const (
	DefaultAddr         = "127.0.0.1:2333"
	DefaultWorkers      = 5
	DefaultPollInterval = 5 * time.Millisecond
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

// ServerConfig configures the TCP server.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	// Workers is the fixed size of the worker pool serving connections.
	Workers int `yaml:"workers" json:"workers"`

	// PollInterval bounds each accept attempt. It is also the worst-case
	// delay between the shutdown flag being set and the loop noticing.
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`

	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// DefaultServerConfig returns the default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:         DefaultAddr,
		Workers:      DefaultWorkers,
		PollInterval: DefaultPollInterval,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// Validate checks the fields that cannot be defaulted.
// Workers is left to the pool, which reports ErrInvalidPoolSize.
func (c *ServerConfig) Validate() error {
	return config.Validate(c,
		config.RequiredFields("Addr"),
		config.MinDuration("PollInterval", time.Millisecond),
		config.MinDuration("ReadTimeout", 0),
		config.MinDuration("WriteTimeout", 0),
	)
}

// withDefaults fills zero durations. Addr and Workers are kept as given.
func (c *ServerConfig) withDefaults() *ServerConfig {
	out := *c
	if out.PollInterval == 0 {
		out.PollInterval = DefaultPollInterval
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = DefaultReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = DefaultWriteTimeout
	}
	return &out
}
