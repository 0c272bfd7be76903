package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fluxorio/webpool/pkg/config"
	"github.com/fluxorio/webpool/pkg/httpx"
	"github.com/fluxorio/webpool/pkg/tcp"
)

// envPrefix namespaces environment overrides, e.g. WEBPOOL_SERVER_WORKERS.
const envPrefix = "WEBPOOL"

type appConfig struct {
	Server tcp.ServerConfig `yaml:"server" json:"server"`
	Log    logConfig        `yaml:"log" json:"log"`

	// Pages is the directory hello.html and 404.html are read from.
	// Files missing there fall back to the built-in pages.
	Pages      string        `yaml:"pages" json:"pages"`
	Sleep      time.Duration `yaml:"sleep" json:"sleep"`
	BufferSize int           `yaml:"buffer_size" json:"buffer_size"`

	// MetricsAddr enables the Prometheus endpoint when set.
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
}

type logConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

func defaultAppConfig() *appConfig {
	return &appConfig{
		Server:     *tcp.DefaultServerConfig(),
		Log:        logConfig{Level: "info", Format: "console"},
		Pages:      ".",
		Sleep:      httpx.DefaultSleep,
		BufferSize: httpx.DefaultBufferSize,
	}
}

func (c *appConfig) validate() error {
	return config.Validate(c,
		config.RequiredFields("Server.Addr", "Pages"),
		config.RangeValidator("Server.Workers", 1, 1<<16),
		config.RangeValidator("BufferSize", 1, 1<<20),
		config.MinDuration("Sleep", 0),
		config.OneOfValidator("Log.Level", "debug", "info", "warn", "warning", "error"),
		config.OneOfValidator("Log.Format", "console", "json"),
	)
}

// cliFlags holds flag values; only flags set on the command line override
// the file and environment.
type cliFlags struct {
	configPath  string
	addr        string
	workers     int
	pages       string
	sleep       time.Duration
	logLevel    string
	logFormat   string
	metricsAddr string
}

func (f *cliFlags) register(cmd *cobra.Command) {
	defaults := defaultAppConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.addr, "addr", defaults.Server.Addr, "address to listen on")
	fs.IntVarP(&f.workers, "workers", "w", defaults.Server.Workers, "number of worker goroutines")
	fs.StringVar(&f.pages, "pages", defaults.Pages, "directory containing hello.html and 404.html")
	fs.DurationVar(&f.sleep, "sleep", defaults.Sleep, "how long GET /sleep holds its worker")
	fs.StringVar(&f.logLevel, "log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", defaults.Log.Format, "log format (console, json)")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
}

func (f *cliFlags) apply(cmd *cobra.Command, cfg *appConfig) {
	fs := cmd.Flags()
	if fs.Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if fs.Changed("workers") {
		cfg.Server.Workers = f.workers
	}
	if fs.Changed("pages") {
		cfg.Pages = f.pages
	}
	if fs.Changed("sleep") {
		cfg.Sleep = f.sleep
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
}

// loadAppConfig layers defaults, the config file, WEBPOOL_* variables and
// then command line flags, and validates the result.
func loadAppConfig(cmd *cobra.Command, flags *cliFlags) (*appConfig, error) {
	cfg := defaultAppConfig()

	path := flags.configPath
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if err := config.LoadWithEnv(path, envPrefix, cfg); err != nil {
		return nil, err
	}
	flags.apply(cmd, cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
