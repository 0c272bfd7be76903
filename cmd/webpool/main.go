// Command webpool serves a two-page HTTP-ish site from a fixed pool of
// worker goroutines.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fluxorio/webpool/pkg/config"
	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/shutdown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "webpool:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:           "webpool",
		Short:         "Fixed worker pool web server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (yaml or json), also read from $WEBPOOL_CONFIG")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Accept connections until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadAppConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}
	flags.register(serve)

	var format string
	printConfig := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadAppConfig(cmd, flags)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), format, cfg)
		},
	}
	flags.register(printConfig)
	printConfig.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")

	root.AddCommand(serve, printConfig, newVersionCmd())
	return root
}

func runServe(cmd *cobra.Command, cfg *appConfig) error {
	zl, err := core.NewLogger(cfg.Log.Level, core.LogFormat(cfg.Log.Format))
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	undo := zap.ReplaceGlobals(zl)
	defer undo()
	logger := zl.Sugar()

	flag := shutdown.NewFlag()
	stop := shutdown.NotifyOnSignal(flag, logger)
	defer stop()

	a, err := newApp(cfg, flag, logger)
	if err != nil {
		return err
	}
	if err := a.run(cmd.Context()); err != nil {
		return err
	}
	logger.Infof("shut down cleanly")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			info, ok := debug.ReadBuildInfo()
			if !ok {
				fmt.Fprintln(out, "webpool: version info not available")
				return
			}
			fmt.Fprintf(out, "webpool: %s\n", info.Main.Version)
			fmt.Fprintf(out, "go:      %s\n", info.GoVersion)
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					fmt.Fprintf(out, "commit:  %s\n", s.Value)
				case "vcs.time":
					fmt.Fprintf(out, "date:    %s\n", s.Value)
				case "vcs.modified":
					fmt.Fprintf(out, "dirty:   %s\n", s.Value)
				}
			}
		},
	}
}
