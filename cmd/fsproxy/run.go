package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ds-wizard/fairsharing-proxy/pkg/config"
	"github.com/ds-wizard/fairsharing-proxy/pkg/proxy"
	"github.com/ds-wizard/fairsharing-proxy/pkg/server"
	"github.com/ds-wizard/fairsharing-proxy/pkg/telemetry/logging"
	"github.com/ds-wizard/fairsharing-proxy/pkg/telemetry/metrics"
	"github.com/ds-wizard/fairsharing-proxy/pkg/upstream"
	"github.com/ds-wizard/fairsharing-proxy/pkg/warm"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the FAIRsharing proxy server",
	Long: `Start the FAIRsharing proxy server with the specified configuration.

The server listens on the configured address and serves authenticated
searches against the FAIRsharing API, in canonical and legacy shapes.

Examples:
  # Start with default config
  fsproxy run

  # Start with custom config
  fsproxy run --config /etc/fsproxy/config.yml

  # Override listen address
  fsproxy run --listen 0.0.0.0:8080

  # Validate config without starting server
  fsproxy run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	// Flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := logging.Initialize(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	}); err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("Configuration valid")
		return nil
	}

	slog.Info("starting fsproxy",
		"version", Version,
		"upstream", cfg.Upstream.API,
		"warming_enabled", cfg.Warm.Enabled,
	)

	collector := metrics.NewCollector(nil)

	client := upstream.NewClient(upstream.Config{
		API:                 cfg.Upstream.API,
		Timeout:             cfg.Upstream.Timeout,
		MaxIdleConns:        cfg.Upstream.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Upstream.IdleConnTimeout,
	})

	core := proxy.New(client, collector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The watcher only re-applies the log level at runtime; other changes
	// need a restart.
	watcher, err := config.NewWatcher(cfgFile, func(updated *config.Config) {
		if err := logging.SetLevel(updated.Telemetry.Logging.Level); err != nil {
			slog.Warn("ignoring invalid log level from reloaded configuration", "error", err)
		}
	})
	if err != nil {
		slog.Warn("configuration watching unavailable", "error", err)
	} else {
		go watcher.Run(ctx)
	}

	if cfg.Warm.Enabled {
		storage, err := warm.NewStorage(warm.StorageConfig{Path: cfg.Warm.DatabasePath})
		if err != nil {
			return err
		}
		defer storage.Close()

		loader := warm.NewLoader(client, storage, collector, warm.LoaderConfig{
			Username:  cfg.Warm.Username,
			Password:  cfg.Warm.Password,
			PageSize:  cfg.Warm.PageSize,
			PageDelay: cfg.Warm.PageDelay,
		})

		scheduler, err := warm.NewScheduler(loader, cfg.Warm.Schedule)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, core, collector, server.Info{
		Name:           "fairsharing-proxy",
		PackageVersion: Version,
		Notice:         server.Notice,
		Version:        Version,
		BuiltAt:        BuildDate,
	})

	return srv.Start(ctx)
}
