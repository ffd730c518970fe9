package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ds-wizard/fairsharing-proxy/pkg/config"
	"github.com/ds-wizard/fairsharing-proxy/pkg/telemetry/logging"
	"github.com/ds-wizard/fairsharing-proxy/pkg/upstream"
	"github.com/ds-wizard/fairsharing-proxy/pkg/warm"
)

var warmFlags struct {
	username string
	password string
}

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Run one record warming pass immediately",
	Long: `Run one record warming pass immediately: sign in to FAIRsharing, walk the
whole record listing, and replace the local SQLite dataset.

Credentials default to the warm section of the configuration and can be
overridden with flags.

Examples:
  # Warm with credentials from the config file
  fsproxy warm

  # Warm with explicit credentials
  fsproxy warm --username you@example.org --password secret`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)

	warmCmd.Flags().StringVarP(&warmFlags.username, "username", "u", "", "FAIRsharing account username")
	warmCmd.Flags().StringVarP(&warmFlags.password, "password", "p", "", "FAIRsharing account password")
}

func runWarm(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	if warmFlags.username != "" {
		cfg.Warm.Username = warmFlags.username
	}
	if warmFlags.password != "" {
		cfg.Warm.Password = warmFlags.password
	}
	if cfg.Warm.Username == "" || cfg.Warm.Password == "" {
		return fmt.Errorf("warming credentials missing: set warm.username/warm.password or pass --username/--password")
	}

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := logging.Initialize(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
	}); err != nil {
		return err
	}

	storage, err := warm.NewStorage(warm.StorageConfig{Path: cfg.Warm.DatabasePath})
	if err != nil {
		return err
	}
	defer storage.Close()

	client := upstream.NewClient(upstream.Config{
		API:     cfg.Upstream.API,
		Timeout: cfg.Upstream.Timeout,
	})

	loader := warm.NewLoader(client, storage, nil, warm.LoaderConfig{
		Username:  cfg.Warm.Username,
		Password:  cfg.Warm.Password,
		PageSize:  cfg.Warm.PageSize,
		PageDelay: cfg.Warm.PageDelay,
	})

	run, err := loader.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Warmed %d records in %d pages (%s)\n",
		run.RecordCount, run.PageCount,
		run.FinishedAt.Sub(run.StartedAt).Round(10*time.Millisecond))
	return nil
}
