package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

// defaultConfigPath resolves the configuration file path: the FSPROXY_CONFIG
// environment variable when set, else the conventional container location.
func defaultConfigPath() string {
	if path := os.Getenv("FSPROXY_CONFIG"); path != "" {
		return path
	}
	return "/app/config.yml"
}

var rootCmd = &cobra.Command{
	Use:   "fsproxy",
	Short: "FAIRsharing proxy - authenticating search proxy for the FAIRsharing API",
	Long: `fsproxy is an authenticating translation proxy in front of the FAIRsharing
metadata-registry API (https://fairsharing.org).

It signs clients in with the credentials they supply, caches the issued
tokens per account, and serves record searches in two stable response
shapes:
  - the canonical shape on /search
  - the v0.3 compatibility shape on /legacy/search

A scheduled warming job can mirror the whole registry into a local SQLite
database for offline inspection.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
