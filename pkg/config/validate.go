package config

import (
	"fmt"
	"net/url"

	"github.com/robfig/cron/v3"

	"github.com/ds-wizard/fairsharing-proxy/pkg/telemetry/logging"
)

// Validate checks the configuration for errors. It is called after defaults
// and environment overrides are applied, so empty required fields mean the
// operator removed them on purpose.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateUpstream(&cfg.Upstream); err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	if err := validateWarm(&cfg.Warm); err != nil {
		return fmt.Errorf("warm: %w", err)
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("listen_address must not be empty")
	}
	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}

func validateUpstream(cfg *UpstreamConfig) error {
	if cfg.API == "" {
		return fmt.Errorf("api must not be empty")
	}
	u, err := url.Parse(cfg.API)
	if err != nil {
		return fmt.Errorf("api is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api must use http or https, got %q", u.Scheme)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func validateWarm(cfg *WarmConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("username and password are required when warming is enabled")
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return fmt.Errorf("schedule is not a valid cron expression: %w", err)
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	switch cfg.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging: invalid format %q", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		return fmt.Errorf("metrics: path must not be empty when metrics are enabled")
	}
	return nil
}
