package config

import (
	"time"
)

// Config is the root configuration of the proxy, loaded from YAML.
type Config struct {
	// Server configures the HTTP server of the proxy itself.
	Server ServerConfig `yaml:"server"`

	// Upstream configures the connection to the FAIRsharing API.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Warm configures the scheduled record warming job.
	Warm WarmConfig `yaml:"warm"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on (e.g. ":8080").
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// kept-alive connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout is how long a graceful shutdown may take.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig contains the FAIRsharing API connection settings.
type UpstreamConfig struct {
	// API is the base URL of the FAIRsharing API. Required.
	API string `yaml:"api"`

	// Timeout is the per-request timeout for upstream calls.
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns caps idle connections across all upstream hosts.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost caps idle connections per upstream host.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection is kept open.
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// WarmConfig contains the scheduled record warming settings. The warming job
// periodically lists the whole registry into a local SQLite database.
type WarmConfig struct {
	// Enabled turns the scheduled warming job on.
	Enabled bool `yaml:"enabled"`

	// Schedule is the cron expression for warming runs.
	Schedule string `yaml:"schedule"`

	// DatabasePath is the SQLite file holding warmed records.
	DatabasePath string `yaml:"database_path"`

	// Username and Password are the FAIRsharing account the warming job
	// signs in with.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// PageSize is how many records to request per listing page.
	PageSize int `yaml:"page_size"`

	// PageDelay is the pause between listing pages, to stay polite.
	PageDelay time.Duration `yaml:"page_delay"`
}

// TelemetryConfig contains logging and metrics settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the log output format ("json", "text").
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on.
	Enabled bool `yaml:"enabled"`

	// Path is where the metrics endpoint is mounted.
	Path string `yaml:"path"`
}
