package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "empty listen address",
			mutate:  func(cfg *Config) { cfg.Server.ListenAddress = "" },
			wantErr: "listen_address",
		},
		{
			name:    "negative read timeout",
			mutate:  func(cfg *Config) { cfg.Server.ReadTimeout = -1 },
			wantErr: "read_timeout",
		},
		{
			name:    "empty upstream api",
			mutate:  func(cfg *Config) { cfg.Upstream.API = "" },
			wantErr: "api",
		},
		{
			name:    "non-http upstream api",
			mutate:  func(cfg *Config) { cfg.Upstream.API = "ftp://example.org" },
			wantErr: "http or https",
		},
		{
			name: "warming enabled without credentials",
			mutate: func(cfg *Config) {
				cfg.Warm.Enabled = true
			},
			wantErr: "username and password",
		},
		{
			name: "warming with bad cron expression",
			mutate: func(cfg *Config) {
				cfg.Warm.Enabled = true
				cfg.Warm.Username = "user"
				cfg.Warm.Password = "pass"
				cfg.Warm.Schedule = "every tuesday"
			},
			wantErr: "cron",
		},
		{
			name: "warming fully configured",
			mutate: func(cfg *Config) {
				cfg.Warm.Enabled = true
				cfg.Warm.Username = "user"
				cfg.Warm.Password = "pass"
			},
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.Telemetry.Logging.Level = "loudest" },
			wantErr: "log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(cfg *Config) { cfg.Telemetry.Logging.Format = "xml" },
			wantErr: "format",
		},
		{
			name: "metrics enabled without path",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Metrics.Enabled = true
				cfg.Telemetry.Metrics.Path = ""
			},
			wantErr: "path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
