// Package config defines the YAML configuration of the FAIRsharing proxy and
// its loading pipeline: parse, apply defaults, apply FSPROXY_* environment
// overrides, validate. A file watcher supports re-applying the log level on
// configuration changes without a restart.
package config
