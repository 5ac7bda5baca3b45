// Package config holds runtime settings for the MacroMind CLI.
//
// Values are resolved in layers, later sources winning:
// defaults -> JSON file (-c/-config) -> environment (.env overlay) -> flags.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - ServerBaseURL: base URL of the auth/nutrition backend.
//   - RequestTimeout: per-request HTTP timeout.
//   - CredentialDB: path (or DSN) of the local credential database.
//   - LogLevel: debug | info | warn | error.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	CredentialDB   string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 30 * time.Second
	c.CredentialDB = "macromind.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
