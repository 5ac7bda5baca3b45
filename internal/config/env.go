package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables, loading a .env file
// first when one exists. Missing .env is fine; explicit environment always
// wins over the file because godotenv does not override existing variables.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("MACROMIND_SERVER_URL"); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv("MACROMIND_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("MACROMIND_CREDENTIAL_DB"); v != "" {
		cfg.CredentialDB = v
	}
	if v := os.Getenv("MACROMIND_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
