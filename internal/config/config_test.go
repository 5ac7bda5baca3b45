package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	saved := os.Args
	os.Args = append([]string{"cli"}, args...)
	t.Cleanup(func() { os.Args = saved })
}

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "macromind.db", cfg.CredentialDB)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)
	cfg := LoadConfig()
	assert.Equal(t, "http://127.0.0.1:8000", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("MACROMIND_SERVER_URL", "https://api.example.com")
	t.Setenv("MACROMIND_REQUEST_TIMEOUT", "5s")
	t.Setenv("MACROMIND_CREDENTIAL_DB", "/tmp/creds.db")
	t.Setenv("MACROMIND_LOG_LEVEL", "debug")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "https://api.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/creds.db", cfg.CredentialDB)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseEnv_InvalidTimeoutKeepsCurrent(t *testing.T) {
	t.Setenv("MACROMIND_REQUEST_TIMEOUT", "soon")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestParseFlags(t *testing.T) {
	withArgs(t, "-a", "https://flag.example.com", "-t", "7", "-d", "flag.db")

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "https://flag.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "flag.db", cfg.CredentialDB)
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	body := `{
		"server_base_url": "https://json.example.com",
		"request_timeout": "12s",
		"credential_db": "json.db",
		"log_level": "warn"
	}`
	require.NoError(t, os.WriteFile(file, []byte(body), 0o600))
	withArgs(t, "-c", file)

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "https://json.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "json.db", cfg.CredentialDB)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseJson_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"log_level": "error"}`), 0o600))
	withArgs(t, "-config", file)

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestEnvOverridesJson(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"server_base_url": "https://json.example.com"}`), 0o600))
	withArgs(t, "-c", file)
	t.Setenv("MACROMIND_SERVER_URL", "https://env.example.com")

	cfg := LoadConfig()
	assert.Equal(t, "https://env.example.com", cfg.ServerBaseURL)
}
