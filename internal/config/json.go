package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/macromind-app/macromind-cli/internal/flagx"
	"github.com/macromind-app/macromind-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "30s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	CredentialDB   string         `json:"credential_db"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. No flag, no file, no overlay. Only fields present in the
// file override the current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.CredentialDB != "" {
		cfg.CredentialDB = jc.CredentialDB
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
