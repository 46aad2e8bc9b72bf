package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the client.
type Config struct {
	BaseURL        string        // backend API root, e.g. https://plans.moa.gov.et/api
	StatePath      string        // local SQLite state database
	RequestTimeout time.Duration // per-request transport timeout
	LogCalls       bool          // write API call events to stderr
	ExportDir      string        // where export downloads are written
}

// Default returns a Config with sensible defaults. The base URL points at
// a local development backend.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		BaseURL:        "http://localhost:8000/api",
		StatePath:      filepath.Join(home, ".agriplan", "state.db"),
		RequestTimeout: 30 * time.Second,
		LogCalls:       false,
		ExportDir:      ".",
	}
}

// Load reads configuration from a .env file (if present) and environment
// variables, falling back to defaults for any unset values. Environment
// variables win over the .env file, which is godotenv's behavior.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("AGRIPLAN_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("AGRIPLAN_STATE"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("AGRIPLAN_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("AGRIPLAN_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("AGRIPLAN_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	return cfg
}
