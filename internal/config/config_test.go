package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.LogCalls)
	assert.NotEmpty(t, cfg.StatePath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGRIPLAN_API_URL", "https://plans.example.gov/api")
	t.Setenv("AGRIPLAN_TIMEOUT_MS", "5000")
	t.Setenv("AGRIPLAN_LOG_CALLS", "true")
	t.Setenv("AGRIPLAN_STATE", "/tmp/agriplan-test.db")

	cfg := Load()

	assert.Equal(t, "https://plans.example.gov/api", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, "/tmp/agriplan-test.db", cfg.StatePath)
}

func TestLoad_IgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("AGRIPLAN_TIMEOUT_MS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
