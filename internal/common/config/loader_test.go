// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "file", cfg.Refdata.Source)
	assert.Equal(t, "data/pm25_history.json", cfg.Refdata.HistoryPath)
	assert.True(t, cfg.Refdata.ValidateOnStart)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 30, cfg.Forecast.MaxHorizonYears)
	assert.Equal(t, 5.0, cfg.Forecast.FloorPM25)
	assert.Equal(t, 0, cfg.Analysis.CurrentYear)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
logging:
  level: debug
  format: console
redis:
  enabled: true
  addr: cache:6379
  ttl: 30m
forecast:
  max_horizon_years: 15
analysis:
  current_year: 2025
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 15, cfg.Forecast.MaxHorizonYears)
	assert.Equal(t, 2025, cfg.Analysis.CurrentYear)

	// Untouched sections keep their defaults.
	assert.Equal(t, "file", cfg.Refdata.Source)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AQ_SERVER_PORT", "7001")
	t.Setenv("AQ_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad port",
			content: "server:\n  port: -1\n",
			wantErr: "invalid server port",
		},
		{
			name:    "bad refdata source",
			content: "refdata:\n  source: carrier-pigeon\n",
			wantErr: "invalid refdata source",
		},
		{
			name:    "postgres without url",
			content: "refdata:\n  source: postgres\n",
			wantErr: "postgres_url is empty",
		},
		{
			name:    "non-positive horizon",
			content: "forecast:\n  max_horizon_years: 0\n",
			wantErr: "max_horizon_years must be positive",
		},
		{
			name:    "negative floor",
			content: "forecast:\n  floor_pm25: -1\n",
			wantErr: "floor_pm25 must not be negative",
		},
		{
			name:    "reference year out of range",
			content: "analysis:\n  current_year: 1850\n",
			wantErr: "current_year out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
