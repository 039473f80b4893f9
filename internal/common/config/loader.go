// internal/common/config/loader.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from the given file (optional), then
// environment variables prefixed with AQ_, then defaults.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("refdata.source", "file")
	v.SetDefault("refdata.history_path", "data/pm25_history.json")
	v.SetDefault("refdata.baseline_path", "data/disease_baseline.json")
	v.SetDefault("refdata.age_detail_path", "")
	v.SetDefault("refdata.model_path", "data/model/pm25_linear_v1.json")
	v.SetDefault("refdata.schema_dir", "data/schema")
	v.SetDefault("refdata.validate_on_start", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Hour)

	v.SetDefault("forecast.max_horizon_years", 30)
	v.SetDefault("forecast.floor_pm25", 5.0)

	v.SetDefault("analysis.current_year", 0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	switch cfg.Refdata.Source {
	case "file", "postgres":
	default:
		return fmt.Errorf("invalid refdata source: %q", cfg.Refdata.Source)
	}
	if cfg.Refdata.Source == "postgres" && cfg.Refdata.PostgresURL == "" {
		return fmt.Errorf("refdata source is postgres but postgres_url is empty")
	}
	if cfg.Refdata.Source == "file" && cfg.Refdata.HistoryPath == "" {
		return fmt.Errorf("refdata history_path is required")
	}
	if cfg.Forecast.MaxHorizonYears <= 0 {
		return fmt.Errorf("forecast max_horizon_years must be positive")
	}
	if cfg.Forecast.FloorPM25 < 0 {
		return fmt.Errorf("forecast floor_pm25 must not be negative")
	}
	if cfg.Analysis.CurrentYear != 0 && (cfg.Analysis.CurrentYear < 1990 || cfg.Analysis.CurrentYear > 2100) {
		return fmt.Errorf("analysis current_year out of range: %d", cfg.Analysis.CurrentYear)
	}
	return nil
}
