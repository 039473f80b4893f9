// internal/common/config/config.go
package config

import "time"

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Refdata  RefdataConfig  `mapstructure:"refdata"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RefdataConfig locates the reference datasets. Source selects between
// the bundled JSON files and a Postgres mirror.
type RefdataConfig struct {
	Source          string `mapstructure:"source"` // "file" or "postgres"
	HistoryPath     string `mapstructure:"history_path"`
	BaselinePath    string `mapstructure:"baseline_path"`
	AgeDetailPath   string `mapstructure:"age_detail_path"`
	ModelPath       string `mapstructure:"model_path"`
	SchemaDir       string `mapstructure:"schema_dir"`
	PostgresURL     string `mapstructure:"postgres_url"`
	ValidateOnStart bool   `mapstructure:"validate_on_start"`
}

// RedisConfig configures the optional forecast cache.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ForecastConfig bounds the prediction engine.
type ForecastConfig struct {
	MaxHorizonYears int     `mapstructure:"max_horizon_years"`
	FloorPM25       float64 `mapstructure:"floor_pm25"`
}

// AnalysisConfig pins the reference year used to resolve relative
// phrases like "next year". Zero means the calendar year at startup.
type AnalysisConfig struct {
	CurrentYear int `mapstructure:"current_year"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
