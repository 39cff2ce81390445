// Package config provides configuration management for the Draw Edge engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Fixtures  FixturesConfig  `mapstructure:"fixtures" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Dashboard DashboardConfig `mapstructure:"dashboard" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// FixturesConfig represents the fixture/odds source configuration
type FixturesConfig struct {
	APIURL          string  `mapstructure:"api_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
	LeagueIDs       []int   `mapstructure:"league_ids" validate:"required,min=1"`
	LeagueBatchSize int     `mapstructure:"league_batch_size" validate:"required,gt=0"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	OddsCacheTTL    int     `mapstructure:"odds_cache_ttl_seconds" validate:"required,gt=0"`
}

// EngineConfig represents the prediction and staking core configuration
type EngineConfig struct {
	MinEVThreshold     float64 `mapstructure:"min_ev_threshold" validate:"gte=0"`
	TopK               int     `mapstructure:"top_k" validate:"required,gt=0"`
	KellyFraction      float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	KellyCap           float64 `mapstructure:"kelly_cap" validate:"required,gt=0,lte=1"`
	DefaultDrawRate    float64 `mapstructure:"default_draw_rate" validate:"required,gt=0,lt=1"`
	BacktestWindowDays int     `mapstructure:"backtest_window_days" validate:"required,gt=0"`
	ReferenceBankroll  float64 `mapstructure:"reference_bankroll" validate:"required,gt=0"`
}

// SchedulerConfig represents the periodic analysis configuration.
// Enabled replaces the original in-process background toggle: the flag
// is explicit configuration passed into the scheduler, not module state.
type SchedulerConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	IntervalHours       int  `mapstructure:"interval_hours" validate:"required,gt=0"`
	RunOnStartup        bool `mapstructure:"run_on_startup"`
	PatternLookbackDays int  `mapstructure:"pattern_lookback_days" validate:"required,gt=0"`
}

// DashboardConfig represents the dashboard HTTP server configuration
type DashboardConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// AnalysisInterval returns the scheduler interval as a duration
func (c *Config) AnalysisInterval() time.Duration {
	return time.Duration(c.Scheduler.IntervalHours) * time.Hour
}

// FixtureTimeout returns the fixture source request timeout
func (c *Config) FixtureTimeout() time.Duration {
	return time.Duration(c.Fixtures.TimeoutSeconds) * time.Second
}
