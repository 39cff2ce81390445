package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "secret-from-env")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "draw-edge" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.Database.Password != "secret-from-env" {
		t.Errorf("env placeholder not expanded, got %q", cfg.Database.Password)
	}
	if cfg.Engine.TopK != 15 {
		t.Errorf("top_k = %d, want 15", cfg.Engine.TopK)
	}
	if cfg.Engine.MinEVThreshold != 0.05 {
		t.Errorf("min_ev_threshold = %v, want 0.05", cfg.Engine.MinEVThreshold)
	}
	if len(cfg.Fixtures.LeagueIDs) != 2 {
		t.Errorf("league_ids = %v", cfg.Fixtures.LeagueIDs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/does_not_exist.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/does_not_exist.yaml")
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Engine.TopK != 15 {
		t.Errorf("default top_k = %d, want 15", cfg.Engine.TopK)
	}
	if cfg.Engine.KellyFraction != 0.25 {
		t.Errorf("default kelly_fraction = %v, want 0.25", cfg.Engine.KellyFraction)
	}
	if cfg.Engine.KellyCap != 0.05 {
		t.Errorf("default kelly_cap = %v, want 0.05", cfg.Engine.KellyCap)
	}
	if cfg.Scheduler.IntervalHours != 4 {
		t.Errorf("default interval_hours = %d, want 4", cfg.Scheduler.IntervalHours)
	}
	if cfg.Engine.BacktestWindowDays != 30 {
		t.Errorf("default backtest_window_days = %d, want 30", cfg.Engine.BacktestWindowDays)
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "secret")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate rejected a valid config: %v", err)
	}
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "secret")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.App.Environment = "prod-ish"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for unknown environment")
	}
}

func TestValidateRejectsPortClash(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "secret")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Metrics.Port = cfg.Dashboard.Port
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for metrics/dashboard port clash")
	}
}

func TestValidateRejectsAbsurdThreshold(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "secret")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Engine.MinEVThreshold = 1.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for min_ev_threshold >= 1")
	}
}

func TestDerivedAccessors(t *testing.T) {
	cfg := &Config{}
	cfg.Scheduler.IntervalHours = 4
	cfg.Fixtures.TimeoutSeconds = 20

	if cfg.AnalysisInterval() != 4*time.Hour {
		t.Errorf("AnalysisInterval = %v", cfg.AnalysisInterval())
	}
	if cfg.FixtureTimeout() != 20*time.Second {
		t.Errorf("FixtureTimeout = %v", cfg.FixtureTimeout())
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "draw_edge",
			User:     "app",
			Password: "pw",
			SSLMode:  "disable",
		},
	}

	want := "postgres://app:pw@localhost:5432/draw_edge?sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN = %q, want %q", got, want)
	}
}
