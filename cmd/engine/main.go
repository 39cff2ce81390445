// Package main provides the entry point for the prediction engine daemon.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/config"
	"github.com/yourusername/draw-edge/internal/dashboard"
	"github.com/yourusername/draw-edge/internal/database"
	"github.com/yourusername/draw-edge/internal/datasource"
	"github.com/yourusername/draw-edge/internal/health"
	"github.com/yourusername/draw-edge/internal/logger"
	"github.com/yourusername/draw-edge/internal/metrics"
	"github.com/yourusername/draw-edge/internal/repository"
	"github.com/yourusername/draw-edge/internal/scheduler"
	"github.com/yourusername/draw-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	cfg, err := config.LoadWithDefaults(os.Getenv("DRAW_EDGE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Draw Edge engine starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	db, err := database.Initialize(initCtx, cfg)
	initCancel()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:      cfg.FixtureTimeout(),
		MaxRetries:   3,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RateLimit:    cfg.Fixtures.RateLimit,
	}, appLog)
	source := datasource.NewAPIFootballSource(&cfg.Fixtures, httpClient, appLog)

	analyzer := service.NewPatternAnalyzer(source, repos.Prediction, repos.Pattern, cfg.Scheduler.PatternLookbackDays, appLog)
	analysis := service.NewAnalysisService(cfg, source, analyzer, repos, appLog)

	sched := scheduler.New(analysis, appLog)
	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleAnalysis(cfg.Scheduler.IntervalHours); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule analysis")
		}
		if err := sched.Start(cfg.Scheduler.RunOnStartup); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	} else {
		appLog.Info("Scheduler disabled; analysis runs only via manual trigger")
	}

	dash := dashboard.NewServer(analysis, cfg.Dashboard.Port, cfg.Engine.ReferenceBankroll, appLog)
	if err := dash.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start dashboard server")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        os.Getenv("HEALTH_PORT"),
		Logger:      appLog,
		DB:          db,
		Scheduler:   sched,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    ":" + strconv.Itoa(cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	appLog.WithFields(logrus.Fields{
		"scheduler_enabled": cfg.Scheduler.Enabled,
		"interval_hours":    cfg.Scheduler.IntervalHours,
		"dashboard_port":    cfg.Dashboard.Port,
		"leagues":           len(cfg.Fixtures.LeagueIDs),
	}).Info("Draw Edge engine running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		metricsServer.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	// Dashboard and health servers shut down via context cancellation
	time.Sleep(2 * time.Second)

	appLog.Info("Draw Edge engine shut down successfully")
}
