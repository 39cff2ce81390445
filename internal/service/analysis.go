// Package service orchestrates the analysis pipeline: pattern analysis,
// fixture ingestion, engine evaluation and persistence. Services own no
// scoring logic themselves.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/backtest"
	"github.com/yourusername/draw-edge/internal/config"
	"github.com/yourusername/draw-edge/internal/datasource"
	"github.com/yourusername/draw-edge/internal/engine"
	"github.com/yourusername/draw-edge/internal/metrics"
	"github.com/yourusername/draw-edge/internal/models"
	"github.com/yourusername/draw-edge/internal/repository"
)

// Trigger labels for analysis runs
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerStartup   = "startup"
)

// AnalysisService runs the full prediction pipeline and exposes its
// results to the dashboard and CLIs.
type AnalysisService struct {
	cfg      *config.Config
	source   datasource.FixtureSource
	analyzer *PatternAnalyzer
	repos    *repository.Repositories
	leagues  models.LeagueIndex
	logger   *logrus.Logger

	mu         sync.RWMutex
	lastResult *engine.RunResult
}

// NewAnalysisService creates the analysis orchestrator
func NewAnalysisService(
	cfg *config.Config,
	source datasource.FixtureSource,
	analyzer *PatternAnalyzer,
	repos *repository.Repositories,
	logger *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		cfg:      cfg,
		source:   source,
		analyzer: analyzer,
		repos:    repos,
		leagues:  models.NewLeagueIndex(models.DefaultLeagues),
		logger:   logger,
	}
}

// Run executes one full analysis pass for today's fixtures: rebuild
// patterns, fetch candidates, score them, persist the qualifying picks.
// Pattern failures degrade to a zero boost; fixture or persistence
// failures abort the run.
func (s *AnalysisService) Run(ctx context.Context, trigger string) (*engine.RunResult, error) {
	start := time.Now()
	runDate := start.UTC().Truncate(24 * time.Hour)

	s.logger.WithFields(logrus.Fields{
		"trigger":  trigger,
		"run_date": runDate.Format("2006-01-02"),
	}).Info("Starting analysis run")

	boost, err := s.analyzer.Analyze(ctx, runDate)
	if err != nil {
		s.logger.WithError(err).Warn("Pattern analysis failed, continuing without boost")
		boost = 0
	}

	candidates, err := s.source.FetchCandidates(ctx, runDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	estimator := engine.NewBaselineEstimator(s.cfg.Engine.DefaultDrawRate, boost, s.leagues, s.logger)
	eng := engine.New(estimator, s.leagues, engine.Options{
		MinEVThreshold:  s.cfg.Engine.MinEVThreshold,
		TopK:            s.cfg.Engine.TopK,
		KellyFraction:   s.cfg.Engine.KellyFraction,
		KellyCap:        s.cfg.Engine.KellyCap,
		DefaultDrawRate: s.cfg.Engine.DefaultDrawRate,
	}, s.logger)

	result := eng.Evaluate(candidates, runDate)

	if len(result.Picks) > 0 {
		if err := s.repos.Prediction.UpsertBatch(ctx, result.Picks); err != nil {
			return nil, fmt.Errorf("failed to persist picks: %w", err)
		}
		metrics.PredictionsUpsertedTotal.Add(float64(len(result.Picks)))
	}

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()

	metrics.RecordAnalysisRun(trigger, time.Since(start).Seconds())

	s.logger.WithFields(logrus.Fields{
		"trigger":   trigger,
		"evaluated": result.Evaluated,
		"invalid":   result.Invalid,
		"picks":     len(result.Picks),
		"duration":  time.Since(start).String(),
	}).Info("Analysis run complete")

	return result, nil
}

// LatestResult returns the most recent in-process run result, or nil
// when no run has completed since startup. Callers must render the
// nil case as "not run yet", not as an empty pick list.
func (s *AnalysisService) LatestResult() *engine.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}

// RecordOutcome records a win or loss for a predicted match
func (s *AnalysisService) RecordOutcome(ctx context.Context, matchID string, result models.Outcome) error {
	if !result.Valid() {
		return models.ErrInvalidOutcome
	}

	err := s.repos.Prediction.UpdateOutcome(ctx, matchID, result)
	switch {
	case err == nil:
		metrics.RecordOutcome(string(result))
		s.logger.WithFields(logrus.Fields{
			"match_id": matchID,
			"result":   result,
		}).Info("Outcome recorded")
		return nil
	case errors.Is(err, models.ErrOutcomeConflict):
		metrics.OutcomeConflictsTotal.Inc()
		return err
	default:
		return err
	}
}

// RollingStats computes performance over the configured trailing window
// and refreshes the corresponding gauges.
func (s *AnalysisService) RollingStats(ctx context.Context) (backtest.RollingStats, error) {
	now := time.Now().UTC()
	windowDays := s.cfg.Engine.BacktestWindowDays
	from := now.AddDate(0, 0, -windowDays)

	predictions, err := s.repos.Prediction.GetByDateRange(ctx, from, now)
	if err != nil {
		return backtest.RollingStats{}, fmt.Errorf("failed to load predictions: %w", err)
	}

	stats := backtest.Compute(predictions, windowDays, now)

	metrics.RollingSettledCount.Set(float64(stats.Count))
	if stats.HitRate != nil {
		metrics.RollingHitRate.Set(*stats.HitRate)
	}

	return stats, nil
}

// PicksForDate returns the persisted qualifying picks for a run date
func (s *AnalysisService) PicksForDate(ctx context.Context, runDate time.Time) ([]*models.Prediction, error) {
	return s.repos.Prediction.GetByRunDate(ctx, runDate.UTC().Truncate(24*time.Hour))
}
