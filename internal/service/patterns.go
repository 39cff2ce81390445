package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/datasource"
	"github.com/yourusername/draw-edge/internal/metrics"
	"github.com/yourusername/draw-edge/internal/models"
	"github.com/yourusername/draw-edge/internal/repository"
)

// staticPatterns are research-derived draw tendencies that hold
// independently of recent results. They anchor the boost when the
// learned sources have no data yet.
var staticPatterns = []models.DrawPattern{
	{
		Type:      "low_scoring_league_pairs",
		Frequency: 31,
		DrawRate:  0.31,
		Examples:  "Ligue 2, Serie B mid-table pairings",
		Boost:     0.03,
		Source:    models.PatternSourceStatic,
		Weight:    1,
	},
	{
		Type:      "late_season_stalemates",
		Frequency: 24,
		DrawRate:  0.29,
		Examples:  "teams safe from relegation with nothing to play for",
		Boost:     0.02,
		Source:    models.PatternSourceStatic,
		Weight:    1,
	},
}

// PatternAnalyzer derives draw patterns from recent results and the
// engine's own settled predictions, persisting each day's pattern set so
// the applied boost is reproducible after a restart.
type PatternAnalyzer struct {
	source       datasource.FixtureSource
	predictions  repository.PredictionRepository
	patterns     repository.PatternRepository
	lookbackDays int
	logger       *logrus.Logger
}

// NewPatternAnalyzer creates a pattern analyzer
func NewPatternAnalyzer(
	source datasource.FixtureSource,
	predictions repository.PredictionRepository,
	patterns repository.PatternRepository,
	lookbackDays int,
	logger *logrus.Logger,
) *PatternAnalyzer {
	if lookbackDays <= 0 {
		lookbackDays = 14
	}
	return &PatternAnalyzer{
		source:       source,
		predictions:  predictions,
		patterns:     patterns,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// Analyze rebuilds the pattern set for the analysis date and returns the
// combined boost. Source failures degrade to the patterns that could be
// built; only persistence failures are returned as errors.
func (a *PatternAnalyzer) Analyze(ctx context.Context, analysisDate time.Time) (float64, error) {
	patterns := []models.DrawPattern{}

	if recent, err := a.recentDrawsPattern(ctx, analysisDate); err != nil {
		a.logger.WithError(err).Warn("Recent draws pattern unavailable")
	} else if recent != nil {
		patterns = append(patterns, *recent)
	}

	if learned, err := a.learnedPattern(ctx, analysisDate); err != nil {
		a.logger.WithError(err).Warn("Learned results pattern unavailable")
	} else if learned != nil {
		patterns = append(patterns, *learned)
	}

	patterns = append(patterns, a.staticPattern(analysisDate)...)

	if err := a.patterns.ReplaceForDate(ctx, analysisDate, patterns); err != nil {
		return 0, fmt.Errorf("failed to persist patterns: %w", err)
	}

	boost := models.CombineBoost(patterns)
	metrics.PatternBoost.Set(boost)

	a.logger.WithFields(logrus.Fields{
		"patterns": len(patterns),
		"boost":    boost,
	}).Info("Pattern analysis complete")

	return boost, nil
}

// LatestBoost returns the combined boost of the most recently stored
// pattern set, or 0 when none has been built yet.
func (a *PatternAnalyzer) LatestBoost(ctx context.Context) (float64, error) {
	patterns, err := a.patterns.GetLatest(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load patterns: %w", err)
	}
	return models.CombineBoost(patterns), nil
}

// recentDrawsPattern measures draw frequency in the trailing lookback
// window across the configured leagues.
func (a *PatternAnalyzer) recentDrawsPattern(ctx context.Context, analysisDate time.Time) (*models.DrawPattern, error) {
	start := analysisDate.AddDate(0, 0, -a.lookbackDays)
	draws, err := a.source.FetchFinishedDraws(ctx, start, analysisDate)
	if err != nil {
		return nil, err
	}
	if len(draws) == 0 {
		return nil, nil
	}

	boost := float64(len(draws)) * 0.02
	if boost > 0.15 {
		boost = 0.15
	}

	examples := make([]string, 0, 3)
	for i, d := range draws {
		if i >= 3 {
			break
		}
		examples = append(examples, fmt.Sprintf("%s v %s %s", d.HomeTeam, d.AwayTeam, d.Score()))
	}

	return &models.DrawPattern{
		AnalysisDate: analysisDate,
		Type:         "recent_draw_cluster",
		Frequency:    len(draws),
		Examples:     strings.Join(examples, "; "),
		Boost:        boost,
		Source:       models.PatternSourceRecentDraws,
		Weight:       3,
	}, nil
}

// learnedPattern feeds the engine's own settled results back in: hits
// push the boost up, misses pull it down, both capped so one hot or cold
// streak cannot dominate the base rate.
func (a *PatternAnalyzer) learnedPattern(ctx context.Context, analysisDate time.Time) (*models.DrawPattern, error) {
	start := analysisDate.AddDate(0, 0, -a.lookbackDays)
	predictions, err := a.predictions.GetByDateRange(ctx, start, analysisDate)
	if err != nil {
		return nil, err
	}

	hits, misses := 0, 0
	for _, p := range predictions {
		switch p.Outcome {
		case models.OutcomeWin:
			hits++
		case models.OutcomeLoss:
			misses++
		}
	}
	if hits+misses == 0 {
		return nil, nil
	}

	boost := float64(hits) * 0.03
	if boost > 0.20 {
		boost = 0.20
	}
	penalty := float64(misses) * 0.02
	if penalty > 0.10 {
		penalty = 0.10
	}

	settled := hits + misses
	return &models.DrawPattern{
		AnalysisDate: analysisDate,
		Type:         "learned_hit_rate",
		Frequency:    settled,
		DrawRate:     float64(hits) / float64(settled),
		Examples:     fmt.Sprintf("%d hits, %d misses in %d days", hits, misses, a.lookbackDays),
		Boost:        boost - penalty,
		Source:       models.PatternSourceLearned,
		Weight:       2,
	}, nil
}

func (a *PatternAnalyzer) staticPattern(analysisDate time.Time) []models.DrawPattern {
	out := make([]models.DrawPattern, len(staticPatterns))
	copy(out, staticPatterns)
	for i := range out {
		out[i].AnalysisDate = analysisDate
	}
	return out
}
