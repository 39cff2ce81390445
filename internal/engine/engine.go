package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/metrics"
	"github.com/yourusername/draw-edge/internal/models"
)

// Options configure a single evaluation pass
type Options struct {
	MinEVThreshold  float64
	TopK            int
	KellyFraction   float64
	KellyCap        float64
	DefaultDrawRate float64
}

// DefaultOptions returns the engine defaults
func DefaultOptions() Options {
	return Options{
		MinEVThreshold:  0.05,
		TopK:            15,
		KellyFraction:   0.25,
		KellyCap:        0.05,
		DefaultDrawRate: 0.27,
	}
}

// RunResult is the outcome of a completed evaluation. A non-nil result
// with zero Picks means the run finished and nothing qualified, which
// callers must render differently from "analysis has not run yet"
// (a nil *RunResult).
type RunResult struct {
	RunDate     time.Time            `json:"run_date"`
	CompletedAt time.Time            `json:"completed_at"`
	Evaluated   int                  `json:"evaluated"`
	Invalid     int                  `json:"invalid"`
	Fallbacks   int                  `json:"fallbacks"`
	Picks       []*models.Prediction `json:"picks"`
}

// Engine scores candidate batches. It holds no mutable state between
// calls and is safe for concurrent use from overlapping triggers.
type Engine struct {
	estimator Estimator
	leagues   models.LeagueIndex
	opts      Options
	logger    *logrus.Logger
}

// New creates an Engine with the given estimator and league context
func New(estimator Estimator, leagues models.LeagueIndex, opts Options, logger *logrus.Logger) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = 15
	}
	return &Engine{
		estimator: estimator,
		leagues:   leagues,
		opts:      opts,
		logger:    logger,
	}
}

// Evaluate scores a candidate batch: validate, estimate, compute EV,
// rank/filter, then size stakes for the survivors. Invalid candidates
// are dropped with a warning; a single bad candidate never fails the
// batch. An empty candidate list yields an empty (non-nil) result.
func (e *Engine) Evaluate(candidates []*models.MatchCandidate, runDate time.Time) *RunResult {
	result := &RunResult{
		RunDate: runDate,
		Picks:   []*models.Prediction{},
	}

	scored := make([]*models.Prediction, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			result.Invalid++
			metrics.CandidatesInvalidTotal.Inc()
			if e.logger != nil {
				e.logger.WithError(err).WithField("match_id", c.MatchID).Warn("Dropping invalid candidate")
			}
			continue
		}

		leagueRate, known := e.leagues.DrawRate(c.LeagueID)
		if !known {
			leagueRate = -1
		}

		est := e.estimator.Estimate(c, leagueRate)
		if est.Fallback {
			result.Fallbacks++
		}
		if est.Probability <= 0 || est.Probability >= 1 {
			result.Invalid++
			if e.logger != nil {
				e.logger.WithFields(logrus.Fields{
					"match_id":    c.MatchID,
					"probability": est.Probability,
				}).Warn("Estimator returned out-of-range probability, dropping candidate")
			}
			continue
		}

		result.Evaluated++
		metrics.CandidatesScoredTotal.Inc()

		scored = append(scored, &models.Prediction{
			ID:            uuid.New(),
			MatchID:       c.MatchID,
			RunDate:       runDate,
			LeagueID:      c.LeagueID,
			League:        c.League,
			KickoffTime:   c.KickoffTime,
			HomeTeam:      c.HomeTeam,
			AwayTeam:      c.AwayTeam,
			DrawOdds:      c.DrawOdds,
			Probability:   est.Probability,
			ExpectedValue: ComputeEV(est.Probability, c.DrawOdds),
			Reasons:       est.ReasonString(),
			Liquidity:     c.Liquidity,
			Outcome:       models.OutcomePending,
		})
	}

	result.Picks = Rank(scored, RankOptions{
		MinEVThreshold: e.opts.MinEVThreshold,
		TopK:           e.opts.TopK,
	})

	for _, p := range result.Picks {
		p.KellyStake = KellyStake(p.Probability, p.DrawOdds, e.opts.KellyFraction, e.opts.KellyCap)
	}

	result.CompletedAt = time.Now().UTC()
	metrics.QualifyingPicks.Set(float64(len(result.Picks)))
	return result
}
