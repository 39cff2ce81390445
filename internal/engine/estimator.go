// Package engine implements the prediction and staking core: draw
// probability estimation, expected-value scoring, ranking/filtering and
// Kelly stake sizing.
package engine

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/metrics"
	"github.com/yourusername/draw-edge/internal/models"
)

// Estimator produces a draw probability for a candidate given the
// league's historical draw rate. Implementations must return a value in
// the open interval (0,1) and must not fail the batch: malformed input
// falls back to a default rate.
type Estimator interface {
	Estimate(candidate *models.MatchCandidate, leagueDrawRate float64) Estimate
}

// Estimate is the result of a single probability estimation
type Estimate struct {
	Probability float64
	Reasons     []string
	Fallback    bool
}

// BaselineEstimator blends the league base rate with odds-band,
// liquidity and pattern signals. It is the default Estimator; any
// model-backed strategy can replace it behind the same interface.
type BaselineEstimator struct {
	DefaultDrawRate float64
	PatternBoost    float64
	MaxProbability  float64
	leagues         models.LeagueIndex
	logger          *logrus.Logger
}

// NewBaselineEstimator creates the default heuristic estimator
func NewBaselineEstimator(defaultDrawRate, patternBoost float64, leagues models.LeagueIndex, logger *logrus.Logger) *BaselineEstimator {
	if defaultDrawRate <= 0 || defaultDrawRate >= 1 {
		defaultDrawRate = 0.27
	}
	return &BaselineEstimator{
		DefaultDrawRate: defaultDrawRate,
		PatternBoost:    patternBoost,
		MaxProbability:  0.45,
		leagues:         leagues,
		logger:          logger,
	}
}

// Estimate implements Estimator. The league rate must be in [0,1]; an
// out-of-range or missing rate triggers the global default, which is
// counted for diagnostics rather than treated as an error.
func (e *BaselineEstimator) Estimate(candidate *models.MatchCandidate, leagueDrawRate float64) Estimate {
	est := Estimate{}

	base := leagueDrawRate
	if base <= 0 || base > 1 {
		base = e.DefaultDrawRate
		est.Fallback = true
		metrics.EstimationFallbacksTotal.Inc()
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{
				"match_id": candidate.MatchID,
				"league":   candidate.League,
			}).Debug("No league draw rate, using default")
		}
	}

	prob := base + e.PatternBoost

	if e.leagues.IsDrawProne(candidate.LeagueID) {
		prob += 0.08
		est.Reasons = append(est.Reasons, "HIGH DRAW LEAGUE")
	}

	switch {
	case candidate.DrawOdds < 3.60:
		prob += 0.06
		est.Reasons = append(est.Reasons, "LOW ODDS")
	case candidate.DrawOdds < 3.80:
		prob += 0.04
	}

	if candidate.Liquidity > 1_000_000 {
		prob += 0.03
		est.Reasons = append(est.Reasons, "LIQUID MARKET")
	}

	est.Reasons = append(est.Reasons, "BASE MODEL")
	est.Probability = clampProbability(prob, e.MaxProbability)
	return est
}

// ReasonString joins the estimate's reasoning for persistence
func (e Estimate) ReasonString() string {
	return strings.Join(e.Reasons, ", ")
}

// clampProbability keeps the estimate inside the open interval (0,1),
// bounded above by maxProb. A probability of exactly 0 or 1 is an
// estimator error per the engine contract.
func clampProbability(p, maxProb float64) float64 {
	if maxProb <= 0 || maxProb >= 1 {
		maxProb = 0.45
	}
	if p > maxProb {
		return maxProb
	}
	if p < 0.05 {
		return 0.05
	}
	return p
}
