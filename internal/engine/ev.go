package engine

import (
	"sort"

	"github.com/yourusername/draw-edge/internal/models"
)

// ComputeEV calculates the expected value of a draw bet at the quoted
// odds: probability*odds - 1. No rounding is applied here; rounding is
// a presentation concern.
func ComputeEV(probability, odds float64) float64 {
	return probability*odds - 1.0
}

// RankOptions control filtering and truncation of scored candidates
type RankOptions struct {
	MinEVThreshold float64
	TopK           int
}

// Rank orders predictions by expected value descending, breaking ties by
// earlier kickoff and then by match ID so the ordering is deterministic.
// Predictions with EV <= MinEVThreshold are discarded, and the result is
// truncated to at most TopK entries. Fewer survivors than TopK are
// returned as-is, never padded.
func Rank(predictions []*models.Prediction, opts RankOptions) []*models.Prediction {
	ranked := make([]*models.Prediction, 0, len(predictions))
	for _, p := range predictions {
		if p == nil || p.ExpectedValue <= opts.MinEVThreshold {
			continue
		}
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ExpectedValue != ranked[j].ExpectedValue {
			return ranked[i].ExpectedValue > ranked[j].ExpectedValue
		}
		if !ranked[i].KickoffTime.Equal(ranked[j].KickoffTime) {
			return ranked[i].KickoffTime.Before(ranked[j].KickoffTime)
		}
		return ranked[i].MatchID < ranked[j].MatchID
	})

	if opts.TopK > 0 && len(ranked) > opts.TopK {
		ranked = ranked[:opts.TopK]
	}
	return ranked
}
