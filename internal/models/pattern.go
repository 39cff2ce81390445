package models

import (
	"time"

	"github.com/google/uuid"
)

// PatternSource identifies where a draw pattern was derived from
type PatternSource string

const (
	PatternSourceRecentDraws PatternSource = "recent_draws"
	PatternSourceLearned     PatternSource = "learned_results"
	PatternSourceStatic      PatternSource = "static_research"
)

// DrawPattern represents a discovered or researched draw tendency that
// contributes a probability boost to the estimator. Patterns from
// different sources are combined as a weighted average.
type DrawPattern struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	AnalysisDate time.Time     `db:"analysis_date" json:"analysis_date"`
	Type         string        `db:"pattern_type" json:"type" validate:"required"`
	Frequency    int           `db:"frequency" json:"frequency"`
	DrawRate     float64       `db:"draw_rate" json:"draw_rate"`
	Examples     string        `db:"examples" json:"examples"`
	Boost        float64       `db:"boost" json:"boost"`
	Source       PatternSource `db:"source" json:"source" validate:"required"`
	Weight       float64       `db:"weight" json:"weight" validate:"gt=0"`
}

// CombineBoost computes the weighted-average boost across pattern
// sources. Returns 0 when no patterns contribute.
func CombineBoost(patterns []DrawPattern) float64 {
	totalWeight := 0.0
	weighted := 0.0
	for _, p := range patterns {
		if p.Weight <= 0 {
			continue
		}
		totalWeight += p.Weight
		weighted += p.Boost * p.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}
