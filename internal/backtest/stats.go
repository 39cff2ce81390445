// Package backtest computes rolling performance statistics over
// recorded predictions. Stats are always recomputed from the prediction
// set rather than stored, so they can never drift from the source data.
package backtest

import (
	"encoding/json"
	"time"

	"github.com/yourusername/draw-edge/internal/models"
)

// RollingStats aggregates settled predictions inside a trailing window.
// HitRate and AvgEV are nil when no settled predictions fall in the
// window; reporting zero would misleadingly imply a measured 0% rate.
type RollingStats struct {
	WindowDays int       `json:"window_days"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Count      int       `json:"count"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	HitRate    *float64  `json:"hit_rate"`
	AvgEV      *float64  `json:"avg_ev"`
}

// Compute scans predictions and aggregates those with a non-pending
// outcome and a kickoff inside the trailing window ending at `now`.
func Compute(predictions []*models.Prediction, windowDays int, now time.Time) RollingStats {
	if windowDays <= 0 {
		windowDays = 30
	}
	from := now.AddDate(0, 0, -windowDays)

	stats := RollingStats{
		WindowDays: windowDays,
		From:       from,
		To:         now,
	}

	evSum := 0.0
	for _, p := range predictions {
		if p == nil || !p.IsSettled() {
			continue
		}
		if p.KickoffTime.Before(from) || p.KickoffTime.After(now) {
			continue
		}

		stats.Count++
		evSum += p.ExpectedValue
		if p.Outcome == models.OutcomeWin {
			stats.Wins++
		} else {
			stats.Losses++
		}
	}

	if stats.Count > 0 {
		hitRate := float64(stats.Wins) / float64(stats.Wins+stats.Losses)
		avgEV := evSum / float64(stats.Count)
		stats.HitRate = &hitRate
		stats.AvgEV = &avgEV
	}

	return stats
}

// ToJSON exports the stats for the dashboard
func (s RollingStats) ToJSON() string {
	data, _ := json.Marshal(s)
	return string(data)
}
