package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/yourusername/draw-edge/internal/models"
)

func settled(kickoff time.Time, outcome models.Outcome, ev float64) *models.Prediction {
	return &models.Prediction{
		MatchID:       "m",
		KickoffTime:   kickoff,
		ExpectedValue: ev,
		Outcome:       outcome,
	}
}

func TestComputeEmptyWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	stats := Compute(nil, 30, now)

	if stats.Count != 0 {
		t.Fatalf("expected zero count, got %d", stats.Count)
	}
	if stats.HitRate != nil {
		t.Error("hit rate must be nil with no settled predictions, not zero")
	}
	if stats.AvgEV != nil {
		t.Error("avg EV must be nil with no settled predictions")
	}
}

func TestComputeIgnoresPending(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	inWindow := now.AddDate(0, 0, -5)

	predictions := []*models.Prediction{
		settled(inWindow, models.OutcomePending, 0.10),
		settled(inWindow, models.OutcomeWin, 0.12),
	}

	stats := Compute(predictions, 30, now)
	if stats.Count != 1 {
		t.Fatalf("expected 1 settled prediction, got %d", stats.Count)
	}
	if stats.Wins != 1 {
		t.Errorf("expected 1 win, got %d", stats.Wins)
	}
}

func TestComputeWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	predictions := []*models.Prediction{
		settled(now.AddDate(0, 0, -31), models.OutcomeWin, 0.10),  // outside
		settled(now.AddDate(0, 0, -29), models.OutcomeLoss, 0.08), // inside
		settled(now.Add(time.Hour), models.OutcomeWin, 0.10),      // future kickoff, excluded
		nil,
	}

	stats := Compute(predictions, 30, now)
	if stats.Count != 1 {
		t.Fatalf("expected only the in-window prediction, got %d", stats.Count)
	}
	if stats.Losses != 1 {
		t.Errorf("expected 1 loss, got %d", stats.Losses)
	}
}

func TestComputeHitRateAndAvgEV(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	inWindow := now.AddDate(0, 0, -10)

	predictions := []*models.Prediction{
		settled(inWindow, models.OutcomeWin, 0.10),
		settled(inWindow, models.OutcomeWin, 0.20),
		settled(inWindow, models.OutcomeLoss, 0.06),
		settled(inWindow, models.OutcomeLoss, 0.08),
	}

	stats := Compute(predictions, 30, now)

	if stats.HitRate == nil {
		t.Fatal("expected a hit rate, got nil")
	}
	if *stats.HitRate != 0.5 {
		t.Fatalf("expected hit rate 0.5, got %v", *stats.HitRate)
	}
	if stats.AvgEV == nil {
		t.Fatal("expected an avg EV, got nil")
	}
	// (0.10+0.20+0.06+0.08)/4 accumulates float error, compare with tolerance
	if math.Abs(*stats.AvgEV-0.11) > 1e-9 {
		t.Fatalf("expected avg EV 0.11, got %v", *stats.AvgEV)
	}
}

func TestComputeDefaultsWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	stats := Compute(nil, 0, now)
	if stats.WindowDays != 30 {
		t.Errorf("expected default 30-day window, got %d", stats.WindowDays)
	}
}
