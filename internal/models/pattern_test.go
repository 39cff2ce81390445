package models

import (
	"math"
	"testing"
)

func TestCombineBoostWeightedAverage(t *testing.T) {
	patterns := []DrawPattern{
		{Boost: 0.10, Weight: 3, Source: PatternSourceRecentDraws},
		{Boost: 0.05, Weight: 2, Source: PatternSourceLearned},
		{Boost: 0.02, Weight: 1, Source: PatternSourceStatic},
	}

	// (0.10*3 + 0.05*2 + 0.02*1) / 6 = 0.07
	got := CombineBoost(patterns)
	if math.Abs(got-0.07) > 1e-9 {
		t.Errorf("CombineBoost = %v, want 0.07", got)
	}
}

func TestCombineBoostEmpty(t *testing.T) {
	if got := CombineBoost(nil); got != 0 {
		t.Errorf("CombineBoost(nil) = %v, want 0", got)
	}
}

func TestCombineBoostIgnoresZeroWeight(t *testing.T) {
	patterns := []DrawPattern{
		{Boost: 0.50, Weight: 0},
		{Boost: 0.10, Weight: 2},
	}
	if got := CombineBoost(patterns); got != 0.10 {
		t.Errorf("CombineBoost = %v, want 0.10", got)
	}
}

func TestCombineBoostNegativePenalty(t *testing.T) {
	patterns := []DrawPattern{
		{Boost: -0.10, Weight: 2},
		{Boost: 0.10, Weight: 2},
	}
	if got := CombineBoost(patterns); got != 0 {
		t.Errorf("CombineBoost = %v, want 0", got)
	}
}
