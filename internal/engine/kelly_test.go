package engine

import (
	"math"
	"testing"
)

func TestKellyStake(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		odds        float64
		multiplier  float64
		cap         float64
		want        float64
	}{
		{
			// f* = (0.32*3.8 - 1) / 2.8 = 0.0771..., quartered
			name:        "typical draw pick",
			probability: 0.32,
			odds:        3.8,
			multiplier:  0.25,
			cap:         0.05,
			want:        0.019285714,
		},
		{
			name:        "capped at maximum",
			probability: 0.45,
			odds:        3.8,
			multiplier:  0.25,
			cap:         0.05,
			want:        0.05,
		},
		{
			name:        "no edge yields zero",
			probability: 0.25,
			odds:        3.8,
			multiplier:  0.25,
			cap:         0.05,
			want:        0,
		},
		{
			name:        "exact break even yields zero",
			probability: 0.25,
			odds:        4.0,
			multiplier:  0.25,
			cap:         0.05,
			want:        0,
		},
		{
			name:        "odds at 1.0 yields zero",
			probability: 0.9,
			odds:        1.0,
			multiplier:  0.25,
			cap:         0.05,
			want:        0,
		},
		{
			name:        "odds below 1.0 yields zero",
			probability: 0.9,
			odds:        0.5,
			multiplier:  0.25,
			cap:         0.05,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KellyStake(tt.probability, tt.odds, tt.multiplier, tt.cap)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("KellyStake(%v, %v, %v, %v) = %v, want %v",
					tt.probability, tt.odds, tt.multiplier, tt.cap, got, tt.want)
			}
		})
	}
}

func TestKellyStakeNeverNegative(t *testing.T) {
	for p := 0.05; p <= 0.45; p += 0.05 {
		for odds := 1.5; odds <= 5.0; odds += 0.5 {
			if stake := KellyStake(p, odds, 0.25, 0.05); stake < 0 {
				t.Fatalf("negative stake for p=%v odds=%v", p, odds)
			}
		}
	}
}
