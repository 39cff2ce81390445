package models

import (
	"errors"
	"testing"
)

func TestApplyOutcomeTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current Outcome
		apply   Outcome
		wantErr error
		want    Outcome
	}{
		{"pending to win", OutcomePending, OutcomeWin, nil, OutcomeWin},
		{"pending to loss", OutcomePending, OutcomeLoss, nil, OutcomeLoss},
		{"empty treated as pending", "", OutcomeWin, nil, OutcomeWin},
		{"same result is a no-op", OutcomeWin, OutcomeWin, nil, OutcomeWin},
		{"conflicting result rejected", OutcomeWin, OutcomeLoss, ErrOutcomeConflict, OutcomeWin},
		{"conflicting result rejected reversed", OutcomeLoss, OutcomeWin, ErrOutcomeConflict, OutcomeLoss},
		{"pending is not recordable", OutcomePending, OutcomePending, ErrInvalidOutcome, OutcomePending},
		{"garbage result rejected", OutcomePending, Outcome("void"), ErrInvalidOutcome, OutcomePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Prediction{Outcome: tt.current}
			err := p.ApplyOutcome(tt.apply)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ApplyOutcome(%q) error = %v, want %v", tt.apply, err, tt.wantErr)
			}
			if p.Outcome != tt.want {
				t.Errorf("outcome after apply = %q, want %q", p.Outcome, tt.want)
			}
		})
	}
}

func TestApplyOutcomeIdempotent(t *testing.T) {
	p := &Prediction{Outcome: OutcomePending}

	if err := p.ApplyOutcome(OutcomeWin); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if err := p.ApplyOutcome(OutcomeWin); err != nil {
		t.Fatalf("re-recording the same result must be a no-op, got %v", err)
	}
	if p.Outcome != OutcomeWin {
		t.Errorf("outcome changed on re-record: %q", p.Outcome)
	}
}

func TestIsSettled(t *testing.T) {
	if (&Prediction{Outcome: OutcomePending}).IsSettled() {
		t.Error("pending must not be settled")
	}
	if !(&Prediction{Outcome: OutcomeWin}).IsSettled() {
		t.Error("win must be settled")
	}
	if !(&Prediction{Outcome: OutcomeLoss}).IsSettled() {
		t.Error("loss must be settled")
	}
}

func TestStakeAmount(t *testing.T) {
	p := &Prediction{KellyStake: 0.02}

	if got := p.StakeAmount(1000); got != 20 {
		t.Errorf("StakeAmount(1000) = %v, want 20", got)
	}
	if got := p.StakeAmount(0); got != 0 {
		t.Errorf("StakeAmount(0) = %v, want 0", got)
	}
	if got := p.StakeAmount(-100); got != 0 {
		t.Errorf("StakeAmount(-100) = %v, want 0", got)
	}
}
