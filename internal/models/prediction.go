package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome represents the recorded result of a predicted draw
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
)

// Valid reports whether o is a recordable result (win or loss)
func (o Outcome) Valid() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

// Prediction represents a scored draw candidate for a single analysis run.
// A prediction is immutable once persisted except for Outcome, which is
// written exactly once.
type Prediction struct {
	ID            uuid.UUID `db:"id" json:"id"`
	MatchID       string    `db:"match_id" json:"match_id" validate:"required"`
	RunDate       time.Time `db:"run_date" json:"run_date" validate:"required"`
	LeagueID      int       `db:"league_id" json:"league_id"`
	League        string    `db:"league" json:"league"`
	KickoffTime   time.Time `db:"kickoff" json:"kickoff_time" validate:"required"`
	HomeTeam      string    `db:"home_team" json:"home_team"`
	AwayTeam      string    `db:"away_team" json:"away_team"`
	DrawOdds      float64   `db:"draw_odds" json:"draw_odds" validate:"required,gt=1"`
	Probability   float64   `db:"probability" json:"probability" validate:"required,gt=0,lt=1"`
	ExpectedValue float64   `db:"expected_value" json:"expected_value"`
	KellyStake    float64   `db:"kelly_stake" json:"kelly_stake" validate:"gte=0"`
	Reasons       string    `db:"reasons" json:"reasons"`
	Liquidity     float64   `db:"liquidity" json:"liquidity"`
	Outcome       Outcome   `db:"outcome" json:"outcome"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ApplyOutcome transitions the prediction's outcome. Transitions:
// pending -> win, pending -> loss. Re-recording the identical result is
// a no-op; recording a differing result returns ErrOutcomeConflict and
// leaves the stored outcome untouched.
func (p *Prediction) ApplyOutcome(result Outcome) error {
	if !result.Valid() {
		return ErrInvalidOutcome
	}
	switch p.Outcome {
	case OutcomePending, "":
		p.Outcome = result
		return nil
	case result:
		return nil
	default:
		return ErrOutcomeConflict
	}
}

// IsSettled reports whether an outcome has been recorded
func (p *Prediction) IsSettled() bool {
	return p.Outcome == OutcomeWin || p.Outcome == OutcomeLoss
}

// StakeAmount converts the Kelly fraction into a currency amount against
// a reference bankroll. Presentation-layer convenience only.
func (p *Prediction) StakeAmount(bankroll float64) float64 {
	if bankroll <= 0 {
		return 0
	}
	return p.KellyStake * bankroll
}
