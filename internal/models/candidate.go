package models

import (
	"time"
)

// MatchCandidate represents a fixture with quoted draw odds, as supplied
// by the fixture/odds source for a single day's analysis run.
type MatchCandidate struct {
	MatchID     string    `json:"match_id" validate:"required"`
	LeagueID    int       `json:"league_id"`
	League      string    `json:"league"`
	KickoffTime time.Time `json:"kickoff_time" validate:"required"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	DrawOdds    float64   `json:"draw_odds" validate:"required,gt=1"`
	Liquidity   float64   `json:"liquidity"`
}

// Validate checks the candidate invariants. A candidate that fails
// validation is excluded from the batch with a logged warning.
func (c *MatchCandidate) Validate() error {
	if c.MatchID == "" {
		return NewValidationError(c.MatchID, "match_id", "must not be empty")
	}
	if c.KickoffTime.IsZero() {
		return NewValidationError(c.MatchID, "kickoff_time", "must be set")
	}
	if c.DrawOdds <= 1.0 {
		return NewValidationError(c.MatchID, "draw_odds", "must be greater than 1.0")
	}
	return nil
}

// Fixture describes the display side of a candidate
func (c *MatchCandidate) Fixture() string {
	return c.HomeTeam + " vs " + c.AwayTeam
}
