// Package datasource provides external fixture and odds feeds. All
// network I/O lives here, on the far side of the engine boundary: the
// engine only ever sees fully materialized candidate lists.
package datasource

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/yourusername/draw-edge/internal/models"
)

// FixtureSource defines the interface for fetching fixtures and odds
// from an external provider
type FixtureSource interface {
	// FetchCandidates retrieves the day's fixtures with draw odds for
	// the configured league set. A partially available provider (some
	// leagues missing) yields a partial list, not an error.
	FetchCandidates(ctx context.Context, date time.Time) ([]*models.MatchCandidate, error)

	// FetchFinishedDraws retrieves finished matches that ended level
	// within the date range, used by the pattern analyzer.
	FetchFinishedDraws(ctx context.Context, start, end time.Time) ([]FinishedMatch, error)

	// Name returns the name of the source
	Name() string
}

// FinishedMatch represents a completed fixture with its final score
type FinishedMatch struct {
	MatchID   string    `json:"match_id"`
	LeagueID  int       `json:"league_id"`
	League    string    `json:"league"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	Kickoff   time.Time `json:"kickoff"`
}

// Score renders the final score line
func (m FinishedMatch) Score() string {
	return strconv.Itoa(m.HomeGoals) + "-" + strconv.Itoa(m.AwayGoals)
}

// SourceError represents errors from fixture source operations
type SourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeAuthFailed        = "authentication_failed"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// Sentinel errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrInvalidData       = errors.New("invalid data format")
)

// NewSourceError creates a new source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{Source: source, Code: code, Message: message, Err: err}
}
