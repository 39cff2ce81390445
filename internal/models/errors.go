package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrOutcomeConflict = errors.New("outcome already recorded with a different result")
	ErrInvalidOdds     = errors.New("draw odds must be greater than 1.0")
	ErrInvalidOutcome  = errors.New("invalid outcome value")
	ErrDuplicateKey    = errors.New("duplicate key violation")
)

// ValidationError describes why a candidate was rejected before scoring.
// Invalid candidates are dropped from the batch, never aborting the run.
type ValidationError struct {
	MatchID string
	Field   string
	Reason  string
}

func (e ValidationError) Error() string {
	return "invalid candidate " + e.MatchID + ": " + e.Field + ": " + e.Reason
}

// NewValidationError creates a validation error for a candidate field
func NewValidationError(matchID, field, reason string) ValidationError {
	return ValidationError{MatchID: matchID, Field: field, Reason: reason}
}
