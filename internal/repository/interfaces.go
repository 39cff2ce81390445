// Package repository provides data access for predictions and draw
// patterns. The engine treats the store as a transactional
// key-value-by-matchID collection and never caches predictions across
// calls.
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/draw-edge/internal/models"
)

// execer is the statement handle writes run on. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so the same write helpers serve standalone calls
// and transactional batches.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	// Upsert inserts a prediction or, when a row for the same
	// (matchID, runDate) exists, replaces its scoring figures while
	// preserving the stored outcome. This serializes concurrent
	// periodic and manual runs per matchID.
	Upsert(ctx context.Context, prediction *models.Prediction) error

	// UpsertBatch upserts a full run's predictions in one transaction
	UpsertBatch(ctx context.Context, predictions []*models.Prediction) error

	// GetByMatchID retrieves the most recent prediction for a match.
	// Returns models.ErrNotFound when no prediction exists.
	GetByMatchID(ctx context.Context, matchID string) (*models.Prediction, error)

	// UpdateOutcome records a result for a match. Recording the stored
	// outcome again is a no-op; a differing result returns
	// models.ErrOutcomeConflict; an unknown matchID returns
	// models.ErrNotFound. No state is mutated on error.
	UpdateOutcome(ctx context.Context, matchID string, result models.Outcome) error

	// GetByDateRange retrieves predictions whose kickoff falls inside
	// [start, end], ordered by expected value descending.
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Prediction, error)

	// GetByRunDate retrieves a run's qualifying predictions ordered by
	// expected value descending.
	GetByRunDate(ctx context.Context, runDate time.Time) ([]*models.Prediction, error)
}

// PatternRepository defines the interface for draw pattern persistence
type PatternRepository interface {
	// ReplaceForDate atomically replaces the pattern set for a date
	ReplaceForDate(ctx context.Context, analysisDate time.Time, patterns []models.DrawPattern) error

	// GetLatest retrieves the most recently stored pattern set
	GetLatest(ctx context.Context) ([]models.DrawPattern, error)
}
