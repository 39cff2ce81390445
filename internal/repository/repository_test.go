package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/draw-edge/internal/models"
)

type execCall struct {
	sql  string
	args []any
}

// recordingExecer captures every statement routed to it, standing in for
// the pool or transaction handle the write helpers execute on.
type recordingExecer struct {
	calls     []execCall
	failAfter int
}

func newRecordingExecer() *recordingExecer {
	return &recordingExecer{failAfter: -1}
}

func (e *recordingExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.calls = append(e.calls, execCall{sql: sql, args: args})
	if e.failAfter >= 0 && len(e.calls) > e.failAfter {
		return pgconn.CommandTag{}, errors.New("connection lost")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestUpsertPredictionExecutesOnGivenHandle(t *testing.T) {
	ex := newRecordingExecer()

	p := &models.Prediction{
		ID:          uuid.New(),
		MatchID:     "1001",
		RunDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		KickoffTime: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		DrawOdds:    3.40,
		Probability: 0.31,
	}

	err := upsertPrediction(context.Background(), ex, p)
	require.NoError(t, err)
	require.Len(t, ex.calls, 1, "upsert must route through the handle it was given")

	call := ex.calls[0]
	assert.Contains(t, call.sql, "ON CONFLICT (match_id, run_date)")
	assert.NotContains(t, call.sql, "outcome = EXCLUDED.outcome", "upsert must never replace a stored outcome")
	require.Len(t, call.args, 15)
	assert.Equal(t, "1001", call.args[1])
	assert.Equal(t, models.OutcomePending, call.args[14])
}

func TestInsertPatternsExecutesEachRowOnGivenHandle(t *testing.T) {
	ex := newRecordingExecer()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	patterns := []models.DrawPattern{
		{Type: "recent_draw_cluster", Boost: 0.10, Source: models.PatternSourceRecentDraws, Weight: 3},
		{ID: uuid.New(), Type: "learned_hit_rate", Boost: 0.05, Source: models.PatternSourceLearned, Weight: 2},
	}

	err := insertPatterns(context.Background(), ex, date, patterns)
	require.NoError(t, err)
	require.Len(t, ex.calls, 2)

	// a zero ID gets assigned before the row is written
	assigned, ok := ex.calls[0].args[0].(uuid.UUID)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, assigned)
	assert.Equal(t, patterns[1].ID, ex.calls[1].args[0])
	assert.Equal(t, date, ex.calls[0].args[1])
}

func TestInsertPatternsStopsOnFirstFailure(t *testing.T) {
	ex := newRecordingExecer()
	ex.failAfter = 1
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	patterns := []models.DrawPattern{
		{Type: "recent_draw_cluster", Weight: 3},
		{Type: "learned_hit_rate", Weight: 2},
		{Type: "low_scoring_league_pairs", Weight: 1},
	}

	err := insertPatterns(context.Background(), ex, date, patterns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "learned_hit_rate")
	assert.Len(t, ex.calls, 2, "no rows are attempted past the failure")
}
