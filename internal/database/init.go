package database

import (
	"context"
	"fmt"

	"github.com/yourusername/draw-edge/internal/config"
)

// Schema DDL applied at startup. The predictions table is keyed by
// (match_id, run_date) so overlapping analysis runs upsert the same row
// instead of duplicating it; the outcome column is only ever written by
// the outcome-recording path.
const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id UUID PRIMARY KEY,
	match_id TEXT NOT NULL,
	run_date DATE NOT NULL,
	league_id INT NOT NULL DEFAULT 0,
	league TEXT NOT NULL DEFAULT '',
	kickoff TIMESTAMPTZ NOT NULL,
	home_team TEXT NOT NULL DEFAULT '',
	away_team TEXT NOT NULL DEFAULT '',
	draw_odds DOUBLE PRECISION NOT NULL,
	probability DOUBLE PRECISION NOT NULL,
	expected_value DOUBLE PRECISION NOT NULL,
	kelly_stake DOUBLE PRECISION NOT NULL DEFAULT 0,
	reasons TEXT NOT NULL DEFAULT '',
	liquidity DOUBLE PRECISION NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (match_id, run_date)
);

CREATE INDEX IF NOT EXISTS idx_predictions_kickoff ON predictions (kickoff);
CREATE INDEX IF NOT EXISTS idx_predictions_outcome ON predictions (outcome);

CREATE TABLE IF NOT EXISTS draw_patterns (
	id UUID PRIMARY KEY,
	analysis_date DATE NOT NULL,
	pattern_type TEXT NOT NULL,
	frequency INT NOT NULL DEFAULT 0,
	draw_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	examples TEXT NOT NULL DEFAULT '',
	boost DOUBLE PRECISION NOT NULL DEFAULT 0,
	source TEXT NOT NULL,
	weight DOUBLE PRECISION NOT NULL DEFAULT 1,
	UNIQUE (analysis_date, pattern_type)
);
`

// Initialize creates a connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
