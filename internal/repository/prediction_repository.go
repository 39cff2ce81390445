package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/draw-edge/internal/database"
	"github.com/yourusername/draw-edge/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = `id, match_id, run_date, league_id, league, kickoff, home_team, away_team,
	draw_odds, probability, expected_value, kelly_stake, reasons, liquidity, outcome, created_at, updated_at`

// upsertPrediction writes one prediction on the given handle, keyed by
// (match_id, run_date). Scoring figures from the latest run win; the
// outcome column is left untouched so a settled prediction is never
// reset to pending.
func upsertPrediction(ctx context.Context, ex execer, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, match_id, run_date, league_id, league, kickoff, home_team, away_team,
		                         draw_odds, probability, expected_value, kelly_stake, reasons, liquidity, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (match_id, run_date) DO UPDATE SET
			draw_odds = EXCLUDED.draw_odds,
			probability = EXCLUDED.probability,
			expected_value = EXCLUDED.expected_value,
			kelly_stake = EXCLUDED.kelly_stake,
			reasons = EXCLUDED.reasons,
			liquidity = EXCLUDED.liquidity,
			updated_at = NOW()
	`

	_, err := ex.Exec(ctx, query,
		prediction.ID, prediction.MatchID, prediction.RunDate, prediction.LeagueID, prediction.League,
		prediction.KickoffTime, prediction.HomeTeam, prediction.AwayTeam, prediction.DrawOdds,
		prediction.Probability, prediction.ExpectedValue, prediction.KellyStake, prediction.Reasons,
		prediction.Liquidity, models.OutcomePending,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}

	return nil
}

// Upsert inserts or replaces a prediction keyed by (match_id, run_date)
func (r *PostgresPredictionRepository) Upsert(ctx context.Context, prediction *models.Prediction) error {
	return upsertPrediction(ctx, r.db.GetPool(), prediction)
}

// UpsertBatch upserts all predictions of a run inside one transaction
func (r *PostgresPredictionRepository) UpsertBatch(ctx context.Context, predictions []*models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, p := range predictions {
			if err := upsertPrediction(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByMatchID retrieves the most recent prediction for a match
func (r *PostgresPredictionRepository) GetByMatchID(ctx context.Context, matchID string) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
		FROM predictions
		WHERE match_id = $1
		ORDER BY run_date DESC
		LIMIT 1`

	prediction, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, matchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// UpdateOutcome records a result with a single guarded update. The WHERE
// clause only matches rows that are pending or already carry the same
// result, so conflicting writes never overwrite the stored outcome.
func (r *PostgresPredictionRepository) UpdateOutcome(ctx context.Context, matchID string, result models.Outcome) error {
	if !result.Valid() {
		return models.ErrInvalidOutcome
	}

	query := `
		UPDATE predictions SET outcome = $2, updated_at = NOW()
		WHERE match_id = $1 AND (outcome = $3 OR outcome = $2)
	`

	tag, err := r.db.GetPool().Exec(ctx, query, matchID, result, models.OutcomePending)
	if err != nil {
		return fmt.Errorf("failed to update outcome: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing matched: either the match is unknown or the stored
	// outcome differs from the requested one.
	if _, err := r.GetByMatchID(ctx, matchID); err != nil {
		return err
	}
	return models.ErrOutcomeConflict
}

// GetByDateRange retrieves predictions with kickoff inside [start, end]
func (r *PostgresPredictionRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
		FROM predictions
		WHERE kickoff >= $1 AND kickoff <= $2
		ORDER BY expected_value DESC`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by date range: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByRunDate retrieves the predictions written by a run
func (r *PostgresPredictionRepository) GetByRunDate(ctx context.Context, runDate time.Time) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
		FROM predictions
		WHERE run_date = $1
		ORDER BY expected_value DESC`

	rows, err := r.db.GetPool().Query(ctx, query, runDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by run date: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	p := &models.Prediction{}
	err := row.Scan(
		&p.ID, &p.MatchID, &p.RunDate, &p.LeagueID, &p.League, &p.KickoffTime, &p.HomeTeam, &p.AwayTeam,
		&p.DrawOdds, &p.Probability, &p.ExpectedValue, &p.KellyStake, &p.Reasons, &p.Liquidity,
		&p.Outcome, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
