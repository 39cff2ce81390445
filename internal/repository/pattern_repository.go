package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/draw-edge/internal/database"
	"github.com/yourusername/draw-edge/internal/models"
)

// PostgresPatternRepository implements PatternRepository for PostgreSQL
type PostgresPatternRepository struct {
	db *database.DB
}

// NewPostgresPatternRepository creates a new pattern repository
func NewPostgresPatternRepository(db *database.DB) PatternRepository {
	return &PostgresPatternRepository{db: db}
}

// ReplaceForDate atomically swaps the pattern set for an analysis date.
// The delete and inserts run on the same transaction, so a failed insert
// rolls the delete back and the previous set survives intact.
func (r *PostgresPatternRepository) ReplaceForDate(ctx context.Context, analysisDate time.Time, patterns []models.DrawPattern) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM draw_patterns WHERE analysis_date = $1`, analysisDate); err != nil {
			return fmt.Errorf("failed to clear patterns: %w", err)
		}
		return insertPatterns(ctx, tx, analysisDate, patterns)
	})
}

// insertPatterns writes a pattern set on the given handle, assigning IDs
// where the caller left them zero.
func insertPatterns(ctx context.Context, ex execer, analysisDate time.Time, patterns []models.DrawPattern) error {
	query := `
		INSERT INTO draw_patterns (id, analysis_date, pattern_type, frequency, draw_rate, examples, boost, source, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (analysis_date, pattern_type) DO UPDATE SET
			frequency = EXCLUDED.frequency,
			draw_rate = EXCLUDED.draw_rate,
			examples = EXCLUDED.examples,
			boost = EXCLUDED.boost,
			source = EXCLUDED.source,
			weight = EXCLUDED.weight
	`

	for _, p := range patterns {
		id := p.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := ex.Exec(ctx, query,
			id, analysisDate, p.Type, p.Frequency, p.DrawRate, p.Examples, p.Boost, p.Source, p.Weight,
		); err != nil {
			return fmt.Errorf("failed to insert pattern %s: %w", p.Type, err)
		}
	}
	return nil
}

// GetLatest retrieves the most recently stored pattern set
func (r *PostgresPatternRepository) GetLatest(ctx context.Context) ([]models.DrawPattern, error) {
	query := `
		SELECT id, analysis_date, pattern_type, frequency, draw_rate, examples, boost, source, weight
		FROM draw_patterns
		WHERE analysis_date = (SELECT MAX(analysis_date) FROM draw_patterns)
		ORDER BY weight DESC, boost DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	var patterns []models.DrawPattern
	for rows.Next() {
		var p models.DrawPattern
		if err := rows.Scan(&p.ID, &p.AnalysisDate, &p.Type, &p.Frequency, &p.DrawRate, &p.Examples, &p.Boost, &p.Source, &p.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}
