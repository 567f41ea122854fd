package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/godilite/ticket-classifier/internal/repository/models"
)

const trainingRunsSchema = `
	CREATE TABLE IF NOT EXISTS training_runs (
		id             TEXT PRIMARY KEY,
		data_path      TEXT NOT NULL,
		model_path     TEXT NOT NULL,
		total_rows     INTEGER NOT NULL,
		class_count    INTEGER NOT NULL,
		train_rows     INTEGER NOT NULL,
		test_rows      INTEGER NOT NULL,
		test_size      REAL NOT NULL,
		split_strategy TEXT NOT NULL,
		accuracy       REAL NOT NULL,
		created_at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_training_runs_created_at ON training_runs (created_at);
`

type TrainingRunRepository struct {
	db *sql.DB
}

func NewTrainingRunRepository(db *sql.DB) *TrainingRunRepository {
	return &TrainingRunRepository{db: db}
}

// Migrate creates the training_runs table when missing.
func (r *TrainingRunRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, trainingRunsSchema); err != nil {
		return fmt.Errorf("migrate training_runs: %w", err)
	}
	return nil
}

// SaveRun inserts a completed run.
func (r *TrainingRunRepository) SaveRun(ctx context.Context, run models.TrainingRun) error {
	const query = `
		INSERT INTO training_runs (
			id, data_path, model_path, total_rows, class_count, train_rows,
			test_rows, test_size, split_strategy, accuracy, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.DataPath, run.ModelPath, run.TotalRows, run.ClassCount, run.TrainRows,
		run.TestRows, run.TestSize, run.SplitStrategy, run.Accuracy,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert training run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (r *TrainingRunRepository) ListRuns(ctx context.Context, limit int) ([]models.TrainingRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, data_path, model_path, total_rows, class_count, train_rows,
		       test_rows, test_size, split_strategy, accuracy, created_at
		FROM training_runs
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query ListRuns: %w", err)
	}
	defer rows.Close()

	var results []models.TrainingRun
	for rows.Next() {
		var run models.TrainingRun
		var created string
		if err := rows.Scan(&run.ID, &run.DataPath, &run.ModelPath, &run.TotalRows, &run.ClassCount,
			&run.TrainRows, &run.TestRows, &run.TestSize, &run.SplitStrategy, &run.Accuracy, &created); err != nil {
			return nil, fmt.Errorf("scan ListRuns row: %w", err)
		}
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		results = append(results, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListRuns: %w", err)
	}
	return results, nil
}
