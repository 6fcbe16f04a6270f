package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/firehallhq/cadintel/internal/domain"
)

// TrainingRepository persists the correction corpus and the retrain
// audit log.
type TrainingRepository struct {
	db *sqlx.DB
}

// NewTrainingRepository creates a training repository.
func NewTrainingRepository(db *sqlx.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// AllExamples returns the full corpus in insertion order.
func (r *TrainingRepository) AllExamples(ctx context.Context) ([]domain.TrainingExample, error) {
	query := `SELECT id, incident_id, comment_idx, text, category, source, created_at
		FROM training_examples ORDER BY id`

	var out []domain.TrainingExample
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to load training examples: %w", err)
	}
	return out, nil
}

// CountExamples returns the corpus size.
func (r *TrainingRepository) CountExamples(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM training_examples`); err != nil {
		return 0, fmt.Errorf("failed to count training examples: %w", err)
	}
	return n, nil
}

// CountOfficerExamples returns the number of officer-sourced examples.
func (r *TrainingRepository) CountOfficerExamples(ctx context.Context) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM training_examples WHERE source = ?`)

	var n int
	if err := r.db.GetContext(ctx, &n, query, domain.ExampleSourceOfficer); err != nil {
		return 0, fmt.Errorf("failed to count officer examples: %w", err)
	}
	return n, nil
}

// CountExamplesSince returns how many examples arrived after the given
// time, the input to the retrain heuristic.
func (r *TrainingRepository) CountExamplesSince(ctx context.Context, since time.Time) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM training_examples WHERE created_at > ?`)

	var n int
	if err := r.db.GetContext(ctx, &n, query, since); err != nil {
		return 0, fmt.Errorf("failed to count recent examples: %w", err)
	}
	return n, nil
}

// UpsertExamples writes a batch of examples atomically. An officer
// example supersedes any previous example for the same incident
// comment; seed examples insert unconditionally.
func (r *TrainingRepository) UpsertExamples(ctx context.Context, examples []domain.TrainingExample) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	deleteQ := tx.Rebind(`DELETE FROM training_examples WHERE incident_id = ? AND comment_idx = ?`)
	insertQ := tx.Rebind(`
		INSERT INTO training_examples (incident_id, comment_idx, text, category, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	for _, ex := range examples {
		if ex.IncidentID != "" {
			if _, err := tx.ExecContext(ctx, deleteQ, ex.IncidentID, ex.CommentIdx); err != nil {
				return fmt.Errorf("failed to supersede example: %w", err)
			}
		}
		_, err := tx.ExecContext(ctx, insertQ,
			ex.IncidentID, ex.CommentIdx, ex.Text, ex.Category, ex.Source, ex.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert example: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit examples: %w", err)
	}
	return nil
}

// RecordRun appends one retrain to the audit log.
func (r *TrainingRepository) RecordRun(ctx context.Context, run domain.ModelRun) error {
	query := r.db.Rebind(`
		INSERT INTO model_runs (trained_at, cv_accuracy, example_count, triggered_by)
		VALUES (?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, run.TrainedAt, run.CVAccuracy, run.ExampleCount, run.Trigger)
	if err != nil {
		return fmt.Errorf("failed to record model run: %w", err)
	}
	return nil
}

// LastRun returns the most recent retrain, or nil when the model has
// never been trained.
func (r *TrainingRepository) LastRun(ctx context.Context) (*domain.ModelRun, error) {
	query := `SELECT id, trained_at, cv_accuracy, example_count, triggered_by
		FROM model_runs ORDER BY trained_at DESC LIMIT 1`

	var run domain.ModelRun
	if err := r.db.GetContext(ctx, &run, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load last model run: %w", err)
	}
	return &run, nil
}
