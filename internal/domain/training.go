package domain

import "time"

// Training example provenance.
const (
	ExampleSourceOfficer = "officer"
	ExampleSourceSeed    = "seed"
)

// TrainingExample is one officer-corrected (or seeded) text/category
// pair. Examples are append-only; a newer correction for the same
// source comment supersedes the older row rather than mutating it.
type TrainingExample struct {
	ID         int64     `db:"id"          json:"id"`
	IncidentID string    `db:"incident_id" json:"incident_id,omitempty"`
	CommentIdx int       `db:"comment_idx" json:"comment_idx"`
	Text       string    `db:"text"        json:"text"`
	Category   Category  `db:"category"    json:"category"`
	Source     string    `db:"source"      json:"source"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

// ModelRun records one completed retrain for auditability.
type ModelRun struct {
	ID           int64     `db:"id"            json:"id"`
	TrainedAt    time.Time `db:"trained_at"    json:"trained_at"`
	CVAccuracy   float64   `db:"cv_accuracy"   json:"cv_accuracy"`
	ExampleCount int       `db:"example_count" json:"example_count"`
	Trigger      string    `db:"triggered_by"  json:"trigger"`
}

// Retrain triggers.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerStartup   = "startup"
)

// ModelStats is the process-wide snapshot of classifier state,
// refreshed on each retrain.
type ModelStats struct {
	MLAvailable           bool       `json:"ml_available"`
	TotalTrainingExamples int        `json:"total_training_examples"`
	OfficerExamples       int        `json:"officer_examples"`
	CVAccuracy            float64    `json:"cv_accuracy"`
	LastTrainedAt         *time.Time `json:"last_trained_at,omitempty"`
}
