// Package review implements the officer review session: the queue of
// items needing attention, atomic category-correction batches, and the
// reviewed mark.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/logger"
)

// BundleStore is the persistence surface the review session needs.
type BundleStore interface {
	Get(ctx context.Context, incidentID string) (*domain.CommentBundle, error)
	Save(ctx context.Context, bundle *domain.CommentBundle) error
}

// TrainingStore records officer corrections as training examples. An
// example for the same incident and comment supersedes the previous
// one rather than accumulating.
type TrainingStore interface {
	UpsertExamples(ctx context.Context, examples []domain.TrainingExample) error
}

// Correction is one officer category assignment in a batch.
type Correction struct {
	Index    int             `json:"index"`
	Category domain.Category `json:"category"`
}

// Queue is the review worklist for one incident.
type Queue struct {
	IncidentID      string                     `json:"incident_id"`
	Comments        []domain.Comment           `json:"comments"`
	Detections      []domain.DetectedTimestamp `json:"detections"`
	UnresolvedCount int                        `json:"unresolved_count"`
	ReviewedAt      *time.Time                 `json:"reviewed_at,omitempty"`
}

// Service runs review operations against stored bundles.
type Service struct {
	bundles  BundleStore
	training TrainingStore
	logger   logger.Logger
	now      func() time.Time
}

// NewService creates a review service.
func NewService(bundles BundleStore, training TrainingStore, log logger.Logger) *Service {
	return &Service{bundles: bundles, training: training, logger: log, now: time.Now}
}

// Queue returns the incident's open review items: non-noise comments
// flagged for review and MEDIUM/LOW detections with no mapping
// decision yet.
func (s *Service) Queue(ctx context.Context, incidentID string) (*Queue, error) {
	bundle, err := s.bundles.Get(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}

	q := &Queue{
		IncidentID:      incidentID,
		UnresolvedCount: bundle.UnresolvedReviewItems(),
		ReviewedAt:      bundle.OfficerReviewedAt,
	}
	for _, c := range bundle.Comments {
		if c.NeedsReview && !c.IsNoise {
			q.Comments = append(q.Comments, c)
		}
	}
	// Every undecided detection surfaces, HIGH included: a HIGH
	// candidate is only resolved once auto-apply has actually recorded
	// the mapping, and auto-apply can fail when the RMS is down.
	for _, d := range bundle.DetectedTimestamps {
		if d.MappedTo == "" {
			q.Detections = append(q.Detections, d)
		}
	}
	return q, nil
}

// ApplyCorrections applies a batch of officer category assignments.
// The batch is validated in full before any comment is touched; one
// bad index or category rejects the whole batch. Each applied
// correction also lands in the training corpus.
func (s *Service) ApplyCorrections(ctx context.Context, incidentID string, corrections []Correction) (*domain.CommentBundle, error) {
	if len(corrections) == 0 {
		return nil, domain.NewValidationError("empty correction batch")
	}

	bundle, err := s.bundles.Get(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}

	for _, corr := range corrections {
		if !corr.Category.Valid() {
			return nil, domain.NewValidationError("invalid category %q at index %d", corr.Category, corr.Index)
		}
		if _, ok := bundle.CommentByIndex(corr.Index); !ok {
			return nil, domain.NewValidationError("no comment at index %d", corr.Index)
		}
	}

	examples := make([]domain.TrainingExample, 0, len(corrections))
	for _, corr := range corrections {
		c, _ := bundle.CommentByIndex(corr.Index)
		c.Category = corr.Category
		c.CategorySource = domain.SourceOfficer
		c.CategoryConfidence = 1.0
		c.NeedsReview = false

		examples = append(examples, domain.TrainingExample{
			IncidentID: incidentID,
			CommentIdx: corr.Index,
			Text:       c.Text,
			Category:   corr.Category,
			Source:     domain.ExampleSourceOfficer,
			CreatedAt:  s.now(),
		})
	}

	if err := s.bundles.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("save bundle: %w", err)
	}
	if err := s.training.UpsertExamples(ctx, examples); err != nil {
		// Corrections are already visible; losing the corpus entry is
		// recoverable on the next correction, so log and carry on.
		s.logger.Error("failed to record training examples",
			logger.String("incident_id", incidentID),
			logger.Int("count", len(examples)),
			logger.Error(err))
	}

	s.logger.Info("officer corrections applied",
		logger.String("incident_id", incidentID),
		logger.Int("count", len(corrections)))
	return bundle, nil
}

// MarkReviewed records that an officer finished reviewing the
// incident. Marking twice just refreshes the timestamp.
func (s *Service) MarkReviewed(ctx context.Context, incidentID string) (*domain.CommentBundle, error) {
	bundle, err := s.bundles.Get(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}

	at := s.now()
	bundle.OfficerReviewedAt = &at
	if err := s.bundles.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("save bundle: %w", err)
	}
	return bundle, nil
}
