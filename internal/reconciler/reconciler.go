// Package reconciler maps detected-timestamp candidates onto canonical
// incident timestamp fields: transparent auto-population for
// high-confidence detections, explicit officer actions for the rest.
package reconciler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/logger"
)

// IncidentStore is the narrow surface of the external RMS the
// reconciler needs: reading and writing canonical incident timestamp
// fields.
type IncidentStore interface {
	GetTimestampField(ctx context.Context, incidentID, field string) (string, error)
	SetTimestampField(ctx context.Context, incidentID, field, valueISO string) error
}

// Reconciler applies and records field mappings. It mutates only the
// Mapped* fields of a detection; detection data itself is immutable.
type Reconciler struct {
	store  IncidentStore
	logger logger.Logger
	now    func() time.Time
}

// New creates a reconciler against the given incident store.
func New(store IncidentStore, log logger.Logger) *Reconciler {
	return &Reconciler{store: store, logger: log, now: time.Now}
}

// AutoApply populates canonical fields from HIGH-confidence detections
// at parse time. The canonical field is only written when currently
// empty, and the mapping is recorded with the system actor so it stays
// officer-overridable. RMS failures leave the candidate unmapped and
// never fail the parse.
func (r *Reconciler) AutoApply(ctx context.Context, bundle *domain.CommentBundle) {
	for i := range bundle.DetectedTimestamps {
		d := &bundle.DetectedTimestamps[i]
		if d.Confidence != domain.ConfidenceHigh || d.MappedTo != "" {
			continue
		}

		field := d.SuggestedNERISField
		current, err := r.store.GetTimestampField(ctx, bundle.IncidentID, field)
		if err != nil {
			r.logger.Warn("auto-apply skipped, incident store unavailable",
				logger.String("incident_id", bundle.IncidentID),
				logger.String("field", field),
				logger.Error(err))
			continue
		}
		if current == "" {
			if err := r.store.SetTimestampField(ctx, bundle.IncidentID, field, d.TimeISO); err != nil {
				r.logger.Warn("auto-apply write failed",
					logger.String("incident_id", bundle.IncidentID),
					logger.String("field", field),
					logger.Error(err))
				continue
			}
		}

		at := r.now()
		d.MappedTo = field
		d.MappedAt = &at
		d.MappedBy = domain.MappedBySystem
	}
}

// Accept maps the candidate at index to its suggested NERIS field, or
// to an officer-chosen field when field is non-empty. Re-accepting an
// identical mapping is a no-op.
func (r *Reconciler) Accept(ctx context.Context, bundle *domain.CommentBundle, index int, field, actor string) error {
	d, err := r.candidate(bundle, index)
	if err != nil {
		return err
	}

	target := field
	if target == "" {
		target = d.SuggestedNERISField
	}
	if err := validateField(target); err != nil {
		return err
	}

	if d.MappedTo == target {
		return nil
	}
	return r.apply(ctx, bundle.IncidentID, d, target, actor)
}

// Remap maps the candidate to an officer-chosen catalog field. A field
// this candidate previously populated is deliberately not cleared;
// clearing is a separate, explicit RMS action.
func (r *Reconciler) Remap(ctx context.Context, bundle *domain.CommentBundle, index int, field, actor string) error {
	d, err := r.candidate(bundle, index)
	if err != nil {
		return err
	}
	if err := validateField(field); err != nil {
		return err
	}
	if d.MappedTo == field {
		return nil
	}
	return r.apply(ctx, bundle.IncidentID, d, field, actor)
}

// Ignore dismisses the candidate. Reversible: a later Accept or Remap
// clears the sentinel.
func (r *Reconciler) Ignore(bundle *domain.CommentBundle, index int, actor string) error {
	d, err := r.candidate(bundle, index)
	if err != nil {
		return err
	}

	at := r.now()
	d.MappedTo = domain.MappedIgnored
	d.MappedAt = &at
	d.MappedBy = actor
	return nil
}

func (r *Reconciler) apply(ctx context.Context, incidentID string, d *domain.DetectedTimestamp, field, actor string) error {
	if err := r.store.SetTimestampField(ctx, incidentID, field, d.TimeISO); err != nil {
		return fmt.Errorf("set incident field %s: %w", field, err)
	}

	at := r.now()
	d.MappedTo = field
	d.MappedAt = &at
	d.MappedBy = actor
	return nil
}

func (r *Reconciler) candidate(bundle *domain.CommentBundle, index int) (*domain.DetectedTimestamp, error) {
	if index < 0 || index >= len(bundle.DetectedTimestamps) {
		return nil, domain.NewValidationError("no detected timestamp at index %d", index)
	}
	return &bundle.DetectedTimestamps[index], nil
}

func validateField(field string) error {
	if !domain.KnownField(field) {
		return domain.NewValidationError("unknown field %q; valid fields: %s",
			field, strings.Join(domain.KnownFieldNames(), ", "))
	}
	return nil
}
