package domain

import "time"

// ReviewStatus is the derived per-incident pipeline status. It is
// computed on demand from review and training timestamps and never
// persisted.
type ReviewStatus string

const (
	// StatusNone means the bundle has no substantive comments and the
	// indicator is hidden entirely.
	StatusNone ReviewStatus = ""
	// StatusPending means no officer has marked the incident reviewed.
	StatusPending ReviewStatus = "pending"
	// StatusValidated means an officer reviewed the incident but the
	// model has not been retrained since.
	StatusValidated ReviewStatus = "validated"
	// StatusTrained means the model was retrained after the review, so
	// the corrections have been folded in.
	StatusTrained ReviewStatus = "trained"
)

// ComputeReviewStatus derives the pipeline status for one incident.
// hasSubstantive is whether any non-noise comments exist; reviewedAt
// and trainedAt may be nil for "never".
func ComputeReviewStatus(hasSubstantive bool, reviewedAt, trainedAt *time.Time) ReviewStatus {
	if !hasSubstantive {
		return StatusNone
	}
	if reviewedAt == nil {
		return StatusPending
	}
	if trainedAt == nil || !trainedAt.After(*reviewedAt) {
		return StatusValidated
	}
	return StatusTrained
}
