package api

import (
	"time"

	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/review"
)

// ParseRequest is the body for the parse endpoint. IncidentDate anchors
// extracted wall-clock times to a calendar day.
type ParseRequest struct {
	IncidentDate   string              `json:"incident_date" binding:"required"`
	Comments       []domain.RawComment `json:"comments" binding:"required,min=1,max=2000,dive"`
	ForceOverwrite bool                `json:"force_overwrite"`
}

// BundleResponse is the full pipeline output for one incident, with
// the derived review status attached.
type BundleResponse struct {
	IncidentID         string                     `json:"incident_id"`
	Status             domain.ReviewStatus        `json:"status"`
	Comments           []domain.Comment           `json:"comments"`
	DetectedTimestamps []domain.DetectedTimestamp `json:"detected_timestamps"`
	UnitCrewCounts     []domain.UnitCrewCount     `json:"unit_crew_counts"`
	ParsedAt           time.Time                  `json:"parsed_at"`
	ParserVersion      string                     `json:"parser_version"`
	ReviewedAt         *time.Time                 `json:"reviewed_at,omitempty"`
	UnresolvedCount    int                        `json:"unresolved_count"`
}

// CorrectionsRequest is a batch of officer category assignments.
type CorrectionsRequest struct {
	Corrections []review.Correction `json:"corrections" binding:"required,min=1,max=500"`
}

// MappingRequest is one officer mapping decision for a detected
// timestamp.
type MappingRequest struct {
	Action string `json:"action" binding:"required"`
	Field  string `json:"field"`
}

// RetrainRequest is the body for the retrain endpoint.
type RetrainRequest struct {
	Force bool `json:"force"`
}

// FieldCatalogResponse lists the versioned mapping-target catalog.
type FieldCatalogResponse struct {
	Version string              `json:"version"`
	Groups  []domain.FieldGroup `json:"groups"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
