// Package domain holds the typed records shared across the CAD comment
// intelligence pipeline.
package domain

import "time"

// Category is the closed set of operational comment categories.
type Category string

const (
	CategoryCaller     Category = "CALLER"
	CategoryTactical   Category = "TACTICAL"
	CategoryOperations Category = "OPERATIONS"
	CategoryUnit       Category = "UNIT"
	CategoryOther      Category = "OTHER"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryCaller,
	CategoryTactical,
	CategoryOperations,
	CategoryUnit,
	CategoryOther,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategorySource records which layer assigned a comment's category.
// OFFICER is terminal: automatic reclassification never overwrites it.
type CategorySource string

const (
	SourcePattern CategorySource = "PATTERN"
	SourceML      CategorySource = "ML"
	SourceOfficer CategorySource = "OFFICER"
)

// Comment is one timestamped entry of an incident's CAD comment log.
// Index is the stable addressing key for corrections; once assigned it
// is never reused or reordered.
type Comment struct {
	Index              int            `db:"index"               json:"index"`
	Time               string         `db:"time"                json:"time"`
	Operator           string         `db:"operator"            json:"operator"`
	Text               string         `db:"text"                json:"text"`
	Category           Category       `db:"category"            json:"category"`
	CategorySource     CategorySource `db:"category_source"     json:"category_source"`
	CategoryConfidence float64        `db:"category_confidence" json:"category_confidence"`
	IsNoise            bool           `db:"is_noise"            json:"is_noise"`
	NeedsReview        bool           `db:"needs_review"        json:"needs_review"`
}

// UnitCrewCount is an informational crew-size record extracted from a
// comment ("E41 crew of 4"). The pipeline never mutates these.
type UnitCrewCount struct {
	UnitID    string `json:"unit_id"`
	CrewCount int    `json:"crew_count"`
	Time      string `json:"time"`
}

// RawComment is a comment as delivered by the CAD feed, before any
// classification or extraction.
type RawComment struct {
	Time     string `json:"time"     binding:"required"`
	Operator string `json:"operator"`
	Text     string `json:"text"     binding:"required"`
}

// CommentBundle aggregates everything the pipeline derives from one
// incident's comment log. One bundle per incident, created at parse
// time and stamped with the parser version that produced it.
type CommentBundle struct {
	IncidentID         string              `json:"incident_id"`
	Comments           []Comment           `json:"comments"`
	DetectedTimestamps []DetectedTimestamp `json:"detected_timestamps"`
	UnitCrewCounts     []UnitCrewCount     `json:"unit_crew_counts"`
	ParsedAt           time.Time           `json:"parsed_at"`
	ParserVersion      string              `json:"parser_version"`
	OfficerReviewedAt  *time.Time          `json:"officer_reviewed_at,omitempty"`
}

// CommentByIndex returns the comment with the given bundle index.
func (b *CommentBundle) CommentByIndex(index int) (*Comment, bool) {
	for i := range b.Comments {
		if b.Comments[i].Index == index {
			return &b.Comments[i], true
		}
	}
	return nil, false
}

// HasSubstantiveComments reports whether the bundle contains at least
// one non-noise comment. Bundles without substantive comments have no
// review status at all.
func (b *CommentBundle) HasSubstantiveComments() bool {
	for i := range b.Comments {
		if !b.Comments[i].IsNoise {
			return true
		}
	}
	return false
}

// UnresolvedReviewItems counts comments still flagged for review plus
// detections that have neither been mapped nor ignored. HIGH
// detections count too when auto-apply never recorded a mapping.
func (b *CommentBundle) UnresolvedReviewItems() int {
	n := 0
	for i := range b.Comments {
		if b.Comments[i].NeedsReview && !b.Comments[i].IsNoise {
			n++
		}
	}
	for i := range b.DetectedTimestamps {
		if b.DetectedTimestamps[i].MappedTo == "" {
			n++
		}
	}
	return n
}
