package domain

import "time"

// ConfidenceTier grades how reliable a detected timestamp's field
// suggestion is.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "HIGH"
	ConfidenceMedium ConfidenceTier = "MEDIUM"
	ConfidenceLow    ConfidenceTier = "LOW"
)

// MappedIgnored is the sentinel stored in MappedTo when an officer has
// dismissed a detection. Reversible by a later accept or remap.
const MappedIgnored = "IGNORED"

// MappedBySystem marks mappings applied automatically at parse time.
const MappedBySystem = "system:auto-parse"

// DetectedTimestamp is a tactical-event candidate extracted from a
// comment. The detection fields (Time, RawText, DetectedType,
// PatternMatched, Confidence and the two suggestions) are immutable
// after creation; only the Mapped* fields change, preserving the audit
// trail from raw text to final field assignment.
type DetectedTimestamp struct {
	Time                      string         `json:"time"`
	TimeISO                   string         `json:"time_iso"`
	RawText                   string         `json:"raw_text"`
	DetectedType              string         `json:"detected_type"`
	SuggestedNERISField       string         `json:"suggested_neris_field"`
	SuggestedOperationalField string         `json:"suggested_operational_field"`
	Confidence                ConfidenceTier `json:"confidence"`
	PatternMatched            string         `json:"pattern_matched"`
	MappedTo                  string         `json:"mapped_to,omitempty"`
	MappedAt                  *time.Time     `json:"mapped_at,omitempty"`
	MappedBy                  string         `json:"mapped_by,omitempty"`
}

// IsMapped reports whether the candidate has been applied to a
// canonical field. The IGNORED sentinel does not count as mapped.
func (d *DetectedTimestamp) IsMapped() bool {
	return d.MappedTo != "" && d.MappedTo != MappedIgnored
}

// IsIgnored reports whether an officer dismissed the candidate.
func (d *DetectedTimestamp) IsIgnored() bool {
	return d.MappedTo == MappedIgnored
}

// Detected tactical event types.
const (
	DetectCommandEstablished    = "COMMAND_ESTABLISHED"
	DetectCommandTerminated     = "COMMAND_TERMINATED"
	DetectWaterOnFire           = "WATER_ON_FIRE"
	DetectFireUnderControl      = "FIRE_UNDER_CONTROL"
	DetectPrimarySearchComplete = "PRIMARY_SEARCH_COMPLETE"
	DetectPatientContact        = "PATIENT_CONTACT"
	DetectExtricationComplete   = "EXTRICATION_COMPLETE"
	DetectHazmatContained       = "HAZMAT_CONTAINED"
	DetectUtilitiesSecured      = "UTILITIES_SECURED"
	DetectAllClear              = "ALL_CLEAR"
	DetectLossStopped           = "LOSS_STOPPED"
)
