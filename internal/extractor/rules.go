package extractor

import (
	"regexp"

	"github.com/firehallhq/cadintel/internal/domain"
)

// EventRule detects one tactical-event phrasing. Rules for the same
// Type are ordered strongest-phrasing first; the first match per type
// wins for a given comment, so a comment never emits two candidates of
// the same type.
type EventRule struct {
	Type    string
	Name    string
	Pattern *regexp.Regexp
	// Negation suppresses the rule when it matches; RE2 has no
	// lookbehind, so negated phrasings are rejected separately.
	Negation         *regexp.Regexp
	Confidence       domain.ConfidenceTier
	NERISField       string
	OperationalField string
}

// DefaultEventRules is the ordered tactical-event rule set. It is
// independent of the category rules: extraction runs over every
// substantive comment regardless of how it was categorized.
func DefaultEventRules() []EventRule {
	return []EventRule{
		{
			Type:             domain.DetectCommandEstablished,
			Name:             "command_established_explicit",
			Pattern:          regexp.MustCompile(`(?i)\bcommand\s+(?:is\s+)?established\b|\bestablished\b.{0,30}\bcommand\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_command_established",
			OperationalField: "command_established",
		},
		{
			Type:             domain.DetectCommandEstablished,
			Name:             "command_assumed",
			Pattern:          regexp.MustCompile(`(?i)\b(?:assumed|assuming|taking)\s+command\b`),
			Confidence:       domain.ConfidenceMedium,
			NERISField:       "time_command_established",
			OperationalField: "command_established",
		},
		{
			Type:             domain.DetectCommandTerminated,
			Name:             "command_terminated",
			Pattern:          regexp.MustCompile(`(?i)\bcommand\s+terminated\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_command_terminated",
			OperationalField: "command_terminated",
		},
		{
			Type:             domain.DetectWaterOnFire,
			Name:             "water_on_fire_explicit",
			Pattern:          regexp.MustCompile(`(?i)\bwater\s+on\s+(?:the\s+)?fire\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_water_on_fire",
			OperationalField: "water_on_fire",
		},
		{
			Type:             domain.DetectWaterOnFire,
			Name:             "fire_knockdown",
			Pattern:          regexp.MustCompile(`(?i)\bknock(?:ed)?\s*down\b`),
			Confidence:       domain.ConfidenceMedium,
			NERISField:       "time_water_on_fire",
			OperationalField: "water_on_fire",
		},
		{
			Type:             domain.DetectFireUnderControl,
			Name:             "fire_under_control",
			Pattern:          regexp.MustCompile(`(?i)\b(?:fire\s+)?under\s+control\b`),
			Negation:         regexp.MustCompile(`(?i)\bnot\s+(?:yet\s+)?under\s+control\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_fire_under_control",
			OperationalField: "fire_under_control",
		},
		{
			Type:             domain.DetectPrimarySearchComplete,
			Name:             "primary_search_complete",
			Pattern:          regexp.MustCompile(`(?i)\bprimary\s+(?:search\s+)?(?:complete|negative|all\s+clear)\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_primary_search_complete",
			OperationalField: "primary_search_complete",
		},
		{
			Type:             domain.DetectPrimarySearchComplete,
			Name:             "primary_search_mention",
			Pattern:          regexp.MustCompile(`(?i)\bprimary\s+search\b`),
			Confidence:       domain.ConfidenceLow,
			NERISField:       "time_primary_search_complete",
			OperationalField: "primary_search_complete",
		},
		{
			Type:             domain.DetectPatientContact,
			Name:             "patient_contact",
			Pattern:          regexp.MustCompile(`(?i)\b(?:patient|pt)\s+contact\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_patient_contact",
			OperationalField: "patient_contact",
		},
		{
			Type:             domain.DetectExtricationComplete,
			Name:             "extrication_complete",
			Pattern:          regexp.MustCompile(`(?i)\bextrication\s+complete\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_extrication_complete",
			OperationalField: "extrication_complete",
		},
		{
			Type:             domain.DetectHazmatContained,
			Name:             "hazmat_contained",
			Pattern:          regexp.MustCompile(`(?i)\b(?:hazmat|product|spill)\s+contained\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_hazmat_contained",
			OperationalField: "hazmat_contained",
		},
		{
			Type:             domain.DetectUtilitiesSecured,
			Name:             "utilities_secured",
			Pattern:          regexp.MustCompile(`(?i)\butilit(?:y|ies)\s+(?:secured|shut\s*off)\b`),
			Confidence:       domain.ConfidenceMedium,
			NERISField:       "time_utilities_secured",
			OperationalField: "utilities_secured",
		},
		{
			Type:             domain.DetectAllClear,
			Name:             "all_clear",
			Pattern:          regexp.MustCompile(`(?i)\ball\s+clear\b`),
			Confidence:       domain.ConfidenceMedium,
			NERISField:       "time_all_clear",
			OperationalField: "all_clear",
		},
		{
			Type:             domain.DetectLossStopped,
			Name:             "loss_stopped",
			Pattern:          regexp.MustCompile(`(?i)\bloss\s+stopped\b`),
			Confidence:       domain.ConfidenceHigh,
			NERISField:       "time_loss_stopped",
			OperationalField: "loss_stopped",
		},
	}
}
