// Package extractor scans comment text for tactical-event phrases and
// produces detected-timestamp candidates, independently of comment
// categorization.
package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/logger"
)

var (
	clockPattern     = regexp.MustCompile(`\b(\d{1,2}):(\d{2})(?::(\d{2}))?\b`)
	crewCountPattern = regexp.MustCompile(`(?i)\b([a-z]{1,3}\d{1,3})\b[^.]{0,20}?\bcrew\s+of\s+(\d{1,2})\b`)
)

// Extractor applies the tactical-event rule set per comment. Rules are
// matched independently per comment; no cross-comment correlation.
type Extractor struct {
	rules  []EventRule
	logger logger.Logger
}

// New creates an extractor over the given rule set.
func New(rules []EventRule, log logger.Logger) *Extractor {
	return &Extractor{rules: rules, logger: log}
}

// Extract returns every detected-timestamp candidate in the comment.
// incidentDate anchors the wall-clock time to a calendar day for the
// ISO form. A comment narrating several tactical events emits several
// candidates; at most one candidate per event type per comment.
func (e *Extractor) Extract(c domain.Comment, incidentDate time.Time) []domain.DetectedTimestamp {
	if c.IsNoise {
		return nil
	}

	var out []domain.DetectedTimestamp
	seen := make(map[string]bool)

	for i := range e.rules {
		rule := &e.rules[i]
		if seen[rule.Type] {
			continue
		}
		if !rule.Pattern.MatchString(c.Text) {
			continue
		}
		if rule.Negation != nil && rule.Negation.MatchString(c.Text) {
			continue
		}
		seen[rule.Type] = true

		clock := eventClock(c)
		iso, err := toISO(clock, incidentDate)
		if err != nil {
			// Unparseable time text: skip this candidate, keep going.
			if e.logger != nil {
				e.logger.Warn("skipping detection with unparseable time",
					logger.String("detected_type", rule.Type),
					logger.String("time", clock),
					logger.Int("comment_index", c.Index))
			}
			continue
		}

		out = append(out, domain.DetectedTimestamp{
			Time:                      clock,
			TimeISO:                   iso,
			RawText:                   c.Text,
			DetectedType:              rule.Type,
			SuggestedNERISField:       rule.NERISField,
			SuggestedOperationalField: rule.OperationalField,
			Confidence:                rule.Confidence,
			PatternMatched:            rule.Name,
		})
	}
	return out
}

// ExtractCrewCounts pulls informational unit crew-size records from a
// comment ("E41 crew of 4").
func (e *Extractor) ExtractCrewCounts(c domain.Comment) []domain.UnitCrewCount {
	if c.IsNoise {
		return nil
	}

	var out []domain.UnitCrewCount
	for _, m := range crewCountPattern.FindAllStringSubmatch(c.Text, -1) {
		count, err := strconv.Atoi(m[2])
		if err != nil || count == 0 {
			continue
		}
		out = append(out, domain.UnitCrewCount{
			UnitID:    strings.ToUpper(m[1]),
			CrewCount: count,
			Time:      c.Time,
		})
	}
	return out
}

// eventClock prefers a wall-clock time embedded in the comment text
// ("22:43:20 Command Established ...") over the CAD entry time, since
// dispatchers often log tactical times after the fact.
func eventClock(c domain.Comment) string {
	if m := clockPattern.FindString(c.Text); m != "" {
		return m
	}
	return c.Time
}

// toISO anchors an HH:MM[:SS] clock to the incident date, producing a
// local-time ISO 8601 string the canonical fields store.
func toISO(clock string, incidentDate time.Time) (string, error) {
	m := clockPattern.FindStringSubmatch(clock)
	if m == nil {
		return "", fmt.Errorf("no clock in %q", clock)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return "", fmt.Errorf("invalid clock %q", clock)
	}

	t := time.Date(incidentDate.Year(), incidentDate.Month(), incidentDate.Day(),
		hour, minute, second, 0, incidentDate.Location())
	return t.Format("2006-01-02T15:04:05"), nil
}
