package pattern_test

import (
	"testing"

	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/logger"
	"github.com/firehallhq/cadintel/internal/pattern"
)

func TestMatcher_Match_DefaultRules(t *testing.T) {
	m := pattern.NewMatcher(pattern.DefaultRules(), logger.NewNop())

	testCases := []struct {
		name         string
		text         string
		wantMatch    bool
		wantRule     string
		wantCategory domain.Category
		wantNoise    bool
	}{
		{
			name:      "cad automation is noise",
			text:      "MSGDELIVERED TO STATION 4 PRINTER",
			wantMatch: true,
			wantRule:  "noise_cad_automation",
			wantNoise: true,
		},
		{
			name:      "timestamp marker is noise",
			text:      "TIME STAMP",
			wantMatch: true,
			wantRule:  "noise_timestamp_marker",
			wantNoise: true,
		},
		{
			name:         "caller statement",
			text:         "CALLER STATES SMOKE IN THE KITCHEN",
			wantMatch:    true,
			wantRule:     "caller_statement",
			wantCategory: domain.CategoryCaller,
		},
		{
			name:         "command established is tactical",
			text:         "22:43:20 COMMAND ESTABLISHED BY BC2",
			wantMatch:    true,
			wantRule:     "tactical_command",
			wantCategory: domain.CategoryTactical,
		},
		{
			name:         "fire attack phrasing is tactical",
			text:         "FIRE UNDER CONTROL CREWS CHECKING FOR EXTENSION",
			wantMatch:    true,
			wantRule:     "tactical_fire_attack",
			wantCategory: domain.CategoryTactical,
		},
		{
			name:         "unit status",
			text:         "E41 ON SCENE",
			wantMatch:    true,
			wantRule:     "unit_status",
			wantCategory: domain.CategoryUnit,
		},
		{
			name:         "regex-gated rule needs unit identifier",
			text:         "E41 DISPATCHED",
			wantMatch:    true,
			wantRule:     "unit_identifier_status",
			wantCategory: domain.CategoryUnit,
		},
		{
			name:         "mutual aid is operations",
			text:         "MUTUAL AID REQUESTED FROM STATION 7",
			wantMatch:    true,
			wantRule:     "operations_support",
			wantCategory: domain.CategoryOperations,
		},
		{
			name:      "unmatched text falls through",
			text:      "SEE NARRATIVE FOR DETAILS",
			wantMatch: false,
		},
		{
			name:      "keyword inside a longer word does not fire",
			text:      "E41 UNAVAILABLE",
			wantMatch: false,
		},
		{
			name:      "staging needs word boundaries",
			text:      "CREWS RESTAGING AT HYDRANT",
			wantMatch: false,
		},
		{
			name:         "phrase keyword survives punctuation",
			text:         "CALLER STATES: SMOKE, SECOND FLOOR",
			wantMatch:    true,
			wantRule:     "caller_statement",
			wantCategory: domain.CategoryCaller,
		},
		{
			name:      "empty text",
			text:      "",
			wantMatch: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Match(tc.text)
			if ok != tc.wantMatch {
				t.Fatalf("Match(%q) ok = %v, want %v", tc.text, ok, tc.wantMatch)
			}
			if !ok {
				return
			}
			if got.Rule != tc.wantRule {
				t.Errorf("rule = %q, want %q", got.Rule, tc.wantRule)
			}
			if got.Noise != tc.wantNoise {
				t.Errorf("noise = %v, want %v", got.Noise, tc.wantNoise)
			}
			if !tc.wantNoise && got.Category != string(tc.wantCategory) {
				t.Errorf("category = %q, want %q", got.Category, tc.wantCategory)
			}
		})
	}
}

func TestMatcher_Match_FirstRuleWins(t *testing.T) {
	m := pattern.NewMatcher(pattern.DefaultRules(), logger.NewNop())

	// Satisfies both tactical_command and unit_status; declaration
	// order decides.
	got, ok := m.Match("E41 ON SCENE COMMAND ESTABLISHED")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Rule != "tactical_command" {
		t.Errorf("rule = %q, want tactical_command", got.Rule)
	}
}

func TestMatcher_Match_NoiseBeforeCategories(t *testing.T) {
	m := pattern.NewMatcher(pattern.DefaultRules(), logger.NewNop())

	got, ok := m.Match("CALL TRANSFERRED CALLER STATES SMOKE")
	if !ok {
		t.Fatal("expected a match")
	}
	if !got.Noise {
		t.Errorf("expected noise to win over caller rule, got %q", got.Rule)
	}
}

func TestMatcher_RuleCount(t *testing.T) {
	m := pattern.NewMatcher(pattern.DefaultRules(), logger.NewNop())
	if m.RuleCount() != len(pattern.DefaultRules()) {
		t.Errorf("RuleCount() = %d, want %d", m.RuleCount(), len(pattern.DefaultRules()))
	}
}
