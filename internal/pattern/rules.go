package pattern

import (
	"regexp"

	"github.com/firehallhq/cadintel/internal/domain"
)

// Rule is one deterministic classification rule. Keywords feed the
// Aho-Corasick prefilter; Pattern, when present, must also match for
// the rule to fire. A Noise rule excludes the comment from every
// downstream workflow instead of assigning a category.
type Rule struct {
	Name     string
	Keywords []string
	Pattern  *regexp.Regexp
	Category domain.Category
	Noise    bool
}

// DefaultRules is the ordered rule set applied to every comment; the
// first matching rule wins. Order is contractual: noise detection runs
// before category rules, and more specific category phrasing runs
// before broader unit-status phrasing, because ambiguous text can
// satisfy several rules.
func DefaultRules() []Rule {
	return []Rule{
		// System chatter produced by the CAD itself, never by a human.
		{
			Name:     "noise_cad_automation",
			Keywords: []string{"msgdelivered", "proqa", "page sent", "aps alert", "avl update", "premise history"},
			Noise:    true,
		},
		{
			Name:     "noise_timestamp_marker",
			Keywords: []string{"time stamp", "timestamp only"},
			Pattern:  regexp.MustCompile(`(?i)\btime ?stamp\b`),
			Noise:    true,
		},
		{
			Name:     "noise_call_transfer",
			Keywords: []string{"call transferred", "transferred to psap"},
			Pattern:  regexp.MustCompile(`(?i)call transferred`),
			Noise:    true,
		},

		// Caller narrative relayed by the dispatcher.
		{
			Name:     "caller_statement",
			Keywords: []string{"caller states", "caller adv", "caller advised", "rp states", "rp advised", "per caller", "callback number", "caller reports"},
			Category: domain.CategoryCaller,
		},
		{
			Name:     "caller_location_detail",
			Keywords: []string{"ani ali", "phase ii", "wireless caller", "caller location"},
			Pattern:  regexp.MustCompile(`(?i)\b(ani/?ali|wireless caller|caller location)\b`),
			Category: domain.CategoryCaller,
		},

		// Fireground tactics. These carry the phrases the timestamp
		// extractor also keys on, so they outrank unit status below.
		{
			Name:     "tactical_command",
			Keywords: []string{"command established", "command terminated", "assumed command", "transferred command", "incident command"},
			Category: domain.CategoryTactical,
		},
		{
			Name:     "tactical_fire_attack",
			Keywords: []string{"water on fire", "water on the fire", "fire under control", "under control", "knocked down", "working fire", "defensive operations", "offensive attack"},
			Category: domain.CategoryTactical,
		},
		{
			Name:     "tactical_search_rescue",
			Keywords: []string{"primary search", "secondary search", "all clear", "par complete", "mayday", "victim located", "extrication"},
			Category: domain.CategoryTactical,
		},

		// Incident support traffic.
		{
			Name:     "operations_support",
			Keywords: []string{"mutual aid", "staging", "fire marshal", "investigator requested", "utility company", "red cross", "notified", "requesting additional"},
			Category: domain.CategoryOperations,
		},

		// Unit status updates.
		{
			Name:     "unit_status",
			Keywords: []string{"enroute", "en route", "on scene", "responding", "transporting", "at hospital", "available", "cleared scene", "returning to quarters", "crew of"},
			Category: domain.CategoryUnit,
		},
		{
			Name:     "unit_identifier_status",
			Keywords: []string{"dispatched"},
			Pattern:  regexp.MustCompile(`(?i)\b([a-z]{1,3}\d{1,3})\b.*\bdispatched\b`),
			Category: domain.CategoryUnit,
		},
	}
}
