// Package pattern implements the deterministic first layer of comment
// classification: an ordered rule list with an Aho-Corasick keyword
// prefilter so a full parse stays linear in the comment text.
package pattern

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/firehallhq/cadintel/internal/logger"
)

// Match is the outcome of running one comment through the matcher.
type Match struct {
	Rule     string
	Category string
	Noise    bool
}

// Matcher evaluates the ordered rule set. Rules are compiled once at
// construction; the matcher is immutable afterwards and safe for
// concurrent use.
type Matcher struct {
	rules     []Rule
	automaton *ahocorasick.Matcher
	keywords  []string
	kwToRule  map[string][]int // keyword -> rule indexes, rule order preserved
	logger    logger.Logger
}

// NewMatcher builds the automaton over every rule keyword.
func NewMatcher(rules []Rule, log logger.Logger) *Matcher {
	m := &Matcher{
		rules:    rules,
		kwToRule: make(map[string][]int),
		logger:   log,
	}

	for i, rule := range rules {
		for _, kw := range rule.Keywords {
			normalized := normalizeKeyword(kw)
			if normalized == "" {
				continue
			}
			m.keywords = append(m.keywords, normalized)
			m.kwToRule[normalized] = append(m.kwToRule[normalized], i)
		}
	}
	if len(m.keywords) > 0 {
		m.automaton = ahocorasick.NewStringMatcher(m.keywords)
	}

	if log != nil {
		log.Info("pattern matcher initialized",
			logger.Int("rules", len(rules)),
			logger.Int("keywords", len(m.keywords)))
	}
	return m
}

// Match runs the comment text through the rule set and returns the
// first matching rule in declaration order, or ok=false when no rule
// matches and control passes to the statistical classifier.
func (m *Matcher) Match(text string) (Match, bool) {
	if m.automaton == nil {
		return Match{}, false
	}

	normalized := normalizeText(text)
	hits := m.automaton.Match([]byte(normalized))
	if len(hits) == 0 {
		return Match{}, false
	}

	// Collect candidate rules from keyword hits, then evaluate them in
	// rule order so ordering stays contractual regardless of which
	// keyword fired first. Automaton hits are substring matches, so
	// each one is re-verified at word boundaries: "available" must not
	// fire inside "unavailable".
	padded := " " + normalized + " "
	candidates := make(map[int]bool)
	for _, hit := range hits {
		if hit >= len(m.keywords) {
			continue
		}
		kw := m.keywords[hit]
		if !strings.Contains(padded, " "+kw+" ") {
			continue
		}
		for _, ruleIdx := range m.kwToRule[kw] {
			candidates[ruleIdx] = true
		}
	}

	for i := range m.rules {
		if !candidates[i] {
			continue
		}
		rule := &m.rules[i]
		if rule.Pattern != nil && !rule.Pattern.MatchString(text) {
			continue
		}
		return Match{
			Rule:     rule.Name,
			Category: string(rule.Category),
			Noise:    rule.Noise,
		}, true
	}
	return Match{}, false
}

// RuleCount returns the number of rules in the set.
func (m *Matcher) RuleCount() int { return len(m.rules) }

// normalizeKeyword runs a rule keyword through the same normalization
// as comment text so phrase keywords align token for token.
func normalizeKeyword(kw string) string {
	return normalizeText(kw)
}

// normalizeText lowercases, replaces non-alphanumeric runes with
// spaces and collapses runs of spaces, so keyword matching survives
// CAD punctuation.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else {
			result.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
