package bayes

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so accented street and place
// names tokenize the same way officers type them. The chain is built
// per call; transform chains are not safe for concurrent use.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// stopwords are dispatcher filler that carries no category signal.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "was": true, "were": true,
	"are": true, "has": true, "have": true, "this": true, "that": true,
	"with": true, "from": true, "will": true, "been": true, "per": true,
}

// Tokenize normalizes comment text into the word tokens the classifier
// trains and infers on: lowercase, punctuation stripped, stopwords and
// bare numbers dropped. Unit designators like "e41" survive because
// they mix letters and digits and are strong UNIT signals.
func Tokenize(text string) []string {
	text = foldDiacritics(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] || isNumeric(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
