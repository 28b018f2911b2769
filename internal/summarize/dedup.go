package summarize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Deduplicate drops sentences whose normalized text was already seen,
// keeping the first occurrence and the original order.
func Deduplicate(sents []Sentence) []Sentence {
	seen := make(map[string]struct{}, len(sents))
	out := make([]Sentence, 0, len(sents))
	for _, s := range sents {
		key := dedupKey(s.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// dedupKey is the NFC form of the text with surrounding whitespace removed.
func dedupKey(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
