package nlp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// gluedSentence matches a period directly followed by a capital letter, a
// common artifact of scraped news text ("ended.The next").
var gluedSentence = regexp.MustCompile(`\.[A-Z]`)

// PunktSplitter splits news text into sentences with the English Punkt model,
// repairing glued sentences first and breaking sentences on embedded newlines.
type PunktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktSplitter loads the English Punkt model.
func NewPunktSplitter() (*PunktSplitter, error) {
	t, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("loading punkt model: %w", err)
	}
	return &PunktSplitter{tokenizer: t}, nil
}

// Split returns the non-empty sentences of text in order.
func (p *PunktSplitter) Split(text string) []string {
	text = Unglue(text)
	var raw []string
	for _, s := range p.tokenizer.Tokenize(text) {
		raw = append(raw, s.Text)
	}
	return SplitLines(raw)
}

// Unglue inserts a space between a period and a directly following capital.
func Unglue(text string) string {
	return gluedSentence.ReplaceAllStringFunc(text, func(m string) string {
		return m[:1] + " " + m[1:]
	})
}

// SplitLines breaks every sentence on newlines, trims the pieces, and drops
// empty ones.
func SplitLines(sents []string) []string {
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}
