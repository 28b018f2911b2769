// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize builds extractive summaries for clusters of news
// articles. Articles are split into sentences, pooled, deduplicated and
// handed to a scoring strategy; every strategy feeds the same budgeted
// selection loop (Selector) through the Ranker contract.
package summarize

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/summary-engine/internal/nlp"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// TitlePosition is the position of an article's title sentence.
const TitlePosition = -1

// Sentence is one immutable unit of selection.
type Sentence struct {
	Text          string
	Tokens        []string
	ContentTokens []string

	// Position is the 0-based index in the article body, or TitlePosition.
	Position int
	IsTitle  bool
}

// NewSentence builds a sentence and derives its content tokens.
func NewSentence(text string, tokens []string, position int) Sentence {
	return Sentence{
		Text:          text,
		Tokens:        tokens,
		ContentTokens: nlp.ContentTokens(tokens),
		Position:      position,
		IsTitle:       position == TitlePosition,
	}
}

// Len measures the sentence in the given unit.
func (s Sentence) Len(unit types.LengthType) int {
	switch unit {
	case types.LengthChars:
		return utf8.RuneCountInString(s.Text)
	case types.LengthSents:
		return 1
	default:
		return len(s.Tokens)
	}
}

// Article is a title plus its body sentences in document order.
type Article struct {
	Title     Sentence
	Sentences []Sentence
}

// Pool flattens articles into the candidate scan order: for each article,
// its title (when withTitles) and then its body sentences.
func Pool(articles []Article, withTitles bool) []Sentence {
	var pool []Sentence
	for _, a := range articles {
		if withTitles {
			pool = append(pool, a.Title)
		}
		pool = append(pool, a.Sentences...)
	}
	return pool
}

// Join renders selected sentences as summary text, single-space separated,
// in selection order.
func Join(sents []Sentence) string {
	texts := make([]string, len(sents))
	for i, s := range sents {
		texts[i] = s.Text
	}
	return strings.Join(texts, " ")
}

// pick returns the sentences at the given pool indices, in index-list order.
func pick(pool []Sentence, indices []int) []Sentence {
	out := make([]Sentence, len(indices))
	for i, idx := range indices {
		out[i] = pool[idx]
	}
	return out
}

// tokensOf concatenates the tokens of the sentences at indices.
func tokensOf(pool []Sentence, indices []int) []string {
	var toks []string
	for _, idx := range indices {
		toks = append(toks, pool[idx].Tokens...)
	}
	return toks
}
