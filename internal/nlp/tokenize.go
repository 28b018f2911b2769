package nlp

import (
	"strings"

	"github.com/jdkato/prose/tokenize"
)

// WordTokenizer splits text into sentences and each sentence into Treebank
// word tokens, so that sentence-final periods become separate tokens even
// in multi-sentence text.
type WordTokenizer struct {
	sents    SentenceSplitter
	treebank *tokenize.TreebankWordTokenizer
}

// NewWordTokenizer returns a tokenizer that uses sents for sentence
// boundaries. A nil sents treats the whole text as one sentence.
func NewWordTokenizer(sents SentenceSplitter) *WordTokenizer {
	return &WordTokenizer{
		sents:    sents,
		treebank: tokenize.NewTreebankWordTokenizer(),
	}
}

// Tokenize returns the word tokens of text.
func (w *WordTokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := []string{text}
	if w.sents != nil {
		parts = w.sents.Split(text)
	}
	var tokens []string
	for _, p := range parts {
		tokens = append(tokens, w.treebank.Tokenize(p)...)
	}
	return tokens
}
