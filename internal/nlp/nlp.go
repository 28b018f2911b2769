// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nlp provides the text primitives consumed by the summarizer:
// sentence splitting, word tokenization, and stopword filtering.
//
// The default implementations wrap the Punkt sentence model
// (neurosnap/sentences) and the Treebank word tokenizer (jdkato/prose).
// Both are read-only after construction and safe for concurrent use.
package nlp

// Tokenizer turns text into a sequence of word tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// SentenceSplitter turns a block of text into sentence strings.
type SentenceSplitter interface {
	Split(text string) []string
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []string { return f(text) }

// SplitterFunc adapts a plain function to the SentenceSplitter interface.
type SplitterFunc func(text string) []string

// Split calls f(text).
func (f SplitterFunc) Split(text string) []string { return f(text) }
