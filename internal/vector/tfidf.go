// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vector provides the numeric primitives behind the scoring
// strategies: TF-IDF vectorization, cosine similarity, PageRank centrality
// and k-means clustering. Every call builds fresh state; nothing is cached
// between calls.
package vector

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/pdiddy/summary-engine/internal/nlp"
)

// ErrEmptyVocabulary is returned when no document contains a usable term,
// for example when every sentence consists only of stopwords.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stopwords or no terms")

// wordRun matches runs of word characters; runs shorter than two runes are
// discarded by the analyzer.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Vector is a sparse row with term indices in ascending order.
type Vector struct {
	Index []int
	Value []float64
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	return floats.Norm(v.Value, 2)
}

// Dot returns the inner product of two sparse vectors.
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Index) && j < len(b.Index) {
		switch {
		case a.Index[i] == b.Index[j]:
			sum += a.Value[i] * b.Value[j]
			i++
			j++
		case a.Index[i] < b.Index[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// DotDense returns the inner product of a sparse vector and a dense one.
func DotDense(a Vector, dense []float64) float64 {
	var sum float64
	for k, idx := range a.Index {
		sum += a.Value[k] * dense[idx]
	}
	return sum
}

// Matrix is a document-term matrix stored as sparse rows.
type Matrix struct {
	Rows  []Vector
	Vocab []string
}

// Dims returns the number of documents and terms.
func (m *Matrix) Dims() (int, int) {
	return len(m.Rows), len(m.Vocab)
}

// TFIDF vectorizes documents with lowercased word-run terms, English
// stopword removal, smoothed inverse document frequency and L2-normalized
// rows.
type TFIDF struct{}

// Analyze returns the terms TFIDF extracts from doc.
func (TFIDF) Analyze(doc string) []string {
	var terms []string
	for _, w := range wordRun.FindAllString(strings.ToLower(doc), -1) {
		if len([]rune(w)) < 2 || nlp.IsStopword(w) {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// FitTransform learns the vocabulary of docs and returns their TF-IDF rows.
// Terms are indexed in lexical order.
func (t TFIDF) FitTransform(docs []string) (*Matrix, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range t.Analyze(doc) {
			counts[i][term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for i, term := range vocab {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	m := &Matrix{Rows: make([]Vector, len(docs)), Vocab: vocab}
	for i, c := range counts {
		row := Vector{Index: make([]int, 0, len(c)), Value: make([]float64, 0, len(c))}
		for term := range c {
			row.Index = append(row.Index, index[term])
		}
		sort.Ints(row.Index)
		for _, idx := range row.Index {
			row.Value = append(row.Value, float64(c[vocab[idx]])*idf[idx])
		}
		if norm := row.Norm(); norm > 0 {
			floats.Scale(1/norm, row.Value)
		}
		m.Rows[i] = row
	}
	return m, nil
}
