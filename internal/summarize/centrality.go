package summarize

import (
	"errors"

	"github.com/pdiddy/summary-engine/internal/vector"
)

// rankedPool returns the candidate pool used by the score-ranked strategies:
// titles enter when InTitles is set (OutTitles then decides whether they may
// be selected), and duplicates are removed.
func rankedPool(req Request) []Sentence {
	return Deduplicate(Pool(req.Articles, req.Settings.InTitles))
}

func texts(pool []Sentence) []string {
	out := make([]string, len(pool))
	for i, s := range pool {
		out[i] = s.Text
	}
	return out
}

// vectorize runs TF-IDF over the pool. An empty vocabulary is reported as
// ok=false rather than an error: the caller degrades to an empty summary.
func vectorize(pool []Sentence) (*vector.Matrix, bool, error) {
	m, err := vector.TFIDF{}.FitTransform(texts(pool))
	if errors.Is(err, vector.ErrEmptyVocabulary) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// TextRank ranks sentences by PageRank centrality in the TF-IDF cosine
// similarity graph.
type TextRank struct {
	MaxRedundancy float64
}

func (TextRank) Name() string         { return "textrank" }
func (TextRank) NeedsReference() bool { return false }

// Summarize selects by descending centrality with redundancy suppression.
func (t TextRank) Summarize(req Request) ([]Sentence, error) {
	pool := rankedPool(req)
	if len(pool) == 0 {
		return nil, nil
	}
	m, ok, err := vectorize(pool)
	if err != nil || !ok {
		return nil, err
	}
	scores := vector.PageRank(vector.CosineSimilarity(m), vector.DefaultPageRankOptions())
	sel := req.selector(&RedundancyGuard{MaxRedundancy: t.MaxRedundancy}).Select(pool, ByScore(scores))
	return pick(pool, sel.Indices), nil
}

// Centroid ranks sentences by cosine similarity to the mean TF-IDF vector.
type Centroid struct {
	MaxRedundancy float64
}

func (Centroid) Name() string         { return "centroid" }
func (Centroid) NeedsReference() bool { return false }

// Summarize selects by descending centroid similarity with redundancy
// suppression.
func (c Centroid) Summarize(req Request) ([]Sentence, error) {
	pool := rankedPool(req)
	if len(pool) == 0 {
		return nil, nil
	}
	m, ok, err := vectorize(pool)
	if err != nil || !ok {
		return nil, err
	}
	scores := vector.CosineTo(m, vector.Centroid(m))
	sel := req.selector(&RedundancyGuard{MaxRedundancy: c.MaxRedundancy}).Select(pool, ByScore(scores))
	return pick(pool, sel.Indices), nil
}
