package vector

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestTFIDFAnalyze(t *testing.T) {
	got := TFIDF{}.Analyze("The Senate passed a 2024 budget, a big one.")
	assert.Equal(t, []string{"senate", "passed", "2024", "budget", "big", "one"}, got)
}

func TestTFIDFFitTransform(t *testing.T) {
	m, err := TFIDF{}.FitTransform([]string{
		"storm hits coast",
		"storm hits city",
		"election results",
	})
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 6, cols)
	assert.Equal(t, []string{"city", "coast", "election", "hits", "results", "storm"}, m.Vocab)

	for i, r := range m.Rows {
		assert.InDelta(t, 1.0, r.Norm(), 1e-9, "row %d not normalized", i)
	}
	// "coast" (df=1) weighs more than "storm" (df=2) within the first row.
	assert.Greater(t, m.Rows[0].Value[0], m.Rows[0].Value[2])
}

func TestTFIDFEmptyVocabulary(t *testing.T) {
	_, err := TFIDF{}.FitTransform([]string{"the and of", "a"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestCosineSimilarity(t *testing.T) {
	m, err := TFIDF{}.FitTransform([]string{
		"storm hits coast",
		"storm hits coast",
		"election results",
	})
	require.NoError(t, err)

	s := CosineSimilarity(m)
	assert.Equal(t, 3, s.SymmetricDim())
	assert.InDelta(t, 1.0, s.At(0, 0), 1e-9)
	assert.InDelta(t, 1.0, s.At(0, 1), 1e-9)
	assert.InDelta(t, 0.0, s.At(0, 2), 1e-9)
	assert.Equal(t, s.At(1, 2), s.At(2, 1))
}

func TestCentroidAndCosineTo(t *testing.T) {
	m := &Matrix{
		Rows: []Vector{
			{Index: []int{0}, Value: []float64{1}},
			{Index: []int{1}, Value: []float64{1}},
			{Index: []int{0, 1}, Value: []float64{1, 1}},
		},
		Vocab: []string{"a", "b"},
	}
	c := Centroid(m)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 2.0 / 3}, c, 1e-9)

	sims := CosineTo(m, c)
	assert.InDelta(t, 1/math.Sqrt2, sims[0], 1e-9)
	assert.InDelta(t, 1.0, sims[2], 1e-9)
}

func TestCosineToZeroTarget(t *testing.T) {
	m := &Matrix{Rows: []Vector{{Index: []int{0}, Value: []float64{1}}}, Vocab: []string{"a"}}
	assert.Equal(t, []float64{0}, CosineTo(m, []float64{0}))
}

func TestPageRankStar(t *testing.T) {
	// Node 0 is linked to every other node; the leaves are only linked to 0.
	w := mat.NewSymDense(4, nil)
	for i := 1; i < 4; i++ {
		w.SetSym(0, i, 1)
	}
	scores := PageRank(w, DefaultPageRankOptions())
	require.Len(t, scores, 4)
	assert.InDelta(t, 1.0, floats.Sum(scores), 1e-9)
	for i := 1; i < 4; i++ {
		assert.Greater(t, scores[0], scores[i])
		assert.InDelta(t, scores[1], scores[i], 1e-9)
	}
}

func TestPageRankDangling(t *testing.T) {
	w := mat.NewSymDense(3, nil)
	w.SetSym(0, 1, 1)
	scores := PageRank(w, DefaultPageRankOptions())
	assert.InDelta(t, 1.0, floats.Sum(scores), 1e-9)
	assert.InDelta(t, scores[0], scores[1], 1e-9)
	assert.Less(t, scores[2], scores[0])
}

func TestPageRankEmpty(t *testing.T) {
	assert.Nil(t, PageRank(&mat.SymDense{}, DefaultPageRankOptions()))
}

func TestKMeansSeparatesGroups(t *testing.T) {
	m, err := TFIDF{}.FitTransform([]string{
		"apple banana",
		"rocket engine",
		"apple banana",
		"rocket engine",
	})
	require.NoError(t, err)

	labels := KMeans(m, 2, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, labels, 4)
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[1], labels[3])
	assert.NotEqual(t, labels[0], labels[1])
}

func TestKMeansDeterministic(t *testing.T) {
	m, err := TFIDF{}.FitTransform([]string{
		"apple banana", "apple cherry", "rocket engine", "rocket fuel", "ocean wave", "ocean tide",
	})
	require.NoError(t, err)

	a := KMeans(m, 3, rand.New(rand.NewPCG(7, 7)))
	b := KMeans(m, 3, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestKMeansSingleCluster(t *testing.T) {
	m, err := TFIDF{}.FitTransform([]string{"apple", "rocket"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, KMeans(m, 1, rand.New(rand.NewPCG(1, 1))))
}
