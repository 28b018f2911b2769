package summarize

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/summary-engine/internal/vector"
)

// Submodular greedily maximizes coverage + DivWeight * diversity under the
// length budget and returns the best-scoring prefix of its greedy history.
//
// With S the pairwise similarity matrix over N candidates:
//
//	coverage(X)  = sum_i min(sum_{j in X} S[i,j], (A/N) * sum_j S[i,j])
//	diversity(X) = sum_{clusters L} sqrt(sum_{i in X∩L} rowsum(S)[i] / N)
//
// Clusters come from k-means over the TF-IDF rows with
// k = round(ClusterFactor * N); with N <= 2 or k <= 1 every sentence is its
// own cluster.
type Submodular struct {
	A             float64
	DivWeight     float64
	ClusterFactor float64
	MaxRedundancy float64
}

func (Submodular) Name() string         { return "submodular" }
func (Submodular) NeedsReference() bool { return false }

// Summarize runs the greedy optimization.
func (s Submodular) Summarize(req Request) ([]Sentence, error) {
	pool := rankedPool(req)
	if len(pool) == 0 {
		return nil, nil
	}
	m, ok, err := vectorize(pool)
	if err != nil || !ok {
		return nil, err
	}

	obj := s.objective(vector.CosineSimilarity(m), s.clusters(pool, m, req))
	var guard *RedundancyGuard
	if s.MaxRedundancy > 0 {
		guard = &RedundancyGuard{MaxRedundancy: s.MaxRedundancy}
	}
	sel := req.selector(guard).Select(pool, Greedy{Objective: obj.score})
	return pick(pool, sel.History.Best()), nil
}

// clusters assigns a semantic cluster label to every pool sentence.
// k-means sees the rows sorted by sentence text, so the labels do not
// depend on the order of the articles.
func (s Submodular) clusters(pool []Sentence, m *vector.Matrix, req Request) []int {
	n := len(m.Rows)
	k := int(math.RoundToEven(s.ClusterFactor * float64(n)))
	if n <= 2 || k <= 1 {
		labels := make([]int, n)
		for i := range labels {
			labels[i] = i
		}
		return labels
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(pool[a].Text, pool[b].Text)
	})
	sorted := &vector.Matrix{Rows: make([]vector.Vector, n), Vocab: m.Vocab}
	for i, p := range order {
		sorted.Rows[i] = m.Rows[p]
	}

	labels := make([]int, n)
	for i, l := range vector.KMeans(sorted, k, req.rng()) {
		labels[order[i]] = l
	}
	return labels
}

type submodularObjective struct {
	sims      mat.Symmetric
	caps      []float64 // alpha * rowsum(S)[i]
	avgSims   []float64 // rowsum(S)[i] / N
	labels    []int
	divWeight float64
}

func (s Submodular) objective(sims mat.Symmetric, labels []int) *submodularObjective {
	n := sims.SymmetricDim()
	rowSums := vector.RowSums(sims)
	alpha := s.A / float64(n)
	o := &submodularObjective{
		sims:      sims,
		caps:      make([]float64, n),
		avgSims:   make([]float64, n),
		labels:    labels,
		divWeight: s.DivWeight,
	}
	for i, sum := range rowSums {
		o.caps[i] = alpha * sum
		o.avgSims[i] = sum / float64(n)
	}
	return o
}

// score evaluates the full objective of selected ∪ {candidate}.
func (o *submodularObjective) score(selected []int, candidate int) float64 {
	summary := append(append(make([]int, 0, len(selected)+1), selected...), candidate)
	return o.coverage(summary) + o.divWeight*o.diversity(summary)
}

func (o *submodularObjective) coverage(summary []int) float64 {
	var cov float64
	for i, limit := range o.caps {
		var sum float64
		for _, j := range summary {
			sum += o.sims.At(i, j)
		}
		cov += math.Min(sum, limit)
	}
	return cov
}

func (o *submodularObjective) diversity(summary []int) float64 {
	// Labels are always < N; a slice keeps the summation order fixed.
	perCluster := make([]float64, len(o.labels))
	present := make([]bool, len(o.labels))
	for _, i := range summary {
		perCluster[o.labels[i]] += o.avgSims[i]
		present[o.labels[i]] = true
	}
	var div float64
	for l, v := range perCluster {
		if present[l] {
			div += math.Sqrt(v)
		}
	}
	return div
}
