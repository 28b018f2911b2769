package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PageRankOptions controls the power iteration.
type PageRankOptions struct {
	Damping   float64
	MaxIter   int
	Tolerance float64
}

// DefaultPageRankOptions returns damping 0.85, 100 iterations and a
// per-node tolerance of 1e-6.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{Damping: 0.85, MaxIter: 100, Tolerance: 1e-6}
}

// PageRank computes stationary-distribution centrality over the weighted,
// undirected graph whose adjacency matrix is w (self-loops included). Each
// node's out-weight is its row sum; nodes with no weight spread their rank
// uniformly. The result sums to 1.
func PageRank(w mat.Symmetric, opts PageRankOptions) []float64 {
	n := w.SymmetricDim()
	if n == 0 {
		return nil
	}

	outWeight := RowSums(w)
	// transition[i][j] is the probability of stepping from j to i.
	transition := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		if outWeight[j] == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			if v := w.At(j, i); v != 0 {
				transition.Set(i, j, v/outWeight[j])
			}
		}
	}

	uniform := 1 / float64(n)
	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, uniform)
	}
	next := mat.NewVecDense(n, nil)

	for iter := 0; iter < opts.MaxIter; iter++ {
		var dangling float64
		for j := 0; j < n; j++ {
			if outWeight[j] == 0 {
				dangling += x.AtVec(j)
			}
		}
		next.MulVec(transition, x)
		base := opts.Damping*dangling*uniform + (1-opts.Damping)*uniform
		var diff float64
		for i := 0; i < n; i++ {
			v := opts.Damping*next.AtVec(i) + base
			next.SetVec(i, v)
			diff += math.Abs(v - x.AtVec(i))
		}
		x.CopyVec(next)
		if diff < float64(n)*opts.Tolerance {
			break
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = x.AtVec(i)
	}
	if sum := floats.Sum(scores); sum > 0 {
		floats.Scale(1/sum, scores)
	}
	return scores
}
