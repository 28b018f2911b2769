package vector

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	kmeansMaxIter   = 100
	kmeansTolerance = 1e-4
)

// KMeans partitions the rows of m into at most k clusters using k-means++
// seeding and cosine distance, and returns one label per row. rng drives the
// seeding; callers pass a fresh, seeded generator per call so results are
// reproducible.
func KMeans(m *Matrix, k int, rng *rand.Rand) []int {
	n, d := m.Dims()
	labels := make([]int, n)
	if n == 0 || k <= 1 {
		return labels
	}
	if k > n {
		k = n
	}

	centroids := seedCentroids(m, k, rng)
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, row := range m.Rows {
			if best := nearestCentroid(row, centroids); best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		next := updateCentroids(m, labels, k, d, centroids)
		shift := centroidShift(centroids, next)
		centroids = next
		if shift < kmeansTolerance {
			break
		}
	}
	return labels
}

// seedCentroids picks k initial centroids with k-means++: the first at
// random, each following one with probability proportional to its squared
// distance from the nearest centroid chosen so far.
func seedCentroids(m *Matrix, k int, rng *rand.Rand) *mat.Dense {
	n, d := m.Dims()
	centroids := mat.NewDense(k, d, nil)
	setRow(centroids, 0, m.Rows[rng.IntN(n)])

	distances := make([]float64, n)
	for c := 1; c < k; c++ {
		for j, row := range m.Rows {
			minDist := math.Inf(1)
			for prev := 0; prev < c; prev++ {
				if dist := cosineDistance(row, centroids.RawRowView(prev)); dist < minDist {
					minDist = dist
				}
			}
			distances[j] = minDist * minDist
		}

		total := floats.Sum(distances)
		if total == 0 {
			setRow(centroids, c, m.Rows[rng.IntN(n)])
			continue
		}
		target := rng.Float64() * total
		var cum float64
		chosen := n - 1
		for j, dist := range distances {
			cum += dist
			if cum >= target {
				chosen = j
				break
			}
		}
		setRow(centroids, c, m.Rows[chosen])
	}
	return centroids
}

func nearestCentroid(row Vector, centroids *mat.Dense) int {
	k, _ := centroids.Dims()
	best, bestDist := 0, math.Inf(1)
	for c := 0; c < k; c++ {
		if dist := cosineDistance(row, centroids.RawRowView(c)); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// updateCentroids averages the rows assigned to each cluster. A cluster
// that lost all its rows keeps its previous centroid.
func updateCentroids(m *Matrix, labels []int, k, d int, prev *mat.Dense) *mat.Dense {
	next := mat.NewDense(k, d, nil)
	counts := make([]int, k)
	for i, row := range m.Rows {
		c := labels[i]
		dst := next.RawRowView(c)
		for x, idx := range row.Index {
			dst[idx] += row.Value[x]
		}
		counts[c]++
	}
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			next.SetRow(c, prev.RawRowView(c))
			continue
		}
		floats.Scale(1/float64(counts[c]), next.RawRowView(c))
	}
	return next
}

func centroidShift(prev, next *mat.Dense) float64 {
	k, _ := prev.Dims()
	var total float64
	for c := 0; c < k; c++ {
		total += 1 - denseCosine(prev.RawRowView(c), next.RawRowView(c))
	}
	return total / float64(k)
}

func cosineDistance(row Vector, centroid []float64) float64 {
	rn, cn := row.Norm(), floats.Norm(centroid, 2)
	if rn == 0 || cn == 0 {
		return 1
	}
	return 1 - DotDense(row, centroid)/(rn*cn)
}

func denseCosine(a, b []float64) float64 {
	an, bn := floats.Norm(a, 2), floats.Norm(b, 2)
	if an == 0 || bn == 0 {
		return 0
	}
	return floats.Dot(a, b) / (an * bn)
}

func setRow(dst *mat.Dense, i int, row Vector) {
	r := dst.RawRowView(i)
	for x, idx := range row.Index {
		r[idx] = row.Value[x]
	}
}
