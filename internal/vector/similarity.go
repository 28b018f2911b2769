package vector

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CosineSimilarity returns the symmetric matrix of pairwise cosine
// similarities between the rows of m. Rows with zero norm have zero
// similarity to everything, themselves included.
func CosineSimilarity(m *Matrix) *mat.SymDense {
	n := len(m.Rows)
	if n == 0 {
		return &mat.SymDense{}
	}
	norms := make([]float64, n)
	for i, r := range m.Rows {
		norms[i] = r.Norm()
	}
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		for j := i; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			s.SetSym(i, j, Dot(m.Rows[i], m.Rows[j])/(norms[i]*norms[j]))
		}
	}
	return s
}

// Centroid returns the dense mean of the rows of m.
func Centroid(m *Matrix) []float64 {
	c := make([]float64, len(m.Vocab))
	if len(m.Rows) == 0 {
		return c
	}
	for _, r := range m.Rows {
		for k, idx := range r.Index {
			c[idx] += r.Value[k]
		}
	}
	floats.Scale(1/float64(len(m.Rows)), c)
	return c
}

// CosineTo returns the cosine similarity of every row of m to target.
func CosineTo(m *Matrix, target []float64) []float64 {
	out := make([]float64, len(m.Rows))
	tn := floats.Norm(target, 2)
	if tn == 0 {
		return out
	}
	for i, r := range m.Rows {
		rn := r.Norm()
		if rn == 0 {
			continue
		}
		out[i] = DotDense(r, target) / (rn * tn)
	}
	return out
}

// RowSums returns the sum of each row of a square matrix.
func RowSums(s mat.Matrix) []float64 {
	n, _ := s.Dims()
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		sums[i] = floats.Sum(mat.Row(nil, i, s))
	}
	return sums
}
