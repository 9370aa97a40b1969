package analysis

import (
	"math"
	"sort"
)

// defaultComponents is the component count used when a request leaves it
// unset.
const defaultComponents = 3

// jacobiMaxSweeps bounds the eigendecomposition iteration count.
const jacobiMaxSweeps = 100

// principalComponents projects the channel matrix onto its top-k
// principal directions. Each row of signals is one channel; all rows
// must share a length. Channels are standardized to zero mean and unit
// variance first, so no single high-amplitude channel dominates the
// decomposition. Fewer than two channels yields a skipped result.
func principalComponents(signals [][]float64, k int) (*PCAResult, error) {
	if len(signals) < 2 {
		return &PCAResult{Skipped: true}, nil
	}
	if k <= 0 {
		k = defaultComponents
	}
	if k > len(signals) {
		k = len(signals)
	}

	std := make([][]float64, len(signals))
	for i, s := range signals {
		std[i] = standardize(s)
	}

	cov := covarianceMatrix(std)
	values, vectors, err := jacobiEigen(cov)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	var trace float64
	for _, v := range values {
		if v > 0 {
			trace += v
		}
	}
	if trace <= 0 {
		return nil, newComputationError("zero-variance channel matrix")
	}

	n := len(std[0])
	res := &PCAResult{
		Components:              make([][]float64, k),
		ExplainedVarianceRatio:  make([]float64, k),
		CumulativeVarianceRatio: make([]float64, k),
	}
	var cum float64
	for c := 0; c < k; c++ {
		col := order[c]
		ratio := 0.0
		if values[col] > 0 {
			ratio = values[col] / trace
		}
		cum += ratio
		res.ExplainedVarianceRatio[c] = ratio
		res.CumulativeVarianceRatio[c] = cum

		comp := make([]float64, n)
		for t := 0; t < n; t++ {
			var sum float64
			for ch := range std {
				sum += vectors[ch][col] * std[ch][t]
			}
			comp[t] = sum
		}
		res.Components[c] = comp
	}
	return res, nil
}

// standardize returns a zero-mean, unit-variance copy of the signal. A
// constant signal keeps unit scale so the division stays defined.
func standardize(s []float64) []float64 {
	n := float64(len(s))
	var mean float64
	for _, v := range s {
		mean += v
	}
	mean /= n

	var variance float64
	for _, v := range s {
		d := v - mean
		variance += d * d
	}
	variance /= n

	scale := 1.0
	if variance > 0 {
		scale = 1 / math.Sqrt(variance)
	}
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = (v - mean) * scale
	}
	return out
}

// covarianceMatrix computes the channel-by-channel covariance of the
// standardized rows.
func covarianceMatrix(rows [][]float64) [][]float64 {
	m := len(rows)
	n := float64(len(rows[0]))
	cov := make([][]float64, m)
	for i := range cov {
		cov[i] = make([]float64, m)
	}
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			var sum float64
			for t := range rows[i] {
				sum += rows[i][t] * rows[j][t]
			}
			c := sum / n
			cov[i][j] = c
			cov[j][i] = c
		}
	}
	return cov
}

// jacobiEigen diagonalizes a symmetric matrix by cyclic Jacobi rotations,
// returning eigenvalues and the matching column eigenvectors.
func jacobiEigen(a [][]float64) ([]float64, [][]float64, error) {
	m := len(a)
	// Work on a copy so the caller's matrix survives.
	w := make([][]float64, m)
	for i := range w {
		w[i] = make([]float64, m)
		copy(w[i], a[i])
	}
	v := make([][]float64, m)
	for i := range v {
		v[i] = make([]float64, m)
		v[i][i] = 1
	}

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := offDiagonalNorm(w)
		if off < 1e-12 {
			values := make([]float64, m)
			for i := range values {
				values[i] = w[i][i]
			}
			return values, v, nil
		}
		for p := 0; p < m-1; p++ {
			for q := p + 1; q < m; q++ {
				if math.Abs(w[p][q]) < 1e-15 {
					continue
				}
				rotate(w, v, p, q)
			}
		}
	}
	return nil, nil, newComputationError("eigendecomposition did not converge in %d sweeps", jacobiMaxSweeps)
}

func offDiagonalNorm(w [][]float64) float64 {
	var sum float64
	for i := range w {
		for j := range w {
			if i != j {
				sum += w[i][j] * w[i][j]
			}
		}
	}
	return math.Sqrt(sum)
}

// rotate applies a single Jacobi rotation zeroing w[p][q], accumulating
// the rotation into the eigenvector matrix v.
func rotate(w, v [][]float64, p, q int) {
	theta := (w[q][q] - w[p][p]) / (2 * w[p][q])
	t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	m := len(w)
	for i := 0; i < m; i++ {
		wip, wiq := w[i][p], w[i][q]
		w[i][p] = c*wip - s*wiq
		w[i][q] = s*wip + c*wiq
	}
	for i := 0; i < m; i++ {
		wpi, wqi := w[p][i], w[q][i]
		w[p][i] = c*wpi - s*wqi
		w[q][i] = s*wpi + c*wqi
	}
	for i := 0; i < m; i++ {
		vip, viq := v[i][p], v[i][q]
		v[i][p] = c*vip - s*viq
		v[i][q] = s*vip + c*viq
	}
}
