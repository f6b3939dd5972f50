package matrixutil

import "math"

// ColumnMeans returns the per-column arithmetic mean of X. Zero-row inputs
// return an all-zero slice of the right length rather than dividing by
// zero.
func ColumnMeans(X *Dense) []float64 {
	means := make([]float64, X.cols)
	if X.rows == 0 {
		return means
	}
	for i := 0; i < X.rows; i++ {
		base := i * X.cols
		for j := 0; j < X.cols; j++ {
			means[j] += X.data[base+j]
		}
	}
	invR := 1.0 / float64(X.rows)
	for j := range means {
		means[j] *= invR
	}
	return means
}

// ColumnVariances returns the per-column sample variance (denominator r-1,
// falling back to population variance for r==1) given precomputed means.
func ColumnVariances(X *Dense, means []float64) []float64 {
	out := make([]float64, X.cols)
	if X.rows == 0 {
		return out
	}
	for i := 0; i < X.rows; i++ {
		base := i * X.cols
		for j := 0; j < X.cols; j++ {
			d := X.data[base+j] - means[j]
			out[j] += d * d
		}
	}
	denom := float64(X.rows - 1)
	if denom <= 0 {
		denom = 1
	}
	for j := range out {
		out[j] /= denom
	}
	return out
}

// CenterColumns returns a copy of X with each column's mean subtracted,
// alongside the means that were subtracted.
func CenterColumns(X *Dense) (*Dense, []float64) {
	means := ColumnMeans(X)
	out := NewDense(X.rows, X.cols)
	for i := 0; i < X.rows; i++ {
		base := i * X.cols
		for j := 0; j < X.cols; j++ {
			out.data[base+j] = X.data[base+j] - means[j]
		}
	}
	return out, means
}

// Correlation returns the Pearson correlation matrix of X's columns via
// z-scoring. A column with zero variance produces a zeroed row/column in
// the output (degenerate SNPs correlate with nothing) instead of NaN.
func Correlation(X *Dense) *Dense {
	means := ColumnMeans(X)
	variances := ColumnVariances(X, means)
	stds := make([]float64, len(variances))
	for j, v := range variances {
		stds[j] = math.Sqrt(v)
	}

	z := NewDense(X.rows, X.cols)
	for i := 0; i < X.rows; i++ {
		base := i * X.cols
		for j := 0; j < X.cols; j++ {
			if stds[j] == 0 {
				continue
			}
			z.data[base+j] = (X.data[base+j] - means[j]) / stds[j]
		}
	}

	out := NewDense(X.cols, X.cols)
	denom := float64(X.rows - 1)
	if denom <= 0 {
		denom = 1
	}
	for a := 0; a < X.cols; a++ {
		for b := a; b < X.cols; b++ {
			var sum float64
			for i := 0; i < X.rows; i++ {
				sum += z.data[i*X.cols+a] * z.data[i*X.cols+b]
			}
			corr := sum / denom
			out.Set(a, b, corr)
			out.Set(b, a, corr)
		}
	}
	return out
}

// PairwiseCorrelation returns the Pearson correlation between two equal
// length float64 slices, or 0 if either has zero variance.
func PairwiseCorrelation(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}
	var meanA, meanB float64
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
