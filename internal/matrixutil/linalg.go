package matrixutil

import (
	"errors"
	"math"
)

// ErrSingular is returned by Solve when the system matrix is numerically
// singular (no pivot above tolerance at some column).
var ErrSingular = errors.New("matrixutil: singular system")

// Solve solves A x = b via Gaussian elimination with partial pivoting. A
// must be square; b must have len(A.rows) entries. Small regression and
// GAIN systems (a handful of SNP dosage columns plus an intercept) are the
// only callers, so no effort is spent on large-N numerical stability
// beyond partial pivoting.
func Solve(A *Dense, b []float64) ([]float64, error) {
	n := A.rows
	if n != A.cols || n != len(b) {
		return nil, errors.New("matrixutil: dimension mismatch in Solve")
	}

	aug := NewDense(n, n+1)
	for i := 0; i < n; i++ {
		copy(aug.Row(i)[:n], A.Row(i))
		aug.Set(i, n, b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := math.Abs(aug.At(col, col))
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug.At(r, col)); v > best {
				pivot, best = r, v
			}
		}
		if best < 1e-12 {
			return nil, ErrSingular
		}
		if pivot != col {
			pr, cr := aug.Row(pivot), aug.Row(col)
			for k := 0; k <= n; k++ {
				pr[k], cr[k] = cr[k], pr[k]
			}
		}
		pivotVal := aug.At(col, col)
		for r := col + 1; r < n; r++ {
			factor := aug.At(r, col) / pivotVal
			if factor == 0 {
				continue
			}
			rr, cr := aug.Row(r), aug.Row(col)
			for k := col; k <= n; k++ {
				rr[k] -= factor * cr[k]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := aug.At(i, n)
		for j := i + 1; j < n; j++ {
			sum -= aug.At(i, j) * x[j]
		}
		x[i] = sum / aug.At(i, i)
	}
	return x, nil
}

// SolveLeastSquares solves the normal equations (Xᵀ X) beta = Xᵀ y for an
// ordinary least-squares fit, returning the coefficient vector beta.
func SolveLeastSquares(X *Dense, y []float64) ([]float64, error) {
	p := X.cols
	xtx := NewDense(p, p)
	xty := make([]float64, p)
	for i := 0; i < X.rows; i++ {
		row := X.Row(i)
		for a := 0; a < p; a++ {
			xty[a] += row[a] * y[i]
			for b := a; b < p; b++ {
				xtx.data[a*p+b] += row[a] * row[b]
			}
		}
	}
	for a := 0; a < p; a++ {
		for b := 0; b < a; b++ {
			xtx.data[a*p+b] = xtx.data[b*p+a]
		}
	}
	return Solve(xtx, xty)
}
