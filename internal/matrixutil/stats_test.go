package matrixutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/matrixutil"
)

func TestColumnMeansAndVariances(t *testing.T) {
	X := matrixutil.NewDenseFromRows([][]float64{
		{1, 2},
		{2, 4},
		{3, 6},
	})
	means := matrixutil.ColumnMeans(X)
	require.InDeltaSlice(t, []float64{2, 4}, means, 1e-9)

	variances := matrixutil.ColumnVariances(X, means)
	require.InDeltaSlice(t, []float64{1, 4}, variances, 1e-9)
}

func TestCorrelationPerfectlyCorrelatedColumns(t *testing.T) {
	X := matrixutil.NewDenseFromRows([][]float64{
		{1, 2},
		{2, 4},
		{3, 6},
	})
	corr := matrixutil.Correlation(X)
	require.InDelta(t, 1.0, corr.At(0, 1), 1e-9)
	require.InDelta(t, 1.0, corr.At(0, 0), 1e-9)
}

func TestCorrelationDegenerateColumnIsZeroed(t *testing.T) {
	X := matrixutil.NewDenseFromRows([][]float64{
		{1, 5},
		{1, 2},
		{1, 9},
	})
	corr := matrixutil.Correlation(X)
	require.Equal(t, 0.0, corr.At(0, 1))
}

func TestPairwiseCorrelation(t *testing.T) {
	a := []float64{0, 1, 2}
	b := []float64{0, 2, 4}
	require.InDelta(t, 1.0, matrixutil.PairwiseCorrelation(a, b), 1e-9)
}

func TestSolveLeastSquaresRecoversExactLine(t *testing.T) {
	// y = 2 + 3x
	X := matrixutil.NewDenseFromRows([][]float64{
		{1, 0},
		{1, 1},
		{1, 2},
		{1, 3},
	})
	y := []float64{2, 5, 8, 11}
	beta, err := matrixutil.SolveLeastSquares(X, y)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{2, 3}, beta, 1e-6)
}

func TestSolveSingularReturnsErr(t *testing.T) {
	A := matrixutil.NewDenseFromRows([][]float64{
		{1, 2},
		{2, 4},
	})
	_, err := matrixutil.Solve(A, []float64{1, 2})
	require.ErrorIs(t, err, matrixutil.ErrSingular)
}
