package ldtest_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/ldtest"
	"github.com/needl-go/netseek/internal/matrixutil"
	"github.com/needl-go/netseek/internal/snpset"
)

func sampleMatrix() *matrixutil.Dense {
	return matrixutil.NewDenseFromRows([][]float64{
		{1.0, 0.9, 0.1, 0.2},
		{0.9, 1.0, 0.2, 0.3},
		{0.1, 0.2, 1.0, 0.8},
		{0.2, 0.3, 0.8, 1.0},
	})
}

func TestTestMeanModeAboveCutoff(t *testing.T) {
	tester, err := ldtest.NewTester(sampleMatrix(), ldtest.Mean, 0.5)
	require.NoError(t, err)

	set, err := snpset.New([]snpset.SNP{0})
	require.NoError(t, err)
	require.True(t, tester.Test(set, 1)) // 0.9 >= 0.5
	require.False(t, tester.Test(set, 2))
}

func TestTestMaxModeUsesStrongestPair(t *testing.T) {
	tester, err := ldtest.NewTester(sampleMatrix(), ldtest.Max, 0.85)
	require.NoError(t, err)

	set, err := snpset.New([]snpset.SNP{0, 2})
	require.NoError(t, err)
	require.True(t, tester.Test(set, 1)) // max(0.9, 0.2) = 0.9 >= 0.85
}

func TestDimensionMismatchRejected(t *testing.T) {
	rect := matrixutil.NewDense(2, 3)
	_, err := ldtest.NewTester(rect, ldtest.Mean, 0.5)
	require.ErrorIs(t, err, ldtest.ErrDimensionMismatch)
}

func TestMonteCarloCutoffIsDeterministicForFixedSeed(t *testing.T) {
	matrix := sampleMatrix()
	rng1 := rand.New(rand.NewPCG(3, 3))
	rng2 := rand.New(rand.NewPCG(3, 3))

	t1, err := ldtest.NewTesterWithMonteCarloCutoff(matrix, ldtest.Mean, 1, 2, 50, rng1)
	require.NoError(t, err)
	t2, err := ldtest.NewTesterWithMonteCarloCutoff(matrix, ldtest.Mean, 1, 2, 50, rng2)
	require.NoError(t, err)

	require.Equal(t, t1.Cutoff(), t2.Cutoff())
}
