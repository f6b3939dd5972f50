package qubo_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/qubo"
)

// twoVariableProblem rewards picking both x0 and x1 together: diagonal
// terms are zero, the off-diagonal coefficient is strongly negative, so
// the minimizer of x^T Q x should select both.
func twoVariableProblem() qubo.Problem {
	return qubo.Problem{
		N:      2,
		Linear: []float64{0, 0},
		Quadratic: [][]float64{
			{0, -10},
			{0, 0},
		},
	}
}

func TestObjectiveCountsSelectedQuadraticTerm(t *testing.T) {
	p := twoVariableProblem()
	require.Equal(t, -10.0, p.Objective([]bool{true, true}))
	require.Equal(t, 0.0, p.Objective([]bool{true, false}))
	require.Equal(t, 0.0, p.Objective([]bool{false, false}))
}

func TestSimulatedAnnealingSolverFindsJointMinimum(t *testing.T) {
	p := twoVariableProblem()
	solver := qubo.NewSimulatedAnnealingSolver(rand.New(rand.NewPCG(1, 1)), 500, 5, 0.01)

	result, err := solver.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, []bool{true, true}, result.Selected)
	require.Equal(t, -10.0, result.Objective)
}

func TestSimulatedAnnealingSolverRespectsCancelledContext(t *testing.T) {
	p := twoVariableProblem()
	solver := qubo.NewSimulatedAnnealingSolver(rand.New(rand.NewPCG(2, 2)), 500, 5, 0.01)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Solve(ctx, p)
	require.ErrorIs(t, err, qubo.ErrSolverFailure)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResultNumSelected(t *testing.T) {
	r := qubo.Result{Selected: []bool{true, false, true, true}}
	require.Equal(t, 3, r.NumSelected())
}

func TestEmptyProblemReturnsEmptyResult(t *testing.T) {
	solver := qubo.NewSimulatedAnnealingSolver(rand.New(rand.NewPCG(3, 3)), 10, 1, 0.1)
	result, err := solver.Solve(context.Background(), qubo.Problem{})
	require.NoError(t, err)
	require.Nil(t, result.Selected)
}
