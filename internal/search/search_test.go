package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/search"
	"github.com/needl-go/netseek/internal/snpset"
)

// cliqueGraph builds a fully-connected graph over n SNPs (0..n-1), so
// add/delete/substitute moves are all locally available from any seed.
func cliqueGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			require.NoError(t, g.AddEdge(snpset.SNP(i), snpset.SNP(j), "NET"))
		}
	}
	return g
}

func buildInstance(t *testing.T, numSNPs, numInds int) *instance.Instance[float64] {
	t.Helper()
	in := instance.New[float64](2, true)
	in.Allocate(numSNPs, numInds)
	for snp := 0; snp < numSNPs; snp++ {
		for ind := 0; ind < numInds; ind++ {
			in.SetGenotypeAtSNP(snpset.SNP(snp), instance.Ind(ind), instance.GenoType(ind%3))
		}
	}
	for ind := 0; ind < numInds; ind++ {
		in.SetPhenotype(instance.Ind(ind), float64(ind%3)*2.0)
	}
	in.SetSeed(11)
	return in
}

func TestRunRefinesSeedAndAnnotatesStoppingReason(t *testing.T) {
	g := cliqueGraph(t, 6)
	in := buildInstance(t, 6, 9)
	model := scoremodel.NewVarianceModel(in)

	cfg, err := search.NewConfig(model, false, 10, 0, 0, search.SimulatedAnnealing, 0.8, 0.01, 2, 4, false, 0)
	require.NoError(t, err)

	seed, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)

	results, err := search.Run(context.Background(), cfg, g, []snpset.Set{seed}, 3)
	require.NoError(t, err)
	require.Len(t, results, 1)

	reason, ok := results[0].Attribute("STOPPING_REASON")
	require.True(t, ok)
	require.NotEmpty(t, reason)

	rounds, ok := results[0].Attribute("NUM_ROUNDS")
	require.True(t, ok)
	require.NotEmpty(t, rounds)

	require.GreaterOrEqual(t, results[0].Len(), cfg.MinSetSize)
	require.LessOrEqual(t, results[0].Len(), cfg.MaxSetSize)
}

func TestRunDropsSeedThatCannotReachMinSet(t *testing.T) {
	g := graph.New()
	g.AddNode(0) // isolated, no neighbours to grow into
	in := buildInstance(t, 1, 4)
	model := scoremodel.NewVarianceModel(in)

	cfg, err := search.NewConfig(model, false, 5, 0, 0, search.SimulatedAnnealing, 0.8, 0.01, 2, 4, false, 0)
	require.NoError(t, err)

	seed, err := snpset.New([]snpset.SNP{0})
	require.NoError(t, err)

	results, err := search.Run(context.Background(), cfg, g, []snpset.Set{seed}, 1)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestRunWithMonteCarloAttachesScoreAttribute(t *testing.T) {
	g := cliqueGraph(t, 5)
	in := buildInstance(t, 5, 9)
	model := scoremodel.NewVarianceModel(in)

	cfg, err := search.NewConfig(model, false, 3, 0, 0, search.SimulatedAnnealing, 0.8, 0.01, 2, 3, true, 20)
	require.NoError(t, err)

	seed, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)

	results, err := search.Run(context.Background(), cfg, g, []snpset.Set{seed}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	score, ok := results[0].Attribute("MONTE_CARLO_SCORE")
	require.True(t, ok)
	require.NotEmpty(t, score)
}

func TestRunRespectsSearchTimeLimit(t *testing.T) {
	g := cliqueGraph(t, 4)
	in := buildInstance(t, 4, 6)
	model := scoremodel.NewVarianceModel(in)

	cfg, err := search.NewConfig(model, false, 1000, time.Nanosecond, 0, search.SimulatedAnnealing, 0.8, 0.01, 2, 4, false, 0)
	require.NoError(t, err)

	seed, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	results, err := search.Run(context.Background(), cfg, g, []snpset.Set{seed}, 2)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestNewConfigRejectsUnknownAnnealingType(t *testing.T) {
	in := buildInstance(t, 2, 4)
	model := scoremodel.NewVarianceModel(in)

	_, err := search.NewConfig(model, false, 10, 0, 0, search.AnnealingType("NOT_A_MODE"), 0.8, 0.01, 2, 4, false, 0)
	require.Error(t, err)
}

func TestNewConfigDerivesCoolingFactorBelowOne(t *testing.T) {
	in := buildInstance(t, 2, 4)
	model := scoremodel.NewVarianceModel(in)

	cfg, err := search.NewConfig(model, false, 50, 0, 0, search.SimulatedAnnealing, 0.8, 0.01, 2, 4, false, 0)
	require.NoError(t, err)
	require.Less(t, cfg.CoolingFactor, 1.0)
	require.Greater(t, cfg.CoolingFactor, 0.0)
}

func TestRunIsDeterministicForFixedBaseSeed(t *testing.T) {
	g := cliqueGraph(t, 6)
	in := buildInstance(t, 6, 9)
	model := scoremodel.NewVarianceModel(in)

	cfg, err := search.NewConfig(model, false, 8, 0, 0, search.SimulatedAnnealing, 0.8, 0.01, 2, 5, false, 0)
	require.NoError(t, err)

	seed, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)

	r1, err := search.Run(context.Background(), cfg, g, []snpset.Set{seed}, 42)
	require.NoError(t, err)
	r2, err := search.Run(context.Background(), cfg, g, []snpset.Set{seed}, 42)
	require.NoError(t, err)

	require.Equal(t, r1[0].SNPs(), r2[0].SNPs())
}

func TestRunCollapsesIdenticalResultsAcrossSeeds(t *testing.T) {
	g := cliqueGraph(t, 4)
	in := buildInstance(t, 4, 6)
	model := scoremodel.NewVarianceModel(in)

	cfg, err := search.NewConfig(model, true, 2, 0, 0, search.SimulatedAnnealing, 0.8, 0.01, 2, 2, false, 0)
	require.NoError(t, err)

	seedA, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)
	seedB, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)

	results, err := search.Run(context.Background(), cfg, g, []snpset.Set{seedA, seedB}, 9)
	require.NoError(t, err)
	require.Len(t, results, 1)

	merged, ok := results[0].Attribute("NUM_MERGED")
	require.True(t, ok)
	require.Equal(t, "2", merged)
}

