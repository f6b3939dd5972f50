package search

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

func TestAcceptAnnealingRejectsZeroDelta(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	cfg := Config{Annealing: SimulatedAnnealing}
	for i := 0; i < 20; i++ {
		require.False(t, acceptAnnealing(cfg, rng, 5, 5.0, 5.0, 1.0, 1.0, 0))
	}
}

func TestAcceptAnnealingRandomModeRespectsRoundLimit(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	cfg := Config{Annealing: RandomAnnealing, MaxRounds: 10}
	require.False(t, acceptAnnealing(cfg, rng, 9, 0, 0, 0, 0, 0))
}

func TestBetterRespectsSense(t *testing.T) {
	require.True(t, better(scoremodel.Maximize, 2, 1))
	require.False(t, better(scoremodel.Maximize, 1, 2))
	require.True(t, better(scoremodel.Minimize, 1, 2))
	require.False(t, better(scoremodel.Minimize, 2, 1))
}

func TestCollapseAggregatesNumericAttributes(t *testing.T) {
	a, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)
	b := a.Clone()

	a.SetAttribute("NUM_ROUNDS", "3")
	a.SetAttribute("STOPPING_REASON", "CONVERGENCE")
	b.SetAttribute("NUM_ROUNDS", "5")
	b.SetAttribute("STOPPING_REASON", "SEED_TIMEOUT")

	merged := collapse([]snpset.Set{a, b})
	require.Len(t, merged, 1)

	numMerged, ok := merged[0].Attribute("NUM_MERGED")
	require.True(t, ok)
	require.Equal(t, "2", numMerged)

	avg, ok := merged[0].Attribute("NUM_ROUNDS_AVG")
	require.True(t, ok)
	require.Equal(t, "4", avg)

	distinct, ok := merged[0].Attribute("STOPPING_REASON_DISTINCT")
	require.True(t, ok)
	require.Equal(t, "CONVERGENCE;SEED_TIMEOUT", distinct)
}

func TestCollapseKeepsDistinctSetsSeparate(t *testing.T) {
	a, err := snpset.New([]snpset.SNP{0, 1})
	require.NoError(t, err)
	c, err := snpset.New([]snpset.SNP{2, 3})
	require.NoError(t, err)

	merged := collapse([]snpset.Set{a, c})
	require.Len(t, merged, 2)
}
