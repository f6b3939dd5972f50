package seeding

import (
	"math/rand/v2"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/snpset"
)

// RandomConnected draws up to numSeeds disjoint (snp1, snp2) pairs, both
// present in g and joined by an edge, marking every chosen SNP used for
// the rest of the run so no SNP appears in two seeds (spec.md §4.G.1).
func RandomConnected(g *graph.Graph, numSeeds int, rng *rand.Rand) []snpset.Set {
	remaining := g.Nodes()
	used := make(map[snpset.SNP]bool)
	var seeds []snpset.Set

	for len(remaining) > 0 && len(seeds) < numSeeds {
		pos := rand.N(rng, len(remaining))
		snp1 := remaining[pos]
		remaining = append(remaining[:pos], remaining[pos+1:]...)

		if used[snp1] {
			continue
		}

		adjacent := g.Neighbors(snp1)
		for len(adjacent) > 0 {
			apos := rand.N(rng, len(adjacent))
			snp2 := adjacent[apos]
			adjacent = append(adjacent[:apos], adjacent[apos+1:]...)

			if used[snp2] {
				continue
			}

			set, err := snpset.New([]snpset.SNP{snp1, snp2})
			if err != nil {
				continue
			}
			set.SetAttribute("SEED_ORIGIN", "RANDOM_CONNECTED")
			seeds = append(seeds, set)
			used[snp1] = true
			used[snp2] = true
			break
		}
	}

	return seeds
}
