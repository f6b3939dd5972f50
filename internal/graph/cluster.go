package graph

import "github.com/needl-go/netseek/internal/snpset"

// ClusterLeiden partitions the graph's nodes into communities by greedy
// modularity optimization in the style of the Leiden algorithm's local
// moving phase: repeatedly move each node into whichever neighboring
// community most increases modularity, until a pass makes no move or
// maxSteps passes have run. resolution scales the null-model term (higher
// values favor more, smaller communities); beta is accepted for interface
// parity with the pinned igraph signature and is not used, since this
// implementation has no randomized refinement phase.
func (g *Graph) ClusterLeiden(resolution float64, beta float64, maxSteps int) [][]snpset.SNP {
	snap := g.canonicalSnapshot()
	nodes := snap.nodes
	if len(nodes) == 0 {
		return nil
	}

	community := make(map[snpset.SNP]int, len(nodes))
	for i, n := range nodes {
		community[n] = i
	}

	totalDegree := 0.0
	degree := make(map[snpset.SNP]float64, len(nodes))
	for _, n := range nodes {
		d := float64(snap.degree[n])
		degree[n] = d
		totalDegree += d
	}
	m2 := totalDegree // sum of degrees == 2*|E|
	if m2 == 0 {
		m2 = 1
	}

	communityDegree := make(map[int]float64, len(nodes))
	for _, n := range nodes {
		communityDegree[community[n]] += degree[n]
	}

	if maxSteps <= 0 {
		maxSteps = 20
	}

	for step := 0; step < maxSteps; step++ {
		moved := false
		for _, n := range nodes {
			current := community[n]
			neighborWeight := make(map[int]float64)
			for _, nb := range snap.neighbors[n] {
				neighborWeight[community[nb]]++
			}
			if len(neighborWeight) == 0 {
				continue
			}

			communityDegree[current] -= degree[n]
			best, bestGain := current, 0.0
			for candidate, edgesIn := range neighborWeight {
				gain := edgesIn - resolution*degree[n]*communityDegree[candidate]/m2
				if gain > bestGain {
					best, bestGain = candidate, gain
				}
			}
			communityDegree[best] += degree[n]
			if best != current {
				community[n] = best
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	_ = beta

	groups := make(map[int][]snpset.SNP)
	for _, n := range nodes {
		c := community[n]
		groups[c] = append(groups[c], n)
	}
	out := make([][]snpset.SNP, 0, len(groups))
	for _, members := range groups {
		out = append(out, members)
	}
	return out
}
