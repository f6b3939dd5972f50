// Package seeding implements the three start-seed generation strategies
// (spec.md §4.G): random-connected pairs, community-wise Leiden
// clustering with quantile selection, and a quantum-assisted variant that
// routes large clusters through a QUBO solver.
package seeding

import (
	"math/rand/v2"
	"sort"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

// ClusterConfig bounds the binary-search-controlled Leiden clustering
// shared by community-wise and quantum-assisted seeding (spec.md §4.G.2
// step 1).
type ClusterConfig struct {
	MaxClusterSize       int
	LeidenBeta           float64
	LeidenMaxSteps       int
	ForwardSearchSpeed   float64
	NumBinarySearchSteps int
}

func (c ClusterConfig) withDefaults() ClusterConfig {
	if c.LeidenBeta <= 0 {
		c.LeidenBeta = 0.01
	}
	if c.LeidenMaxSteps <= 0 {
		c.LeidenMaxSteps = 20
	}
	if c.ForwardSearchSpeed <= 0 {
		c.ForwardSearchSpeed = 0.5
	}
	if c.NumBinarySearchSteps <= 0 {
		c.NumBinarySearchSteps = 4
	}
	return c
}

// LeidenWithSizeConstraint grows the Leiden resolution parameter in
// 0.5-per-step increments (a forward search) until the clustering
// satisfies the size cap, then refines the resolution with a bounded
// binary search, terminating early if two consecutive forward-search
// steps produce the same (max size, cluster count) without meeting the
// constraint (spec.md §4.G.2 step 1).
func LeidenWithSizeConstraint(g *graph.Graph, cfg ClusterConfig) [][]snpset.SNP {
	cfg = cfg.withDefaults()

	reachedMax := false
	resolutionMin, resolutionMax := 0.0, 0.0
	binarySearchSteps := 0

	var best [][]snpset.SNP
	var previousMaxSize, previousNumClusters int
	first := true

	for {
		var resolution float64
		if reachedMax {
			resolution = (resolutionMin + resolutionMax) / 2
		} else {
			resolution = resolutionMax
		}

		clusters := g.ClusterLeiden(resolution, cfg.LeidenBeta, cfg.LeidenMaxSteps)
		maxSize := 0
		for _, c := range clusters {
			if len(c) > maxSize {
				maxSize = len(c)
			}
		}

		if reachedMax {
			if maxSize <= cfg.MaxClusterSize {
				resolutionMax = resolution
				best = clusters
			} else {
				resolutionMin = resolution
			}
			binarySearchSteps++
		} else {
			if maxSize <= cfg.MaxClusterSize {
				reachedMax = true
				best = clusters
			} else {
				best = clusters
				resolutionMin = resolutionMax
				resolutionMax += cfg.ForwardSearchSpeed
			}
		}

		if !reachedMax && !first && previousMaxSize == maxSize && previousNumClusters == len(clusters) {
			break
		}
		previousMaxSize, previousNumClusters = maxSize, len(clusters)
		first = false

		if reachedMax && (binarySearchSteps >= cfg.NumBinarySearchSteps || resolutionMin == resolutionMax) {
			break
		}
	}

	return best
}

// RefineClustering merges every undersized cluster into at most one
// connected neighbour cluster, smallest neighbour first, stopping short
// of the size cap (spec.md §4.G.2 step 2).
func RefineClustering(g *graph.Graph, clusters [][]snpset.SNP, maxClusterSize int) [][]snpset.SNP {
	nodeCluster := make(map[snpset.SNP]int)
	for i, c := range clusters {
		for _, n := range c {
			nodeCluster[n] = i
		}
	}

	for i := range clusters {
		if len(clusters[i]) == 0 || len(clusters[i]) >= maxClusterSize {
			continue
		}

		otherSet := make(map[int]struct{})
		for _, n := range clusters[i] {
			for _, adj := range g.Neighbors(n) {
				if j, ok := nodeCluster[adj]; ok && j != i {
					otherSet[j] = struct{}{}
				}
			}
		}
		if len(otherSet) == 0 {
			continue
		}

		type sized struct {
			idx, size int
		}
		others := make([]sized, 0, len(otherSet))
		for j := range otherSet {
			others = append(others, sized{j, len(clusters[j])})
		}
		sort.Slice(others, func(a, b int) bool { return others[a].size < others[b].size })

		for _, other := range others {
			if len(clusters[i])+len(clusters[other.idx]) > maxClusterSize {
				break
			}
			for _, n := range clusters[other.idx] {
				nodeCluster[n] = i
			}
			clusters[i] = append(clusters[i], clusters[other.idx]...)
			clusters[other.idx] = nil
			break
		}
	}

	refined := make([][]snpset.SNP, 0, len(clusters))
	for _, c := range clusters {
		if len(c) > 0 {
			refined = append(refined, c)
		}
	}
	return refined
}

// AnnotateClusters records each cluster's index as a variable attribute
// on every member SNP (spec.md §4.G.2's leiden_cluster bookkeeping).
func AnnotateClusters(reg *registry.Registry, attribute string, clusters [][]snpset.SNP) {
	for i, cluster := range clusters {
		for _, snp := range cluster {
			reg.SetVariableAttribute(snp, attribute, itoa(i))
		}
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// generateRandomWalkSet implements spec.md §4.G.2 step 3's random walk:
// pick a start SNP, maintain add_options as the in-cluster neighbours of
// every SNP picked so far that are not yet picked, repeatedly draw one
// uniformly and add its own new in-cluster neighbours, stopping at the
// target size or when add_options is exhausted.
func generateRandomWalkSet(g *graph.Graph, cluster []snpset.SNP, inCluster map[snpset.SNP]bool, targetSize int, rng *rand.Rand) []snpset.SNP {
	start := cluster[rand.N(rng, len(cluster))]
	selected := []snpset.SNP{start}
	selectedSet := map[snpset.SNP]bool{start: true}

	addOptions := make(map[snpset.SNP]bool)
	addNeighbours := func(snp snpset.SNP) {
		for _, adj := range g.Neighbors(snp) {
			if inCluster[adj] && !selectedSet[adj] {
				addOptions[adj] = true
			}
		}
	}
	addNeighbours(start)

	for len(selected) < targetSize && len(addOptions) > 0 {
		options := make([]snpset.SNP, 0, len(addOptions))
		for o := range addOptions {
			options = append(options, o)
		}
		sort.Slice(options, func(i, j int) bool { return options[i] < options[j] })
		next := options[rand.N(rng, len(options))]
		delete(addOptions, next)

		selected = append(selected, next)
		selectedSet[next] = true
		addNeighbours(next)
	}

	return selected
}

// GenerateRandomSets draws num_sets_per_cluster candidate SNP sets per
// cluster (spec.md §4.G.2 step 3), emitting the whole cluster unchanged
// when it already fits within snpsPerSet. Clusters are processed one
// after another, each with its own deterministically-derived RNG, so a
// cluster's candidates do not depend on the clusters before it.
func GenerateRandomSets(g *graph.Graph, clusters [][]snpset.SNP, numSetsPerCluster, snpsPerSet int, seed uint64) [][]snpset.Set {
	results := make([][]snpset.Set, len(clusters))

	for i, cluster := range clusters {
		rng := rand.New(rand.NewPCG(seed, uint64(i)+1))
		results[i] = generateClusterSets(g, cluster, numSetsPerCluster, snpsPerSet, rng)
	}
	return results
}

func generateClusterSets(g *graph.Graph, cluster []snpset.SNP, numSetsPerCluster, snpsPerSet int, rng *rand.Rand) []snpset.Set {
	seen := make(map[string]bool)
	var out []snpset.Set

	addCandidate := func(members []snpset.SNP) {
		set, err := snpset.New(members)
		if err != nil {
			return
		}
		set.SetAttribute("SEED_ORIGIN", "COMMUNITY_WISE")
		key := set.HashKey()
		if !seen[key] {
			seen[key] = true
			out = append(out, set)
		}
	}

	if len(cluster) <= snpsPerSet {
		addCandidate(cluster)
		return out
	}

	inCluster := make(map[snpset.SNP]bool, len(cluster))
	for _, n := range cluster {
		inCluster[n] = true
	}

	for j := 0; j < numSetsPerCluster; j++ {
		addCandidate(generateRandomWalkSet(g, cluster, inCluster, snpsPerSet, rng))
	}
	return out
}

// SelectStartSeeds implements spec.md §4.G.2 step 4: the best-scoring
// candidate from every cluster is kept unconditionally, then the pooled
// candidates are sorted by score (direction per the model's sense) and
// the top ceil(quantile * N) are added.
func SelectStartSeeds(perCluster [][]snpset.Set, evaluator scoremodel.Evaluator, quantile float64) []snpset.Set {
	type scored struct {
		set   snpset.Set
		score float64
	}

	better := func(a, b float64) bool {
		if evaluator.ModelSense() == scoremodel.Maximize {
			return a > b
		}
		return a < b
	}

	selected := make(map[string]snpset.Set)
	var allCandidates []scored

	for _, sets := range perCluster {
		if len(sets) == 0 {
			continue
		}
		clusterScored := make([]scored, len(sets))
		for i, s := range sets {
			clusterScored[i] = scored{set: s, score: evaluator.Evaluate(s.SNPs())}
		}
		sort.Slice(clusterScored, func(i, j int) bool { return better(clusterScored[i].score, clusterScored[j].score) })

		best := clusterScored[0]
		selected[best.set.HashKey()] = best.set
		allCandidates = append(allCandidates, clusterScored...)
	}

	sort.Slice(allCandidates, func(i, j int) bool { return better(allCandidates[i].score, allCandidates[j].score) })

	numRemaining := int(ceilf(quantile * float64(len(allCandidates))))
	if numRemaining > len(allCandidates) {
		numRemaining = len(allCandidates)
	}
	for i := 0; i < numRemaining; i++ {
		selected[allCandidates[i].set.HashKey()] = allCandidates[i].set
	}

	out := make([]snpset.Set, 0, len(selected))
	for _, s := range selected {
		out = append(out, s)
	}
	return out
}

func ceilf(v float64) float64 {
	i := float64(int64(v))
	if v > i {
		return i + 1
	}
	return i
}
