package graph

import "github.com/needl-go/netseek/internal/snpset"

// ArticulationPoints returns every cut vertex in the graph: a node whose
// removal would increase the number of connected components. The local
// search's delete move consults this before dropping a SNP, since
// removing an articulation point would disconnect the seed's remainder
// (spec §4.H invariant).
//
// Implemented as Tarjan's low-link DFS over the graph's canonical
// adjacency snapshot. Go goroutine stacks grow on demand, so plain
// recursion is used rather than an explicit stack; interaction-network
// diameters are small relative to available stack depth in practice.
func (g *Graph) ArticulationPoints() []snpset.SNP {
	snap := g.canonicalSnapshot()
	t := &articulationWalk{
		disc:    make(map[snpset.SNP]int),
		low:     make(map[snpset.SNP]int),
		visited: make(map[snpset.SNP]bool),
		cut:     make(map[snpset.SNP]bool),
		snap:    snap,
	}
	for _, root := range snap.nodes {
		if t.visited[root] {
			continue
		}
		t.rootChildren = 0
		t.dfs(root, snpset.Invalid)
		if t.rootChildren > 1 {
			t.cut[root] = true
		}
	}

	out := make([]snpset.SNP, 0, len(t.cut))
	for snp, is := range t.cut {
		if is {
			out = append(out, snp)
		}
	}
	return out
}

type articulationWalk struct {
	snap         *adjacencySnapshot
	disc, low    map[snpset.SNP]int
	visited      map[snpset.SNP]bool
	cut          map[snpset.SNP]bool
	timer        int
	rootChildren int
}

func (t *articulationWalk) dfs(node, parent snpset.SNP) {
	t.visited[node] = true
	t.disc[node] = t.timer
	t.low[node] = t.timer
	t.timer++

	isRoot := parent == snpset.Invalid
	for _, next := range t.snap.neighbors[node] {
		if next == parent {
			continue
		}
		if t.visited[next] {
			if t.disc[next] < t.low[node] {
				t.low[node] = t.disc[next]
			}
			continue
		}
		if isRoot {
			t.rootChildren++
		}
		t.dfs(next, node)
		if t.low[next] < t.low[node] {
			t.low[node] = t.low[next]
		}
		if !isRoot && t.low[next] >= t.disc[node] {
			t.cut[node] = true
		}
	}
}

// IsArticulationPoint reports whether snp is a cut vertex of the graph.
// Callers checking many candidates against the same graph snapshot should
// call ArticulationPoints once and build a set instead of calling this
// repeatedly.
func (t *Graph) IsArticulationPoint(snp snpset.SNP) bool {
	for _, ap := range t.ArticulationPoints() {
		if ap == snp {
			return true
		}
	}
	return false
}
