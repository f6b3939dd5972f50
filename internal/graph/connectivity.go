package graph

import (
	"sort"

	"github.com/needl-go/netseek/internal/snpset"
)

// IsConnected reports whether every node in the graph is reachable from
// every other node (a graph with 0 or 1 nodes is trivially connected).
func (g *Graph) IsConnected() bool {
	snap := g.canonicalSnapshot()
	if len(snap.nodes) <= 1 {
		return true
	}
	reached := bfsDistances(snap, snap.nodes[0])
	return len(reached) == len(snap.nodes)
}

// bfsDistances returns the unweighted shortest-path distance from source
// to every node it can reach within snap, source included at distance 0.
func bfsDistances(snap *adjacencySnapshot, source snpset.SNP) map[snpset.SNP]int {
	dist := map[snpset.SNP]int{source: 0}
	queue := []snpset.SNP{source}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range snap.neighbors[cur] {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// Diameter returns the length of the longest shortest path between any
// two connected nodes: on a disconnected graph, the largest diameter of
// any of its components. A graph with fewer than two nodes has diameter 0.
func (g *Graph) Diameter() int {
	snap := g.canonicalSnapshot()
	if len(snap.nodes) < 2 {
		return 0
	}
	diameter := 0
	for _, n := range snap.nodes {
		for _, d := range bfsDistances(snap, n) {
			if d > diameter {
				diameter = d
			}
		}
	}
	return diameter
}

// ConnectedComponents partitions the graph's nodes into connected
// components, each sorted ascending, components in first-discovery order.
func (g *Graph) ConnectedComponents() [][]snpset.SNP {
	snap := g.canonicalSnapshot()
	visited := make(map[snpset.SNP]bool)
	var components [][]snpset.SNP
	for _, n := range snap.nodes {
		if visited[n] {
			continue
		}
		dist := bfsDistances(snap, n)
		component := make([]snpset.SNP, 0, len(dist))
		for node := range dist {
			visited[node] = true
			component = append(component, node)
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}
	return components
}
