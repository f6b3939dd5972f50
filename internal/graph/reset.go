package graph

import "github.com/needl-go/netseek/internal/snpset"

// ResetFrom replaces g's contents with a deep copy of other, the same
// copy Clone performs but written into an existing Graph rather than a
// freshly allocated one. The multi-network aggregator uses this to
// restore each child pipeline's starting network before running it
// (spec §4.I step 1).
func (g *Graph) ResetFrom(other *Graph) {
	other.muNodes.RLock()
	other.muEdges.RLock()

	nodes := make(map[snpset.SNP]struct{}, len(other.nodes))
	for snp := range other.nodes {
		nodes[snp] = struct{}{}
	}
	adjacency := make(map[snpset.SNP]map[snpset.SNP]uint64, len(other.adjacency))
	for snp, adj := range other.adjacency {
		cp := make(map[snpset.SNP]uint64, len(adj))
		for k, v := range adj {
			cp[k] = v
		}
		adjacency[snp] = cp
	}
	labelNames := append([]string(nil), other.labelNames...)
	labelIDs := make(map[string]int, len(other.labelIDs))
	for k, v := range other.labelIDs {
		labelIDs[k] = v
	}

	other.muEdges.RUnlock()
	other.muNodes.RUnlock()

	g.muNodes.Lock()
	g.muEdges.Lock()
	g.nodes = nodes
	g.adjacency = adjacency
	g.labelNames = labelNames
	g.labelIDs = labelIDs
	g.muEdges.Unlock()
	g.muNodes.Unlock()
	g.markDirty()
}
