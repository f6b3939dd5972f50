// Package aggregator implements the multi-network aggregation job (spec
// §4.I): run several independent network-construction-and-search
// pipelines from the same starting point, then fuse each pipeline's
// result-set-induced adjacency into one composite interaction network
// tagged by originating pipeline name.
package aggregator

import (
	"context"
	"fmt"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

// Child is one named sub-pipeline: it receives a graph already reset to
// the aggregator's starting snapshot, builds its own interaction network
// into it, and returns the result sets it found there.
type Child struct {
	Name string
	Run  func(ctx context.Context, g *graph.Graph) ([]snpset.Set, error)
}

// Aggregator runs a sequence of Children against the same starting graph
// and fuses their result-set-induced adjacency into one composite network
// (spec §4.I). The zero value is ready to use.
type Aggregator struct {
	children []Child

	resultSets [][]snpset.Set
	adjacency  []map[snpset.SNP][]snpset.SNP
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Add registers one named child pipeline.
func (a *Aggregator) Add(name string, run func(ctx context.Context, g *graph.Graph) ([]snpset.Set, error)) {
	a.children = append(a.children, Child{Name: name, Run: run})
}

// AddAll registers multiple child pipelines at once.
func (a *Aggregator) AddAll(children []Child) {
	a.children = append(a.children, children...)
}

// NumNetworks returns the number of registered child pipelines.
func (a *Aggregator) NumNetworks() int { return len(a.children) }

// ResultSets returns each child's result sets, indexed the same way the
// children were added. Valid only after Run.
func (a *Aggregator) ResultSets() [][]snpset.Set { return a.resultSets }

// Run executes every child pipeline against a fresh copy of g's starting
// state (step 1), then clears g and rebuilds it as the fused composite
// network over every child's result sets (spec §4.I). reg, if non-nil,
// gets each result SNP's "ms_source" attribute extended with the name of
// every pipeline whose result set contains it.
func (a *Aggregator) Run(ctx context.Context, g *graph.Graph, reg *registry.Registry) error {
	initial := g.Clone()
	a.resultSets = make([][]snpset.Set, 0, len(a.children))
	a.adjacency = make([]map[snpset.SNP][]snpset.SNP, 0, len(a.children))

	for _, child := range a.children {
		g.ResetFrom(initial)

		sets, err := child.Run(ctx, g)
		if err != nil {
			return fmt.Errorf("aggregator: pipeline %q: %w", child.Name, err)
		}

		a.resultSets = append(a.resultSets, sets)
		a.adjacency = append(a.adjacency, inSetAdjacency(g, sets))
	}

	g.Clear()
	for i, sets := range a.resultSets {
		name := a.children[i].Name
		for _, set := range sets {
			for _, snp := range set.SNPs() {
				g.AddNode(snp)
				if reg != nil {
					reg.SetOrAddVariableAttribute(snp, "ms_source", name, ";")
				}
				for _, neighbor := range a.adjacency[i][snp] {
					if err := g.AddEdge(snp, neighbor, name); err != nil {
						return fmt.Errorf("aggregator: fusing network %q: %w", name, err)
					}
				}
			}
		}
	}
	return nil
}

// inSetAdjacency maps each SNP appearing in sets to the subset of its
// main-network neighbours that are also members of the same result set
// (spec §4.I step "intersection of each result set with its network
// neighbourhood").
func inSetAdjacency(g *graph.Graph, sets []snpset.Set) map[snpset.SNP][]snpset.SNP {
	adjacency := make(map[snpset.SNP][]snpset.SNP)
	for _, set := range sets {
		for _, snp := range set.SNPs() {
			if _, done := adjacency[snp]; done {
				continue
			}
			var inSet []snpset.SNP
			for _, neighbor := range g.Neighbors(snp) {
				if set.Contains(neighbor) {
					inSet = append(inSet, neighbor)
				}
			}
			adjacency[snp] = inSet
		}
	}
	return adjacency
}
