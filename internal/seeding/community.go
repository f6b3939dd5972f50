package seeding

import (
	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

// CommunityWiseConfig parameterizes CommunityWise (spec.md §4.G.2).
type CommunityWiseConfig struct {
	Cluster           ClusterConfig
	NumSetsPerCluster int
	SNPsPerSet        int
	Quantile          float64
	Seed              uint64
}

// CommunityWise runs the full community-wise seeding pipeline: size-
// constrained Leiden clustering, refinement of undersized clusters,
// per-cluster candidate generation, and quantile-based selection
// (spec.md §4.G.2, all four steps).
func CommunityWise(g *graph.Graph, reg *registry.Registry, evaluator scoremodel.Evaluator, cfg CommunityWiseConfig) []snpset.Set {
	clusters := LeidenWithSizeConstraint(g, cfg.Cluster)
	if reg != nil {
		AnnotateClusters(reg, "leiden_cluster", clusters)
	}

	clusters = RefineClustering(g, clusters, cfg.Cluster.MaxClusterSize)
	if reg != nil {
		AnnotateClusters(reg, "leiden_cluster_after_refinement", clusters)
	}

	candidates := GenerateRandomSets(g, clusters, cfg.NumSetsPerCluster, cfg.SNPsPerSet, cfg.Seed)
	return SelectStartSeeds(candidates, evaluator, cfg.Quantile)
}
