package seeding

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/matrixutil"
	"github.com/needl-go/netseek/internal/qubo"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

// QUBOParams carries the n_max_weighted_k_clique_qubo penalty weights
// (spec.md §4.G.3).
type QUBOParams struct {
	NClique int
	K       int
	Nu      float64
	Lambda0 float64
	Lambda1 float64
	Lambda2 float64
}

// BuildKCliqueQUBO assembles the QUBO that rewards picking K mutually
// statistically-correlated, mutually network-adjacent SNPs out of a
// cluster: a negative-weighted reward for each selected pair's
// statistical correlation (statCorr), a penalty for selecting a pair the
// interaction network does not connect (bioCorr, pushing the selection
// toward a clique), a quadratic penalty enforcing exactly K selections,
// and a small linear term discouraging the trivial all/none solution.
// No concrete formula for this step survives in the retained source
// (the QUBO backend is an external collaborator); this construction
// follows spec.md §4.G.3's parameter names and the statCorr/bioCorr
// matrix pair the original builds before invoking it.
func BuildKCliqueQUBO(statCorr, bioCorr *matrixutil.Dense, params QUBOParams) qubo.Problem {
	n := statCorr.Rows()
	linear := make([]float64, n)
	quadratic := make([][]float64, n)
	for i := range quadratic {
		quadratic[i] = make([]float64, n)
	}

	k := float64(params.K)
	for i := 0; i < n; i++ {
		linear[i] = params.Lambda0*(1-2*k) + params.Lambda2
		for j := i + 1; j < n; j++ {
			reward := -params.Nu * statCorr.At(i, j)
			penalty := params.Lambda1 * (1 - bioCorr.At(i, j))
			quadratic[i][j] = reward + penalty + 2*params.Lambda0
		}
	}

	return qubo.Problem{N: n, Linear: linear, Quadratic: quadratic, MaxSelected: snpset.MaxSetSize}
}

// QuantumAssistedConfig parameterizes QuantumAssisted (spec.md §4.G.3).
type QuantumAssistedConfig struct {
	Cluster           ClusterConfig
	NumSetsPerCluster int
	SNPsPerSet        int
	Quantile          float64
	Seed              uint64
	MinQCClusterSize  int
	Params            QUBOParams
}

// QuantumAssisted runs the same clustering and refinement as
// CommunityWise, then routes clusters smaller than MinQCClusterSize
// through the random-walk sampler and larger clusters through solver
// (spec.md §4.G.3). Bitmasks the solver returns above snpset.MaxSetSize
// are dropped and counted, never surfaced as an error.
func QuantumAssisted(ctx context.Context, g *graph.Graph, reg *registry.Registry, evaluator scoremodel.Evaluator, solver qubo.Solver, cfg QuantumAssistedConfig) (seeds []snpset.Set, numOversized int, err error) {
	clusters := LeidenWithSizeConstraint(g, cfg.Cluster)
	if reg != nil {
		AnnotateClusters(reg, "leiden_size_constraint", clusters)
	}

	clusters = RefineClustering(g, clusters, cfg.Cluster.MaxClusterSize)
	if reg != nil {
		AnnotateClusters(reg, "after_refinement", clusters)
	}

	var small, large [][]snpset.SNP
	for _, c := range clusters {
		if len(c) < cfg.MinQCClusterSize {
			small = append(small, c)
		} else {
			large = append(large, c)
		}
	}

	candidates := GenerateRandomSets(g, small, cfg.NumSetsPerCluster, cfg.SNPsPerSet, cfg.Seed)

	qcCandidates, oversized, err := generateQCSets(ctx, g, evaluator, solver, large, cfg.Params)
	if err != nil {
		return nil, 0, err
	}
	candidates = append(candidates, qcCandidates...)

	return SelectStartSeeds(candidates, evaluator, cfg.Quantile), oversized, nil
}

func generateQCSets(ctx context.Context, g *graph.Graph, evaluator scoremodel.Evaluator, solver qubo.Solver, clusters [][]snpset.SNP, params QUBOParams) ([][]snpset.Set, int, error) {
	results := make([][]snpset.Set, len(clusters))
	numOversized := make([]int, len(clusters))

	group, gctx := errgroup.WithContext(ctx)
	for i, cluster := range clusters {
		i, cluster := i, cluster
		group.Go(func() error {
			set, n, err := solveClusterQUBO(gctx, g, evaluator, solver, cluster, params)
			if err != nil {
				return err
			}
			results[i] = set
			numOversized[i] = n
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, n := range numOversized {
		total += n
	}
	return results, total, nil
}

func solveClusterQUBO(ctx context.Context, g *graph.Graph, evaluator scoremodel.Evaluator, solver qubo.Solver, cluster []snpset.SNP, params QUBOParams) ([]snpset.Set, int, error) {
	n := len(cluster)
	statCorr := matrixutil.NewDense(n, n)
	bioCorr := matrixutil.NewDense(n, n)

	adjacent := make([]map[snpset.SNP]bool, n)
	for i, snp := range cluster {
		adj := make(map[snpset.SNP]bool)
		for _, a := range g.Neighbors(snp) {
			adj[a] = true
		}
		adjacent[i] = adj
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score := evaluator.Evaluate([]snpset.SNP{cluster[i], cluster[j]})
			statCorr.Set(i, j, score)
			if adjacent[i][cluster[j]] {
				bioCorr.Set(i, j, 1)
			}
		}
	}

	problem := BuildKCliqueQUBO(statCorr, bioCorr, params)
	result, err := solver.Solve(ctx, problem)
	if err != nil {
		return nil, 0, err
	}

	var members []snpset.SNP
	for i, selected := range result.Selected {
		if selected {
			members = append(members, cluster[i])
		}
	}

	oversized := 0
	var sets []snpset.Set
	if len(members) > snpset.MaxSetSize {
		oversized++
	} else if len(members) > 0 {
		set, err := snpset.New(members)
		if err == nil {
			set.SetAttribute("SEED_ORIGIN", "QUANTUM_COMPUTING")
			sets = append(sets, set)
		}
	}
	return sets, oversized, nil
}
