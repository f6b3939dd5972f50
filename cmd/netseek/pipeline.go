package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/needl-go/netseek/internal/aggregator"
	"github.com/needl-go/netseek/internal/config"
	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/ldtest"
	"github.com/needl-go/netseek/internal/logging"
	"github.com/needl-go/netseek/internal/output"
	"github.com/needl-go/netseek/internal/qubo"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/search"
	"github.com/needl-go/netseek/internal/seeding"
	"github.com/needl-go/netseek/internal/snpset"
)

// runParams is the pair of "ms-*"/"fs-*" parameter groups plus the
// network list a run executes against, however they were sourced
// (--batch-config or the individual CLI flags).
type runParams struct {
	Networks    []networkSpec
	PerNetwork  config.SearchParams
	FinalSearch config.SearchParams
}

func resolveRunParams() (runParams, error) {
	if batchConfigPath != "" {
		batch, err := config.LoadFile(batchConfigPath)
		if err != nil {
			return runParams{}, err
		}
		var networks []networkSpec
		for _, n := range batch.Networks {
			label, rest, ok := strings.Cut(n.Source, "|")
			if !ok {
				return runParams{}, fmt.Errorf("netseek: batch config network %q: source %q missing label prefix", n.Name, n.Source)
			}
			parsed, err := parseNetworkFlag(n.Name + ":" + label + "|" + rest)
			if err != nil {
				return runParams{}, err
			}
			networks = append(networks, parsed)
		}
		if len(networks) == 0 {
			return runParams{}, fmt.Errorf("netseek: batch config %q defines no networks", batchConfigPath)
		}
		return runParams{Networks: networks, PerNetwork: batch.Networks[0].Search, FinalSearch: batch.FinalSearch}, nil
	}

	networks, err := resolveNetworkSpecs()
	if err != nil {
		return runParams{}, err
	}
	perNetwork, err := cliPerNetworkParams()
	if err != nil {
		return runParams{}, err
	}
	finalSearch, err := cliFinalSearchParams()
	if err != nil {
		return runParams{}, err
	}
	return runParams{
		Networks:    networks,
		PerNetwork:  perNetwork,
		FinalSearch: finalSearch,
	}, nil
}

func cliPerNetworkParams() (config.SearchParams, error) {
	routine, err := config.ParseSeedingRoutine(msSeedingRoutine)
	if err != nil {
		return config.SearchParams{}, err
	}
	qc, err := config.ParseQCMode(msQCMode)
	if err != nil {
		return config.SearchParams{}, err
	}
	return config.SearchParams{
		SeedingRoutine:           routine,
		QCMode:                   qc,
		Annealing:                search.AnnealingType(msAnnealing),
		CollapseIdenticalResults: msCollapseIdenticalRes,
		MaxRounds:                msMaxRounds,
		SearchTimeLimit:          msSearchTimeLimit,
		PerSeedTimeLimit:         msPerSeedTimeLimit,
		AnnealingStartProb:       msAnnealingStartProb,
		AnnealingEndProb:         msAnnealingEndProb,
		MinSetSize:               msMinSetSize,
		MaxSetSize:               msMaxSetSize,
		CalculateMonteCarlo:      msCalculateMonteCarlo,
		MonteCarloPermutations:   msMonteCarloPermutations,
	}, nil
}

// cliFinalSearchParams builds the fs-* parameter group. The final pass
// runs no seeding routine of its own: runAggregatedSearch starts it from
// the per-network result sets, so SeedingRoutine/QCMode are fixed here
// and not consulted.
func cliFinalSearchParams() (config.SearchParams, error) {
	return config.SearchParams{
		SeedingRoutine:           config.RandomConnectedSeeding,
		QCMode:                   config.SimulatedAnnealingQC,
		Annealing:                search.AnnealingType(fsAnnealing),
		CollapseIdenticalResults: fsCollapseIdenticalRes,
		MaxRounds:                fsMaxRounds,
		SearchTimeLimit:          fsSearchTimeLimit,
		PerSeedTimeLimit:         fsPerSeedTimeLimit,
		AnnealingStartProb:       fsAnnealingStartProb,
		AnnealingEndProb:         fsAnnealingEndProb,
		MinSetSize:               fsMinSetSize,
		MaxSetSize:               fsMaxSetSize,
		CalculateMonteCarlo:      fsCalculateMonteCarlo,
		MonteCarloPermutations:   fsMonteCarloPermutations,
	}, nil
}

// qcSolver is the one concrete qubo.Solver this engine ships (spec §4.G.3
// pins the backend as an external collaborator); QUANTUM_ANNEALING/QAOA
// --ms-qc-mode values fall back to it with a logged notice rather than an
// error, since no such backend exists in this repository's scope.
func qcSolver(logger *slog.Logger, mode config.QCMode, rng *rand.Rand) qubo.Solver {
	if mode != config.SimulatedAnnealingQC {
		logger.Warn("qc mode has no dedicated backend in this build, using simulated annealing", "requested", string(mode))
	}
	return qubo.NewSimulatedAnnealingSolver(rng, 500, 10, 0.01)
}

// seedNetwork dispatches to the seeding routine params.SeedingRoutine
// names (spec §4.G), returning its start seeds.
func seedNetwork(ctx context.Context, logger *slog.Logger, g *graph.Graph, reg *registry.Registry, model scoremodel.Evaluator, params config.SearchParams, rng *rand.Rand) ([]snpset.Set, error) {
	switch params.SeedingRoutine {
	case config.CommunityWiseSeeding:
		cfg := seeding.CommunityWiseConfig{Cluster: seeding.ClusterConfig{}, NumSetsPerCluster: 20, SNPsPerSet: 2, Quantile: 0.5, Seed: rng.Uint64()}
		return seeding.CommunityWise(g, reg, model, cfg), nil
	case config.QuantumComputingSeeding:
		cfg := seeding.QuantumAssistedConfig{
			Cluster: seeding.ClusterConfig{}, NumSetsPerCluster: 20, SNPsPerSet: 2, Quantile: 0.5,
			Seed: rng.Uint64(), MinQCClusterSize: 6,
			Params: seeding.QUBOParams{K: 4, Nu: 1, Lambda0: 1, Lambda1: 1, Lambda2: 0.1},
		}
		seeds, oversized, err := seeding.QuantumAssisted(ctx, g, reg, model, qcSolver(logger, params.QCMode, rng), cfg)
		if oversized > 0 {
			logger.Warn("quantum-assisted seeding dropped oversized solver candidates", "count", oversized)
		}
		return seeds, err
	default:
		numSeeds := msNumSeeds
		if numSeeds <= 0 {
			numSeeds = 50
		}
		return seeding.RandomConnected(g, numSeeds, rng), nil
	}
}

// buildNetworkChild returns the aggregator.Child run function for spec:
// connect its CSV network into g (already reset to the shared starting
// snapshot), optionally shuffle it, seed, and locally refine.
func buildNetworkChild(logger *slog.Logger, spec networkSpec, reg *registry.Registry, model scoremodel.Evaluator, params config.SearchParams, workerSeed uint64) func(ctx context.Context, g *graph.Graph) ([]snpset.Set, error) {
	return func(ctx context.Context, g *graph.Graph) ([]snpset.Set, error) {
		if err := connectNetworkSpec(spec, g, reg); err != nil {
			return nil, err
		}

		rng := rand.New(rand.NewPCG(workerSeed, uint64(len(spec.Name))))
		if networkShuffleMethod != "" {
			method, err := config.ParseShuffleMethod(networkShuffleMethod)
			if err != nil {
				return nil, err
			}
			g.Shuffle(method, rng)
		}

		seeds, err := seedNetwork(ctx, logger, g, reg, model, params, rng)
		if err != nil {
			return nil, fmt.Errorf("netseek: seeding network %q: %w", spec.Name, err)
		}

		searchCfg, err := params.ToSearchConfig(model, nil)
		if err != nil {
			return nil, err
		}
		results, err := search.Run(ctx, searchCfg, g, seeds, workerSeed)
		if err != nil {
			return nil, fmt.Errorf("netseek: local search over network %q: %w", spec.Name, err)
		}
		return results, nil
	}
}

func connectNetworkSpec(spec networkSpec, g *graph.Graph, reg *registry.Registry) error {
	return connectNetworkCSV(g, reg, spec)
}

// runAggregatedSearch builds the base graph, runs every network child
// through the aggregator, then a final local-search pass over the fused
// composite network (spec §4.I).
func runAggregatedSearch(ctx context.Context, logger *slog.Logger, reg *registry.Registry, model scoremodel.Evaluator, rp runParams) (*graph.Graph, []snpset.Set, error) {
	base, err := buildBaseGraph(reg)
	if err != nil {
		return nil, nil, err
	}

	agg := aggregator.New()
	for i, spec := range rp.Networks {
		spec := spec
		seed := uint64(i) + 1
		agg.Add(spec.Name, buildNetworkChild(logger, spec, reg, model, rp.PerNetwork, seed))
	}

	logging.Progress(logger, "running per-network seeding and local search", 0, len(rp.Networks), time.Now())
	if err := agg.Run(ctx, base, reg); err != nil {
		return nil, nil, err
	}

	var seeds []snpset.Set
	for _, sets := range agg.ResultSets() {
		seeds = append(seeds, sets...)
	}

	finalCfg, err := rp.FinalSearch.ToSearchConfig(model, buildLDTester(logger))
	if err != nil {
		return nil, nil, err
	}
	logging.Success(logger, "running final search pass over fused network", "seeds", len(seeds))
	finalResults, err := search.Run(ctx, finalCfg, base, seeds, uint64(len(rp.Networks))+1)
	if err != nil {
		return nil, nil, fmt.Errorf("netseek: final search pass: %w", err)
	}
	return base, finalResults, nil
}

// buildLDTester is a pinned extension point: this CLI does not expose a
// flag wiring a precomputed LD matrix into the final pass, so it always
// returns nil (no LD pre-filter). Callers that need one can construct a
// *ldtest.Tester directly against their own genotype correlation matrix
// and pass it through runParams in an adapted build.
func buildLDTester(_ *slog.Logger) *ldtest.Tester {
	return nil
}

func openOutputFile(name string) (*os.File, error) {
	return os.Create(filepath.Join(outputDirectory, name))
}

// runManifest records the identity and top-level parameters of one
// invocation alongside its outputs, so a results directory is
// self-describing without needing the command line that produced it.
type runManifest struct {
	RunID           string   `json:"run_id"`
	StartedAt       string   `json:"started_at"`
	InputPath       string   `json:"input_path"`
	InputFormat     string   `json:"input_format"`
	NumCategories   int      `json:"num_categories"`
	ScoreModel      string   `json:"score_model"`
	Networks        []string `json:"networks"`
	BatchConfigPath string   `json:"batch_config_path,omitempty"`
}

func writeRunManifest(runID string) error {
	m := runManifest{
		RunID:           runID,
		StartedAt:       time.Now().UTC().Format(time.RFC3339),
		InputPath:       inputPath,
		InputFormat:     inputFormat,
		NumCategories:   numCategories,
		ScoreModel:      scoreModel,
		Networks:        append([]string(nil), networkSpecs...),
		BatchConfigPath: batchConfigPath,
	}
	f, err := openOutputFile("run_manifest.json")
	if err != nil {
		return fmt.Errorf("netseek: writing run manifest: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("netseek: writing run manifest: %w", err)
	}
	return nil
}

func writeNetworkOutputs(ctx context.Context, logger *slog.Logger, g *graph.Graph, reg *registry.Registry) error {
	adjJSON, err := openOutputFile("network_adjacency_matrix.json")
	if err != nil {
		return err
	}
	defer adjJSON.Close()
	if err := output.WriteAdjacencyMatrixJSON(adjJSON, g, reg); err != nil {
		return err
	}

	nodesCSV, err := openOutputFile("network_nodes.csv")
	if err != nil {
		return err
	}
	defer nodesCSV.Close()
	edgesJSON, err := openOutputFile("network_edges.json")
	if err != nil {
		return err
	}
	defer edgesJSON.Close()
	if err := output.WriteNodeEdgeList(nodesCSV, edgesJSON, g, reg); err != nil {
		return err
	}

	if err := output.SaveNetworkSQLite(ctx, filepath.Join(outputDirectory, "network.sqlite"), g, reg); err != nil {
		return err
	}
	logging.Success(logger, "network output written", "directory", outputDirectory)
	return nil
}
