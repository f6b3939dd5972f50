package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/needl-go/netseek/internal/config"
	"github.com/needl-go/netseek/internal/logging"
)

var (
	inputPath             string
	inputFormat           string
	numCategories         int
	covariatesFile        string
	covariatesLabelColumn int
	outputDirectory       string
	numThreads            int
	numFolds              int
	foldID                int
	foldPurpose           string

	scoreModel    string
	scoreSubScore string

	snpAnnotateSpecs      []string
	networkSpecs          []string
	networkBiogridPath    string
	networkSameAnnotation bool
	networkShuffleMethod  string
	batchConfigPath       string

	msSeedingRoutine         string
	msQCMode                 string
	msAnnealing              string
	msMaxRounds              int
	msSearchTimeLimit        string
	msPerSeedTimeLimit       string
	msAnnealingStartProb     float64
	msAnnealingEndProb       float64
	msMinSetSize             int
	msMaxSetSize             int
	msCollapseIdenticalRes   bool
	msCalculateMonteCarlo    bool
	msMonteCarloPermutations int
	msNumSeeds               int

	fsAnnealing              string
	fsMaxRounds              int
	fsSearchTimeLimit        string
	fsPerSeedTimeLimit       string
	fsAnnealingStartProb     float64
	fsAnnealingEndProb       float64
	fsMinSetSize             int
	fsMaxSetSize             int
	fsCollapseIdenticalRes   bool
	fsCalculateMonteCarlo    bool
	fsMonteCarloPermutations int

	quiet    bool
	debug    bool
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "netseek",
	Short: "Network-guided epistatic SNP interaction search",
	Long: `netseek searches a genotyped cohort for small SNP sets (size 2-10) that
jointly explain phenotype variation, guided by one or more SNP-SNP
interaction networks built from shared annotations or a network CSV
connector, and refined by simulated-annealing local search.`,
	Example: `  # Single network, quantitative phenotype, variance score
  netseek --input-path cohort.csv --input-format CSV_SNPS_AS_ROWS_FIRST \
    --output-directory out --score-model VARIANCE \
    --network "biogrid:BIOGRID|genes.csv|true|0|1|,|;|;"

  # Batch of networks with per-network search parameters from a YAML file
  netseek --input-path cohort.json --input-format JSON_EPIGEN \
    --output-directory out --score-model PENETRANCE --num-categories 2 \
    --batch-config networks.yaml`,
	RunE: runSearch,
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVar(&inputPath, "input-path", "", "genotype cohort file (required)")
	flags.StringVar(&inputFormat, "input-format", "CSV_SNPS_AS_ROWS_FIRST", "genotype file format")
	flags.IntVar(&numCategories, "num-categories", 0, "number of phenotype categories; 0 means quantitative")
	flags.StringVar(&covariatesFile, "covariates-file", "", "optional covariates CSV")
	flags.IntVar(&covariatesLabelColumn, "covariates-label-column", 0, "column reserved as the covariates row label")
	flags.StringVar(&outputDirectory, "output-directory", "", "directory results/network dumps are written to (required)")
	flags.IntVar(&numThreads, "num-threads", runtime.NumCPU(), "worker goroutines for seeding/search fan-out")
	flags.IntVar(&numFolds, "num-folds", 1, "cross-validation fold count")
	flags.IntVar(&foldID, "fold-id", 0, "cross-validation fold index")
	flags.StringVar(&foldPurpose, "fold-purpose", "training", "training or validation")

	flags.StringVar(&scoreModel, "score-model", "VARIANCE", "VARIANCE|BAYESIAN|PENETRANCE|REGRESSION")
	flags.StringVar(&scoreSubScore, "score-sub-score", "", "sub-score passed to the model's SetOptions, if any")

	flags.StringArrayVar(&snpAnnotateSpecs, "snp-annotate", nil, "path|has-header|snp-col|anno-col|csv-sep|snp-sep|anno-sep (repeatable)")
	flags.StringArrayVar(&networkSpecs, "network", nil, "name:label|path|has-header|col1|col2|csv-sep|col1-sep|col2-sep (repeatable)")
	flags.StringVar(&networkBiogridPath, "network-BIOGRID", "", "shorthand for a two-column BioGRID gene-gene CSV network")
	flags.BoolVar(&networkSameAnnotation, "network-same-annotation", false, "seed every network's starting graph with same-annotation edges")
	flags.StringVar(&networkShuffleMethod, "network-shuffle-method", "", "shuffle each constructed network before seeding (null-model runs)")
	flags.StringVar(&batchConfigPath, "batch-config", "", "YAML file naming multiple networks and their ms-*/fs-* search parameters")

	flags.StringVar(&msSeedingRoutine, "ms-seeding-routine", string(config.RandomConnectedSeeding), "RANDOM_CONNECTED|COMMUNITY_WISE|QUANTUM_COMPUTING")
	flags.StringVar(&msQCMode, "ms-qc-mode", string(config.SimulatedAnnealingQC), "SIMULATED_ANNEALING|QUANTUM_ANNEALING|QAOA")
	flags.StringVar(&msAnnealing, "ms-annealing", "SIMULATED_ANNEALING", "per-network local search annealing type")
	flags.IntVar(&msMaxRounds, "ms-max-rounds", 1000, "per-network local search round budget")
	flags.StringVar(&msSearchTimeLimit, "ms-search-time-limit", "10m", "per-network search wall-clock deadline (time-span grammar)")
	flags.StringVar(&msPerSeedTimeLimit, "ms-per-seed-time-limit", "1m", "per-network per-seed wall-clock deadline")
	flags.Float64Var(&msAnnealingStartProb, "ms-annealing-start-prob", 0.9, "acceptance probability at round 1")
	flags.Float64Var(&msAnnealingEndProb, "ms-annealing-end-prob", 0.01, "acceptance probability at the final round")
	flags.IntVar(&msMinSetSize, "ms-min-set-size", 1, "smallest acceptable result set size")
	flags.IntVar(&msMaxSetSize, "ms-max-set-size", 10, "largest acceptable result set size")
	flags.BoolVar(&msCollapseIdenticalRes, "ms-collapse-identical-results", true, "merge identical result sets across seeds")
	flags.BoolVar(&msCalculateMonteCarlo, "ms-calculate-monte-carlo", false, "attach a Monte-Carlo p-value to every kept result")
	flags.IntVar(&msMonteCarloPermutations, "ms-monte-carlo-permutations", 1000, "permutation count for the Monte-Carlo p-value")
	flags.IntVar(&msNumSeeds, "ms-num-seeds", 50, "seed count for the RANDOM_CONNECTED routine")

	flags.StringVar(&fsAnnealing, "fs-annealing", "SIMULATED_ANNEALING", "final-pass local search annealing type")
	flags.IntVar(&fsMaxRounds, "fs-max-rounds", 1000, "final-pass local search round budget")
	flags.StringVar(&fsSearchTimeLimit, "fs-search-time-limit", "10m", "final-pass search wall-clock deadline")
	flags.StringVar(&fsPerSeedTimeLimit, "fs-per-seed-time-limit", "1m", "final-pass per-seed wall-clock deadline")
	flags.Float64Var(&fsAnnealingStartProb, "fs-annealing-start-prob", 0.9, "final-pass acceptance probability at round 1")
	flags.Float64Var(&fsAnnealingEndProb, "fs-annealing-end-prob", 0.01, "final-pass acceptance probability at the final round")
	flags.IntVar(&fsMinSetSize, "fs-min-set-size", 1, "final-pass smallest acceptable result set size")
	flags.IntVar(&fsMaxSetSize, "fs-max-set-size", 10, "final-pass largest acceptable result set size")
	flags.BoolVar(&fsCollapseIdenticalRes, "fs-collapse-identical-results", true, "final-pass merge identical result sets")
	flags.BoolVar(&fsCalculateMonteCarlo, "fs-calculate-monte-carlo", false, "final-pass Monte-Carlo p-value")
	flags.IntVar(&fsMonteCarloPermutations, "fs-monte-carlo-permutations", 1000, "final-pass permutation count")

	flags.BoolVar(&quiet, "quiet", false, "suppress info-level logging")
	flags.BoolVar(&debug, "debug", false, "enable debug-level logging")
	flags.BoolVar(&noColor, "no-color", false, "disable colored log output")

	_ = rootCmd.MarkFlagRequired("input-path")
	_ = rootCmd.MarkFlagRequired("output-directory")
}

func newLogger() *slog.Logger {
	if noColor {
		color.NoColor = true
	}
	switch {
	case quiet:
		return logging.Quiet(os.Stderr)
	case debug:
		return logging.Verbose(os.Stderr)
	default:
		return logging.New(os.Stderr, slog.LevelInfo)
	}
}

func runSearch(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	if numCategories < 0 {
		return fmt.Errorf("netseek: --num-categories must be >= 0")
	}
	if err := os.MkdirAll(outputDirectory, 0o755); err != nil {
		return fmt.Errorf("netseek: creating output directory: %w", err)
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	if err := writeRunManifest(runID); err != nil {
		return err
	}

	ctx := cmd.Context()
	if numCategories == 0 {
		return runQuantitative(ctx, logger)
	}
	return runCategorical(ctx, logger)
}
