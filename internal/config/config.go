// Package config implements the ambient CLI/YAML configuration layer
// (SPEC_FULL §2): the time-span duration grammar, the per-network
// ("ms-") and final-search ("fs-") parameter groups of spec §6's CLI
// table, and a YAML side-file format for describing a batch of networks
// up front instead of repeating flags per run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/needl-go/netseek/internal/ldtest"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/search"
	"github.com/needl-go/netseek/internal/seeding"
	"github.com/needl-go/netseek/internal/snpset"
)

// SearchParams holds one "ms-*" or "fs-*" parameter group: the seeding
// strategy selection plus every scalar the local-search refinement pass
// needs. It is YAML-serializable so a batch file can set it once per
// network, and it builds a search.Config once the caller supplies the
// score model and optional LD tester a run assembles at call time.
type SearchParams struct {
	SeedingRoutine SeedingRoutine `yaml:"seeding_routine"`
	QCMode         QCMode         `yaml:"qc_mode"`

	Cluster         seeding.ClusterConfig         `yaml:"cluster"`
	CommunityWise   seeding.CommunityWiseConfig   `yaml:"community_wise"`
	QuantumAssisted seeding.QuantumAssistedConfig `yaml:"quantum_assisted"`

	Annealing                search.AnnealingType `yaml:"annealing"`
	CollapseIdenticalResults bool                 `yaml:"collapse_identical_results"`
	MaxRounds                int                  `yaml:"max_rounds"`
	SearchTimeLimit          string               `yaml:"search_time_limit"`
	PerSeedTimeLimit         string               `yaml:"per_seed_time_limit"`
	AnnealingStartProb       float64              `yaml:"annealing_start_prob"`
	AnnealingEndProb         float64              `yaml:"annealing_end_prob"`
	MinSetSize               int                  `yaml:"min_set_size"`
	MaxSetSize               int                  `yaml:"max_set_size"`
	CalculateMonteCarlo      bool                 `yaml:"calculate_monte_carlo"`
	MonteCarloPermutations   int                  `yaml:"monte_carlo_permutations"`
}

// DefaultSearchParams returns the parameter group used when a batch file
// or CLI invocation leaves a field at its zero value.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		SeedingRoutine:         RandomConnectedSeeding,
		QCMode:                 SimulatedAnnealingQC,
		Annealing:              search.SimulatedAnnealing,
		MaxRounds:              1000,
		SearchTimeLimit:        "10m",
		PerSeedTimeLimit:       "1m",
		AnnealingStartProb:     0.9,
		AnnealingEndProb:       0.01,
		MinSetSize:             1,
		MaxSetSize:             snpset.MaxSetSize,
		MonteCarloPermutations: 1000,
	}
}

func (p SearchParams) withDefaults() SearchParams {
	def := DefaultSearchParams()
	if p.SeedingRoutine == "" {
		p.SeedingRoutine = def.SeedingRoutine
	}
	if p.QCMode == "" {
		p.QCMode = def.QCMode
	}
	if p.Annealing == "" {
		p.Annealing = def.Annealing
	}
	if p.MaxRounds <= 0 {
		p.MaxRounds = def.MaxRounds
	}
	if p.SearchTimeLimit == "" {
		p.SearchTimeLimit = def.SearchTimeLimit
	}
	if p.PerSeedTimeLimit == "" {
		p.PerSeedTimeLimit = def.PerSeedTimeLimit
	}
	if p.AnnealingStartProb <= 0 {
		p.AnnealingStartProb = def.AnnealingStartProb
	}
	if p.AnnealingEndProb <= 0 {
		p.AnnealingEndProb = def.AnnealingEndProb
	}
	if p.MinSetSize <= 0 {
		p.MinSetSize = def.MinSetSize
	}
	if p.MaxSetSize <= 0 {
		p.MaxSetSize = def.MaxSetSize
	}
	if p.MonteCarloPermutations <= 0 {
		p.MonteCarloPermutations = def.MonteCarloPermutations
	}
	return p
}

// ToSearchConfig builds a search.Config from the parameter group, parsing
// the two time-span fields and wiring in the caller's score model and
// optional LD tester (spec §4.H's local-search constructor argument
// list).
func (p SearchParams) ToSearchConfig(model scoremodel.Evaluator, tester *ldtest.Tester) (search.Config, error) {
	p = p.withDefaults()

	searchLimit, err := ParseTimeSpan(p.SearchTimeLimit)
	if err != nil {
		return search.Config{}, fmt.Errorf("config: search_time_limit: %w", err)
	}
	seedLimit, err := ParseTimeSpan(p.PerSeedTimeLimit)
	if err != nil {
		return search.Config{}, fmt.Errorf("config: per_seed_time_limit: %w", err)
	}

	cfg, err := search.NewConfig(
		model,
		p.CollapseIdenticalResults,
		p.MaxRounds,
		searchLimit,
		seedLimit,
		p.Annealing,
		p.AnnealingStartProb,
		p.AnnealingEndProb,
		p.MinSetSize,
		p.MaxSetSize,
		p.CalculateMonteCarlo,
		p.MonteCarloPermutations,
	)
	if err != nil {
		return search.Config{}, err
	}
	cfg.LDTester = tester
	return cfg, nil
}

// NetworkDefinition names one entry of a batch file's network list: the
// --network/--network-BIOGRID connector source string plus the "ms-*"
// search parameters to run against that network.
type NetworkDefinition struct {
	Name   string       `yaml:"name"`
	Source string       `yaml:"source"`
	Search SearchParams `yaml:"search"`
}

// BatchConfig is the YAML side-file format replacing repeated --network
// and --ms-* flags for multi-network runs: a list of networks, each with
// its own search parameters, plus the final-search ("fs-*") parameters
// applied to the aggregated result.
type BatchConfig struct {
	Networks    []NetworkDefinition `yaml:"networks"`
	FinalSearch SearchParams        `yaml:"final_search"`
}

// Load parses a BatchConfig from YAML bytes, applying SearchParams
// defaults to every network entry and to FinalSearch, mirroring the
// per-entry defaulting pass of the ratelimit config loader this package
// is grounded on.
func Load(data []byte) (BatchConfig, error) {
	var cfg BatchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BatchConfig{}, fmt.Errorf("config: parsing batch file: %w", err)
	}
	for i := range cfg.Networks {
		cfg.Networks[i].Search = cfg.Networks[i].Search.withDefaults()
	}
	cfg.FinalSearch = cfg.FinalSearch.withDefaults()
	return cfg, nil
}

// LoadFile reads path and parses it as a BatchConfig.
func LoadFile(path string) (BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BatchConfig{}, fmt.Errorf("config: reading batch file: %w", err)
	}
	return Load(data)
}
