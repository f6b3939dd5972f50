// Package search implements the simulated-annealing local search that
// refines each seeding-stage start set into a locally optimal SNP set
// (spec §4.H). Every seed is processed independently and in parallel; a
// small "local subgraph" (the seed's induced main-network edges plus a
// full clique over its original members) is carried alongside the set so
// that delete moves can be checked against real articulation points
// without re-walking the whole interaction network each round.
package search

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/ldtest"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

// AnnealingType selects the acceptance rule for non-improving moves.
type AnnealingType string

const (
	SimulatedAnnealing     AnnealingType = "SIMULATED_ANNEALING"
	RandomAnnealing        AnnealingType = "RANDOM_ANNEALING"
	HyperbolicTanAnnealing AnnealingType = "HYPERBOLIC_TAN_ANNEALING"
)

// Config parameterizes Run, mirroring the local-search job's constructor
// argument list one for one (spec §4.H).
type Config struct {
	Model scoremodel.Evaluator

	CollapseIdenticalResults bool
	MaxRounds                int
	SearchTimeLimit          time.Duration // 0 disables the global limit
	PerSeedTimeLimit         time.Duration // 0 disables the per-seed limit

	Annealing          AnnealingType
	CoolingFactor      float64
	AnnealingStartProb float64
	AnnealingEndProb   float64

	MinSetSize int
	MaxSetSize int

	CalculateMonteCarlo    bool
	MonteCarloPermutations int

	// LDTester, when non-nil, rejects add/substitute candidates in
	// unacceptably strong LD with the set under construction. It may be
	// built with either ldtest.NewTester (fixed cutoff) or
	// ldtest.NewTesterWithMonteCarloCutoff (sampled cutoff); both modes
	// are transparent to the search loop.
	LDTester *ldtest.Tester
}

// NewConfig builds a Config with the cooling factor auto-derived from the
// start/end acceptance probabilities over MaxRounds, exactly as the
// original constructor always overrides its cooling_factor argument once
// max_rounds > 1.
func NewConfig(
	model scoremodel.Evaluator,
	collapseIdenticalResults bool,
	maxRounds int,
	searchTimeLimit, perSeedTimeLimit time.Duration,
	annealing AnnealingType,
	annealingStartProb, annealingEndProb float64,
	minSetSize, maxSetSize int,
	calculateMonteCarlo bool,
	monteCarloPermutations int,
) (Config, error) {
	switch annealing {
	case SimulatedAnnealing, RandomAnnealing, HyperbolicTanAnnealing:
	default:
		return Config{}, fmt.Errorf("search: unknown annealing type %q", annealing)
	}

	cfg := Config{
		Model:                    model,
		CollapseIdenticalResults: collapseIdenticalResults,
		MaxRounds:                maxRounds,
		SearchTimeLimit:          searchTimeLimit,
		PerSeedTimeLimit:         perSeedTimeLimit,
		Annealing:                annealing,
		CoolingFactor:            1.0,
		AnnealingStartProb:       annealingStartProb,
		AnnealingEndProb:         annealingEndProb,
		MinSetSize:               minSetSize,
		MaxSetSize:               maxSetSize,
		CalculateMonteCarlo:      calculateMonteCarlo,
		MonteCarloPermutations:   monteCarloPermutations,
	}

	if maxRounds > 1 {
		t0 := 1.0 / math.Log(annealingStartProb)
		t1 := 1.0 / math.Log(annealingEndProb)
		cfg.CoolingFactor = math.Pow(t1/t0, 1.0/float64(maxRounds-1))
	}
	return cfg, nil
}

type stoppingReason string

const (
	reasonConvergence    stoppingReason = "CONVERGENCE"
	reasonSearchTimeout  stoppingReason = "SEARCH_TIMEOUT"
	reasonSeedTimeout    stoppingReason = "SEED_TIMEOUT"
	reasonAnnealingStop  stoppingReason = "SIMULATED_ANNEALING"
	reasonMinSetViolated stoppingReason = "MIN_SET CRITERION VIOLATED"
)

// Run processes every seed independently (in parallel, bounded by the
// caller's context) and returns the kept result sets: empty-set results
// are dropped, remaining results are collapsed per Config and, if
// requested, annotated with a Monte-Carlo p-value (spec §4.H).
//
// baseSeed derives one deterministic RNG per seed (rand.NewPCG(baseSeed,
// index+1)), so a run is reproducible regardless of goroutine scheduling
// order.
func Run(ctx context.Context, cfg Config, g *graph.Graph, seeds []snpset.Set, baseSeed uint64) ([]snpset.Set, error) {
	searchStart := time.Now()
	results := make([]snpset.Set, len(seeds))

	group, gctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		i, seed := i, seed
		group.Go(func() error {
			if cfg.SearchTimeLimit > 0 && time.Since(searchStart) >= cfg.SearchTimeLimit {
				return nil // skipped: global time budget already exhausted
			}
			rng := rand.New(rand.NewPCG(baseSeed, uint64(i)+1))
			results[i] = processStartSeed(gctx, cfg, g, seed, rng, searchStart)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var kept []snpset.Set
	for _, r := range results {
		if r.Len() == 0 {
			continue
		}
		if cfg.CalculateMonteCarlo {
			p, err := cfg.Model.MonteCarloP(r.SNPs(), cfg.MonteCarloPermutations)
			if err != nil {
				return nil, err
			}
			r.SetAttribute("MONTE_CARLO_SCORE", strconv.FormatFloat(p, 'g', -1, 64))
		}
		kept = append(kept, r)
	}

	if cfg.CollapseIdenticalResults {
		kept = collapse(kept)
	}

	return kept, nil
}

// processStartSeed grows startSeed to MinSetSize if needed, then runs the
// add/delete/substitute simulated-annealing loop until convergence, a
// time limit, or an annealing-rejected move stops it (spec §4.H).
func processStartSeed(ctx context.Context, cfg Config, g *graph.Graph, startSeed snpset.Set, rng *rand.Rand, searchStart time.Time) snpset.Set {
	startTime := time.Now()
	sense := cfg.Model.ModelSense()

	result := startSeed.Clone()
	for result.Len() < cfg.MinSetSize {
		candidates := adjacentSNPs(g, result)
		if len(candidates) == 0 {
			break
		}
		grown, err := result.Add(candidates[rand.N(rng, len(candidates))])
		if err != nil {
			break
		}
		result = grown
	}

	if result.Len() < cfg.MinSetSize {
		empty := snpset.Set{}
		empty.SetAttribute("STOPPING_REASON", string(reasonMinSetViolated))
		empty.SetAttribute("NUM_ROUNDS", "0")
		return empty
	}

	local := buildLocalSubgraph(result)

	deltaSum := 0.0
	temperature := 1.0 / math.Log(cfg.AnnealingStartProb)
	iterationsWithoutImprovement := 0

	best := result.Clone()
	bestScore := scoremodel.EvaluateCached(cfg.Model, &best)
	reason := reasonConvergence

	round := 1
	for ; round <= cfg.MaxRounds; round++ {
		if cfg.SearchTimeLimit > 0 && time.Since(searchStart) >= cfg.SearchTimeLimit {
			reason = reasonSearchTimeout
			break
		}
		if cfg.PerSeedTimeLimit > 0 && time.Since(startTime) >= cfg.PerSeedTimeLimit {
			reason = reasonSeedTimeout
			break
		}
		if ctx.Err() != nil {
			reason = reasonSearchTimeout
			break
		}

		previousScore := scoremodel.EvaluateCached(cfg.Model, &result)
		bestMove, secondMove := enumerateMoves(cfg, g, local, result, sense, previousScore)

		var applied move
		var currentScore float64

		if bestMove.kind == moveNone {
			if secondMove.kind == moveNone {
				reason = reasonConvergence
				break
			}

			deltaSum += math.Abs(secondMove.score - previousScore)

			if acceptAnnealing(cfg, rng, round, secondMove.score, previousScore, deltaSum, temperature, iterationsWithoutImprovement) {
				applied = secondMove
				currentScore = secondMove.score
			} else {
				reason = reasonAnnealingStop
				break
			}
			iterationsWithoutImprovement++
		} else {
			applied = bestMove
			currentScore = bestMove.score
			deltaSum += math.Abs(currentScore - previousScore)
		}

		applyMoveToSubgraph(g, local, applied)
		result = applied.set

		if better(sense, currentScore, bestScore) {
			best = result.Clone()
			bestScore = currentScore
		}

		temperature *= cfg.CoolingFactor
	}

	best.SetAttribute("NUM_ROUNDS", strconv.Itoa(round))
	best.SetAttribute("STOPPING_REASON", string(reason))
	return best
}

// acceptAnnealing decides whether to accept the second-best move once the
// best move failed to strictly improve the score (spec §4.H step 4, and
// the RANDOM_ANNEALING / HYPERBOLIC_TAN_ANNEALING alternatives).
func acceptAnnealing(cfg Config, rng *rand.Rand, round int, scoreNow, scoreBefore, deltaSum, temperature float64, iterationsWithoutImprovement int) bool {
	switch cfg.Annealing {
	case RandomAnnealing:
		return rng.Float64() > 0.5 && round < cfg.MaxRounds-1

	case HyperbolicTanAnnealing:
		delta := (scoreNow - scoreBefore) / float64(cfg.MaxRounds-round)
		scoreNormalized := 1 - 2/(math.Exp(2*delta)+1)
		return rng.Float64() >= scoreNormalized

	default: // SimulatedAnnealing
		delta := math.Abs(scoreNow - scoreBefore)
		if delta == 0 {
			return false
		}
		deltaAvg := deltaSum / float64(round)
		condition := math.Exp(-delta/(deltaAvg*temperature)) - 1
		divIterationsNoImprovement := float64(iterationsWithoutImprovement) / float64(round)

		r := rng.Float64()
		return r > condition || r < divIterationsNoImprovement
	}
}

func better(sense scoremodel.Sense, candidate, incumbent float64) bool {
	if sense == scoremodel.Maximize {
		return candidate > incumbent
	}
	return candidate < incumbent
}

// adjacentSNPs returns the main-graph neighbours of set's members that are
// not already in set, deduplicated.
func adjacentSNPs(g *graph.Graph, set snpset.Set) []snpset.SNP {
	seen := make(map[snpset.SNP]bool)
	var out []snpset.SNP
	for _, s := range set.SNPs() {
		for _, n := range g.Neighbors(s) {
			if set.Contains(n) || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// buildLocalSubgraph seeds the per-seed local subgraph with set's members
// fully connected to each other, regardless of whether the main network
// actually has those edges (spec §4.H: "a full clique over R's members").
// Real main-network edges are added incrementally as new members join via
// applyMoveToSubgraph.
func buildLocalSubgraph(set snpset.Set) *graph.Graph {
	local := graph.New()
	members := set.SNPs()
	for _, s := range members {
		local.AddNode(s)
	}
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			_ = local.AddEdge(members[i], members[j], "CLIQUE")
		}
	}
	return local
}

// applyMoveToSubgraph keeps the local subgraph in sync with a committed
// move: a deleted member and its incident local edges are dropped, and an
// added member is wired to whichever already-present members it is
// actually adjacent to in the main network (spec §4.H step 5).
func applyMoveToSubgraph(g *graph.Graph, local *graph.Graph, m move) {
	if m.kind == moveDelete || m.kind == moveSubstitute {
		_ = local.RemoveNode(m.deleteSNP)
	}
	if m.kind == moveAdd || m.kind == moveSubstitute {
		local.AddNode(m.addSNP)
		for _, n := range g.Neighbors(m.addSNP) {
			if local.ContainsNode(n) {
				_ = local.AddEdge(m.addSNP, n, "NET")
			}
		}
	}
}
