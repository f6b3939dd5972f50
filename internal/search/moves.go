package search

import (
	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

type moveKind int

const (
	moveNone moveKind = iota
	moveAdd
	moveDelete
	moveSubstitute
)

// move records one candidate transformation of the current set: the
// resulting set and its score, plus whichever SNP was added/removed so
// applyMoveToSubgraph can keep the local subgraph in sync.
type move struct {
	kind      moveKind
	set       snpset.Set
	score     float64
	addSNP    snpset.SNP
	deleteSNP snpset.SNP
}

// enumerateMoves evaluates every allowed add, delete, and substitute move
// out of result, returning the strictly-best (if any) and the
// second-best, tracked across all three categories together (spec §4.H
// step 1-2).
func enumerateMoves(cfg Config, g *graph.Graph, local *graph.Graph, result snpset.Set, sense scoremodel.Sense, currentScore float64) (best, second move) {
	consider := func(candidate move) {
		if better(sense, candidate.score, currentScore) {
			best = candidate
			currentScore = candidate.score
			return
		}
		if second.kind == moveNone || better(sense, candidate.score, second.score) {
			second = candidate
		}
	}

	articulation := make(map[snpset.SNP]bool)
	for _, ap := range local.ArticulationPoints() {
		articulation[ap] = true
	}

	if result.Len() < cfg.MaxSetSize {
		for _, snp := range adjacentSNPs(g, result) {
			if cfg.LDTester != nil && cfg.LDTester.Test(result, snp) {
				continue
			}
			newSet, err := result.Add(snp)
			if err != nil {
				continue
			}
			score := scoremodel.EvaluateCached(cfg.Model, &newSet)
			consider(move{kind: moveAdd, set: newSet, score: score, addSNP: snp})
		}
	}

	if result.Len() > cfg.MinSetSize {
		for _, snp := range result.SNPs() {
			if articulation[snp] {
				continue
			}
			newSet, err := result.Remove(snp)
			if err != nil {
				continue
			}
			score := scoremodel.EvaluateCached(cfg.Model, &newSet)
			consider(move{kind: moveDelete, set: newSet, score: score, deleteSNP: snp})
		}
	}

	for _, deleteSNP := range result.SNPs() {
		if articulation[deleteSNP] {
			continue
		}
		afterDelete, err := result.Remove(deleteSNP)
		if err != nil {
			continue
		}
		for _, addSNP := range adjacentSNPs(g, afterDelete) {
			if cfg.LDTester != nil && cfg.LDTester.Test(afterDelete, addSNP) {
				continue
			}
			newSet, err := afterDelete.Add(addSNP)
			if err != nil {
				continue
			}
			score := scoremodel.EvaluateCached(cfg.Model, &newSet)
			consider(move{kind: moveSubstitute, set: newSet, score: score, addSNP: addSNP, deleteSNP: deleteSNP})
		}
	}

	return best, second
}
