package scoremodel

import (
	"fmt"
	"math"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/snpset"
)

// PenetranceModel fits a saturated categorical model, one free
// phenotype-category distribution per genotype cell of the SNP set, and
// reports one of four derived statistics (spec §4.C): NLL, LLH, AIC, BIC.
type PenetranceModel struct {
	src      CategoricalSource
	subScore SubScore
	idx      int
}

// NewPenetranceModel builds a Penetrance model over src, defaulting to
// the LLH sub-score.
func NewPenetranceModel(src CategoricalSource) *PenetranceModel {
	return &PenetranceModel{src: src, subScore: LLH, idx: nextModelIndex()}
}

// ModelIndex returns this instance's score-cache slot.
func (m *PenetranceModel) ModelIndex() int { return m.idx }

// SetOptions selects the reported sub-score: one of NLL, LLH, AIC, BIC.
func (m *PenetranceModel) SetOptions(opts string) error {
	switch SubScore(opts) {
	case NLL, LLH, AIC, BIC:
		m.subScore = SubScore(opts)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedSubScore, opts)
	}
}

// ModelSense reports Minimize for NLL/AIC/BIC and Maximize for LLH,
// matching spec §4.C's sense table.
func (m *PenetranceModel) ModelSense() Sense {
	if m.subScore == LLH {
		return Maximize
	}
	return Minimize
}

// logLikelihood computes the saturated model's log-likelihood and its
// number of free parameters (numCells * (numCategories-1), counting only
// cells with at least one individual).
func (m *PenetranceModel) logLikelihood(set []snpset.SNP) (llh float64, params int) {
	r := m.src.NumCategories()
	tableSize := instance.PenetranceTableSize(len(set))
	counts := make([][]int, tableSize)
	for i := range counts {
		counts[i] = make([]int, r)
	}

	n := m.src.NumInds()
	for i := 0; i < n; i++ {
		ind := instance.Ind(i)
		id := instance.GenotypeToID(m.src.GenotypeAtSNPSet(set, ind))
		cat := m.src.Phenotype(ind)
		counts[id][cat]++
	}

	for _, cell := range counts {
		cellTotal := 0
		for _, c := range cell {
			cellTotal += c
		}
		if cellTotal == 0 {
			continue
		}
		params += r - 1
		for _, c := range cell {
			if c == 0 {
				continue
			}
			llh += float64(c) * logRatio(c, cellTotal)
		}
	}
	return llh, params
}

func logRatio(count, total int) float64 {
	p := float64(count) / float64(total)
	return math.Log(p)
}

// Evaluate returns the configured sub-score for set.
func (m *PenetranceModel) Evaluate(set []snpset.SNP) float64 {
	llh, params := m.logLikelihood(set)
	n := m.src.NumInds()
	switch m.subScore {
	case LLH:
		return llh
	case NLL:
		return -llh
	case AIC:
		return 2*float64(params) - 2*llh
	case BIC:
		return float64(params)*math.Log(float64(n)) - 2*llh
	default:
		return llh
	}
}

// MonteCarloP runs spec §4.C's permutation test over n phenotype shuffles.
func (m *PenetranceModel) MonteCarloP(set []snpset.SNP, n int) (float64, error) {
	return monteCarloP(n, m.ModelSense(), m.src.ShufflePhenotypes, m.src.RestorePhenotypes, func() (float64, error) {
		return m.Evaluate(set), nil
	})
}
