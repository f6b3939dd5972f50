package scoremodel

import (
	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/snpset"
)

// BayesianModel scores a SNP set with the K2 Bayesian metric: the log
// marginal likelihood of the phenotype distribution given the set's
// genotype combinations, under a uniform Dirichlet prior over category
// probabilities within each genotype cell. Larger (less negative) values
// indicate a genotype/phenotype association, so the model's sense is
// Maximize.
type BayesianModel struct {
	src CategoricalSource
	idx int
}

// NewBayesianModel builds a Bayesian model over src.
func NewBayesianModel(src CategoricalSource) *BayesianModel {
	return &BayesianModel{src: src, idx: nextModelIndex()}
}

// ModelIndex returns this instance's score-cache slot.
func (m *BayesianModel) ModelIndex() int { return m.idx }

// SetOptions accepts an empty string; Bayesian has no sub-score.
func (m *BayesianModel) SetOptions(opts string) error {
	if opts != "" {
		return ErrUnsupportedSubScore
	}
	return nil
}

// ModelSense reports that higher K2 scores are stronger signals.
func (m *BayesianModel) ModelSense() Sense { return Maximize }

// Evaluate computes the K2 score of set against the phenotype.
func (m *BayesianModel) Evaluate(set []snpset.SNP) float64 {
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

	score := 0.0
	for _, cell := range counts {
		cellTotal := 0
		for _, c := range cell {
			cellTotal += c
			score += logFactorial(c)
		}
		score += logFactorial(r - 1)
		score -= logFactorial(cellTotal + r - 1)
	}
	return score
}

// MonteCarloP runs spec §4.C's permutation test over n phenotype shuffles.
func (m *BayesianModel) MonteCarloP(set []snpset.SNP, n int) (float64, error) {
	return monteCarloP(n, m.ModelSense(), m.src.ShufflePhenotypes, m.src.RestorePhenotypes, func() (float64, error) {
		return m.Evaluate(set), nil
	})
}
