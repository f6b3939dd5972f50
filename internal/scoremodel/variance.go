package scoremodel

import (
	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/snpset"
)

// VarianceModel scores a SNP set by the share of phenotypic variance
// explained by partitioning individuals into the set's genotype
// combinations (a one-way ANOVA between-group/total-variance ratio).
// Higher scores mean the genotype groups separate the phenotype better,
// so the model's sense is Maximize.
type VarianceModel struct {
	src QuantitativeSource
	idx int
}

// NewVarianceModel builds a Variance model over src.
func NewVarianceModel(src QuantitativeSource) *VarianceModel {
	return &VarianceModel{src: src, idx: nextModelIndex()}
}

// ModelIndex returns this instance's score-cache slot.
func (m *VarianceModel) ModelIndex() int { return m.idx }

// SetOptions accepts an empty string; Variance has no sub-score.
func (m *VarianceModel) SetOptions(opts string) error {
	if opts != "" {
		return ErrUnsupportedSubScore
	}
	return nil
}

// ModelSense reports that higher Variance scores are stronger signals.
func (m *VarianceModel) ModelSense() Sense { return Maximize }

// Evaluate computes the between-group variance of the phenotype across
// the SNP set's genotype combinations, normalized by total variance.
func (m *VarianceModel) Evaluate(set []snpset.SNP) float64 {
	n := m.src.NumInds()
	if n == 0 {
		return 0
	}

	tableSize := instance.PenetranceTableSize(len(set))
	sums := make([]float64, tableSize)
	counts := make([]int, tableSize)

	grandSum := 0.0
	for i := 0; i < n; i++ {
		ind := instance.Ind(i)
		id := instance.GenotypeToID(m.src.GenotypeAtSNPSet(set, ind))
		p := m.src.Phenotype(ind)
		sums[id] += p
		counts[id]++
		grandSum += p
	}
	grandMean := grandSum / float64(n)

	var totalSS, betweenSS float64
	for i := 0; i < n; i++ {
		ind := instance.Ind(i)
		p := m.src.Phenotype(ind)
		d := p - grandMean
		totalSS += d * d
	}
	for id, count := range counts {
		if count == 0 {
			continue
		}
		groupMean := sums[id] / float64(count)
		d := groupMean - grandMean
		betweenSS += float64(count) * d * d
	}

	if totalSS == 0 {
		return 0
	}
	return betweenSS / totalSS
}

// MonteCarloP runs spec §4.C's permutation test over n phenotype shuffles.
func (m *VarianceModel) MonteCarloP(set []snpset.SNP, n int) (float64, error) {
	return monteCarloP(n, m.ModelSense(), m.src.ShufflePhenotypes, m.src.RestorePhenotypes, func() (float64, error) {
		return m.Evaluate(set), nil
	})
}
