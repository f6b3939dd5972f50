package scoremodel

import (
	"fmt"
	"math"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/matrixutil"
	"github.com/needl-go/netseek/internal/snpset"
)

// RegressionModel fits an ordinary-least-squares regression of the
// phenotype on the SNP set's genotype dosages (plus an intercept) and
// reports one of eight derived statistics (spec §4.C): NLL, LLH, AIC,
// BIC, and their *-GAIN counterparts, each GAIN variant being the named
// statistic's improvement over an intercept-only null model.
type RegressionModel struct {
	src      QuantitativeSource
	subScore SubScore
	idx      int
}

// NewRegressionModel builds a Regression model over src, defaulting to
// the LLH sub-score.
func NewRegressionModel(src QuantitativeSource) *RegressionModel {
	return &RegressionModel{src: src, subScore: LLH, idx: nextModelIndex()}
}

// ModelIndex returns this instance's score-cache slot.
func (m *RegressionModel) ModelIndex() int { return m.idx }

// SetOptions selects the reported sub-score.
func (m *RegressionModel) SetOptions(opts string) error {
	switch SubScore(opts) {
	case NLL, LLH, AIC, BIC, NLLGain, LLHGain, AICGain, BICGain:
		m.subScore = SubScore(opts)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedSubScore, opts)
	}
}

// ModelSense reports Minimize for NLL/AIC/BIC (and their GAIN variants)
// and Maximize for LLH (and LLH_GAIN), matching spec §4.C's sense table.
func (m *RegressionModel) ModelSense() Sense {
	if m.subScore == LLH || m.subScore == LLHGain {
		return Maximize
	}
	return Minimize
}

// fit returns the log-likelihood and parameter count of a Gaussian OLS
// fit of the phenotype against design (one row per individual). The
// likelihood uses the residual-variance MLE sigma2 = RSS/n.
func (m *RegressionModel) fit(design *matrixutil.Dense, y []float64) (llh float64, params int) {
	beta, err := matrixutil.SolveLeastSquares(design, y)
	if err != nil {
		return math.Inf(-1), design.Cols()
	}

	n := design.Rows()
	rss := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		row := design.Row(i)
		for j, b := range beta {
			pred += b * row[j]
		}
		d := y[i] - pred
		rss += d * d
	}

	sigma2 := rss / float64(n)
	if sigma2 <= 0 {
		sigma2 = 1e-12
	}
	llh = -0.5*float64(n)*math.Log(2*math.Pi*sigma2) - 0.5*float64(n)
	// +1 free parameter for the fitted residual variance.
	params = design.Cols() + 1
	return llh, params
}

func (m *RegressionModel) statistic(sub SubScore, llh float64, params, n int) float64 {
	switch sub {
	case LLH:
		return llh
	case NLL:
		return -llh
	case AIC:
		return 2*float64(params) - 2*llh
	case BIC:
		return float64(params)*math.Log(float64(n)) - 2*llh
	}
	return llh
}

// Evaluate fits the full model (genotype dosages + intercept) and, for
// *-GAIN sub-scores, also the intercept-only null model, then returns
// the requested statistic or its improvement over the null.
func (m *RegressionModel) Evaluate(set []snpset.SNP) float64 {
	n := m.src.NumInds()
	p := len(set)

	fullDesign := matrixutil.NewDense(n, p+1)
	nullDesign := matrixutil.NewDense(n, 1)
	y := make([]float64, n)

	for i := 0; i < n; i++ {
		ind := instance.Ind(i)
		geno := m.src.GenotypeAtSNPSet(set, ind)
		fullDesign.Set(i, 0, 1)
		for j, g := range geno {
			fullDesign.Set(i, j+1, float64(g))
		}
		nullDesign.Set(i, 0, 1)
		y[i] = m.src.Phenotype(ind)
	}

	switch m.subScore {
	case LLH, NLL, AIC, BIC:
		llh, params := m.fit(fullDesign, y)
		return m.statistic(m.subScore, llh, params, n)
	default:
		base, ok := baseOf(m.subScore)
		if !ok {
			base = LLH
		}
		fullLLH, fullParams := m.fit(fullDesign, y)
		nullLLH, nullParams := m.fit(nullDesign, y)
		fullStat := m.statistic(base, fullLLH, fullParams, n)
		nullStat := m.statistic(base, nullLLH, nullParams, n)
		if base == LLH {
			return fullStat - nullStat
		}
		// For NLL/AIC/BIC, lower is better; the gain is the reduction
		// achieved by the full model over the null.
		return nullStat - fullStat
	}
}

func baseOf(gain SubScore) (SubScore, bool) {
	switch gain {
	case NLLGain:
		return NLL, true
	case LLHGain:
		return LLH, true
	case AICGain:
		return AIC, true
	case BICGain:
		return BIC, true
	default:
		return "", false
	}
}

// MonteCarloP runs spec §4.C's permutation test over n phenotype shuffles.
func (m *RegressionModel) MonteCarloP(set []snpset.SNP, n int) (float64, error) {
	return monteCarloP(n, m.ModelSense(), m.src.ShufflePhenotypes, m.src.RestorePhenotypes, func() (float64, error) {
		return m.Evaluate(set), nil
	})
}
