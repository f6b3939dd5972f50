// Package scoremodel implements the pluggable epistasis scoring layer
// (spec §4.C): Variance, Bayesian, Penetrance, and Regression models that
// map a SNP set to a real-valued score, each with Monte-Carlo p-value
// support via phenotype permutation.
package scoremodel

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/snpset"
)

// Sense indicates whether a model's score is better when lower or higher.
type Sense int

const (
	// Minimize means a lower score is a stronger epistatic signal.
	Minimize Sense = iota
	// Maximize means a higher score is a stronger epistatic signal.
	Maximize
)

// SubScore selects which derived statistic a Penetrance or Regression
// model reports (spec §4.C's table).
type SubScore string

const (
	NLL     SubScore = "NLL"
	LLH     SubScore = "LLH"
	AIC     SubScore = "AIC"
	BIC     SubScore = "BIC"
	NLLGain SubScore = "NLL_GAIN"
	LLHGain SubScore = "LLH_GAIN"
	AICGain SubScore = "AIC_GAIN"
	BICGain SubScore = "BIC_GAIN"
)

// ErrUnsupportedSubScore is returned by SetOptions when a model is asked
// for a sub-score it doesn't define.
var ErrUnsupportedSubScore = errors.New("scoremodel: unsupported sub-score")

// QuantitativeSource is the slice of instance.Instance[float64] the
// Variance and Regression models read from.
type QuantitativeSource interface {
	NumInds() int
	GenotypeAtSNPSet(set []snpset.SNP, ind instance.Ind) []instance.GenoType
	Phenotype(ind instance.Ind) float64
	ShufflePhenotypes()
	RestorePhenotypes()
}

// CategoricalSource is the slice of instance.Instance[int] the Bayesian
// and Penetrance models read from.
type CategoricalSource interface {
	NumInds() int
	NumCategories() int
	GenotypeAtSNPSet(set []snpset.SNP, ind instance.Ind) []instance.GenoType
	Phenotype(ind instance.Ind) int
	ShufflePhenotypes()
	RestorePhenotypes()
}

// Evaluator is the common shape all four model kinds satisfy, letting
// callers outside this package (seeding, local search) score a SNP set
// without caring which concrete kind is in play.
type Evaluator interface {
	Evaluate(set []snpset.SNP) float64
	ModelSense() Sense
	MonteCarloP(set []snpset.SNP, n int) (float64, error)

	// ModelIndex returns the stable slot this model instance was
	// assigned at construction, used to key a Set's memoized score
	// vector (spec §4.D) so two different models never collide in the
	// same Set's cache.
	ModelIndex() int
}

// modelIndexCounter assigns each constructed model instance a distinct,
// process-wide slot; nextModelIndex is called once per New*Model call.
var modelIndexCounter int32 = -1

func nextModelIndex() int {
	return int(atomic.AddInt32(&modelIndexCounter, 1))
}

// EvaluateCached scores set against model, consulting and then
// populating set's memoized per-model score vector (snpset.Set's
// CachedScore/SetCachedScore) so repeat evaluations of the identical set
// under the same model — the local-search loop re-checking its current
// set every round, or a result table scoring the same set under a rank
// model and a display column that happen to coincide — cost one
// Evaluate call instead of one per call site.
func EvaluateCached(model Evaluator, set *snpset.Set) float64 {
	idx := model.ModelIndex()
	if score, ok := set.CachedScore(idx); ok {
		return score
	}
	score := model.Evaluate(set.SNPs())
	set.SetCachedScore(idx, score)
	return score
}

// monteCarloP implements spec §4.C's permutation test: evaluate once for
// the true score, then n times after each in-place phenotype shuffle,
// counting shuffled scores that are not worse than the true score
// (direction given by sense). Phenotypes are always restored, even if
// evaluate returns an error partway through.
func monteCarloP(n int, sense Sense, shuffle, restore func(), evaluate func() (float64, error)) (float64, error) {
	defer restore()

	trueScore, err := evaluate()
	if err != nil {
		return 0, err
	}

	notWorse := 0
	for i := 0; i < n; i++ {
		shuffle()
		shuffledScore, err := evaluate()
		if err != nil {
			return 0, err
		}
		if sense == Maximize && shuffledScore >= trueScore {
			notWorse++
		} else if sense == Minimize && shuffledScore <= trueScore {
			notWorse++
		}
	}
	return float64(notWorse+1) / float64(n+1), nil
}

func logFactorial(n int) float64 {
	// lgamma(n+1) == log(n!)
	v, _ := math.Lgamma(float64(n) + 1)
	return v
}
