// Package ldtest implements the linkage-disequilibrium pre-filter (spec
// §4.F): given a precomputed pairwise LD matrix, decide whether a
// candidate SNP is in too-strong LD with an existing SNP set to be worth
// adding to it.
package ldtest

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/needl-go/netseek/internal/matrixutil"
	"github.com/needl-go/netseek/internal/snpset"
)

// Mode selects how a SNP set's LD with a candidate SNP is aggregated
// across the set's members.
type Mode int

const (
	// Mean averages pairwise LD across the set.
	Mean Mode = iota
	// Max takes the strongest pairwise LD in the set.
	Max
)

// ErrDimensionMismatch is returned when the LD matrix's size does not
// match the number of SNPs the tester is constructed for.
var ErrDimensionMismatch = errors.New("ldtest: LD matrix dimension mismatch")

// Tester evaluates whether a candidate SNP is in unacceptably strong LD
// with an existing SNP set, against a fixed or Monte-Carlo-derived cutoff.
type Tester struct {
	matrix *matrixutil.Dense
	mode   Mode
	cutoff float64
}

// NewTester builds a Tester from a precomputed numSNPs x numSNPs LD
// matrix and a fixed cutoff.
func NewTester(matrix *matrixutil.Dense, mode Mode, cutoff float64) (*Tester, error) {
	if matrix.Rows() != matrix.Cols() {
		return nil, ErrDimensionMismatch
	}
	return &Tester{matrix: matrix, mode: mode, cutoff: cutoff}, nil
}

// NewTesterWithMonteCarloCutoff builds a Tester whose cutoff is the 95th
// percentile of sampleSize LD aggregates computed over randomly drawn SNP
// sets of size in [minSetSize, maxSetSize] against a randomly drawn SNP
// outside the set.
func NewTesterWithMonteCarloCutoff(matrix *matrixutil.Dense, mode Mode, minSetSize, maxSetSize, sampleSize int, rng *rand.Rand) (*Tester, error) {
	if matrix.Rows() != matrix.Cols() {
		return nil, ErrDimensionMismatch
	}
	t := &Tester{matrix: matrix, mode: mode}

	n := matrix.Rows()
	samples := make([]float64, 0, sampleSize)
	for i := 0; i < sampleSize; i++ {
		setSize := minSetSize
		if maxSetSize > minSetSize {
			setSize += rand.N(rng, maxSetSize-minSetSize+1)
		}

		selected := make(map[int]struct{})
		indices := make([]int, 0, setSize+1)
		for len(indices) < setSize+1 {
			idx := rand.N(rng, n)
			if _, dup := selected[idx]; dup {
				continue
			}
			selected[idx] = struct{}{}
			indices = append(indices, idx)
		}

		testIdx := indices[len(indices)-1]
		setIdx := indices[:len(indices)-1]
		samples = append(samples, t.aggregate(testIdx, setIdx))
	}

	sort.Float64s(samples)
	rank := int(math.Floor(float64(sampleSize)*0.95)) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(samples) {
		rank = len(samples) - 1
	}
	t.cutoff = samples[rank]
	return t, nil
}

// Cutoff returns the tester's LD cutoff.
func (t *Tester) Cutoff() float64 { return t.cutoff }

func (t *Tester) aggregate(testSNP int, set []int) float64 {
	switch t.mode {
	case Max:
		max := 0.0
		for _, snp := range set {
			if v := t.matrix.At(testSNP, snp); v > max {
				max = v
			}
		}
		return max
	default: // Mean
		if len(set) == 0 {
			return 0
		}
		sum := 0.0
		for _, snp := range set {
			sum += t.matrix.At(testSNP, snp)
		}
		return sum / float64(len(set))
	}
}

// Test reports whether candidate is in unacceptably strong LD with set
// (aggregate LD at or above the cutoff).
func (t *Tester) Test(set snpset.Set, candidate snpset.SNP) bool {
	indices := make([]int, set.Len())
	for i, s := range set.SNPs() {
		indices[i] = int(s)
	}
	return t.aggregate(int(candidate), indices) >= t.cutoff
}
