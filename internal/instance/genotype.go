// Package instance holds the loaded genotype matrix, phenotype vector, and
// covariates that every scoring model and search routine reads from (spec
// §4.A, the "Instance").
package instance

import "github.com/needl-go/netseek/internal/snpset"

// GenoType is the number of minor alleles an individual carries at a SNP:
// always 0, 1, or 2.
type GenoType int8

// Ind indexes an individual (row) in the instance.
type Ind int

// GenotypeToID folds a genotype tuple into its base-3 integer id, the same
// encoding the penetrance-table scoring models key their cells with.
func GenotypeToID(genotype []GenoType) int {
	id := 0
	for _, g := range genotype {
		id = id*3 + int(g)
	}
	return id
}

// IDToGenotype expands a base-3 genotype id back into a tuple of the given
// size. An id of 3^size or more is not rejected: its base-3 digits beyond
// size are silently dropped, so callers are expected to pass only ids
// GenotypeToID produced for a tuple of that size.
func IDToGenotype(id, size int) []GenoType {
	out := make([]GenoType, size)
	for i := size - 1; i >= 0; i-- {
		out[i] = GenoType(id % 3)
		id /= 3
	}
	return out
}

// PenetranceTableSize returns 3^setSize, the number of distinct genotype
// combinations (and hence penetrance-table cells) for a SNP set of that
// size.
func PenetranceTableSize(setSize int) int {
	size := 1
	for i := 0; i < setSize; i++ {
		size *= 3
	}
	return size
}

// snpIndex resolves a snpset.SNP to its row offset in the genotype matrix.
// Since this package stores genotypes densely indexed by SNP id, the
// conversion is the identity -- kept as a named function so callers read
// intent rather than a bare cast.
func snpIndex(snp snpset.SNP) int { return int(snp) }
