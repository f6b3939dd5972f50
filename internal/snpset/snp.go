// Package snpset defines the SNP id, SNP edge, and SNP set value types
// shared by every other package in this module.
//
// SNP is a dense 32-bit id assigned in load order by the registry; it
// indexes the genotype matrix directly. Edge is an unordered pair of SNPs
// canonicalized into a single uint64 so it can key a Go map. Set is the
// sorted, size-capped, attribute-carrying SNP set of spec §4.D.
package snpset

import "math"

// SNP is a dense integer identifier for a single-nucleotide polymorphism.
// Ids are assigned contiguously from 0 in load order and index the
// genotype matrix directly.
type SNP uint32

// Invalid is the reserved sentinel denoting "no SNP".
const Invalid SNP = math.MaxUint32

// MaxSetSize is the hard cap on the number of SNPs in a Set (spec §3).
const MaxSetSize = 10
