package instance

import (
	"errors"
	"math/rand/v2"

	"github.com/needl-go/netseek/internal/matrixutil"
	"github.com/needl-go/netseek/internal/snpset"
)

// ErrDimensionMismatch is returned when a caller-supplied slice does not
// match the instance's SNP or individual count.
var ErrDimensionMismatch = errors.New("instance: dimension mismatch")

// ErrBadInput is returned by loaders for malformed input: unknown format
// strings, ragged CSV rows, column-count mismatches, and similar.
var ErrBadInput = errors.New("instance: bad input")

// Phenotype is the constraint satisfied by the two phenotype kinds spec
// §4.A distinguishes: quantitative traits (float64) and categorical
// disease status (int category labels, 0-indexed).
type Phenotype interface {
	~float64 | ~int
}

// Instance holds one loaded genotype matrix, its phenotype vector, any
// covariates, and the bookkeeping (disease SNPs, MAF, chromosome labels)
// that travels with it end to end (spec §4.A).
type Instance[P Phenotype] struct {
	numCategories int
	numSNPs       int
	numInds       int
	quantitative  bool

	// genotypes is stored SNP-major: genotypes[snp*numInds+ind].
	genotypes []GenoType

	phenotypes         []P
	originalPhenotypes []P

	diseaseSNPs []snpset.SNP

	rsIDs       []string
	chromosomes []string
	maf         []float64

	covariates *matrixutil.Dense

	rng *rand.Rand
}

// New constructs an empty instance. numCategories is meaningful only when
// P is a categorical (int) phenotype; quantitative instances ignore it.
func New[P Phenotype](numCategories int, quantitative bool) *Instance[P] {
	return &Instance[P]{
		numCategories: numCategories,
		quantitative:  quantitative,
		rng:           rand.New(rand.NewPCG(1, 1)),
	}
}

// NumSNPs returns the number of SNPs.
func (in *Instance[P]) NumSNPs() int { return in.numSNPs }

// NumInds returns the number of individuals.
func (in *Instance[P]) NumInds() int { return in.numInds }

// NumCategories returns the number of phenotype categories (categorical
// instances only).
func (in *Instance[P]) NumCategories() int { return in.numCategories }

// QuantitativePhenotypes reports whether P is the quantitative phenotype
// kind.
func (in *Instance[P]) QuantitativePhenotypes() bool { return in.quantitative }

// CategoricalPhenotypes reports whether P is the categorical phenotype
// kind.
func (in *Instance[P]) CategoricalPhenotypes() bool { return !in.quantitative }

// SetSeed reseeds the RNG used for phenotype shuffling.
func (in *Instance[P]) SetSeed(seed uint64) {
	in.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// allocate resets the instance to hold numSNPs SNPs and numInds
// individuals, zeroing the genotype matrix and metadata slices.
func (in *Instance[P]) allocate(numSNPs, numInds int) {
	in.numSNPs = numSNPs
	in.numInds = numInds
	in.genotypes = make([]GenoType, numSNPs*numInds)
	in.phenotypes = make([]P, numInds)
	in.rsIDs = make([]string, numSNPs)
	in.chromosomes = make([]string, numSNPs)
	in.maf = make([]float64, numSNPs)
}

// GenotypeAtSNP returns the genotype of ind at snp.
func (in *Instance[P]) GenotypeAtSNP(snp snpset.SNP, ind Ind) GenoType {
	return in.genotypes[snpIndex(snp)*in.numInds+int(ind)]
}

// SetGenotypeAtSNP assigns the genotype of ind at snp.
func (in *Instance[P]) SetGenotypeAtSNP(snp snpset.SNP, ind Ind, g GenoType) {
	in.genotypes[snpIndex(snp)*in.numInds+int(ind)] = g
}

// GenotypesOfAllInds returns a view of every individual's genotype at snp.
// Callers must not mutate the returned slice.
func (in *Instance[P]) GenotypesOfAllInds(snp snpset.SNP) []GenoType {
	start := snpIndex(snp) * in.numInds
	return in.genotypes[start : start+in.numInds]
}

// GenotypesAtAllSNPs reconstructs ind's genotype across every SNP. Unlike
// GenotypesOfAllInds this allocates, since the matrix is stored SNP-major.
func (in *Instance[P]) GenotypesAtAllSNPs(ind Ind) []GenoType {
	out := make([]GenoType, in.numSNPs)
	for snp := 0; snp < in.numSNPs; snp++ {
		out[snp] = in.genotypes[snp*in.numInds+int(ind)]
	}
	return out
}

// GenotypeAtSNPSet returns ind's genotype tuple across the SNPs in set, in
// set's order.
func (in *Instance[P]) GenotypeAtSNPSet(set []snpset.SNP, ind Ind) []GenoType {
	out := make([]GenoType, len(set))
	for i, snp := range set {
		out[i] = in.GenotypeAtSNP(snp, ind)
	}
	return out
}

// GenotypeIDAtSNPSet returns the base-3 encoded id of ind's genotype tuple
// at set.
func (in *Instance[P]) GenotypeIDAtSNPSet(set []snpset.SNP, ind Ind) int {
	return GenotypeToID(in.GenotypeAtSNPSet(set, ind))
}

// IndsWithGenotypeAtSNPSet returns every individual whose genotype at set
// equals genotype. len(genotype) must equal len(set).
func (in *Instance[P]) IndsWithGenotypeAtSNPSet(set []snpset.SNP, genotype []GenoType) []Ind {
	return in.IndsWithGenotypeID(set, GenotypeToID(genotype))
}

// IndsWithGenotypeID returns every individual whose genotype at set has
// the given base-3 id.
func (in *Instance[P]) IndsWithGenotypeID(set []snpset.SNP, genotypeID int) []Ind {
	var out []Ind
	for ind := 0; ind < in.numInds; ind++ {
		if in.GenotypeIDAtSNPSet(set, Ind(ind)) == genotypeID {
			out = append(out, Ind(ind))
		}
	}
	return out
}

// NumIndsWithGenotypeAtSNPSet counts individuals matching genotype at set.
func (in *Instance[P]) NumIndsWithGenotypeAtSNPSet(set []snpset.SNP, genotype []GenoType) int {
	return in.NumIndsWithGenotypeID(set, GenotypeToID(genotype))
}

// NumIndsWithGenotypeID counts individuals whose genotype at set has the
// given base-3 id.
func (in *Instance[P]) NumIndsWithGenotypeID(set []snpset.SNP, genotypeID int) int {
	count := 0
	for ind := 0; ind < in.numInds; ind++ {
		if in.GenotypeIDAtSNPSet(set, Ind(ind)) == genotypeID {
			count++
		}
	}
	return count
}

// Phenotype returns the phenotype of ind.
func (in *Instance[P]) Phenotype(ind Ind) P { return in.phenotypes[ind] }

// ShufflePhenotypes permutes the phenotype vector in place using the
// instance's RNG, saving the original order so RestorePhenotypes can
// reverse it. Used by the Monte-Carlo p-value estimators (spec §4.C,
// §4.F.3).
func (in *Instance[P]) ShufflePhenotypes() {
	if in.originalPhenotypes == nil {
		in.originalPhenotypes = append([]P(nil), in.phenotypes...)
	}
	in.rng.Shuffle(len(in.phenotypes), func(i, j int) {
		in.phenotypes[i], in.phenotypes[j] = in.phenotypes[j], in.phenotypes[i]
	})
}

// RestorePhenotypes undoes any ShufflePhenotypes calls, returning the
// phenotype vector to load order.
func (in *Instance[P]) RestorePhenotypes() {
	if in.originalPhenotypes == nil {
		return
	}
	copy(in.phenotypes, in.originalPhenotypes)
}

// DiseaseSNPs returns the known disease-associated SNPs, if any were
// provided with the dataset (simulated benchmarks only).
func (in *Instance[P]) DiseaseSNPs() []snpset.SNP { return in.diseaseSNPs }

// SetDiseaseSNPs records the disease-associated SNPs.
func (in *Instance[P]) SetDiseaseSNPs(snps []snpset.SNP) {
	in.diseaseSNPs = append([]snpset.SNP(nil), snps...)
}

// SNPDescriptor returns the textual SNP identifier (e.g. "rs1234") loaded
// for snp.
func (in *Instance[P]) SNPDescriptor(snp snpset.SNP) string {
	return in.rsIDs[snpIndex(snp)]
}

// Chromosome returns the chromosome label loaded for snp.
func (in *Instance[P]) Chromosome(snp snpset.SNP) string {
	return in.chromosomes[snpIndex(snp)]
}

// MAF returns the minor allele frequency loaded (or computed) for snp.
func (in *Instance[P]) MAF(snp snpset.SNP) float64 {
	return in.maf[snpIndex(snp)]
}

// ComputeMAF fills in.maf from the genotype matrix for every SNP that has
// no externally supplied value (a zero entry is treated as "unset").
func (in *Instance[P]) ComputeMAF() {
	for snp := 0; snp < in.numSNPs; snp++ {
		if in.maf[snp] != 0 {
			continue
		}
		var sum float64
		row := in.genotypes[snp*in.numInds : (snp+1)*in.numInds]
		for _, g := range row {
			sum += float64(g)
		}
		in.maf[snp] = sum / float64(2*in.numInds)
	}
}

// NumCovs returns the number of covariate columns loaded alongside the
// genotype matrix.
func (in *Instance[P]) NumCovs() int {
	if in.covariates == nil {
		return 0
	}
	return in.covariates.Cols()
}

// Covariates returns the full covariate matrix (rows = individuals).
func (in *Instance[P]) Covariates() *matrixutil.Dense { return in.covariates }

// CovariatesAtInd returns ind's covariate row.
func (in *Instance[P]) CovariatesAtInd(ind Ind) []float64 {
	if in.covariates == nil {
		return nil
	}
	return in.covariates.Row(int(ind))
}

// SetCovariates installs a covariate matrix; it must have NumInds() rows.
func (in *Instance[P]) SetCovariates(cov *matrixutil.Dense) error {
	if cov.Rows() != in.numInds {
		return ErrDimensionMismatch
	}
	in.covariates = cov
	return nil
}
