package instance

// Allocate resizes the instance to hold numSNPs SNPs and numInds
// individuals, discarding any previously loaded data. Loaders call this
// once they know the input file's dimensions.
func (in *Instance[P]) Allocate(numSNPs, numInds int) {
	in.allocate(numSNPs, numInds)
}

// SetSNPDescriptor records the textual SNP id (e.g. "rs1234") for snp.
func (in *Instance[P]) SetSNPDescriptor(snpIdx int, descriptor string) {
	in.rsIDs[snpIdx] = descriptor
}

// SetChromosome records the chromosome label for snp.
func (in *Instance[P]) SetChromosome(snpIdx int, chromosome string) {
	in.chromosomes[snpIdx] = chromosome
}

// SetMAF records an externally-supplied minor allele frequency for snp,
// pre-empting ComputeMAF's derivation from genotype counts.
func (in *Instance[P]) SetMAF(snpIdx int, maf float64) {
	in.maf[snpIdx] = maf
}

// SetPhenotype assigns ind's phenotype.
func (in *Instance[P]) SetPhenotype(ind Ind, p P) {
	in.phenotypes[ind] = p
}
