package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/snpset"
)

const (
	phenoDtypeDouble = 1
	phenoDtypeUint64 = 2
)

// LoadQuantitativeBinary loads the compact binary genotype format (spec
// §6) with quantitative phenotypes.
func LoadQuantitativeBinary(path string, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[float64], error) {
	return loadBinary[float64](path, 2, true, func(v float64) (float64, error) { return v, nil }, numFolds, foldID, purpose)
}

// LoadCategoricalBinary loads the compact binary genotype format (spec
// §6) with categorical phenotypes.
func LoadCategoricalBinary(path string, numCategories, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[int], error) {
	convert := func(v float64) (int, error) {
		iv := int(v)
		if float64(iv) != v {
			return 0, fmt.Errorf("%w: phenotype %v is not an integer category", instance.ErrBadInput, v)
		}
		if iv < 0 || iv >= numCategories {
			return 0, fmt.Errorf("%w: phenotype category %d out of range [0,%d)", instance.ErrBadInput, iv, numCategories)
		}
		return iv, nil
	}
	return loadBinary[int](path, numCategories, false, convert, numFolds, foldID, purpose)
}

func loadBinary[P instance.Phenotype](path string, numCategories int, quantitative bool, convert func(float64) (P, error), numFolds, foldID int, purpose DataPurpose) (*instance.Instance[P], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var numSNPs64, numInds64 int64
	if err := binary.Read(r, binary.LittleEndian, &numSNPs64); err != nil {
		return nil, fmt.Errorf("%w: reading num_snps: %v", instance.ErrBadInput, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &numInds64); err != nil {
		return nil, fmt.Errorf("%w: reading num_inds: %v", instance.ErrBadInput, err)
	}
	numSNPs, numInds := int(numSNPs64), int(numInds64)
	if numSNPs <= 0 || numInds <= 0 {
		return nil, fmt.Errorf("%w: num_snps and num_inds must be positive", instance.ErrBadInput)
	}

	genotypeBytes := make([]byte, numSNPs*numInds)
	if _, err := io.ReadFull(r, genotypeBytes); err != nil {
		return nil, fmt.Errorf("%w: reading genotype matrix: %v", instance.ErrBadInput, err)
	}

	var phenoDtype uint8
	if err := binary.Read(r, binary.LittleEndian, &phenoDtype); err != nil {
		return nil, fmt.Errorf("%w: reading phenotype dtype: %v", instance.ErrBadInput, err)
	}

	phenoValues := make([]float64, numInds)
	switch phenoDtype {
	case phenoDtypeDouble:
		for i := range phenoValues {
			if err := binary.Read(r, binary.LittleEndian, &phenoValues[i]); err != nil {
				return nil, fmt.Errorf("%w: reading phenotype[%d]: %v", instance.ErrBadInput, i, err)
			}
		}
	case phenoDtypeUint64:
		for i := range phenoValues {
			var v uint64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("%w: reading phenotype[%d]: %v", instance.ErrBadInput, i, err)
			}
			phenoValues[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("%w: unknown phenotype dtype %d", instance.ErrBadInput, phenoDtype)
	}

	var hasChromosome, hasMAF uint8
	if err := binary.Read(r, binary.LittleEndian, &hasChromosome); err != nil {
		return nil, fmt.Errorf("%w: reading hasChromosome flag: %v", instance.ErrBadInput, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &hasMAF); err != nil {
		return nil, fmt.Errorf("%w: reading hasMAF flag: %v", instance.ErrBadInput, err)
	}

	rsIDs := make([]string, numSNPs)
	chromosomes := make([]string, numSNPs)
	mafs := make([]float64, numSNPs)
	for snp := 0; snp < numSNPs; snp++ {
		var nameLen uint8
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("%w: reading snp %d name length: %v", instance.ErrBadInput, snp, err)
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, fmt.Errorf("%w: reading snp %d name: %v", instance.ErrBadInput, snp, err)
		}
		rsIDs[snp] = string(nameBytes)

		if hasChromosome == 1 {
			var chromLen uint8
			if err := binary.Read(r, binary.LittleEndian, &chromLen); err != nil {
				return nil, fmt.Errorf("%w: reading snp %d chromosome length: %v", instance.ErrBadInput, snp, err)
			}
			chromBytes := make([]byte, chromLen)
			if _, err := io.ReadFull(r, chromBytes); err != nil {
				return nil, fmt.Errorf("%w: reading snp %d chromosome: %v", instance.ErrBadInput, snp, err)
			}
			chromosomes[snp] = string(chromBytes)
		}
		if hasMAF == 1 {
			if err := binary.Read(r, binary.LittleEndian, &mafs[snp]); err != nil {
				return nil, fmt.Errorf("%w: reading snp %d maf: %v", instance.ErrBadInput, snp, err)
			}
		}
	}

	var numDiseaseSNPs uint64
	if err := binary.Read(r, binary.LittleEndian, &numDiseaseSNPs); err != nil {
		return nil, fmt.Errorf("%w: reading num_disease_snps: %v", instance.ErrBadInput, err)
	}
	diseaseSNPs := make([]snpset.SNP, numDiseaseSNPs)
	for i := range diseaseSNPs {
		var idx uint64
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return nil, fmt.Errorf("%w: reading disease_snps[%d]: %v", instance.ErrBadInput, i, err)
		}
		if int(idx) >= numSNPs {
			return nil, fmt.Errorf("%w: disease_snps index %d out of range", instance.ErrBadInput, idx)
		}
		diseaseSNPs[i] = snpset.SNP(idx)
	}

	skip, err := ConstructFolds(numInds, numFolds, foldID, purpose)
	if err != nil {
		return nil, err
	}
	numIndsKept := 0
	for _, s := range skip {
		if !s {
			numIndsKept++
		}
	}

	in := instance.New[P](numCategories, quantitative)
	in.Allocate(numSNPs, numIndsKept)

	for snp := 0; snp < numSNPs; snp++ {
		in.SetSNPDescriptor(snp, rsIDs[snp])
		if hasChromosome == 1 {
			in.SetChromosome(snp, chromosomes[snp])
		}
		if hasMAF == 1 {
			in.SetMAF(snp, mafs[snp])
		}

		row := genotypeBytes[snp*numInds : (snp+1)*numInds]
		kept := 0
		for ind := 0; ind < numInds; ind++ {
			if skip[ind] {
				continue
			}
			g := row[ind]
			if g > 2 {
				return nil, fmt.Errorf("%w: genotype %d at snp %d is not in {0,1,2}", instance.ErrBadInput, g, snp)
			}
			in.SetGenotypeAtSNP(snpset.SNP(snp), instance.Ind(kept), instance.GenoType(g))
			kept++
		}
	}

	kept := 0
	for ind := 0; ind < numInds; ind++ {
		if skip[ind] {
			continue
		}
		p, err := convert(phenoValues[ind])
		if err != nil {
			return nil, err
		}
		in.SetPhenotype(instance.Ind(kept), p)
		kept++
	}

	if len(diseaseSNPs) > 0 {
		in.SetDiseaseSNPs(diseaseSNPs)
	}

	return in, nil
}
