package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/snpset"
)

// epigenDocument mirrors the EpiGEN-compatible JSON layout spec §6 pins.
type epigenDocument struct {
	NumSNPs     int                 `json:"num_snps"`
	NumInds     int                 `json:"num_inds"`
	Genotype    [][]int             `json:"genotype"`
	Phenotype   []json.RawMessage   `json:"phenotype"`
	SNPs        [][]json.RawMessage `json:"snps"`
	MAFs        []float64           `json:"mafs"`
	DiseaseSNPs []int               `json:"disease_snps"`
}

// LoadQuantitativeJSON loads an EpiGEN-style JSON genotype file with
// quantitative phenotypes.
func LoadQuantitativeJSON(path string, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[float64], error) {
	return loadJSON[float64](path, 2, true, ParseQuantitativePhenotype, numFolds, foldID, purpose)
}

// LoadCategoricalJSON loads an EpiGEN-style JSON genotype file with
// categorical phenotypes.
func LoadCategoricalJSON(path string, numCategories, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[int], error) {
	return loadJSON[int](path, numCategories, false, ParseCategoricalPhenotype(numCategories), numFolds, foldID, purpose)
}

func loadJSON[P instance.Phenotype](path string, numCategories int, quantitative bool, parsePheno PhenotypeParser[P], numFolds, foldID int, purpose DataPurpose) (*instance.Instance[P], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}

	var doc epigenDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}
	if doc.NumSNPs <= 0 || doc.NumInds <= 0 {
		return nil, fmt.Errorf("%w: num_snps and num_inds must be positive", instance.ErrBadInput)
	}
	if len(doc.Genotype) != doc.NumSNPs {
		return nil, fmt.Errorf("%w: genotype has %d rows, want %d", instance.ErrBadInput, len(doc.Genotype), doc.NumSNPs)
	}
	if len(doc.Phenotype) != doc.NumInds {
		return nil, fmt.Errorf("%w: phenotype has %d entries, want %d", instance.ErrBadInput, len(doc.Phenotype), doc.NumInds)
	}

	skip, err := ConstructFolds(doc.NumInds, numFolds, foldID, purpose)
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
	in.Allocate(doc.NumSNPs, numIndsKept)

	for snp := 0; snp < doc.NumSNPs; snp++ {
		row := doc.Genotype[snp]
		if len(row) != doc.NumInds {
			return nil, fmt.Errorf("%w: genotype row %d has %d entries, want %d", instance.ErrBadInput, snp, len(row), doc.NumInds)
		}
		if snp < len(doc.SNPs) {
			entry := doc.SNPs[snp]
			if len(entry) > 0 {
				in.SetSNPDescriptor(snp, rawJSONString(entry[0]))
			}
			if len(entry) > 1 {
				in.SetChromosome(snp, rawJSONString(entry[1]))
			}
		}
		if snp < len(doc.MAFs) {
			in.SetMAF(snp, doc.MAFs[snp])
		}

		kept := 0
		for ind := 0; ind < doc.NumInds; ind++ {
			if skip[ind] {
				continue
			}
			g := row[ind]
			if g < 0 || g > 2 {
				return nil, fmt.Errorf("%w: genotype %d at snp %d is not in {0,1,2}", instance.ErrBadInput, g, snp)
			}
			in.SetGenotypeAtSNP(snpset.SNP(snp), instance.Ind(kept), instance.GenoType(g))
			kept++
		}
	}

	kept := 0
	for ind := 0; ind < doc.NumInds; ind++ {
		if skip[ind] {
			continue
		}
		p, err := parsePheno(rawJSONString(doc.Phenotype[ind]))
		if err != nil {
			return nil, err
		}
		in.SetPhenotype(instance.Ind(kept), p)
		kept++
	}

	if len(doc.DiseaseSNPs) > 0 {
		seen := make(map[int]struct{}, len(doc.DiseaseSNPs))
		diseaseSNPs := make([]snpset.SNP, 0, len(doc.DiseaseSNPs))
		for _, d := range doc.DiseaseSNPs {
			if d < 0 || d >= doc.NumSNPs {
				return nil, fmt.Errorf("%w: disease_snps index %d out of range", instance.ErrBadInput, d)
			}
			if _, dup := seen[d]; dup {
				return nil, fmt.Errorf("%w: duplicate disease_snps index %d", instance.ErrBadInput, d)
			}
			seen[d] = struct{}{}
			diseaseSNPs = append(diseaseSNPs, snpset.SNP(d))
		}
		in.SetDiseaseSNPs(diseaseSNPs)
	}

	return in, nil
}

// rawJSONString stringifies a phenotype field that may be encoded either
// as a JSON string or a JSON number.
func rawJSONString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}
