package loader

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/snpset"
)

// LoadQuantitativeCSV loads a genotype matrix with quantitative phenotypes
// from one of the four CSV layouts (spec §6).
func LoadQuantitativeCSV(path string, format InputFormat, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[float64], error) {
	return loadCSV[float64](path, format, 2, true, ParseQuantitativePhenotype, numFolds, foldID, purpose)
}

// LoadCategoricalCSV loads a genotype matrix with categorical (disease
// status) phenotypes from one of the four CSV layouts (spec §6).
func LoadCategoricalCSV(path string, format InputFormat, numCategories, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[int], error) {
	return loadCSV[int](path, format, numCategories, false, ParseCategoricalPhenotype(numCategories), numFolds, foldID, purpose)
}

func loadCSV[P instance.Phenotype](path string, format InputFormat, numCategories int, quantitative bool, parsePheno PhenotypeParser[P], numFolds, foldID int, purpose DataPurpose) (*instance.Instance[P], error) {
	records, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}

	layout, err := newCSVLayout(format, len(records), len(records[0]))
	if err != nil {
		return nil, err
	}

	skip, err := ConstructFolds(layout.numInds, numFolds, foldID, purpose)
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
	in.Allocate(layout.numSNPs, numIndsKept)

	for snp := 0; snp < layout.numSNPs; snp++ {
		in.SetSNPDescriptor(snp, layout.rsID(records, snp))
		kept := 0
		for ind := 0; ind < layout.numInds; ind++ {
			if skip[ind] {
				continue
			}
			g, err := parseGenoType(layout.genotypeCell(records, snp, ind))
			if err != nil {
				return nil, err
			}
			in.SetGenotypeAtSNP(snpset.SNP(snp), instance.Ind(kept), g)
			kept++
		}
	}

	kept := 0
	for ind := 0; ind < layout.numInds; ind++ {
		if skip[ind] {
			continue
		}
		p, err := parsePheno(layout.phenotypeCell(records, ind))
		if err != nil {
			return nil, err
		}
		in.SetPhenotype(instance.Ind(kept), p)
		kept++
	}

	return in, nil
}

func readCSVRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty csv file", instance.ErrBadInput)
	}
	width := len(records[0])
	for _, row := range records {
		if len(row) != width {
			return nil, fmt.Errorf("%w: ragged csv rows", instance.ErrBadInput)
		}
	}
	return records, nil
}

// csvLayout maps one of the four SNP/individual orientations onto cell
// accessors over the raw CSV records (spec §6's per-layout contract).
type csvLayout struct {
	numSNPs int
	numInds int

	rsID          func(records [][]string, snp int) string
	genotypeCell  func(records [][]string, snp, ind int) string
	phenotypeCell func(records [][]string, ind int) string
}

func newCSVLayout(format InputFormat, numRecords, width int) (csvLayout, error) {
	switch format {
	case FormatCSVRowsFirst:
		numSNPs, numInds := numRecords-1, width-1
		if numSNPs < 1 || numInds < 1 {
			return csvLayout{}, fmt.Errorf("%w: csv too small for %s layout", instance.ErrBadInput, format)
		}
		return csvLayout{
			numSNPs: numSNPs,
			numInds: numInds,
			rsID:    func(records [][]string, snp int) string { return records[snp][0] },
			genotypeCell: func(records [][]string, snp, ind int) string {
				return records[snp][ind+1]
			},
			phenotypeCell: func(records [][]string, ind int) string {
				return records[numSNPs][ind+1]
			},
		}, nil

	case FormatCSVRowsLast:
		numSNPs, numInds := numRecords-1, width-1
		if numSNPs < 1 || numInds < 1 {
			return csvLayout{}, fmt.Errorf("%w: csv too small for %s layout", instance.ErrBadInput, format)
		}
		return csvLayout{
			numSNPs: numSNPs,
			numInds: numInds,
			rsID:    func(records [][]string, snp int) string { return records[snp][width-1] },
			genotypeCell: func(records [][]string, snp, ind int) string {
				return records[snp][ind]
			},
			phenotypeCell: func(records [][]string, ind int) string {
				return records[numSNPs][ind]
			},
		}, nil

	case FormatCSVColumnsFirst:
		numInds, numSNPs := numRecords-1, width-1
		if numSNPs < 1 || numInds < 1 {
			return csvLayout{}, fmt.Errorf("%w: csv too small for %s layout", instance.ErrBadInput, format)
		}
		return csvLayout{
			numSNPs: numSNPs,
			numInds: numInds,
			rsID:    func(records [][]string, snp int) string { return records[0][snp] },
			genotypeCell: func(records [][]string, snp, ind int) string {
				return records[ind+1][snp]
			},
			phenotypeCell: func(records [][]string, ind int) string {
				return records[ind+1][numSNPs]
			},
		}, nil

	case FormatCSVColumnsLast:
		numInds, numSNPs := numRecords-1, width-1
		if numSNPs < 1 || numInds < 1 {
			return csvLayout{}, fmt.Errorf("%w: csv too small for %s layout", instance.ErrBadInput, format)
		}
		return csvLayout{
			numSNPs: numSNPs,
			numInds: numInds,
			rsID:    func(records [][]string, snp int) string { return records[numRecords-1][snp] },
			genotypeCell: func(records [][]string, snp, ind int) string {
				return records[ind][snp]
			},
			phenotypeCell: func(records [][]string, ind int) string {
				return records[ind][numSNPs]
			},
		}, nil

	default:
		return csvLayout{}, fmt.Errorf("%w: %q is not a csv genotype format", instance.ErrBadInput, format)
	}
}
