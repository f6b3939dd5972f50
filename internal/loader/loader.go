package loader

import (
	"fmt"

	"github.com/needl-go/netseek/internal/instance"
)

// LoadQuantitative loads a genotype file of the given format with
// quantitative phenotypes, dispatching to the CSV, JSON, or binary reader
// (spec §6). numFolds <= 1 loads every individual.
func LoadQuantitative(path string, format InputFormat, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[float64], error) {
	switch format {
	case FormatJSONEpigen:
		return LoadQuantitativeJSON(path, numFolds, foldID, purpose)
	case FormatNeedlBin:
		return LoadQuantitativeBinary(path, numFolds, foldID, purpose)
	case FormatCSVRowsFirst, FormatCSVRowsLast, FormatCSVColumnsFirst, FormatCSVColumnsLast:
		return LoadQuantitativeCSV(path, format, numFolds, foldID, purpose)
	default:
		return nil, fmt.Errorf("%w: unknown input format %q", instance.ErrBadInput, format)
	}
}

// LoadCategorical loads a genotype file of the given format with
// categorical (disease status) phenotypes.
func LoadCategorical(path string, format InputFormat, numCategories, numFolds, foldID int, purpose DataPurpose) (*instance.Instance[int], error) {
	switch format {
	case FormatJSONEpigen:
		return LoadCategoricalJSON(path, numCategories, numFolds, foldID, purpose)
	case FormatNeedlBin:
		return LoadCategoricalBinary(path, numCategories, numFolds, foldID, purpose)
	case FormatCSVRowsFirst, FormatCSVRowsLast, FormatCSVColumnsFirst, FormatCSVColumnsLast:
		return LoadCategoricalCSV(path, format, numCategories, numFolds, foldID, purpose)
	default:
		return nil, fmt.Errorf("%w: unknown input format %q", instance.ErrBadInput, format)
	}
}

// LoadCovariatesInto loads the covariates CSV format and installs the
// result on in, returning the kept covariate column names.
func LoadCovariatesInto[P instance.Phenotype](in *instance.Instance[P], path string, labelColumn int) ([]string, error) {
	mat, names, err := LoadCovariatesCSV(path, labelColumn)
	if err != nil {
		return nil, err
	}
	if err := in.SetCovariates(mat); err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}
	return names, nil
}
