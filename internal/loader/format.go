// Package loader implements the genotype/covariate input adapters pinned
// by spec §6: the four CSV layouts, the EpiGEN-compatible JSON format, the
// compact binary format, covariate CSV loading, and cross-validation fold
// selection.
package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/needl-go/netseek/internal/instance"
)

// InputFormat names one of the genotype file formats spec §6 pins.
type InputFormat string

const (
	FormatJSONEpigen      InputFormat = "JSON_EPIGEN"
	FormatNeedlBin        InputFormat = "NEEDL_BIN"
	FormatCSVRowsFirst    InputFormat = "CSV_SNPS_AS_ROWS_FIRST"
	FormatCSVRowsLast     InputFormat = "CSV_SNPS_AS_ROWS_LAST"
	FormatCSVColumnsFirst InputFormat = "CSV_SNPS_AS_COLUMNS_FIRST"
	FormatCSVColumnsLast  InputFormat = "CSV_SNPS_AS_COLUMNS_LAST"
)

// ParseInputFormat parses one of the six format names, case-insensitively.
func ParseInputFormat(s string) (InputFormat, error) {
	switch f := InputFormat(strings.ToUpper(strings.TrimSpace(s))); f {
	case FormatJSONEpigen, FormatNeedlBin, FormatCSVRowsFirst, FormatCSVRowsLast,
		FormatCSVColumnsFirst, FormatCSVColumnsLast:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown input format %q", instance.ErrBadInput, s)
	}
}

// PhenotypeParser converts one raw phenotype field (from a CSV cell or a
// stringified JSON/binary value) into a loaded phenotype value.
type PhenotypeParser[P instance.Phenotype] func(field string) (P, error)

// ParseQuantitativePhenotype parses field as a floating-point phenotype.
func ParseQuantitativePhenotype(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: phenotype %q is not numeric: %v", instance.ErrBadInput, field, err)
	}
	return v, nil
}

// ParseCategoricalPhenotype returns a PhenotypeParser that parses field as
// an integer category in [0, numCategories).
func ParseCategoricalPhenotype(numCategories int) PhenotypeParser[int] {
	return func(field string) (int, error) {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return 0, fmt.Errorf("%w: phenotype %q is not an integer category: %v", instance.ErrBadInput, field, err)
		}
		if v < 0 || v >= numCategories {
			return 0, fmt.Errorf("%w: phenotype category %d out of range [0,%d)", instance.ErrBadInput, v, numCategories)
		}
		return v, nil
	}
}

// parseGenoType parses one genotype cell: 0, 1, or 2 minor alleles.
func parseGenoType(field string) (instance.GenoType, error) {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || v < 0 || v > 2 {
		return 0, fmt.Errorf("%w: genotype cell %q is not in {0,1,2}", instance.ErrBadInput, field)
	}
	return instance.GenoType(v), nil
}
