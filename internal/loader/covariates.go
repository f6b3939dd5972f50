package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/matrixutil"
)

// LoadCovariatesCSV loads the covariates CSV format pinned in spec §6: a
// header row of column names, one row per individual in the same order as
// the genotype load, and labelColumn identifying the column to skip (e.g.
// an individual-id column that carries no numeric covariate).
// It returns the covariate matrix (rows = individuals) and the kept
// column names, in file order with labelColumn removed.
func LoadCovariatesCSV(path string, labelColumn int) (*matrixutil.Dense, []string, error) {
	records, err := readCSVRecords(path)
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w: covariates csv has no data rows", instance.ErrBadInput)
	}

	header := records[0]
	if labelColumn < 0 || labelColumn >= len(header) {
		return nil, nil, fmt.Errorf("%w: label column %d out of range for %d columns", instance.ErrBadInput, labelColumn, len(header))
	}

	names := make([]string, 0, len(header)-1)
	for i, name := range header {
		if i == labelColumn {
			continue
		}
		names = append(names, strings.TrimSpace(name))
	}

	rows := records[1:]
	mat := matrixutil.NewDense(len(rows), len(names))
	for r, row := range rows {
		col := 0
		for i, field := range row {
			if i == labelColumn {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: covariate row %d column %q is not numeric: %v", instance.ErrBadInput, r, header[i], err)
			}
			mat.Set(r, col, v)
			col++
		}
	}

	return mat, names, nil
}
