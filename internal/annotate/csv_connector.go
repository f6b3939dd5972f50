package annotate

import (
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

// LoadSNPAnnotations implements the SNP annotation CSV connector (spec
// §6): it reads path as a CSV table, reads the SNP name(s) out of
// snpColumn and the annotation(s) out of annoColumn for every row
// (optionally splitting either cell on its own separator into multiple
// tokens), and attaches every (snp, annotation) pair it can resolve to a
// known, non-removed SNP in reg.
//
// snpSep and annoSep may be NoSplit, in which case the whole cell is
// treated as a single token.
func LoadSNPAnnotations(reg *registry.Registry, path string, hasHeader bool, snpColumn, annoColumn int, csvSep, snpSep, annoSep rune) error {
	rows, err := readRows(path, csvSep)
	if err != nil {
		return err
	}

	start := 0
	if hasHeader {
		start = 1
	}
	if start >= len(rows) {
		return nil
	}
	if err := checkColumn(rows[start], snpColumn, path); err != nil {
		return err
	}
	if err := checkColumn(rows[start], annoColumn, path); err != nil {
		return err
	}

	var pairs []struct {
		SNP        snpset.SNP
		Annotation string
	}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if err := checkColumn(row, snpColumn, path); err != nil {
			return err
		}
		if err := checkColumn(row, annoColumn, path); err != nil {
			return err
		}

		for _, snpName := range tokens(row[snpColumn], snpSep) {
			id, err := reg.ByName(snpName)
			if err != nil {
				continue
			}
			if reg.Removed(id) {
				continue
			}
			for _, anno := range tokens(row[annoColumn], annoSep) {
				pairs = append(pairs, struct {
					SNP        snpset.SNP
					Annotation string
				}{SNP: id, Annotation: anno})
			}
		}
	}

	if len(pairs) == 0 {
		return nil
	}
	reg.AddAnnotations(pairs)
	return nil
}

// ParseSNPAnnotateSource parses the `--snp-annotate` CLI grammar (spec
// §6): `path|has-header|snp-col|anno-col|csv-sep|snp-sep|anno-sep`.
func ParseSNPAnnotateSource(spec string) (path string, hasHeader bool, col1, col2 int, csvSep, sep1, sep2 rune, err error) {
	return parseConnectorSource(spec)
}
