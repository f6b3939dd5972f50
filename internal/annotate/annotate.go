// Package annotate implements the two CSV-driven collaborators pinned in
// spec §6: one attaches free-text annotations (gene names, pathway ids,
// whatever a cohort's metadata calls them) to registered SNPs, the other
// turns shared annotations into graph edges.
package annotate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/needl-go/netseek/internal/instance"
)

// NoSplit disables per-cell token splitting for a column, matching a
// single whole-cell token. The C++ counterpart uses -1 for the same
// purpose; the NUL rune can never appear in a CSV field, so it is free
// to reuse as the "no separator" sentinel here.
const NoSplit rune = 0

func readRows(path string, csvSep rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if csvSep != 0 {
		r.Comma = csvSep
	}
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", instance.ErrBadInput, err)
	}
	return rows, nil
}

func checkColumn(row []string, col int, path string) error {
	if col < 0 || col >= len(row) {
		return fmt.Errorf("%w: column %d out of range for %d columns in %s", instance.ErrBadInput, col, len(row), path)
	}
	return nil
}

// tokens splits a cell on sep into non-empty, trimmed tokens, or returns
// the cell itself as a single token when sep is NoSplit.
func tokens(cell string, sep rune) []string {
	if sep == NoSplit {
		return []string{strings.TrimSpace(cell)}
	}
	parts := strings.Split(cell, string(sep))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseConnectorSource parses the shared CLI grammar used by both
// `--snp-annotate` and `--network` (spec §6):
// `path|has-header|col1|col2|csv-sep|col1-sep|col2-sep`. A separator
// field left empty means NoSplit.
func parseConnectorSource(spec string) (path string, hasHeader bool, col1, col2 int, csvSep, sep1, sep2 rune, err error) {
	fields := strings.Split(spec, "|")
	if len(fields) != 7 {
		err = fmt.Errorf("%w: connector source %q must have 7 |-separated fields, got %d", instance.ErrBadInput, spec, len(fields))
		return
	}

	path = fields[0]
	if hasHeader, err = strconv.ParseBool(fields[1]); err != nil {
		err = fmt.Errorf("%w: has-header %q: %v", instance.ErrBadInput, fields[1], err)
		return
	}
	if col1, err = strconv.Atoi(fields[2]); err != nil {
		err = fmt.Errorf("%w: col1 %q: %v", instance.ErrBadInput, fields[2], err)
		return
	}
	if col2, err = strconv.Atoi(fields[3]); err != nil {
		err = fmt.Errorf("%w: col2 %q: %v", instance.ErrBadInput, fields[3], err)
		return
	}
	if csvSep, err = parseSeparatorField(fields[4]); err != nil {
		return
	}
	if sep1, err = parseSeparatorField(fields[5]); err != nil {
		return
	}
	if sep2, err = parseSeparatorField(fields[6]); err != nil {
		return
	}
	return
}

func parseSeparatorField(field string) (rune, error) {
	if field == "" {
		return NoSplit, nil
	}
	runes := []rune(field)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%w: separator field %q must be a single character or empty", instance.ErrBadInput, field)
	}
	return runes[0], nil
}
