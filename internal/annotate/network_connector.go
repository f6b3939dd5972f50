package annotate

import (
	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

// SameTagLabel is the edge label used by ConnectSameAnnotation, matching
// the original "SAME_TAG" connector's convention.
const SameTagLabel = "SAME_TAG"

// ConnectSameAnnotation adds an edge between every pair of non-removed
// SNPs that share an annotation (spec §6's annotation-derived network
// connector). A SNP carrying several annotations only needs to share one
// with another SNP to be connected to it.
func ConnectSameAnnotation(g *graph.Graph, reg *registry.Registry) error {
	seen := map[string]bool{}
	for id := snpset.SNP(0); int(id) < reg.NumSNPs(); id++ {
		for _, anno := range reg.Annotations(id) {
			seen[anno] = true
		}
	}

	for anno := range seen {
		members := reg.ByAnnotation(anno, false)
		if len(members) < 2 {
			continue
		}
		for _, m := range members {
			g.AddNode(m)
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if err := g.AddEdge(members[i], members[j], SameTagLabel); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ConnectNetworkCSV implements the two-column network CSV connector
// (spec §6): for every row, every token in col1 is paired via the
// Cartesian product with every token in col2; each token is looked up as
// an annotation in reg, and every SNP carrying the col1 token is
// connected to every SNP carrying the col2 token, labeled with label.
func ConnectNetworkCSV(g *graph.Graph, reg *registry.Registry, path string, hasHeader bool, col1, col2 int, csvSep, sep1, sep2 rune, label string) error {
	rows, err := readRows(path, csvSep)
	if err != nil {
		return err
	}

	start := 0
	if hasHeader {
		start = 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if err := checkColumn(row, col1, path); err != nil {
			return err
		}
		if err := checkColumn(row, col2, path); err != nil {
			return err
		}

		for _, tokA := range tokens(row[col1], sep1) {
			groupA := reg.ByAnnotation(tokA, false)
			if len(groupA) == 0 {
				continue
			}
			for _, tokB := range tokens(row[col2], sep2) {
				groupB := reg.ByAnnotation(tokB, false)
				for _, a := range groupA {
					for _, b := range groupB {
						if a == b {
							continue
						}
						if err := g.AddEdge(a, b, label); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// ParseNetworkSource parses the `--network` CLI grammar (spec §6), the
// same shape as ParseSNPAnnotateSource: `path|has-header|col1|col2|csv-sep|col1-sep|col2-sep`.
func ParseNetworkSource(spec string) (path string, hasHeader bool, col1, col2 int, csvSep, sep1, sep2 rune, err error) {
	return parseConnectorSource(spec)
}
