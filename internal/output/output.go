// Package output implements the result/network serializers pinned in
// spec §6: the tab-separated result table, and the network dumps
// (adjacency-matrix JSON/CSV, adjacency-list JSON, paired node+edge
// JSON, SQLite).
package output

import (
	"encoding/base32"
	"sort"
	"strings"

	"github.com/needl-go/netseek/internal/snpset"
)

var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// NodeID renders a SNP id as the short base32 token used to label nodes
// in the paired node+edge JSON and SQLite outputs, mirroring the
// original numeric-to-base32 node identifier.
func NodeID(snp snpset.SNP) string {
	var b [4]byte
	b[0] = byte(snp)
	b[1] = byte(snp >> 8)
	b[2] = byte(snp >> 16)
	b[3] = byte(snp >> 24)
	return base32NoPad.EncodeToString(b[:])
}

// sanitizeColumnName keeps only [A-Za-z0-9_-], replacing every other rune
// with '_', matching spec §6's SQLite column sanitization rule.
func sanitizeColumnName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sortedSNPs(snps []snpset.SNP) []snpset.SNP {
	out := append([]snpset.SNP(nil), snps...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
