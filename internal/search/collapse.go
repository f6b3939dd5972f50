package search

import (
	"sort"
	"strconv"
	"strings"

	"github.com/needl-go/netseek/internal/snpset"
)

// collapse merges result sets that converged to the identical SNP set
// into one representative carrying aggregated per-attribute statistics
// plus a NUM_MERGED count (spec §4.H, result collapsing). Sets that
// appear once get NUM_MERGED=1 and have their attributes rewritten into
// the same aggregate keys, computed over their single value.
func collapse(results []snpset.Set) []snpset.Set {
	groups := make(map[string][]snpset.Set)
	var order []string
	for _, r := range results {
		key := r.HashKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	merged := make([]snpset.Set, 0, len(order))
	for _, key := range order {
		group := groups[key]
		rep := group[0].Clone()
		rep.ClearAttributes()
		rep.SetAttribute("NUM_MERGED", strconv.Itoa(len(group)))

		keySet := make(map[string]bool)
		for _, r := range group {
			for _, k := range r.AttributeKeys() {
				keySet[k] = true
			}
		}
		attributeKeys := make([]string, 0, len(keySet))
		for k := range keySet {
			attributeKeys = append(attributeKeys, k)
		}
		sort.Strings(attributeKeys)

		for _, k := range attributeKeys {
			values := make([]string, 0, len(group))
			for _, r := range group {
				if v, ok := r.Attribute(k); ok {
					values = append(values, v)
				}
			}
			applyAggregate(&rep, k, values)
		}

		merged = append(merged, rep)
	}
	return merged
}

// applyAggregate mirrors the original merge's type sniffing: if every
// value across the group parses as an integer, or failing that as a
// float, it emits AVG/MIN/MAX alongside DISTINCT/ALL; otherwise it emits
// only DISTINCT/ALL.
func applyAggregate(rep *snpset.Set, key string, values []string) {
	if ints, ok := parseAll(values, func(s string) (float64, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		return float64(v), err
	}); ok {
		setNumericAggregate(rep, key, ints, values, true)
		return
	}
	if floats, ok := parseAll(values, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}); ok {
		setNumericAggregate(rep, key, floats, values, false)
		return
	}

	rep.SetAttribute(key+"_DISTINCT", distinctJoin(values))
	rep.SetAttribute(key+"_ALL", strings.Join(values, ";"))
}

func parseAll(values []string, parse func(string) (float64, error)) ([]float64, bool) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := parse(v)
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func setNumericAggregate(rep *snpset.Set, key string, nums []float64, raw []string, integral bool) {
	sum, min, max := 0.0, nums[0], nums[0]
	for _, v := range nums {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	format := func(v float64) string {
		if integral {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	rep.SetAttribute(key+"_AVG", strconv.FormatFloat(sum/float64(len(nums)), 'g', -1, 64))
	rep.SetAttribute(key+"_MIN", format(min))
	rep.SetAttribute(key+"_MAX", format(max))
	rep.SetAttribute(key+"_DISTINCT", distinctJoin(raw))
	rep.SetAttribute(key+"_ALL", strings.Join(raw, ";"))
}

func distinctJoin(values []string) string {
	seen := make(map[string]bool)
	var distinct []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	sort.Strings(distinct)
	return strings.Join(distinct, ";")
}
