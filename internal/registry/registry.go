// Package registry implements the SNP registry (spec §4.B): the mapping
// from external SNP names to dense ids, per-SNP annotations, variable
// attributes, MMA score, and the removed flag used by pre-filters.
//
// There is at most one *current* registry per run (spec §3's "current SNP
// registry" ambient reference); this package deliberately does not carry
// a package-level singleton for it — the registry handle is threaded
// explicitly into callers such as the output serializers, per spec §9's
// design note to remove the ambient global.
package registry

import (
	"errors"
	"sort"
	"strings"

	"github.com/needl-go/netseek/internal/snpset"
)

// ErrNotFound is returned by ByName/ByID when the SNP is unknown.
var ErrNotFound = errors.New("registry: snp not found")

// ErrDuplicateName is returned by Add when a name is already registered.
var ErrDuplicateName = errors.New("registry: duplicate snp name")

// record holds everything the registry tracks about one SNP.
type record struct {
	id          snpset.SNP
	name        string
	chromosome  string
	maf         float64
	hasMAF      bool
	annotations []string
	attrs       map[string]string
	mma         float64
	hasMMA      bool
	removed     bool
}

// Registry maps external SNP names to dense ids and stores per-SNP
// annotations and attributes (spec §4.B).
type Registry struct {
	byID       []record
	byName     map[string]snpset.SNP
	byAnno     map[string][]snpset.SNP
	annoDirty  bool
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]snpset.SNP),
		byAnno: make(map[string][]snpset.SNP),
	}
}

// Add registers a new SNP with the next dense id, in load order. It fails
// with ErrDuplicateName if name is already registered.
func (r *Registry) Add(name string) (snpset.SNP, error) {
	if _, exists := r.byName[name]; exists {
		return snpset.Invalid, ErrDuplicateName
	}
	id := snpset.SNP(len(r.byID))
	r.byID = append(r.byID, record{id: id, name: name})
	r.byName[name] = id
	return id, nil
}

// NumSNPs returns the number of registered SNPs.
func (r *Registry) NumSNPs() int { return len(r.byID) }

// ByID returns the name of a SNP, or ErrNotFound if id is out of range.
func (r *Registry) ByID(id snpset.SNP) (string, error) {
	if int(id) >= len(r.byID) {
		return "", ErrNotFound
	}
	return r.byID[id].name, nil
}

// ByName resolves a SNP name to its id. If name is not found verbatim and
// looks like a bare numeric suffix (or name has an "rs" prefix that isn't
// registered), it retries against the "rsNNN" / "NNN" counterpart, per
// spec §4.B's rs-trim fallback rule (exercised by scenario S1).
func (r *Registry) ByName(name string) (snpset.SNP, error) {
	if id, ok := r.byName[name]; ok {
		return id, nil
	}
	if trimmed := strings.TrimPrefix(name, "rs"); trimmed != name {
		if id, ok := r.byName[trimmed]; ok {
			return id, nil
		}
	} else if id, ok := r.byName["rs"+name]; ok {
		return id, nil
	}
	return snpset.Invalid, ErrNotFound
}

// SetChromosome records the chromosome label for a SNP.
func (r *Registry) SetChromosome(id snpset.SNP, chromosome string) {
	r.byID[id].chromosome = chromosome
}

// Chromosome returns the chromosome label for a SNP, if any.
func (r *Registry) Chromosome(id snpset.SNP) (string, bool) {
	c := r.byID[id].chromosome
	return c, c != ""
}

// SetMAF records the minor-allele frequency for a SNP.
func (r *Registry) SetMAF(id snpset.SNP, maf float64) {
	r.byID[id].maf = maf
	r.byID[id].hasMAF = true
}

// MAF returns the minor-allele frequency for a SNP, if any.
func (r *Registry) MAF(id snpset.SNP) (float64, bool) {
	rec := r.byID[id]
	return rec.maf, rec.hasMAF
}

// SetMMA records the MMA (maximum marginal association) score computed by
// the MMA pre-filter (spec Glossary).
func (r *Registry) SetMMA(id snpset.SNP, score float64) {
	r.byID[id].mma = score
	r.byID[id].hasMMA = true
}

// MMA returns the MMA score for a SNP, if the filter has run.
func (r *Registry) MMA(id snpset.SNP) (float64, bool) {
	rec := r.byID[id]
	return rec.mma, rec.hasMMA
}

// SetRemoved marks a SNP as removed by a pre-filter. A removed SNP may
// still appear in the graph and in SNP sets (spec §3 invariant); it is
// excluded only at the stages that consult this flag.
func (r *Registry) SetRemoved(id snpset.SNP, removed bool) {
	r.byID[id].removed = removed
}

// Removed reports whether a SNP has been marked removed.
func (r *Registry) Removed(id snpset.SNP) bool {
	return r.byID[id].removed
}

// AddAnnotations attaches (snp, annotation) pairs to the registry and
// marks the reverse index for a rebuild on next use.
func (r *Registry) AddAnnotations(pairs []struct {
	SNP        snpset.SNP
	Annotation string
}) {
	for _, p := range pairs {
		r.byID[p.SNP].annotations = append(r.byID[p.SNP].annotations, p.Annotation)
	}
	r.annoDirty = true
}

// Annotations returns the annotations attached to a SNP.
func (r *Registry) Annotations(id snpset.SNP) []string {
	return r.byID[id].annotations
}

// rebuildAnnotationIndex recomputes the annotation -> []SNP reverse index.
func (r *Registry) rebuildAnnotationIndex() {
	r.byAnno = make(map[string][]snpset.SNP)
	for _, rec := range r.byID {
		for _, anno := range rec.annotations {
			r.byAnno[anno] = append(r.byAnno[anno], rec.id)
		}
	}
	r.annoDirty = false
}

// ByAnnotation returns all SNPs carrying the given annotation. If
// includeRemoved is false, SNPs marked removed are filtered out.
func (r *Registry) ByAnnotation(annotation string, includeRemoved bool) []snpset.SNP {
	if r.annoDirty {
		r.rebuildAnnotationIndex()
	}
	all := r.byAnno[annotation]
	if includeRemoved {
		return append([]snpset.SNP(nil), all...)
	}
	out := make([]snpset.SNP, 0, len(all))
	for _, snp := range all {
		if !r.byID[snp].removed {
			out = append(out, snp)
		}
	}
	return out
}

// SetVariableAttribute overwrites a key/value variable attribute on a SNP.
func (r *Registry) SetVariableAttribute(id snpset.SNP, key, value string) {
	rec := &r.byID[id]
	if rec.attrs == nil {
		rec.attrs = make(map[string]string)
	}
	rec.attrs[key] = value
}

// VariableAttribute returns a SNP's variable attribute value, if set.
func (r *Registry) VariableAttribute(id snpset.SNP, key string) (string, bool) {
	v, ok := r.byID[id].attrs[key]
	return v, ok
}

// VariableAttributeKeys returns the variable attribute keys set on a
// SNP, order unspecified.
func (r *Registry) VariableAttributeKeys(id snpset.SNP) []string {
	attrs := r.byID[id].attrs
	out := make([]string, 0, len(attrs))
	for k := range attrs {
		out = append(out, k)
	}
	return out
}

// SetOrAddVariableAttribute splits the existing value (if any) and value
// by sep, unions the resulting token sets, sorts them, and re-joins with
// sep -- spec §4.B's set-union attribute update (used by the multi-network
// aggregator's "ms_source" bookkeeping).
func (r *Registry) SetOrAddVariableAttribute(id snpset.SNP, key, value, sep string) {
	rec := &r.byID[id]
	if rec.attrs == nil {
		rec.attrs = make(map[string]string)
	}
	tokens := map[string]struct{}{value: {}}
	if existing, ok := rec.attrs[key]; ok && existing != "" {
		for _, tok := range strings.Split(existing, sep) {
			tokens[tok] = struct{}{}
		}
	}
	merged := make([]string, 0, len(tokens))
	for tok := range tokens {
		merged = append(merged, tok)
	}
	sort.Strings(merged)
	rec.attrs[key] = strings.Join(merged, sep)
}
