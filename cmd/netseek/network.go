package main

import (
	"fmt"
	"strings"

	"github.com/needl-go/netseek/internal/annotate"
	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

// networkSpec names one child network the aggregator will build and
// search: a label for its edges, a name for the aggregator/ms_source
// bookkeeping, and the CSV connector coordinates spec §6 pins.
type networkSpec struct {
	Name      string
	Label     string
	Path      string
	HasHeader bool
	Col1      int
	Col2      int
	CSVSep    rune
	Sep1      rune
	Sep2      rune
}

// parseNetworkFlag parses this CLI's `--network` grammar: a name and
// edge label prefix layered on top of the pinned 7-field connector
// source spec §6 defines for `--snp-annotate`/`--network`:
// "name:label|path|has-header|col1|col2|csv-sep|col1-sep|col2-sep".
func parseNetworkFlag(spec string) (networkSpec, error) {
	head, rest, ok := strings.Cut(spec, "|")
	if !ok {
		return networkSpec{}, fmt.Errorf("netseek: --network %q: missing connector fields after name:label", spec)
	}
	name, label, ok := strings.Cut(head, ":")
	if !ok {
		return networkSpec{}, fmt.Errorf("netseek: --network %q: expected name:label prefix", spec)
	}

	path, hasHeader, col1, col2, csvSep, sep1, sep2, err := annotate.ParseNetworkSource(rest)
	if err != nil {
		return networkSpec{}, err
	}
	return networkSpec{
		Name: name, Label: label,
		Path: path, HasHeader: hasHeader,
		Col1: col1, Col2: col2,
		CSVSep: csvSep, Sep1: sep1, Sep2: sep2,
	}, nil
}

// biogridNetworkSpec builds the networkSpec behind --network-BIOGRID: a
// two-column gene-gene CSV with a header row, comma-separated rows and
// semicolon-separated gene lists per cell, labeled "BIOGRID".
func biogridNetworkSpec(path string) networkSpec {
	return networkSpec{
		Name: "BIOGRID", Label: "BIOGRID",
		Path: path, HasHeader: true,
		Col1: 0, Col2: 1,
		CSVSep: ',', Sep1: ';', Sep2: ';',
	}
}

// resolveNetworkSpecs builds the list of networks to search from either
// --network/--network-BIOGRID flags.
func resolveNetworkSpecs() ([]networkSpec, error) {
	var specs []networkSpec
	for _, raw := range networkSpecs {
		spec, err := parseNetworkFlag(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if networkBiogridPath != "" {
		specs = append(specs, biogridNetworkSpec(networkBiogridPath))
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("netseek: at least one --network, --network-BIOGRID, or --batch-config network entry is required")
	}
	return specs, nil
}

// buildBaseGraph constructs the starting graph every network child
// resets from: empty, or seeded with same-annotation edges when
// --network-same-annotation is set (spec §6's annotation-derived
// connector, shared as a common base network across children).
func buildBaseGraph(reg *registry.Registry) (*graph.Graph, error) {
	g := graph.New()
	if networkSameAnnotation {
		if err := annotate.ConnectSameAnnotation(g, reg); err != nil {
			return nil, fmt.Errorf("netseek: building same-annotation base network: %w", err)
		}
	}
	return g, nil
}

// applyAnnotations loads every --snp-annotate source into reg.
func applyAnnotations(reg *registry.Registry) error {
	for _, raw := range snpAnnotateSpecs {
		path, hasHeader, snpCol, annoCol, csvSep, snpSep, annoSep, err := annotate.ParseSNPAnnotateSource(raw)
		if err != nil {
			return err
		}
		if err := annotate.LoadSNPAnnotations(reg, path, hasHeader, snpCol, annoCol, csvSep, snpSep, annoSep); err != nil {
			return fmt.Errorf("netseek: loading snp annotations from %s: %w", path, err)
		}
	}
	return nil
}

// connectNetworkCSV wires spec's CSV connector coordinates into g via the
// pinned network connector (spec §6).
func connectNetworkCSV(g *graph.Graph, reg *registry.Registry, spec networkSpec) error {
	if err := annotate.ConnectNetworkCSV(g, reg, spec.Path, spec.HasHeader, spec.Col1, spec.Col2, spec.CSVSep, spec.Sep1, spec.Sep2, spec.Label); err != nil {
		return fmt.Errorf("netseek: connecting network %q: %w", spec.Name, err)
	}
	return nil
}

// buildRegistry registers every SNP of in, in index order, so registry
// ids coincide with the instance's own dense SNP indices, then copies
// over each SNP's chromosome and MAF.
func buildRegistry[P instance.Phenotype](in *instance.Instance[P]) (*registry.Registry, error) {
	reg := registry.New()
	for i := 0; i < in.NumSNPs(); i++ {
		snp, err := reg.Add(in.SNPDescriptor(snpset.SNP(i)))
		if err != nil {
			return nil, fmt.Errorf("netseek: registering snp %d: %w", i, err)
		}
		if chrom := in.Chromosome(snp); chrom != "" {
			reg.SetChromosome(snp, chrom)
		}
		reg.SetMAF(snp, in.MAF(snp))
	}
	return reg, nil
}
