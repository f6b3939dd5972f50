package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/output"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/scoremodel"
	"github.com/needl-go/netseek/internal/snpset"
)

// fakeEvaluator pins a score per SNP-set key so result-table tests don't
// need a real scoremodel implementation.
type fakeEvaluator struct {
	sense  scoremodel.Sense
	scores map[string]float64
}

func setKey(set []snpset.SNP) string {
	names := make([]string, len(set))
	for i, s := range set {
		names[i] = string(rune('a' + int(s)))
	}
	return strings.Join(names, ",")
}

func (f fakeEvaluator) Evaluate(set []snpset.SNP) float64 { return f.scores[setKey(set)] }
func (f fakeEvaluator) ModelSense() scoremodel.Sense       { return f.sense }
func (f fakeEvaluator) MonteCarloP(set []snpset.SNP, n int) (float64, error) {
	return 0, nil
}
func (f fakeEvaluator) ModelIndex() int { return 0 }

func newRegForOutput(t *testing.T) (*registry.Registry, snpset.SNP, snpset.SNP, snpset.SNP) {
	t.Helper()
	reg := registry.New()
	rs1, err := reg.Add("rs1")
	require.NoError(t, err)
	rs2, err := reg.Add("rs2")
	require.NoError(t, err)
	rs3, err := reg.Add("rs3")
	require.NoError(t, err)
	reg.AddAnnotations([]struct {
		SNP        snpset.SNP
		Annotation string
	}{
		{SNP: rs1, Annotation: "GENE_A"},
		{SNP: rs2, Annotation: "GENE_B"},
	})
	return reg, rs1, rs2, rs3
}

func TestWriteResultCSVQuantitativeNoRank(t *testing.T) {
	reg, rs1, rs2, rs3 := newRegForOutput(t)

	setA, err := snpset.New([]snpset.SNP{rs1, rs2})
	require.NoError(t, err)
	setB, err := snpset.New([]snpset.SNP{rs3})
	require.NoError(t, err)

	eval := fakeEvaluator{sense: scoremodel.Maximize, scores: map[string]float64{
		setKey(setA.SNPs()): 1.5,
		setKey(setB.SNPs()): 0.2,
	}}

	var buf bytes.Buffer
	opts := output.ResultOptions{Scores: []output.ScoreColumn{{Name: "VAR", Model: eval}}}
	require.NoError(t, output.WriteResultCSVQuantitative(&buf, reg, []snpset.Set{setA, setB}, opts))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "RS_IDS\tVAR\tANNOTATIONS", lines[0])
	require.Equal(t, "rs1;rs2\t1.5\tGENE_A;GENE_B", lines[1])
	require.Equal(t, "rs3\t0.2\t", lines[2])
}

func TestWriteResultCSVQuantitativeRankByOrdersDescending(t *testing.T) {
	reg, rs1, rs2, rs3 := newRegForOutput(t)

	setA, err := snpset.New([]snpset.SNP{rs1, rs2})
	require.NoError(t, err)
	setB, err := snpset.New([]snpset.SNP{rs3})
	require.NoError(t, err)

	eval := fakeEvaluator{sense: scoremodel.Maximize, scores: map[string]float64{
		setKey(setA.SNPs()): 0.2,
		setKey(setB.SNPs()): 1.5,
	}}

	var buf bytes.Buffer
	opts := output.ResultOptions{
		Scores: []output.ScoreColumn{{Name: "VAR", Model: eval}},
		RankBy: "VAR",
	}
	require.NoError(t, output.WriteResultCSVQuantitative(&buf, reg, []snpset.Set{setA, setB}, opts))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "RANK (VAR)\tRS_IDS\tVAR\tANNOTATIONS", lines[0])
	require.Equal(t, "1\trs3\t1.5\t", lines[1])
	require.Equal(t, "2\trs1;rs2\t0.2\tGENE_A;GENE_B", lines[2])
}

func TestWriteResultCSVQuantitativeRejectsUnknownRankBy(t *testing.T) {
	reg, rs1, _, _ := newRegForOutput(t)
	set, err := snpset.New([]snpset.SNP{rs1})
	require.NoError(t, err)

	opts := output.ResultOptions{RankBy: "MISSING"}
	var buf bytes.Buffer
	err = output.WriteResultCSVQuantitative(&buf, reg, []snpset.Set{set}, opts)
	require.Error(t, err)
}

func TestWriteResultCSVQuantitativeIncludesSetAttributeColumns(t *testing.T) {
	reg, rs1, rs2, _ := newRegForOutput(t)
	setA, err := snpset.New([]snpset.SNP{rs1})
	require.NoError(t, err)
	setA.SetAttribute("STAGE", "seed")
	setB, err := snpset.New([]snpset.SNP{rs2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, output.WriteResultCSVQuantitative(&buf, reg, []snpset.Set{setA, setB}, output.ResultOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, "RS_IDS\tSTAGE\tANNOTATIONS", lines[0])
	require.Equal(t, "rs1\tseed\tGENE_A", lines[1])
	require.Equal(t, "rs2\t\tGENE_B", lines[2])
}

func TestWriteResultCSVCategoricalBreaksDownByCategory(t *testing.T) {
	reg, rs1, rs2, _ := newRegForOutput(t)
	set, err := snpset.New([]snpset.SNP{rs1, rs2})
	require.NoError(t, err)

	in := instance.New[int](2, false)
	in.Allocate(3, 4)
	for snp := 0; snp < 3; snp++ {
		in.SetSNPDescriptor(snp, "rs"+string(rune('1'+snp)))
	}
	// ind 0: category 0, carrier (non-reference at rs1)
	in.SetPhenotype(instance.Ind(0), 0)
	in.SetGenotypeAtSNP(rs1, instance.Ind(0), 1)
	in.SetGenotypeAtSNP(rs2, instance.Ind(0), 0)
	// ind 1: category 0, non-carrier (all reference across the set)
	in.SetPhenotype(instance.Ind(1), 0)
	in.SetGenotypeAtSNP(rs1, instance.Ind(1), 0)
	in.SetGenotypeAtSNP(rs2, instance.Ind(1), 0)
	// ind 2: category 1, carrier
	in.SetPhenotype(instance.Ind(2), 1)
	in.SetGenotypeAtSNP(rs1, instance.Ind(2), 2)
	in.SetGenotypeAtSNP(rs2, instance.Ind(2), 1)
	// ind 3: category 1, non-carrier
	in.SetPhenotype(instance.Ind(3), 1)
	in.SetGenotypeAtSNP(rs1, instance.Ind(3), 0)
	in.SetGenotypeAtSNP(rs2, instance.Ind(3), 0)

	var buf bytes.Buffer
	require.NoError(t, output.WriteResultCSVCategorical(&buf, in, reg, []snpset.Set{set}, output.ResultOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "RS_IDS\tANNOTATIONS\tNUM_INDIVIDUALS_0\tFREQ_INDIVIDUALS_0\tINDIVIDUALS_0\tNUM_INDIVIDUALS_1\tFREQ_INDIVIDUALS_1\tINDIVIDUALS_1", lines[0])

	cols := strings.Split(lines[1], "\t")
	require.Equal(t, "rs1;rs2", cols[0])
	require.Equal(t, "GENE_A;GENE_B", cols[1])
	require.Equal(t, "1", cols[2])
	require.Equal(t, "0.5", cols[3])
	require.Equal(t, "0", cols[4])
	require.Equal(t, "1", cols[5])
	require.Equal(t, "0.5", cols[6])
	require.Equal(t, "2", cols[7])
}
