package annotate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/annotate"
	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/registry"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRegWithSNPs(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, n := range names {
		_, err := reg.Add(n)
		require.NoError(t, err)
	}
	return reg
}

func TestLoadSNPAnnotationsSingleToken(t *testing.T) {
	reg := newRegWithSNPs(t, "rs1", "rs2", "rs3")
	path := writeTemp(t, "anno.csv", ""+
		"snp,gene\n"+
		"rs1,BRCA1\n"+
		"rs2,BRCA1\n"+
		"rs3,TP53\n")

	err := annotate.LoadSNPAnnotations(reg, path, true, 0, 1, ',', annotate.NoSplit, annotate.NoSplit)
	require.NoError(t, err)

	rs1, _ := reg.ByName("rs1")
	rs3, _ := reg.ByName("rs3")
	require.Equal(t, []string{"BRCA1"}, reg.Annotations(rs1))
	require.Equal(t, []string{"TP53"}, reg.Annotations(rs3))
}

func TestLoadSNPAnnotationsMultiToken(t *testing.T) {
	reg := newRegWithSNPs(t, "rs1", "rs2")
	path := writeTemp(t, "anno.csv", "rs1;rs2,BRCA1;TP53\n")

	err := annotate.LoadSNPAnnotations(reg, path, false, 0, 1, ',', ';', ';')
	require.NoError(t, err)

	rs1, _ := reg.ByName("rs1")
	rs2, _ := reg.ByName("rs2")
	require.ElementsMatch(t, []string{"BRCA1", "TP53"}, reg.Annotations(rs1))
	require.ElementsMatch(t, []string{"BRCA1", "TP53"}, reg.Annotations(rs2))
}

func TestLoadSNPAnnotationsSkipsUnknownAndRemoved(t *testing.T) {
	reg := newRegWithSNPs(t, "rs1", "rs2")
	rs2, _ := reg.ByName("rs2")
	reg.SetRemoved(rs2, true)

	path := writeTemp(t, "anno.csv", ""+
		"rsUnknown,GENE1\n"+
		"rs2,GENE2\n"+
		"rs1,GENE3\n")

	err := annotate.LoadSNPAnnotations(reg, path, false, 0, 1, ',', annotate.NoSplit, annotate.NoSplit)
	require.NoError(t, err)

	rs1, _ := reg.ByName("rs1")
	require.Equal(t, []string{"GENE3"}, reg.Annotations(rs1))
	require.Empty(t, reg.Annotations(rs2))
}

func TestLoadSNPAnnotationsRejectsBadColumn(t *testing.T) {
	reg := newRegWithSNPs(t, "rs1")
	path := writeTemp(t, "anno.csv", "rs1,GENE1\n")

	err := annotate.LoadSNPAnnotations(reg, path, false, 0, 5, ',', annotate.NoSplit, annotate.NoSplit)
	require.ErrorIs(t, err, instance.ErrBadInput)
}

func TestConnectSameAnnotationCliquesSharedAnnotations(t *testing.T) {
	reg := newRegWithSNPs(t, "rs1", "rs2", "rs3", "rs4")
	rs1, _ := reg.ByName("rs1")
	rs2, _ := reg.ByName("rs2")
	rs3, _ := reg.ByName("rs3")
	rs4, _ := reg.ByName("rs4")

	path := writeTemp(t, "anno.csv", ""+
		"rs1,BRCA1\n"+
		"rs2,BRCA1\n"+
		"rs3,TP53\n")
	require.NoError(t, annotate.LoadSNPAnnotations(reg, path, false, 0, 1, ',', annotate.NoSplit, annotate.NoSplit))

	g := graph.New()
	require.NoError(t, annotate.ConnectSameAnnotation(g, reg))

	require.True(t, g.HasEdge(rs1, rs2))
	require.False(t, g.HasEdge(rs1, rs3))
	require.False(t, g.ContainsNode(rs4))
	require.Contains(t, g.EdgeLabels(rs1, rs2), annotate.SameTagLabel)
}

func TestConnectNetworkCSVConnectsAcrossTwoColumns(t *testing.T) {
	reg := newRegWithSNPs(t, "rs1", "rs2")
	rs1, _ := reg.ByName("rs1")
	rs2, _ := reg.ByName("rs2")

	annoPath := writeTemp(t, "anno.csv", ""+
		"rs1,GENE_A\n"+
		"rs2,GENE_B\n")
	require.NoError(t, annotate.LoadSNPAnnotations(reg, annoPath, false, 0, 1, ',', annotate.NoSplit, annotate.NoSplit))

	netPath := writeTemp(t, "network.csv", "GENE_A,GENE_B\n")
	g := graph.New()
	err := annotate.ConnectNetworkCSV(g, reg, netPath, false, 0, 1, ',', annotate.NoSplit, annotate.NoSplit, "gene-network")
	require.NoError(t, err)

	require.True(t, g.HasEdge(rs1, rs2))
}

func TestParseSNPAnnotateSourceGrammar(t *testing.T) {
	path, hasHeader, col1, col2, csvSep, sep1, sep2, err := annotate.ParseSNPAnnotateSource("genes.csv|true|0|1|,|;|")
	require.NoError(t, err)
	require.Equal(t, "genes.csv", path)
	require.True(t, hasHeader)
	require.Equal(t, 0, col1)
	require.Equal(t, 1, col2)
	require.Equal(t, ',', csvSep)
	require.Equal(t, ';', sep1)
	require.Equal(t, annotate.NoSplit, sep2)
}

func TestParseNetworkSourceRejectsMalformed(t *testing.T) {
	_, _, _, _, _, _, _, err := annotate.ParseNetworkSource("too|few|fields")
	require.ErrorIs(t, err, instance.ErrBadInput)
}
