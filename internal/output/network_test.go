package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/output"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

func newNetworkFixture(t *testing.T) (*graph.Graph, *registry.Registry) {
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
	})
	reg.SetVariableAttribute(rs1, "ROLE", "hub")

	g := graph.New()
	g.AddNode(rs1)
	g.AddNode(rs2)
	g.AddNode(rs3)
	require.NoError(t, g.AddEdge(rs1, rs2, "SAME_TAG"))
	return g, reg
}

func TestWriteAdjacencyMatrixJSON(t *testing.T) {
	g, reg := newNetworkFixture(t)

	var buf bytes.Buffer
	require.NoError(t, output.WriteAdjacencyMatrixJSON(&buf, g, reg))

	var doc struct {
		RSIDs           []string  `json:"rs_ids"`
		AdjacencyMatrix [][]uint8 `json:"adjacency_matrix"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, []string{"rs1", "rs2", "rs3"}, doc.RSIDs)
	require.Equal(t, [][]uint8{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}}, doc.AdjacencyMatrix)
}

func TestWriteAdjacencyMatrixCSV(t *testing.T) {
	g, reg := newNetworkFixture(t)

	var buf bytes.Buffer
	require.NoError(t, output.WriteAdjacencyMatrixCSV(&buf, g, reg))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"RS_ID\trs1\trs2\trs3",
		"rs1\t0\t1\t0",
		"rs2\t1\t0\t0",
		"rs3\t0\t0\t0",
	}, lines)
}

func TestWriteAdjacencyListJSON(t *testing.T) {
	g, reg := newNetworkFixture(t)

	var buf bytes.Buffer
	require.NoError(t, output.WriteAdjacencyListJSON(&buf, g, reg))

	var doc map[string][]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, []string{"rs2"}, doc["rs1"])
	require.Equal(t, []string{"rs1"}, doc["rs2"])
	require.Empty(t, doc["rs3"])
}

func TestWriteNodeEdgeList(t *testing.T) {
	g, reg := newNetworkFixture(t)

	var nodesBuf, edgesBuf bytes.Buffer
	require.NoError(t, output.WriteNodeEdgeList(&nodesBuf, &edgesBuf, g, reg))

	nodeLines := strings.Split(strings.TrimRight(nodesBuf.String(), "\n"), "\n")
	require.Equal(t, "ID (BASE32)\tRS_ID\tAnnotations\tROLE", nodeLines[0])
	require.Equal(t, 4, len(nodeLines))

	rs1Row := nodeLines[1]
	cols := strings.Split(rs1Row, "\t")
	require.Equal(t, output.NodeID(0), cols[0])
	require.Equal(t, "rs1", cols[1])
	require.Equal(t, "GENE_A", cols[2])
	require.Equal(t, "hub", cols[3])

	var edgeDoc struct {
		Labels []string                    `json:"labels"`
		Edges  map[string]map[string][]int `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(edgesBuf.Bytes(), &edgeDoc))
	require.Equal(t, []string{"SAME_TAG"}, edgeDoc.Labels)

	from := output.NodeID(0)
	to := output.NodeID(1)
	require.Equal(t, []int{0}, edgeDoc.Edges[from][to])
}
