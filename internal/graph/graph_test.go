package graph_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/snpset"
)

func TestAddEdgeCreatesNodesAndLabel(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge(1, 2, "GENE"))
	require.True(t, g.ContainsNode(1))
	require.True(t, g.ContainsNode(2))
	require.True(t, g.HasEdge(1, 2))
	require.Equal(t, []string{"GENE"}, g.EdgeLabels(1, 2))
}

func TestAddEdgeSelfLoopDropped(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge(1, 1, "GENE"))
	require.False(t, g.ContainsNode(1))
}

func TestAddEdgeMergesLabels(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge(1, 2, "GENE"))
	require.NoError(t, g.AddEdge(1, 2, "PPI"))
	require.ElementsMatch(t, []string{"GENE", "PPI"}, g.EdgeLabels(1, 2))
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge(1, 2, "GENE"))
	require.NoError(t, g.AddEdge(2, 3, "GENE"))
	require.NoError(t, g.RemoveNode(2))
	require.False(t, g.HasEdge(1, 2))
	require.False(t, g.HasEdge(2, 3))
	require.True(t, g.ContainsNode(1))
	require.True(t, g.ContainsNode(3))
}

// TestArticulationPoints_PathGraph checks the classic example: in a path
// 1-2-3-4-5, every interior node is a cut vertex; the endpoints are not.
func TestArticulationPoints_PathGraph(t *testing.T) {
	g := graph.New()
	for _, e := range [][2]snpset.SNP{{1, 2}, {2, 3}, {3, 4}, {4, 5}} {
		require.NoError(t, g.AddEdge(e[0], e[1], "NET"))
	}
	aps := g.ArticulationPoints()
	require.ElementsMatch(t, []snpset.SNP{2, 3, 4}, aps)
}

func TestArticulationPoints_Cycle(t *testing.T) {
	g := graph.New()
	for _, e := range [][2]snpset.SNP{{1, 2}, {2, 3}, {3, 1}} {
		require.NoError(t, g.AddEdge(e[0], e[1], "NET"))
	}
	require.Empty(t, g.ArticulationPoints())
}

func TestIsConnectedAndComponents(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge(1, 2, "NET"))
	require.NoError(t, g.AddEdge(3, 4, "NET"))
	require.False(t, g.IsConnected())
	require.Len(t, g.ConnectedComponents(), 2)

	require.NoError(t, g.AddEdge(2, 3, "NET"))
	require.True(t, g.IsConnected())
}

func TestDiameterOfPath(t *testing.T) {
	g := graph.New()
	for _, e := range [][2]snpset.SNP{{1, 2}, {2, 3}, {3, 4}} {
		require.NoError(t, g.AddEdge(e[0], e[1], "NET"))
	}
	require.Equal(t, 3, g.Diameter())
}

func TestReplaceNodesMergesLabels(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge(1, 2, "NET"))
	require.NoError(t, g.AddEdge(3, 2, "PPI"))
	g.ReplaceNodes([][2]snpset.SNP{{1, 3}})

	require.False(t, g.ContainsNode(1))
	require.True(t, g.HasEdge(3, 2))
	require.ElementsMatch(t, []string{"NET", "PPI"}, g.EdgeLabels(3, 2))
}

func TestClusterLeidenCoversAllNodes(t *testing.T) {
	g := graph.New()
	for _, e := range [][2]snpset.SNP{{1, 2}, {2, 3}, {1, 3}, {4, 5}, {5, 6}, {4, 6}} {
		require.NoError(t, g.AddEdge(e[0], e[1], "NET"))
	}
	clusters := g.ClusterLeiden(1.0, 0.01, 20)

	seen := make(map[snpset.SNP]bool)
	for _, c := range clusters {
		for _, n := range c {
			seen[n] = true
		}
	}
	require.Len(t, seen, 6)
}

func TestShufflePreservesNodeSetAndEdgeCount(t *testing.T) {
	g := graph.New()
	for _, e := range [][2]snpset.SNP{{1, 2}, {2, 3}, {3, 4}, {4, 1}, {1, 3}} {
		require.NoError(t, g.AddEdge(e[0], e[1], "NET"))
	}
	nodesBefore := g.Nodes()
	edgesBefore := g.NumEdges()

	rng := rand.New(rand.NewPCG(7, 7))
	g.Shuffle(graph.TopologyPreservingWithDegree, rng)

	require.ElementsMatch(t, nodesBefore, g.Nodes())
	require.Equal(t, edgesBefore, g.NumEdges())
}

func TestShuffleExpectedDegreeKeepsNodeSet(t *testing.T) {
	g := graph.New()
	for _, e := range [][2]snpset.SNP{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 1}, {1, 3}} {
		require.NoError(t, g.AddEdge(e[0], e[1], "NET"))
	}
	nodesBefore := g.Nodes()

	rng := rand.New(rand.NewPCG(11, 11))
	g.Shuffle(graph.ExpectedDegreeKeepIndividualDegree, rng)

	require.ElementsMatch(t, nodesBefore, g.Nodes())
}
