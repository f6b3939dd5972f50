package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

type adjacencyMatrixJSON struct {
	RSIDs           []string  `json:"rs_ids"`
	AdjacencyMatrix [][]uint8 `json:"adjacency_matrix"`
}

func nodeNames(reg *registry.Registry, nodes []snpset.SNP) ([]string, error) {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		name, err := reg.ByID(n)
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		names[i] = name
	}
	return names, nil
}

func adjacencyMatrix(g *graph.Graph, nodes []snpset.SNP) [][]uint8 {
	n := len(nodes)
	mat := make([][]uint8, n)
	for i := range mat {
		mat[i] = make([]uint8, n)
	}
	for i, a := range nodes {
		for j, b := range nodes {
			if i != j && g.HasEdge(a, b) {
				mat[i][j] = 1
			}
		}
	}
	return mat
}

// WriteAdjacencyMatrixJSON writes the network as {"rs_ids": [...],
// "adjacency_matrix": [[...]]} (spec §6's Network JSON adjacency-matrix
// format), node order fixed by sortedSNPs(g.Nodes()).
func WriteAdjacencyMatrixJSON(w io.Writer, g *graph.Graph, reg *registry.Registry) error {
	nodes := sortedSNPs(g.Nodes())
	names, err := nodeNames(reg, nodes)
	if err != nil {
		return err
	}
	doc := adjacencyMatrixJSON{RSIDs: names, AdjacencyMatrix: adjacencyMatrix(g, nodes)}
	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}

// WriteAdjacencyMatrixCSV writes the network as a tab-separated
// adjacency matrix with an RS_ID header row and row labels (spec §6's
// Network CSV adjacency-matrix format).
func WriteAdjacencyMatrixCSV(w io.Writer, g *graph.Graph, reg *registry.Registry) error {
	nodes := sortedSNPs(g.Nodes())
	names, err := nodeNames(reg, nodes)
	if err != nil {
		return err
	}
	mat := adjacencyMatrix(g, nodes)

	if _, err := fmt.Fprintln(w, "RS_ID\t"+strings.Join(names, "\t")); err != nil {
		return err
	}
	for i, name := range names {
		cells := make([]string, len(names))
		for j, v := range mat[i] {
			cells[j] = strconv.Itoa(int(v))
		}
		if _, err := fmt.Fprintln(w, name+"\t"+strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// WriteAdjacencyListJSON writes the network as {rs_id: [neighbor rs_ids,
// ...], ...} (spec §6's Network JSON adjacency-list format).
func WriteAdjacencyListJSON(w io.Writer, g *graph.Graph, reg *registry.Registry) error {
	nodes := sortedSNPs(g.Nodes())
	out := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		name, err := reg.ByID(n)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		neighborNames, err := nodeNames(reg, sortedSNPs(g.Neighbors(n)))
		if err != nil {
			return err
		}
		out[name] = neighborNames
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

type edgeListJSON struct {
	Labels []string                   `json:"labels"`
	Edges  map[string]map[string][]int `json:"edges"`
}

// WriteNodeEdgeList writes the paired node+edge JSON format (spec §6):
// a node CSV table (base32 id, rs id, semicolon-joined annotations, one
// column per variable attribute key observed across the network's
// nodes) to nodesOut, and an edge JSON document ({"labels": [...],
// "edges": {from: {to: [label-index, ...]}}}) to edgesOut.
func WriteNodeEdgeList(nodesOut, edgesOut io.Writer, g *graph.Graph, reg *registry.Registry) error {
	nodes := sortedSNPs(g.Nodes())

	attribSet := map[string]struct{}{}
	for _, n := range nodes {
		for _, k := range reg.VariableAttributeKeys(n) {
			attribSet[k] = struct{}{}
		}
	}
	attribKeys := sortedStrings(attribSet)

	header := "ID (BASE32)\tRS_ID\tAnnotations"
	for _, k := range attribKeys {
		header += "\t" + k
	}
	if _, err := fmt.Fprintln(nodesOut, header); err != nil {
		return err
	}
	for _, n := range nodes {
		name, err := reg.ByID(n)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		row := NodeID(n) + "\t" + name + "\t" + strings.Join(reg.Annotations(n), ";")
		for _, k := range attribKeys {
			v, _ := reg.VariableAttribute(n, k)
			row += "\t" + v
		}
		if _, err := fmt.Fprintln(nodesOut, row); err != nil {
			return err
		}
	}

	labels := g.AllLabels()
	labelIdx := make(map[string]int, len(labels))
	for i, l := range labels {
		labelIdx[l] = i
	}

	edges := make(map[string]map[string][]int)
	for _, n := range nodes {
		from := NodeID(n)
		for _, adj := range sortedSNPs(g.Neighbors(n)) {
			if adj <= n {
				continue
			}
			to := NodeID(adj)
			var idxs []int
			for _, l := range g.EdgeLabels(n, adj) {
				idxs = append(idxs, labelIdx[l])
			}
			if edges[from] == nil {
				edges[from] = map[string][]int{}
			}
			edges[from][to] = idxs
		}
	}

	enc := json.NewEncoder(edgesOut)
	return enc.Encode(edgeListJSON{Labels: labels, Edges: edges})
}
