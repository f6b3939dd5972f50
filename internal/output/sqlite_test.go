package output_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/output"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

func TestSaveNetworkSQLiteWritesNodesAndEdges(t *testing.T) {
	reg := registry.New()
	rs1, err := reg.Add("rs1")
	require.NoError(t, err)
	rs2, err := reg.Add("rs2")
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
	require.NoError(t, g.AddEdge(rs1, rs2, "SAME_TAG"))

	path := filepath.Join(t.TempDir(), "network.sqlite")
	ctx := context.Background()
	require.NoError(t, output.SaveNetworkSQLite(ctx, path, g, reg))

	db, err := sql.Open(sqliteshim.ShimName, path)
	require.NoError(t, err)
	defer db.Close()

	var nodeCount int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&nodeCount))
	require.Equal(t, 2, nodeCount)

	var name string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT name FROM nodes WHERE id = ?`, int(rs1)).Scan(&name))
	require.Equal(t, "rs1", name)

	var role string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT "ROLE" FROM nodes WHERE id = ?`, int(rs1)).Scan(&role))
	require.Equal(t, "hub", role)

	var edgeCount int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges").Scan(&edgeCount))
	require.Equal(t, 1, edgeCount)

	var sameTag bool
	require.NoError(t, db.QueryRowContext(ctx, `SELECT "SAME_TAG" FROM edges WHERE node1 = ? AND node2 = ?`, int(rs1), int(rs2)).Scan(&sameTag))
	require.True(t, sameTag)

	var annoCount int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM has_annotation").Scan(&annoCount))
	require.Equal(t, 1, annoCount)
}
