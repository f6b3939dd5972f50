package output

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/needl-go/netseek/internal/graph"
	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

// snpIDName pairs a SNP id with its registered name, avoiding a registry
// lookup on every access while building the SQLite dump.
type snpIDName struct {
	id   snpset.SNP
	name string
}

// SaveNetworkSQLite dumps the network to a SQLite file at path (spec §6):
// tables nodes/node_annotations/has_annotation/edges, all WITHOUT ROWID,
// column names sanitized to [A-Za-z0-9_-], under a WAL journal.
func SaveNetworkSQLite(ctx context.Context, path string, g *graph.Graph, reg *registry.Registry) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return fmt.Errorf("output: opening sqlite database: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = FULL;
		PRAGMA locking_mode = NORMAL;
		PRAGMA cache_size = -1000000;
	`); err != nil {
		return fmt.Errorf("output: configuring sqlite pragmas: %w", err)
	}

	rawNodes := sortedSNPs(g.Nodes())
	nodes := make([]snpIDName, len(rawNodes))
	for i, id := range rawNodes {
		name, err := reg.ByID(id)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		nodes[i] = snpIDName{id: id, name: name}
	}

	attribSet := map[string]struct{}{}
	annotationSet := map[string]struct{}{}
	for _, n := range nodes {
		for _, k := range reg.VariableAttributeKeys(n.id) {
			attribSet[sanitizeColumnName(k)] = struct{}{}
		}
		for _, a := range reg.Annotations(n.id) {
			annotationSet[a] = struct{}{}
		}
	}
	attribCols := sortedStrings(attribSet)

	labels := g.AllLabels()
	labelCols := make([]string, len(labels))
	for i, l := range labels {
		labelCols[i] = sanitizeColumnName(l)
	}

	if err := createNetworkTables(ctx, db, attribCols, labelCols); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("output: beginning sqlite transaction: %w", err)
	}

	if err := insertNodesAndAnnotations(ctx, tx, reg, nodes, attribCols, annotationSet); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := insertEdges(ctx, tx, g, nodes, labelCols); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("output: committing sqlite transaction: %w", err)
	}
	return nil
}

func createNetworkTables(ctx context.Context, db *bun.DB, attribCols, labelCols []string) error {
	var nodeCols strings.Builder
	for _, c := range attribCols {
		fmt.Fprintf(&nodeCols, `, "%s" VARCHAR`, c)
	}
	var edgeCols strings.Builder
	for _, c := range labelCols {
		fmt.Fprintf(&edgeCols, `, "%s" BOOLEAN`, c)
	}

	stmt := fmt.Sprintf(`
		CREATE TABLE node_annotations (
			id   INTEGER PRIMARY KEY NOT NULL,
			name VARCHAR NOT NULL
		) WITHOUT ROWID;
		CREATE TABLE has_annotation (
			node       INTEGER NOT NULL,
			annotation INTEGER NOT NULL,
			PRIMARY KEY (node, annotation)
		) WITHOUT ROWID;
		CREATE TABLE nodes (
			id   INTEGER PRIMARY KEY NOT NULL,
			name VARCHAR NOT NULL%s
		) WITHOUT ROWID;
		CREATE TABLE edges (
			node1 INTEGER NOT NULL,
			node2 INTEGER NOT NULL%s,
			PRIMARY KEY (node1, node2)
		) WITHOUT ROWID;
	`, nodeCols.String(), edgeCols.String())

	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("output: creating sqlite tables: %w", err)
	}
	return nil
}

// attrByColumn finds the variable attribute on snp whose sanitized key
// matches column (several raw keys may collide after sanitization; the
// first match in key order wins).
func attrByColumn(reg *registry.Registry, snp snpset.SNP, column string) (string, bool) {
	for _, k := range reg.VariableAttributeKeys(snp) {
		if sanitizeColumnName(k) == column {
			return reg.VariableAttribute(snp, k)
		}
	}
	return "", false
}

func insertNodesAndAnnotations(ctx context.Context, tx bun.Tx, reg *registry.Registry, nodes []snpIDName, attribCols []string, annotationSet map[string]struct{}) error {
	var nodeCols strings.Builder
	var placeholders strings.Builder
	for _, c := range attribCols {
		fmt.Fprintf(&nodeCols, `, "%s"`, c)
		placeholders.WriteString(", ?")
	}
	insertNode := fmt.Sprintf(`INSERT INTO nodes (id, name%s) VALUES (?, ?%s)`, nodeCols.String(), placeholders.String())

	for _, n := range nodes {
		args := make([]interface{}, 0, 2+len(attribCols))
		args = append(args, int(n.id), n.name)
		for _, c := range attribCols {
			v, ok := attrByColumn(reg, n.id, c)
			if ok {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := tx.ExecContext(ctx, insertNode, args...); err != nil {
			return fmt.Errorf("output: inserting node %s: %w", n.name, err)
		}
	}

	annotations := make([]string, 0, len(annotationSet))
	for a := range annotationSet {
		annotations = append(annotations, a)
	}
	sort.Strings(annotations)

	for id, anno := range annotations {
		if _, err := tx.ExecContext(ctx, `INSERT INTO node_annotations (id, name) VALUES (?, ?)`, id, anno); err != nil {
			return fmt.Errorf("output: inserting annotation %q: %w", anno, err)
		}
		for _, n := range nodes {
			for _, a := range reg.Annotations(n.id) {
				if a == anno {
					if _, err := tx.ExecContext(ctx, `INSERT INTO has_annotation (node, annotation) VALUES (?, ?)`, int(n.id), id); err != nil {
						return fmt.Errorf("output: inserting has_annotation for node %s: %w", n.name, err)
					}
					break
				}
			}
		}
	}
	return nil
}

func insertEdges(ctx context.Context, tx bun.Tx, g *graph.Graph, nodes []snpIDName, labelCols []string) error {
	var edgeCols strings.Builder
	var placeholders strings.Builder
	for _, c := range labelCols {
		fmt.Fprintf(&edgeCols, `, "%s"`, c)
		placeholders.WriteString(", ?")
	}
	insertEdge := fmt.Sprintf(`INSERT INTO edges (node1, node2%s) VALUES (?, ?%s)`, edgeCols.String(), placeholders.String())

	for _, n := range nodes {
		neighbors := sortedSNPs(g.Neighbors(n.id))
		for _, adj := range neighbors {
			if adj <= n.id {
				continue
			}
			have := map[string]bool{}
			for _, l := range g.EdgeLabels(n.id, adj) {
				have[sanitizeColumnName(l)] = true
			}
			args := make([]interface{}, 0, 2+len(labelCols))
			args = append(args, int(n.id), int(adj))
			for _, c := range labelCols {
				args = append(args, have[c])
			}
			if _, err := tx.ExecContext(ctx, insertEdge, args...); err != nil {
				return fmt.Errorf("output: inserting edge (%d,%d): %w", n.id, adj, err)
			}
		}
	}
	return nil
}
