// ABOUTME: Shared GraphViz setup for CRM and automation graphs
// ABOUTME: Owns the graphviz lifecycle and renders graphs to DOT source
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// GraphGenerator builds graphs from the CRM database.
type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// render creates a graph, lets build populate it, and returns its DOT source.
func render(ctx context.Context, build func(*cgraph.Graph) error) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

func shortID(id fmt.Stringer) string {
	return id.String()[:8]
}
