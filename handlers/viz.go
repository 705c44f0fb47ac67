// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph tool for agents
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	db *sql.DB
}

func NewVizHandlers(database *sql.DB) *VizHandlers {
	return &VizHandlers{db: database}
}

type GenerateGraphInput struct {
	Type     string `json:"type" validate:"required,oneof=contact pipeline automation" jsonschema:"Graph type: contact, pipeline, or automation"`
	EntityID string `json:"entity_id,omitempty" validate:"omitempty,uuid" jsonschema:"UUID of the contact or automation (not used for pipeline)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, GenerateGraphOutput{}, err
	}

	if input.Type != "pipeline" && input.EntityID == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("entity_id required for %s graph", input.Type)
	}

	generator := viz.NewGraphGenerator(h.db)
	var dot string
	var err error

	switch input.Type {
	case "contact":
		dot, err = generator.GenerateContactGraph(ctx, uuid.MustParse(input.EntityID))

	case "pipeline":
		dot, err = generator.GeneratePipelineGraph(ctx)

	case "automation":
		dot, err = h.automationGraph(ctx, uuid.MustParse(input.EntityID))
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodeCount := strings.Count(dot, "[label=")
	edgeCount := strings.Count(dot, "->")

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}

func (h *VizHandlers) automationGraph(ctx context.Context, id uuid.UUID) (string, error) {
	a, err := db.GetAutomation(h.db, id)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", fmt.Errorf("%w: %s", db.ErrAutomationNotFound, id)
	}
	draft, err := db.LoadDraft(a)
	if err != nil {
		return "", err
	}
	return viz.AutomationGraph(ctx, draft)
}
