// ABOUTME: Automation MCP tool handlers
// ABOUTME: Implements save_automation, list_automations, get_automation and set_automation_active tools
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AutomationHandlers struct {
	db *sql.DB
}

func NewAutomationHandlers(database *sql.DB) *AutomationHandlers {
	return &AutomationHandlers{db: database}
}

// SaveAutomationInput carries an automation in its flattened payload form.
// Actions are objects of the shape {"type": "<action_type>", ...config}.
type SaveAutomationInput struct {
	ID            string           `json:"id,omitempty" validate:"omitempty,uuid" jsonschema:"Existing automation ID to replace (omit to create)"`
	Name          string           `json:"name" validate:"required" jsonschema:"Automation name (required)"`
	Description   string           `json:"description,omitempty" jsonschema:"What the automation does"`
	TriggerType   string           `json:"trigger_type,omitempty" jsonschema:"Trigger: contact_created, deal_stage_changed, activity_due, contact_birthday, manual, scheduled"`
	TriggerConfig map[string]any   `json:"trigger_config,omitempty" jsonschema:"Trigger-specific settings"`
	Actions       []map[string]any `json:"actions,omitempty" jsonschema:"Ordered actions, each {type, ...config}"`
}

type AutomationOutput struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	TriggerType string           `json:"trigger_type"`
	Active      bool             `json:"active"`
	Payload     workflow.Payload `json:"payload"`
	Issues      []string         `json:"issues,omitempty"`
	UpdatedAt   string           `json:"updated_at"`
}

func (h *AutomationHandlers) SaveAutomation(_ context.Context, request *mcp.CallToolRequest, input SaveAutomationInput) (*mcp.CallToolResult, AutomationOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, AutomationOutput{}, err
	}

	draft, err := workflow.ParsePayload(workflow.Payload{
		Name:          input.Name,
		Description:   input.Description,
		TriggerType:   workflow.TriggerType(input.TriggerType),
		TriggerConfig: input.TriggerConfig,
		Actions:       input.Actions,
	})
	if err != nil {
		return nil, AutomationOutput{}, fmt.Errorf("invalid automation: %w", err)
	}

	var id *uuid.UUID
	if input.ID != "" {
		existing := uuid.MustParse(input.ID)
		id = &existing
	}

	saved, err := db.SaveAutomation(h.db, id, &draft)
	if err != nil {
		return nil, AutomationOutput{}, fmt.Errorf("failed to save automation: %w", err)
	}

	return automationToOutput(saved, &draft)
}

type ListAutomationsInput struct {
	TriggerType string `json:"trigger_type,omitempty" jsonschema:"Filter by trigger type"`
}

type AutomationSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TriggerType string `json:"trigger_type"`
	Active      bool   `json:"active"`
	UpdatedAt   string `json:"updated_at"`
}

type ListAutomationsOutput struct {
	Automations []AutomationSummary `json:"automations"`
}

func (h *AutomationHandlers) ListAutomations(_ context.Context, request *mcp.CallToolRequest, input ListAutomationsInput) (*mcp.CallToolResult, ListAutomationsOutput, error) {
	automations, err := db.ListAutomations(h.db, input.TriggerType)
	if err != nil {
		return nil, ListAutomationsOutput{}, fmt.Errorf("failed to list automations: %w", err)
	}

	result := make([]AutomationSummary, len(automations))
	for i, a := range automations {
		result[i] = AutomationSummary{
			ID:          a.ID.String(),
			Name:        a.Name,
			TriggerType: a.TriggerType,
			Active:      a.Active,
			UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
		}
	}
	return nil, ListAutomationsOutput{Automations: result}, nil
}

type GetAutomationInput struct {
	ID string `json:"id" validate:"required,uuid" jsonschema:"Automation ID (required)"`
}

func (h *AutomationHandlers) GetAutomation(_ context.Context, request *mcp.CallToolRequest, input GetAutomationInput) (*mcp.CallToolResult, AutomationOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, AutomationOutput{}, err
	}

	a, err := db.GetAutomation(h.db, uuid.MustParse(input.ID))
	if err != nil {
		return nil, AutomationOutput{}, fmt.Errorf("failed to get automation: %w", err)
	}
	if a == nil {
		return nil, AutomationOutput{}, fmt.Errorf("automation not found: %s", input.ID)
	}

	draft, err := db.LoadDraft(a)
	if err != nil {
		return nil, AutomationOutput{}, err
	}

	return automationToOutput(a, draft)
}

type SetAutomationActiveInput struct {
	ID     string `json:"id" validate:"required,uuid" jsonschema:"Automation ID (required)"`
	Active bool   `json:"active" jsonschema:"Whether the automation should run"`
}

func (h *AutomationHandlers) SetAutomationActive(ctx context.Context, request *mcp.CallToolRequest, input SetAutomationActiveInput) (*mcp.CallToolResult, AutomationOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, AutomationOutput{}, err
	}

	if err := db.SetAutomationActive(h.db, uuid.MustParse(input.ID), input.Active); err != nil {
		return nil, AutomationOutput{}, fmt.Errorf("failed to update automation: %w", err)
	}

	return h.GetAutomation(ctx, request, GetAutomationInput{ID: input.ID})
}

func automationToOutput(a *models.Automation, draft *workflow.Draft) (*mcp.CallToolResult, AutomationOutput, error) {
	var payload workflow.Payload
	if err := json.Unmarshal([]byte(a.Payload), &payload); err != nil {
		return nil, AutomationOutput{}, fmt.Errorf("failed to decode payload: %w", err)
	}

	var issues []string
	for _, issue := range draft.Lint() {
		issues = append(issues, issue.String())
	}

	return nil, AutomationOutput{
		ID:          a.ID.String(),
		Name:        a.Name,
		Description: a.Description,
		TriggerType: a.TriggerType,
		Active:      a.Active,
		Payload:     payload,
		Issues:      issues,
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}, nil
}
