// ABOUTME: Activity MCP tool handlers
// ABOUTME: Implements log_activity and list_activities tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ActivityHandlers struct {
	db *sql.DB
}

func NewActivityHandlers(database *sql.DB) *ActivityHandlers {
	return &ActivityHandlers{db: database}
}

type LogActivityInput struct {
	ContactID  string `json:"contact_id" validate:"required,uuid" jsonschema:"Contact ID (required)"`
	Type       string `json:"type" validate:"required,oneof=tarea llamada email reunion nota" jsonschema:"Activity type: tarea, llamada, email, reunion, nota"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=pendiente completada cancelada" jsonschema:"Status: pendiente, completada, cancelada (default pendiente)"`
	Subject    string `json:"subject,omitempty" jsonschema:"Short subject line"`
	Notes      string `json:"notes,omitempty" jsonschema:"Free-form notes"`
	OccurredAt string `json:"occurred_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00" jsonschema:"When it happened (RFC3339, defaults to now)"`
	DueAt      string `json:"due_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00" jsonschema:"Due time for tasks (RFC3339)"`
}

type ActivityOutput struct {
	ID        string  `json:"id"`
	ContactID string  `json:"contact_id"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Subject   string  `json:"subject,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	DueAt     *string `json:"due_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func (h *ActivityHandlers) LogActivity(_ context.Context, request *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, ActivityOutput{}, err
	}

	contactID := uuid.MustParse(input.ContactID)
	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ActivityOutput{}, fmt.Errorf("contact not found")
	}

	activity := &models.Activity{
		ContactID: contactID,
		Type:      input.Type,
		Status:    input.Status,
		Subject:   input.Subject,
		Notes:     input.Notes,
	}
	if input.OccurredAt != "" {
		activity.CreatedAt, _ = time.Parse(time.RFC3339, input.OccurredAt)
	}
	if input.DueAt != "" {
		due, _ := time.Parse(time.RFC3339, input.DueAt)
		activity.DueAt = &due
	}

	if err := db.LogActivity(h.db, activity); err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, activityToOutput(activity), nil
}

type ListActivitiesInput struct {
	ContactID string `json:"contact_id" validate:"required,uuid" jsonschema:"Contact ID (required)"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=1000" jsonschema:"Maximum number of results (default all)"`
}

type ListActivitiesOutput struct {
	Activities []ActivityOutput `json:"activities"`
}

func (h *ActivityHandlers) ListActivities(_ context.Context, request *mcp.CallToolRequest, input ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, ListActivitiesOutput{}, err
	}

	activities, err := db.ListContactActivities(h.db, uuid.MustParse(input.ContactID), input.Limit)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to list activities: %w", err)
	}

	result := make([]ActivityOutput, len(activities))
	for i, a := range activities {
		result[i] = activityToOutput(&a)
	}
	return nil, ListActivitiesOutput{Activities: result}, nil
}

func activityToOutput(a *models.Activity) ActivityOutput {
	output := ActivityOutput{
		ID:        a.ID.String(),
		ContactID: a.ContactID.String(),
		Type:      a.Type,
		Status:    a.Status,
		Subject:   a.Subject,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.DueAt != nil {
		s := a.DueAt.Format(time.RFC3339)
		output.DueAt = &s
	}
	return output
}
