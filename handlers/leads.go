// ABOUTME: Lead scoring MCP tool handlers
// ABOUTME: Implements score_contact, suggest_actions and rank_leads tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/scoring"
	"github.com/harperreed/leadflow/suggestions"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type LeadHandlers struct {
	db  *sql.DB
	now func() time.Time
}

func NewLeadHandlers(database *sql.DB) *LeadHandlers {
	return &LeadHandlers{db: database, now: time.Now}
}

type ScoreContactInput struct {
	ContactID string `json:"contact_id" validate:"required,uuid" jsonschema:"Contact ID (required)"`
}

type ScoreContactOutput struct {
	ContactID             string               `json:"contact_id"`
	Name                  string               `json:"name"`
	TotalScore            int                  `json:"total_score"`
	Level                 scoring.Level        `json:"level"`
	Factors               scoring.ScoreFactors `json:"factors"`
	Engagement            int                  `json:"engagement"`
	ConversionProbability int                  `json:"conversion_probability"`
	HasActiveDeal         bool                 `json:"has_active_deal"`
}

func (h *LeadHandlers) ScoreContact(_ context.Context, request *mcp.CallToolRequest, input ScoreContactInput) (*mcp.CallToolResult, ScoreContactOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, ScoreContactOutput{}, err
	}

	lead, err := h.loadLead(input.ContactID)
	if err != nil {
		return nil, ScoreContactOutput{}, err
	}

	return nil, leadToOutput(lead), nil
}

type SuggestActionsInput struct {
	ContactID string `json:"contact_id" validate:"required,uuid" jsonschema:"Contact ID (required)"`
	Sort      string `json:"sort,omitempty" validate:"omitempty,oneof=rule priority" jsonschema:"Ordering: rule (default) or priority"`
}

type SuggestActionsOutput struct {
	ContactID   string                   `json:"contact_id"`
	Suggestions []suggestions.Suggestion `json:"suggestions"`
}

func (h *LeadHandlers) SuggestActions(_ context.Context, request *mcp.CallToolRequest, input SuggestActionsInput) (*mcp.CallToolResult, SuggestActionsOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, SuggestActionsOutput{}, err
	}

	lead, err := h.loadLead(input.ContactID)
	if err != nil {
		return nil, SuggestActionsOutput{}, err
	}

	list := suggestions.Smart(lead.Contact, lead.Activities, lead.Opportunities)
	if input.Sort == "priority" {
		list = suggestions.SortByPriority(list)
	}
	if list == nil {
		list = []suggestions.Suggestion{}
	}

	return nil, SuggestActionsOutput{ContactID: input.ContactID, Suggestions: list}, nil
}

type RankLeadsInput struct {
	Level string `json:"level,omitempty" validate:"omitempty,oneof=hot warm cold" jsonschema:"Only this level: hot, warm or cold"`
	Limit int    `json:"limit,omitempty" validate:"gte=0,lte=1000" jsonschema:"Maximum number of results (default 10)"`
}

type RankLeadsOutput struct {
	Leads []ScoreContactOutput `json:"leads"`
}

func (h *LeadHandlers) RankLeads(_ context.Context, request *mcp.CallToolRequest, input RankLeadsInput) (*mcp.CallToolResult, RankLeadsOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, RankLeadsOutput{}, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	leads, err := db.RankLeads(h.db, scoring.Level(input.Level), limit, h.now())
	if err != nil {
		return nil, RankLeadsOutput{}, fmt.Errorf("failed to rank leads: %w", err)
	}

	result := make([]ScoreContactOutput, len(leads))
	for i := range leads {
		result[i] = leadToOutput(&leads[i])
	}
	return nil, RankLeadsOutput{Leads: result}, nil
}

func (h *LeadHandlers) loadLead(idStr string) (*db.Lead, error) {
	lead, err := db.LoadLead(h.db, uuid.MustParse(idStr), h.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("contact not found")
	}
	return lead, nil
}

func leadToOutput(lead *db.Lead) ScoreContactOutput {
	ev := lead.Evaluation
	return ScoreContactOutput{
		ContactID:             lead.Contact.ID.String(),
		Name:                  lead.Contact.Name,
		TotalScore:            ev.Lead.TotalScore,
		Level:                 ev.Lead.Level,
		Factors:               ev.Lead.Factors,
		Engagement:            ev.Engagement,
		ConversionProbability: ev.ConversionProbability,
		HasActiveDeal:         ev.HasActiveDeal,
	}
}
