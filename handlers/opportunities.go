// ABOUTME: Opportunity MCP tool handlers
// ABOUTME: Implements create_opportunity, update_opportunity and find_opportunities tools
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

type OpportunityHandlers struct {
	db *sql.DB
}

func NewOpportunityHandlers(database *sql.DB) *OpportunityHandlers {
	return &OpportunityHandlers{db: database}
}

// Status inputs also accept the legacy open/won/lost spellings; the store
// normalizes them.
type CreateOpportunityInput struct {
	Title             string `json:"title" validate:"required" jsonschema:"Opportunity title (required)"`
	Amount            int64  `json:"amount,omitempty" validate:"gte=0" jsonschema:"Amount in cents"`
	Currency          string `json:"currency,omitempty" validate:"omitempty,len=3" jsonschema:"ISO currency code (default EUR)"`
	Status            string `json:"status,omitempty" validate:"omitempty,oneof=abierto ganado perdido descartado open closed won lost closed_won closed_lost" jsonschema:"Status: abierto, ganado, perdido, descartado (default abierto)"`
	Stage             string `json:"stage,omitempty" jsonschema:"Free-form pipeline stage"`
	CompanyName       string `json:"company_name,omitempty" jsonschema:"Company name (will be created if not found)"`
	ContactID         string `json:"contact_id,omitempty" validate:"omitempty,uuid" jsonschema:"Contact ID the opportunity belongs to"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema:"Expected close date (YYYY-MM-DD)"`
}

type OpportunityOutput struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Amount            int64   `json:"amount"`
	Currency          string  `json:"currency"`
	Status            string  `json:"status"`
	Stage             string  `json:"stage,omitempty"`
	CompanyID         *string `json:"company_id,omitempty"`
	ContactID         *string `json:"contact_id,omitempty"`
	ExpectedCloseDate *string `json:"expected_close_date,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func (h *OpportunityHandlers) CreateOpportunity(_ context.Context, request *mcp.CallToolRequest, input CreateOpportunityInput) (*mcp.CallToolResult, OpportunityOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, OpportunityOutput{}, err
	}

	opp := &models.Opportunity{
		Title:    input.Title,
		Amount:   input.Amount,
		Currency: input.Currency,
		Status:   input.Status,
		Stage:    input.Stage,
	}

	if input.CompanyName != "" {
		company, err := findOrCreateCompany(h.db, input.CompanyName)
		if err != nil {
			return nil, OpportunityOutput{}, err
		}
		opp.CompanyID = &company.ID
	}

	if input.ContactID != "" {
		contactID, err := h.requireContact(input.ContactID)
		if err != nil {
			return nil, OpportunityOutput{}, err
		}
		opp.ContactID = &contactID
	}

	if input.ExpectedCloseDate != "" {
		// Format already checked by the validator
		t, _ := time.Parse(time.DateOnly, input.ExpectedCloseDate)
		opp.ExpectedCloseDate = &t
	}

	if err := db.CreateOpportunity(h.db, opp); err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to create opportunity: %w", err)
	}

	return nil, opportunityToOutput(opp), nil
}

type UpdateOpportunityInput struct {
	ID                string `json:"id" validate:"required,uuid" jsonschema:"Opportunity ID (required)"`
	Title             string `json:"title,omitempty" jsonschema:"Updated title"`
	Amount            *int64 `json:"amount,omitempty" validate:"omitempty,gte=0" jsonschema:"Updated amount in cents"`
	Status            string `json:"status,omitempty" validate:"omitempty,oneof=abierto ganado perdido descartado open closed won lost closed_won closed_lost" jsonschema:"Updated status"`
	Stage             string `json:"stage,omitempty" jsonschema:"Updated stage"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema:"Updated expected close date (YYYY-MM-DD)"`
}

func (h *OpportunityHandlers) UpdateOpportunity(_ context.Context, request *mcp.CallToolRequest, input UpdateOpportunityInput) (*mcp.CallToolResult, OpportunityOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, OpportunityOutput{}, err
	}

	oppID := uuid.MustParse(input.ID)
	opp, err := db.GetOpportunity(h.db, oppID)
	if err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to get opportunity: %w", err)
	}
	if opp == nil {
		return nil, OpportunityOutput{}, fmt.Errorf("opportunity not found: %s", oppID)
	}

	setIfNotEmpty(&opp.Title, input.Title)
	setIfNotEmpty(&opp.Status, input.Status)
	setIfNotEmpty(&opp.Stage, input.Stage)
	if input.Amount != nil {
		opp.Amount = *input.Amount
	}
	if input.ExpectedCloseDate != "" {
		t, _ := time.Parse(time.DateOnly, input.ExpectedCloseDate)
		opp.ExpectedCloseDate = &t
	}

	if err := db.UpdateOpportunity(h.db, opp); err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to update opportunity: %w", err)
	}

	return nil, opportunityToOutput(opp), nil
}

type FindOpportunitiesInput struct {
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=abierto ganado perdido descartado open closed won lost closed_won closed_lost" jsonschema:"Filter by status"`
	CompanyID string `json:"company_id,omitempty" validate:"omitempty,uuid" jsonschema:"Filter by company ID"`
	ContactID string `json:"contact_id,omitempty" validate:"omitempty,uuid" jsonschema:"Filter by contact ID"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=1000" jsonschema:"Maximum number of results (default 10)"`
}

type FindOpportunitiesOutput struct {
	Opportunities []OpportunityOutput `json:"opportunities"`
}

func (h *OpportunityHandlers) FindOpportunities(_ context.Context, request *mcp.CallToolRequest, input FindOpportunitiesInput) (*mcp.CallToolResult, FindOpportunitiesOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, FindOpportunitiesOutput{}, err
	}

	filter := db.OpportunityFilter{Status: input.Status, Limit: input.Limit}
	if input.CompanyID != "" {
		id := uuid.MustParse(input.CompanyID)
		filter.CompanyID = &id
	}
	if input.ContactID != "" {
		id := uuid.MustParse(input.ContactID)
		filter.ContactID = &id
	}

	opps, err := db.FindOpportunities(h.db, filter)
	if err != nil {
		return nil, FindOpportunitiesOutput{}, fmt.Errorf("failed to find opportunities: %w", err)
	}

	result := make([]OpportunityOutput, len(opps))
	for i, opp := range opps {
		result[i] = opportunityToOutput(&opp)
	}
	return nil, FindOpportunitiesOutput{Opportunities: result}, nil
}

func (h *OpportunityHandlers) requireContact(idStr string) (uuid.UUID, error) {
	id := uuid.MustParse(idStr)
	contact, err := db.GetContact(h.db, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return uuid.Nil, fmt.Errorf("contact not found: %s", id)
	}
	return id, nil
}

func opportunityToOutput(opp *models.Opportunity) OpportunityOutput {
	output := OpportunityOutput{
		ID:        opp.ID.String(),
		Title:     opp.Title,
		Amount:    opp.Amount,
		Currency:  opp.Currency,
		Status:    opp.Status,
		Stage:     opp.Stage,
		CreatedAt: opp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: opp.UpdatedAt.Format(time.RFC3339),
	}

	if opp.CompanyID != nil {
		s := opp.CompanyID.String()
		output.CompanyID = &s
	}
	if opp.ContactID != nil {
		s := opp.ContactID.String()
		output.ContactID = &s
	}
	if opp.ExpectedCloseDate != nil {
		s := opp.ExpectedCloseDate.Format(time.DateOnly)
		output.ExpectedCloseDate = &s
	}

	return output
}
