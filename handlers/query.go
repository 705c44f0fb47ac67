// ABOUTME: Universal query tool handler
// ABOUTME: Implements flexible filtering across contacts, companies, opportunities and automations
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/scoring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type QueryHandlers struct {
	db *sql.DB
}

func NewQueryHandlers(database *sql.DB) *QueryHandlers {
	return &QueryHandlers{db: database}
}

type QueryCRMInput struct {
	EntityType string         `json:"entity_type" validate:"required,oneof=contact company opportunity automation" jsonschema:"Type of entity to query (contact, company, opportunity, automation)"`
	Query      string         `json:"query,omitempty" jsonschema:"Search query (for name/email/domain)"`
	Filters    map[string]any `json:"filters,omitempty" jsonschema:"Additional filters: company_id, contact_id, status, level, min_amount, max_amount, trigger_type"`
	Limit      int            `json:"limit,omitempty" validate:"gte=0,lte=1000" jsonschema:"Maximum results to return (default 10)"`
}

type QueryCRMOutput struct {
	EntityType string `json:"entity_type"`
	Results    []any  `json:"results"`
	Count      int    `json:"count"`
}

// queryFilters is the typed form of QueryCRMInput.Filters.
type queryFilters struct {
	CompanyID   string `mapstructure:"company_id" validate:"omitempty,uuid"`
	ContactID   string `mapstructure:"contact_id" validate:"omitempty,uuid"`
	Status      string `mapstructure:"status"`
	Level       string `mapstructure:"level" validate:"omitempty,oneof=hot warm cold"`
	MinAmount   *int64 `mapstructure:"min_amount"`
	MaxAmount   *int64 `mapstructure:"max_amount"`
	TriggerType string `mapstructure:"trigger_type"`
}

func decodeFilters(raw map[string]any) (queryFilters, error) {
	var f queryFilters
	if len(raw) == 0 {
		return f, nil
	}

	var meta mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		WeaklyTypedInput: true,
		Metadata:         &meta,
	})
	if err != nil {
		return f, err
	}
	if err := dec.Decode(raw); err != nil {
		return f, fmt.Errorf("invalid filters: %w", err)
	}
	if len(meta.Unused) > 0 {
		return f, fmt.Errorf("unknown filters: %v", meta.Unused)
	}
	if err := validate.Struct(f); err != nil {
		return f, fmt.Errorf("invalid filters: %w", err)
	}
	return f, nil
}

func (h *QueryHandlers) QueryCRM(ctx context.Context, req *mcp.CallToolRequest, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, QueryCRMOutput{}, err
	}
	if input.Limit == 0 {
		input.Limit = 10
	}

	filters, err := decodeFilters(input.Filters)
	if err != nil {
		return nil, QueryCRMOutput{}, err
	}

	var results []any
	switch input.EntityType {
	case "contact":
		results, err = h.queryContacts(input, filters)
	case "company":
		results, err = h.queryCompanies(input)
	case "opportunity":
		results, err = h.queryOpportunities(input, filters)
	case "automation":
		results, err = h.queryAutomations(input, filters)
	}
	if err != nil {
		return nil, QueryCRMOutput{}, err
	}
	if results == nil {
		results = []any{}
	}

	return nil, QueryCRMOutput{
		EntityType: input.EntityType,
		Results:    results,
		Count:      len(results),
	}, nil
}

func (h *QueryHandlers) queryContacts(input QueryCRMInput, f queryFilters) ([]any, error) {
	var companyID *uuid.UUID
	if f.CompanyID != "" {
		id := uuid.MustParse(f.CompanyID)
		companyID = &id
	}

	// Filters below run after the fetch, so widen it
	fetch := input.Limit
	if f.Status != "" || f.Level != "" {
		fetch = 10000
	}

	contacts, err := db.FindContacts(h.db, input.Query, companyID, fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to find contacts: %w", err)
	}

	var results []any
	for _, c := range contacts {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Level != "" && scoring.LeadScore(c).Level != scoring.Level(f.Level) {
			continue
		}
		results = append(results, contactToOutput(&c))
		if len(results) == input.Limit {
			break
		}
	}
	return results, nil
}

func (h *QueryHandlers) queryCompanies(input QueryCRMInput) ([]any, error) {
	companies, err := db.FindCompanies(h.db, input.Query, input.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find companies: %w", err)
	}

	results := make([]any, len(companies))
	for i, c := range companies {
		results[i] = companyToOutput(&c)
	}
	return results, nil
}

func (h *QueryHandlers) queryOpportunities(input QueryCRMInput, f queryFilters) ([]any, error) {
	filter := db.OpportunityFilter{Status: f.Status, Limit: input.Limit}
	if f.CompanyID != "" {
		id := uuid.MustParse(f.CompanyID)
		filter.CompanyID = &id
	}
	if f.ContactID != "" {
		id := uuid.MustParse(f.ContactID)
		filter.ContactID = &id
	}
	if f.MinAmount != nil || f.MaxAmount != nil {
		filter.Limit = 10000
	}

	opps, err := db.FindOpportunities(h.db, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find opportunities: %w", err)
	}

	var results []any
	for _, o := range opps {
		if f.MinAmount != nil && o.Amount < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && o.Amount > *f.MaxAmount {
			continue
		}
		results = append(results, opportunityToOutput(&o))
		if len(results) == input.Limit {
			break
		}
	}
	return results, nil
}

func (h *QueryHandlers) queryAutomations(input QueryCRMInput, f queryFilters) ([]any, error) {
	automations, err := db.ListAutomations(h.db, f.TriggerType)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}

	var results []any
	for _, a := range automations {
		results = append(results, AutomationSummary{
			ID:          a.ID.String(),
			Name:        a.Name,
			TriggerType: a.TriggerType,
			Active:      a.Active,
			UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
		})
		if len(results) == input.Limit {
			break
		}
	}
	return results, nil
}
