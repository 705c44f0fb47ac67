// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only JSON access to contacts, companies, opportunities, leads and automations via URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/scoring"
	"github.com/harperreed/leadflow/suggestions"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	path := strings.TrimPrefix(uri, "crm://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "contacts":
		if len(parts) == 1 {
			return h.readAllContacts(uri)
		}
		return h.readContact(uri, parts[1])

	case "companies":
		if len(parts) == 1 {
			return h.readAllCompanies(uri)
		}
		return h.readCompany(uri, parts[1])

	case "opportunities":
		opps, err := db.FindOpportunities(h.db, db.OpportunityFilter{Limit: 1000})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
		}
		return jsonResource(uri, opps)

	case "leads":
		return h.readLeads(uri)

	case "automations":
		automations, err := db.ListAutomations(h.db, "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch automations: %w", err)
		}
		return jsonResource(uri, automations)

	case "pipeline":
		return h.readPipeline(uri)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readAllContacts(uri string) (*mcp.ReadResourceResult, error) {
	contacts, err := db.FindContacts(h.db, "", nil, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	return jsonResource(uri, contacts)
}

func (h *ResourceHandlers) readContact(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid contact ID: %w", err)
	}

	lead, err := db.LoadLead(h.db, id, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("contact not found: %s", id)
	}

	contactData := struct {
		models.Contact
		Evaluation    scoring.Evaluation       `json:"evaluation"`
		Suggestions   []suggestions.Suggestion `json:"suggestions"`
		Activities    []models.Activity        `json:"activities"`
		Opportunities []models.Opportunity     `json:"opportunities"`
	}{
		Contact:       lead.Contact,
		Evaluation:    lead.Evaluation,
		Suggestions:   suggestions.Smart(lead.Contact, lead.Activities, lead.Opportunities),
		Activities:    lead.Activities,
		Opportunities: lead.Opportunities,
	}

	return jsonResource(uri, contactData)
}

func (h *ResourceHandlers) readAllCompanies(uri string) (*mcp.ReadResourceResult, error) {
	companies, err := db.FindCompanies(h.db, "", 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	return jsonResource(uri, companies)
}

func (h *ResourceHandlers) readCompany(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid company ID: %w", err)
	}

	company, err := db.GetCompany(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("company not found: %s", id)
	}

	// Include associated contacts and opportunities
	contacts, err := db.FindContacts(h.db, "", &id, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company contacts: %w", err)
	}
	opps, err := db.FindOpportunities(h.db, db.OpportunityFilter{CompanyID: &id, Limit: 1000})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company opportunities: %w", err)
	}

	companyData := struct {
		models.Company
		Contacts      []models.Contact     `json:"contacts"`
		Opportunities []models.Opportunity `json:"opportunities"`
	}{
		Company:       *company,
		Contacts:      contacts,
		Opportunities: opps,
	}

	return jsonResource(uri, companyData)
}

func (h *ResourceHandlers) readLeads(uri string) (*mcp.ReadResourceResult, error) {
	leads, err := db.RankLeads(h.db, "", 100, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to rank leads: %w", err)
	}

	out := make([]ScoreContactOutput, len(leads))
	for i := range leads {
		out[i] = leadToOutput(&leads[i])
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readPipeline(uri string) (*mcp.ReadResourceResult, error) {
	opps, err := db.FindOpportunities(h.db, db.OpportunityFilter{Limit: 10000})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	// Group by status and calculate totals
	pipeline := make(map[string]struct {
		Count  int   `json:"count"`
		Amount int64 `json:"total_amount"`
	})
	for _, opp := range opps {
		p := pipeline[opp.Status]
		p.Count++
		p.Amount += opp.Amount
		pipeline[opp.Status] = p
	}

	return jsonResource(uri, pipeline)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
