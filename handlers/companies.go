// ABOUTME: Company MCP tool handlers
// ABOUTME: Implements add_company, find_companies, update_company and delete_company tools
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

type CompanyHandlers struct {
	db *sql.DB
}

func NewCompanyHandlers(database *sql.DB) *CompanyHandlers {
	return &CompanyHandlers{db: database}
}

type AddCompanyInput struct {
	Name     string `json:"name" validate:"required" jsonschema:"Company name (required)"`
	Domain   string `json:"domain,omitempty" validate:"omitempty,fqdn" jsonschema:"Company domain (e.g., acme.com)"`
	Industry string `json:"industry,omitempty" jsonschema:"Industry or sector"`
	Notes    string `json:"notes,omitempty" jsonschema:"Additional notes about the company"`
}

type CompanyOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Domain    string `json:"domain,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *CompanyHandlers) AddCompany(_ context.Context, request *mcp.CallToolRequest, input AddCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, CompanyOutput{}, err
	}

	company := &models.Company{
		Name:     input.Name,
		Domain:   input.Domain,
		Industry: input.Industry,
		Notes:    input.Notes,
	}

	if err := db.CreateCompany(h.db, company); err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to create company: %w", err)
	}

	return nil, companyToOutput(company), nil
}

type FindCompaniesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name and domain)"`
	Limit int    `json:"limit,omitempty" validate:"gte=0,lte=1000" jsonschema:"Maximum number of results (default 10)"`
}

type FindCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
}

func (h *CompanyHandlers) FindCompanies(_ context.Context, request *mcp.CallToolRequest, input FindCompaniesInput) (*mcp.CallToolResult, FindCompaniesOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, FindCompaniesOutput{}, err
	}

	companies, err := db.FindCompanies(h.db, input.Query, input.Limit)
	if err != nil {
		return nil, FindCompaniesOutput{}, fmt.Errorf("failed to find companies: %w", err)
	}

	result := make([]CompanyOutput, len(companies))
	for i, company := range companies {
		result[i] = companyToOutput(&company)
	}

	return nil, FindCompaniesOutput{Companies: result}, nil
}

type UpdateCompanyInput struct {
	CompanyID string `json:"company_id" validate:"required,uuid" jsonschema:"UUID of the company to update"`
	Name      string `json:"name,omitempty" jsonschema:"Updated company name"`
	Domain    string `json:"domain,omitempty" validate:"omitempty,fqdn" jsonschema:"Updated domain"`
	Industry  string `json:"industry,omitempty" jsonschema:"Updated industry"`
	Notes     string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *CompanyHandlers) UpdateCompany(_ context.Context, request *mcp.CallToolRequest, input UpdateCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, CompanyOutput{}, err
	}

	companyID := uuid.MustParse(input.CompanyID)
	company, err := db.GetCompany(h.db, companyID)
	if err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, CompanyOutput{}, fmt.Errorf("company not found: %s", companyID)
	}

	setIfNotEmpty(&company.Name, input.Name)
	setIfNotEmpty(&company.Domain, input.Domain)
	setIfNotEmpty(&company.Industry, input.Industry)
	setIfNotEmpty(&company.Notes, input.Notes)

	if err := db.UpdateCompany(h.db, companyID, company); err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to update company: %w", err)
	}

	return nil, companyToOutput(company), nil
}

type DeleteCompanyInput struct {
	CompanyID string `json:"company_id" validate:"required,uuid" jsonschema:"UUID of the company to delete"`
}

type DeleteCompanyOutput struct {
	Message string `json:"message"`
}

func (h *CompanyHandlers) DeleteCompany(_ context.Context, request *mcp.CallToolRequest, input DeleteCompanyInput) (*mcp.CallToolResult, DeleteCompanyOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, DeleteCompanyOutput{}, err
	}

	companyID := uuid.MustParse(input.CompanyID)
	if err := db.DeleteCompany(h.db, companyID); err != nil {
		return nil, DeleteCompanyOutput{}, fmt.Errorf("failed to delete company: %w", err)
	}

	return nil, DeleteCompanyOutput{
		Message: fmt.Sprintf("Deleted company: %s", companyID),
	}, nil
}

func companyToOutput(company *models.Company) CompanyOutput {
	return CompanyOutput{
		ID:        company.ID.String(),
		Name:      company.Name,
		Domain:    company.Domain,
		Industry:  company.Industry,
		Notes:     company.Notes,
		CreatedAt: company.CreatedAt.Format(time.RFC3339),
		UpdatedAt: company.UpdatedAt.Format(time.RFC3339),
	}
}
