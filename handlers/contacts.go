// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact and delete_contact tools
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

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type AddContactInput struct {
	Name              string `json:"name" validate:"required" jsonschema:"Contact name (required)"`
	Email             string `json:"email,omitempty" validate:"omitempty,email" jsonschema:"Contact email address"`
	PhoneMobile       string `json:"phone_mobile,omitempty" jsonschema:"Mobile phone number"`
	PhoneLandline     string `json:"phone_landline,omitempty" jsonschema:"Landline phone number"`
	JobTitle          string `json:"job_title,omitempty" jsonschema:"Job title"`
	CompanyName       string `json:"company_name,omitempty" jsonschema:"Company name (will be looked up or created)"`
	Address           string `json:"address,omitempty" jsonschema:"Postal address"`
	PreferredLanguage string `json:"preferred_language,omitempty" jsonschema:"Preferred language code (e.g., es, en)"`
	Status            string `json:"status,omitempty" validate:"omitempty,oneof=nuevo contactado calificado cliente inactivo descartado" jsonschema:"Contact status (default nuevo)"`
	Notes             string `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
}

type ContactOutput struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Email                    string  `json:"email,omitempty"`
	PhoneMobile              string  `json:"phone_mobile,omitempty"`
	PhoneLandline            string  `json:"phone_landline,omitempty"`
	JobTitle                 string  `json:"job_title,omitempty"`
	CompanyID                *string `json:"company_id,omitempty"`
	Address                  string  `json:"address,omitempty"`
	PreferredLanguage        string  `json:"preferred_language,omitempty"`
	Status                   string  `json:"status"`
	TotalRevenueGenerated    float64 `json:"total_revenue_generated"`
	Notes                    string  `json:"notes,omitempty"`
	LastContactedAt          *string `json:"last_contacted_at,omitempty"`
	DaysSinceLastInteraction int     `json:"days_since_last_interaction"`
	CreatedAt                string  `json:"created_at"`
	UpdatedAt                string  `json:"updated_at"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, ContactOutput{}, err
	}

	contact := &models.Contact{
		Name:              input.Name,
		Email:             input.Email,
		PhoneMobile:       input.PhoneMobile,
		PhoneLandline:     input.PhoneLandline,
		JobTitle:          input.JobTitle,
		Address:           input.Address,
		PreferredLanguage: input.PreferredLanguage,
		Status:            input.Status,
		Notes:             input.Notes,
	}

	// Handle company lookup/creation if company_name provided
	if input.CompanyName != "" {
		company, err := findOrCreateCompany(h.db, input.CompanyName)
		if err != nil {
			return nil, ContactOutput{}, err
		}
		contact.CompanyID = &company.ID
	}

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search query (searches name and email)"`
	CompanyID string `json:"company_id,omitempty" validate:"omitempty,uuid" jsonschema:"Filter by company ID"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=1000" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, FindContactsOutput{}, err
	}

	var companyID *uuid.UUID
	if input.CompanyID != "" {
		cid := uuid.MustParse(input.CompanyID)
		companyID = &cid
	}

	contacts, err := db.FindContacts(h.db, input.Query, companyID, input.Limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	result := make([]ContactOutput, len(contacts))
	for i, contact := range contacts {
		result[i] = contactToOutput(&contact)
	}

	return nil, FindContactsOutput{Contacts: result}, nil
}

type UpdateContactInput struct {
	ID                string `json:"id" validate:"required,uuid" jsonschema:"Contact ID (required)"`
	Name              string `json:"name,omitempty" jsonschema:"Updated contact name"`
	Email             string `json:"email,omitempty" validate:"omitempty,email" jsonschema:"Updated email address"`
	PhoneMobile       string `json:"phone_mobile,omitempty" jsonschema:"Updated mobile phone"`
	PhoneLandline     string `json:"phone_landline,omitempty" jsonschema:"Updated landline phone"`
	JobTitle          string `json:"job_title,omitempty" jsonschema:"Updated job title"`
	Address           string `json:"address,omitempty" jsonschema:"Updated address"`
	PreferredLanguage string `json:"preferred_language,omitempty" jsonschema:"Updated preferred language"`
	Status            string `json:"status,omitempty" validate:"omitempty,oneof=nuevo contactado calificado cliente inactivo descartado" jsonschema:"Updated status"`
	Notes             string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *ContactHandlers) UpdateContact(_ context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, ContactOutput{}, err
	}

	contactID := uuid.MustParse(input.ID)
	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact not found")
	}

	// Update fields if provided
	setIfNotEmpty(&contact.Name, input.Name)
	setIfNotEmpty(&contact.Email, input.Email)
	setIfNotEmpty(&contact.PhoneMobile, input.PhoneMobile)
	setIfNotEmpty(&contact.PhoneLandline, input.PhoneLandline)
	setIfNotEmpty(&contact.JobTitle, input.JobTitle)
	setIfNotEmpty(&contact.Address, input.Address)
	setIfNotEmpty(&contact.PreferredLanguage, input.PreferredLanguage)
	setIfNotEmpty(&contact.Status, input.Status)
	setIfNotEmpty(&contact.Notes, input.Notes)

	if err := db.UpdateContact(h.db, contactID, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type DeleteContactInput struct {
	ID string `json:"id" validate:"required,uuid" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, DeleteContactOutput{}, err
	}

	contactID := uuid.MustParse(input.ID)
	if err := db.DeleteContact(h.db, contactID); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteContactOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted contact: %s", contactID),
	}, nil
}

func findOrCreateCompany(database *sql.DB, name string) (*models.Company, error) {
	company, err := db.FindCompanyByName(database, name)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup company: %w", err)
	}
	if company != nil {
		return company, nil
	}

	company = &models.Company{Name: name}
	if err := db.CreateCompany(database, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func contactToOutput(contact *models.Contact) ContactOutput {
	output := ContactOutput{
		ID:                       contact.ID.String(),
		Name:                     contact.Name,
		Email:                    contact.Email,
		PhoneMobile:              contact.PhoneMobile,
		PhoneLandline:            contact.PhoneLandline,
		JobTitle:                 contact.JobTitle,
		Address:                  contact.Address,
		PreferredLanguage:        contact.PreferredLanguage,
		Status:                   contact.Status,
		TotalRevenueGenerated:    contact.TotalRevenueGenerated,
		Notes:                    contact.Notes,
		DaysSinceLastInteraction: contact.DaysSinceLastInteraction,
		CreatedAt:                contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                contact.UpdatedAt.Format(time.RFC3339),
	}

	if contact.CompanyID != nil {
		cid := contact.CompanyID.String()
		output.CompanyID = &cid
	}

	if contact.LastContactedAt != nil {
		lca := contact.LastContactedAt.Format(time.RFC3339)
		output.LastContactedAt = &lca
	}

	return output
}
