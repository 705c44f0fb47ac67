// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, Company, Opportunity, Activity and Automation structs
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID                    uuid.UUID  `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email,omitempty"`
	PhoneMobile           string     `json:"phone_mobile,omitempty"`
	PhoneLandline         string     `json:"phone_landline,omitempty"`
	JobTitle              string     `json:"job_title,omitempty"`
	CompanyID             *uuid.UUID `json:"company_id,omitempty"`
	Address               string     `json:"address,omitempty"`
	PreferredLanguage     string     `json:"preferred_language,omitempty"`
	Status                string     `json:"status"`
	TotalRevenueGenerated float64    `json:"total_revenue_generated"`
	Notes                 string     `json:"notes,omitempty"`
	LastContactedAt       *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// DaysSinceLastInteraction is derived when the contact is read from the
	// store and is never negative.
	DaysSinceLastInteraction int `json:"days_since_last_interaction"`
}

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Opportunity struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Amount            int64      `json:"amount,omitempty"` // in cents
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	Stage             string     `json:"stage,omitempty"`
	CompanyID         *uuid.UUID `json:"company_id,omitempty"`
	ContactID         *uuid.UUID `json:"contact_id,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Activity struct {
	ID        uuid.UUID  `json:"id"`
	ContactID uuid.UUID  `json:"contact_id"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Subject   string     `json:"subject,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Automation is a stored automation draft. Definition holds the editable
// draft (with step ids) and Payload the flattened form handed to executors.
type Automation struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TriggerType string    `json:"trigger_type"`
	Active      bool      `json:"active"`
	Definition  string    `json:"definition"`
	Payload     string    `json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Contact status constants.
const (
	ContactStatusNew       = "nuevo"
	ContactStatusContacted = "contactado"
	ContactStatusQualified = "calificado"
	ContactStatusCustomer  = "cliente"
	ContactStatusInactive  = "inactivo"
	ContactStatusDiscarded = "descartado"
)

// ContactStatuses lists every valid contact status in funnel order.
var ContactStatuses = []string{
	ContactStatusNew,
	ContactStatusContacted,
	ContactStatusQualified,
	ContactStatusCustomer,
	ContactStatusInactive,
	ContactStatusDiscarded,
}

// Activity type constants.
const (
	ActivityTask    = "tarea"
	ActivityCall    = "llamada"
	ActivityEmail   = "email"
	ActivityMeeting = "reunion"
	ActivityNote    = "nota"
)

var ActivityTypes = []string{
	ActivityTask,
	ActivityCall,
	ActivityEmail,
	ActivityMeeting,
	ActivityNote,
}

// Activity status constants.
const (
	ActivityStatusPending   = "pendiente"
	ActivityStatusCompleted = "completada"
	ActivityStatusCancelled = "cancelada"
)

// Opportunity status constants.
const (
	OpportunityStatusOpen      = "abierto"
	OpportunityStatusWon       = "ganado"
	OpportunityStatusLost      = "perdido"
	OpportunityStatusDiscarded = "descartado"
)

var OpportunityStatuses = []string{
	OpportunityStatusOpen,
	OpportunityStatusWon,
	OpportunityStatusLost,
	OpportunityStatusDiscarded,
}

// NormalizeOpportunityStatus maps the legacy open/closed spellings onto the
// current status set. Unknown values are returned lowercased and trimmed.
func NormalizeOpportunityStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case "open":
		return OpportunityStatusOpen
	case "closed", "won", "closed_won":
		return OpportunityStatusWon
	case "lost", "closed_lost":
		return OpportunityStatusLost
	}
	return s
}

// IsValidContactStatus reports whether status is one of ContactStatuses.
func IsValidContactStatus(status string) bool {
	return contains(ContactStatuses, status)
}

func IsValidActivityType(t string) bool {
	return contains(ActivityTypes, t)
}

func IsValidOpportunityStatus(status string) bool {
	return contains(OpportunityStatuses, status)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
