// ABOUTME: Rule-based next-step suggestions for a contact
// ABOUTME: Evaluates fixed rules over the lead score, status and open opportunities
package suggestions

import (
	"fmt"
	"sort"

	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/scoring"
)

type Type string

const (
	TypeAction  Type = "action"
	TypeInsight Type = "insight"
	TypeWarning Type = "warning"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Stable suggestion ids, one per rule.
const (
	IDCreateOpportunity = "create-opp"
	IDScheduleCall      = "schedule-call"
	IDEnrichData        = "enrich-data"
	IDQualifyLead       = "qualify-lead"
	IDCloseDeal         = "close-deal"
)

type Suggestion struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionLabel string   `json:"action_label,omitempty"`
	ActionLink  string   `json:"action_link,omitempty"`
	Priority    Priority `json:"priority"`
}

// Smart returns the suggestions that apply to a contact, in rule order. The
// activity history is taken alongside the scoring inputs but no rule reads it.
func Smart(contact models.Contact, _ []models.Activity, opportunities []models.Opportunity) []Suggestion {
	lead := scoring.LeadScore(contact)
	score := lead.TotalScore
	hasOpenOpp := scoring.HasOpenOpportunity(opportunities)
	id := contact.ID.String()

	var out []Suggestion

	if score > 70 && !hasOpenOpp {
		out = append(out, Suggestion{
			ID:          IDCreateOpportunity,
			Type:        TypeAction,
			Title:       "Open an opportunity",
			Description: fmt.Sprintf("This lead scores %d and has no open opportunity. It is a good moment to propose a deal.", score),
			ActionLabel: "Create opportunity",
			ActionLink:  "/opportunities/new?contact_id=" + id,
			Priority:    PriorityHigh,
		})
	}

	if contact.DaysSinceLastInteraction > 14 && score > 40 {
		out = append(out, Suggestion{
			ID:          IDScheduleCall,
			Type:        TypeWarning,
			Title:       "Schedule a follow-up call",
			Description: fmt.Sprintf("No interaction for %d days. Reach out before the lead cools down.", contact.DaysSinceLastInteraction),
			ActionLabel: "Schedule call",
			ActionLink:  "/activities/new?type=" + models.ActivityCall + "&contact_id=" + id,
			Priority:    PriorityMedium,
		})
	}

	if contact.Status == models.ContactStatusNew && contact.Email == "" && contact.PhoneMobile == "" {
		out = append(out, Suggestion{
			ID:          IDEnrichData,
			Type:        TypeAction,
			Title:       "Complete the profile",
			Description: "This new contact has no email or mobile phone. Add contact details before reaching out.",
			ActionLabel: "Edit contact",
			ActionLink:  "/contacts/" + id + "/edit",
			Priority:    PriorityHigh,
		})
	} else if contact.Status == models.ContactStatusNew {
		out = append(out, Suggestion{
			ID:          IDQualifyLead,
			Type:        TypeInsight,
			Title:       "Qualify this lead",
			Description: "New contact. Confirm budget, need and timing to move it forward.",
			ActionLabel: "View contact",
			ActionLink:  "/contacts/" + id,
			Priority:    PriorityMedium,
		})
	}

	if hasOpenOpp && score > 80 {
		out = append(out, Suggestion{
			ID:          IDCloseDeal,
			Type:        TypeInsight,
			Title:       "High closing probability",
			Description: fmt.Sprintf("Score %d with an open opportunity. Push for the close.", score),
			Priority:    PriorityHigh,
		})
	}

	return out
}

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// SortByPriority returns a copy ordered high to low. Ties keep rule order.
func SortByPriority(list []Suggestion) []Suggestion {
	sorted := make([]Suggestion, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityRank[sorted[i].Priority] < priorityRank[sorted[j].Priority]
	})
	return sorted
}
