// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides contact summary, pipeline, follow-up and automation design prompts
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/suggestions"
	"github.com/harperreed/leadflow/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// Prompts lists the prompt templates this handler serves.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "contact-summary",
			Description: "Summarize a contact with its lead score and suggested next steps",
			Arguments:   []*mcp.PromptArgument{{Name: "contact_id", Description: "Contact UUID", Required: true}},
		},
		{
			Name:        "pipeline-analysis",
			Description: "Analyze the opportunity pipeline by status",
		},
		{
			Name:        "follow-up-suggestions",
			Description: "List contacts that have gone quiet",
			Arguments:   []*mcp.PromptArgument{{Name: "days_since_contact", Description: "Days without contact (default 30)"}},
		},
		{
			Name:        "automation-design",
			Description: "Help design an automation from the available triggers and actions",
			Arguments:   []*mcp.PromptArgument{{Name: "goal", Description: "What the automation should achieve", Required: true}},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "contact-summary":
		return h.getContactSummaryPrompt(arguments)
	case "pipeline-analysis":
		return h.getPipelineAnalysisPrompt()
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt(arguments)
	case "automation-design":
		return h.getAutomationDesignPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getContactSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	contactIDStr, ok := args["contact_id"]
	if !ok {
		return nil, fmt.Errorf("contact_id is required")
	}

	contactID, err := uuid.Parse(contactIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid contact_id: %w", err)
	}

	lead, err := db.LoadLead(h.db, contactID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("contact not found: %s", contactID)
	}
	contact := lead.Contact

	var companyName string
	if contact.CompanyID != nil {
		company, err := db.GetCompany(h.db, *contact.CompanyID)
		if err == nil && company != nil {
			companyName = company.Name
		}
	}

	var promptText strings.Builder
	promptText.WriteString("Please provide a comprehensive summary of this contact:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", contact.Name))
	promptText.WriteString(fmt.Sprintf("Status: %s\n", contact.Status))
	if contact.JobTitle != "" {
		promptText.WriteString(fmt.Sprintf("Job Title: %s\n", contact.JobTitle))
	}
	if companyName != "" {
		promptText.WriteString(fmt.Sprintf("Company: %s\n", companyName))
	}
	promptText.WriteString(fmt.Sprintf("Days since last interaction: %d\n", contact.DaysSinceLastInteraction))

	ev := lead.Evaluation
	promptText.WriteString(fmt.Sprintf("\nLead score: %d (%s)\n", ev.Lead.TotalScore, ev.Lead.Level))
	promptText.WriteString(fmt.Sprintf("  profile %d, activity %d, revenue %d, decay -%d\n",
		ev.Lead.Factors.Profile, ev.Lead.Factors.Activity, ev.Lead.Factors.Revenue, ev.Lead.Factors.Decay))
	promptText.WriteString(fmt.Sprintf("Engagement (30 days): %d\n", ev.Engagement))
	promptText.WriteString(fmt.Sprintf("Conversion probability: %d%%\n", ev.ConversionProbability))
	promptText.WriteString(fmt.Sprintf("Activities logged: %d, opportunities: %d\n", len(lead.Activities), len(lead.Opportunities)))

	if list := suggestions.Smart(contact, lead.Activities, lead.Opportunities); len(list) > 0 {
		promptText.WriteString("\nSuggested next steps:\n")
		for _, s := range list {
			promptText.WriteString(fmt.Sprintf("  - [%s] %s: %s\n", s.Priority, s.Title, s.Description))
		}
	}

	if contact.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", contact.Notes))
	}

	promptText.WriteString("\nPlease analyze this contact and provide:")
	promptText.WriteString("\n1. A brief summary of their role and background")
	promptText.WriteString("\n2. Recommendations for next steps or follow-up actions")
	promptText.WriteString("\n3. Any patterns or insights from their interaction history")

	return userPrompt(fmt.Sprintf("Summary for contact: %s", contact.Name), promptText.String()), nil
}

func (h *PromptHandlers) getPipelineAnalysisPrompt() (*mcp.GetPromptResult, error) {
	opps, err := db.FindOpportunities(h.db, db.OpportunityFilter{Limit: 10000})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	statusCount := make(map[string]int)
	statusValue := make(map[string]int64)
	for _, opp := range opps {
		statusCount[opp.Status]++
		statusValue[opp.Status] += opp.Amount
	}

	var promptText strings.Builder
	promptText.WriteString("Please analyze the current opportunity pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Opportunities: %d\n\n", len(opps)))
	promptText.WriteString("Pipeline by Status:\n")
	for _, status := range models.OpportunityStatuses {
		if n := statusCount[status]; n > 0 {
			promptText.WriteString(fmt.Sprintf("  - %s: %d, %.2f\n", status, n, float64(statusValue[status])/100))
		}
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health and distribution")
	promptText.WriteString("\n2. Recommendations for opportunities that may need attention")
	promptText.WriteString("\n3. Suggestions for improving conversion rates")

	return userPrompt("Opportunity pipeline analysis", promptText.String()), nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	contacts, err := db.FindContacts(h.db, "", nil, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	// Default to 30 days
	threshold := 30
	if d, ok := args["days_since_contact"]; ok && d != "" {
		threshold, err = strconv.Atoi(d)
		if err != nil {
			return nil, fmt.Errorf("invalid days_since_contact: %w", err)
		}
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Contacts that may need follow-up (no contact in %d+ days):\n\n", threshold))

	count := 0
	for _, contact := range contacts {
		switch {
		case contact.LastContactedAt == nil:
			promptText.WriteString(fmt.Sprintf("- %s (never contacted)\n", contact.Name))
			count++
		case contact.DaysSinceLastInteraction >= threshold:
			promptText.WriteString(fmt.Sprintf("- %s (%d days)\n", contact.Name, contact.DaysSinceLastInteraction))
			count++
		}
	}

	if count == 0 {
		promptText.WriteString("All contacts have been contacted recently.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which contacts to reach out to first")
	promptText.WriteString("\n2. Suggest personalized outreach approaches for each")
	promptText.WriteString("\n3. Identify any patterns in follow-up gaps")

	return userPrompt("Follow-up suggestions for contacts", promptText.String()), nil
}

func (h *PromptHandlers) getAutomationDesignPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	goal, ok := args["goal"]
	if !ok || goal == "" {
		return nil, fmt.Errorf("goal is required")
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Design a CRM automation for this goal: %s\n\n", goal))

	promptText.WriteString("Available triggers:\n")
	for _, t := range workflow.TriggerTypes {
		promptText.WriteString(fmt.Sprintf("  - %s\n", t))
	}

	promptText.WriteString("\nAvailable actions and their config keys:\n")
	for _, a := range workflow.ActionTypes {
		promptText.WriteString(fmt.Sprintf("  - %s: %s\n", a, strings.Join(workflow.ConfigKeys(a), ", ")))
	}

	promptText.WriteString("\nReply with a save_automation call: a name, a trigger_type and an ordered")
	promptText.WriteString(" list of actions shaped as {\"type\": \"<action>\", ...config}.")

	return userPrompt("Automation design", promptText.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
