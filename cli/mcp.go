// ABOUTME: MCP server subcommand
// ABOUTME: Registers CRM, lead scoring and automation tools and serves them on stdio
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/harperreed/leadflow/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverVersion = "0.2.0"

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB, name string) error {
	log.Printf("Starting %s MCP server...", name)

	server := NewMCPServer(db, name)
	return server.Run(context.Background(), &mcp.StdioTransport{})
}

// NewMCPServer builds a server with every tool, resource and prompt registered.
func NewMCPServer(db *sql.DB, name string) *mcp.Server {
	companyHandlers := handlers.NewCompanyHandlers(db)
	contactHandlers := handlers.NewContactHandlers(db)
	opportunityHandlers := handlers.NewOpportunityHandlers(db)
	activityHandlers := handlers.NewActivityHandlers(db)
	leadHandlers := handlers.NewLeadHandlers(db)
	automationHandlers := handlers.NewAutomationHandlers(db)
	vizHandlers := handlers.NewVizHandlers(db)
	queryHandlers := handlers.NewQueryHandlers(db)
	resourceHandlers := handlers.NewResourceHandlers(db)
	promptHandlers := handlers.NewPromptHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: serverVersion,
	}, nil)

	// Companies
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_company",
		Description: "Add a new company to the CRM",
	}, companyHandlers.AddCompany)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_companies",
		Description: "Search for companies by name or domain",
	}, companyHandlers.FindCompanies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_company",
		Description: "Update an existing company's information",
	}, companyHandlers.UpdateCompany)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_company",
		Description: "Delete a company with no open opportunities; its contacts are detached",
	}, companyHandlers.DeleteCompany)

	// Contacts
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, email, or company",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact and its activities",
	}, contactHandlers.DeleteContact)

	// Opportunities
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_opportunity",
		Description: "Create a sales opportunity for a company and/or contact",
	}, opportunityHandlers.CreateOpportunity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_opportunity",
		Description: "Update an opportunity; marking it ganado adds its amount to the contact's revenue",
	}, opportunityHandlers.UpdateOpportunity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_opportunities",
		Description: "List opportunities filtered by status, company or contact",
	}, opportunityHandlers.FindOpportunities)

	// Activities
	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Log a call, email, meeting, task or note for a contact",
	}, activityHandlers.LogActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List a contact's activities, newest first",
	}, activityHandlers.ListActivities)

	// Lead scoring
	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_contact",
		Description: "Compute a contact's lead score, level, engagement and conversion probability",
	}, leadHandlers.ScoreContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_actions",
		Description: "Suggest next best actions for a contact",
	}, leadHandlers.SuggestActions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rank_leads",
		Description: "Rank contacts by lead score, optionally filtered by level",
	}, leadHandlers.RankLeads)

	// Automations
	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_automation",
		Description: "Create or replace an automation from a trigger and an ordered list of actions",
	}, automationHandlers.SaveAutomation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_automations",
		Description: "List stored automations",
	}, automationHandlers.ListAutomations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_automation",
		Description: "Get an automation's payload and any incomplete step configuration",
	}, automationHandlers.GetAutomation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_automation_active",
		Description: "Activate or deactivate an automation",
	}, automationHandlers.SetAutomationActive)

	// Visualization and query
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz DOT graph of a contact, the pipeline, or an automation",
	}, vizHandlers.GenerateGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_crm",
		Description: "Universal query tool for flexible filtering across contacts, companies, opportunities and automations",
	}, queryHandlers.QueryCRM)

	registerResources(server, resourceHandlers)

	for _, prompt := range promptHandlers.Prompts() {
		server.AddPrompt(prompt, promptHandlers.GetPrompt)
	}

	return server
}

func registerResources(server *mcp.Server, h *handlers.ResourceHandlers) {
	for _, r := range []struct{ uri, name, description string }{
		{"crm://contacts", "contacts", "All contacts"},
		{"crm://companies", "companies", "All companies"},
		{"crm://opportunities", "opportunities", "All opportunities"},
		{"crm://leads", "leads", "Contacts ranked by lead score"},
		{"crm://automations", "automations", "Stored automations"},
		{"crm://pipeline", "pipeline", "Opportunity counts and totals by status"},
	} {
		server.AddResource(&mcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.description,
			MIMEType:    "application/json",
		}, h.ReadResource)
	}

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://contacts/{id}",
		Name:        "contact",
		Description: "A contact with its evaluation, suggestions, activities and opportunities",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://companies/{id}",
		Name:        "company",
		Description: "A company with its contacts and opportunities",
		MIMEType:    "application/json",
	}, h.ReadResource)
}
