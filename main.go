// ABOUTME: Entry point for the leadflow MCP server and CLI
// ABOUTME: Routes to MCP server, TUI or CLI commands based on arguments
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/leadflow/cli"
	"github.com/harperreed/leadflow/config"
	"github.com/harperreed/leadflow/db"
)

const version = "0.2.0"

type command func(*sql.DB, []string) error

var crmCommands = map[string]command{
	"add-contact":        cli.AddContactCommand,
	"list-contacts":      cli.ListContactsCommand,
	"update-contact":     cli.UpdateContactCommand,
	"delete-contact":     cli.DeleteContactCommand,
	"add-company":        cli.AddCompanyCommand,
	"list-companies":     cli.ListCompaniesCommand,
	"delete-company":     cli.DeleteCompanyCommand,
	"add-opportunity":    cli.AddOpportunityCommand,
	"list-opportunities": cli.ListOpportunitiesCommand,
	"update-opportunity": cli.UpdateOpportunityCommand,
	"log-activity":       cli.LogActivityCommand,
	"list-activities":    cli.ListActivitiesCommand,
}

var automationCommands = map[string]command{
	"create":      cli.CreateAutomationCommand,
	"list":        cli.ListAutomationsCommand,
	"show":        cli.ShowAutomationCommand,
	"add-step":    cli.AddStepCommand,
	"remove-step": cli.RemoveStepCommand,
	"move-step":   cli.MoveStepCommand,
	"set-config":  cli.SetConfigCommand,
	"activate":    cli.SetActiveCommand(true),
	"deactivate":  cli.SetActiveCommand(false),
	"payload":     cli.PayloadCommand,
	"delete":      cli.DeleteAutomationCommand,
}

var vizCommands = map[string]command{
	"automation": cli.VizAutomationCommand,
	"pipeline":   cli.VizPipelineCommand,
	"contact":    cli.VizContactCommand,
	"dashboard":  cli.VizDashboardCommand,
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/leadflow/leadflow.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("leadflow version %s\n", version)
		os.Exit(0)
	}

	cfg := config.Load(*dbPath)

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized at %s", cfg.DBPath)
		return
	}

	command, commandArgs := args[0], args[1:]

	switch command {
	case "mcp":
		// stdout belongs to the protocol, so logs go to stderr only
		if err := cli.MCPCommand(database, cfg.MCPName); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}
	case "tui":
		run(cli.TUICommand, database, commandArgs)
	case "score":
		run(cli.ScoreCommand, database, commandArgs)
	case "suggest":
		run(cli.SuggestCommand, database, commandArgs)
	case "leads":
		run(cli.LeadsCommand, database, commandArgs)
	case "crm":
		dispatch("crm", crmCommands, database, commandArgs)
	case "automation":
		dispatch("automation", automationCommands, database, commandArgs)
	case "viz":
		dispatch("viz", vizCommands, database, commandArgs)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func dispatch(group string, commands map[string]command, database *sql.DB, args []string) {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n\n", group)
		printUsage()
		os.Exit(1)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", group, args[0])
		printUsage()
		os.Exit(1)
	}
	run(cmd, database, args[1:])
}

func run(cmd command, database *sql.DB, args []string) {
	if err := cmd(database, args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`leadflow v%s - CRM with lead scoring and automations

USAGE:
  leadflow [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/leadflow/leadflow.db,
                         or $LEADFLOW_DB_PATH)
  --init                 Initialize database and exit

COMMANDS:
  mcp                    Start MCP server on stdio
  tui                    Open the interactive lead board
  score <contact-id>     Show a contact's lead score breakdown
  suggest <contact-id>   Suggest next actions for a contact
    --sort rule|priority     Ordering (default: rule)
  leads                  Rank contacts by lead score
    --level hot|warm|cold    Only this level
    --limit <n>              Max results (default: 20)
  crm                    Contact, company, opportunity and activity commands
  automation             Automation drafting commands
  viz                    Visualization commands

CRM COMMANDS:
  leadflow crm add-contact          --name <name> [--email --mobile --landline --job-title
                                    --company --address --language --status --notes]
  leadflow crm list-contacts        [--query <text>] [--company <name>] [--limit <n>]
  leadflow crm update-contact       [flags] <id>
  leadflow crm delete-contact       <id>
  leadflow crm add-company          --name <name> [--domain --industry --notes]
  leadflow crm list-companies       [--query <text>] [--limit <n>]
  leadflow crm delete-company       <id>
  leadflow crm add-opportunity      --title <title> [--company --contact --amount <cents>
                                    --currency --status --stage --close-date YYYY-MM-DD]
  leadflow crm list-opportunities   [--status --company --contact --limit]
  leadflow crm update-opportunity   [--title --amount --status --stage] <id>
  leadflow crm log-activity         --contact <id> [--type --status --subject --notes
                                    --when RFC3339 --due RFC3339]
  leadflow crm list-activities      [--limit <n>] <contact-id>
  Note: flags must come before positional IDs

AUTOMATION COMMANDS:
  leadflow automation create        --name <name> [--trigger <type>] [--description <text>]
  leadflow automation list          [--trigger <type>]
  leadflow automation show          <id>
  leadflow automation add-step      [--at <n>] <id> <action-type>
  leadflow automation remove-step   <id> <step>
  leadflow automation move-step     <id> <from-step> <to-step>
  leadflow automation set-config    [--unset k1,k2] <id> <step> key=value...
  leadflow automation activate      <id>
  leadflow automation deactivate    <id>
  leadflow automation payload       <id>
  leadflow automation delete        <id>
  Steps may be given by id or 1-based position.

VIZ COMMANDS:
  leadflow viz automation <id>      Automation flow as DOT
  leadflow viz pipeline             Companies and opportunities as DOT
  leadflow viz contact <id>         One contact's neighbourhood as DOT
  leadflow viz dashboard            Lead levels and pipeline summary
    --output <file>                 Write DOT to a file instead of stdout

EXAMPLES:
  leadflow crm add-contact --name "Ana Ruiz" --email ana@acme.es --company "Acme"
  leadflow crm add-opportunity --title "Licencias" --company "Acme" --amount 1500000
  leadflow leads --level warm
  leadflow automation create --name "Bienvenida" --trigger contact_created
  leadflow automation add-step <id> send_email
  leadflow automation set-config <id> 1 subject="Hola" template=welcome

`, version)
}
