// ABOUTME: Opportunity CLI commands
// ABOUTME: Human-friendly commands for managing sales opportunities
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
)

// AddOpportunityCommand adds a new opportunity.
func AddOpportunityCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-opportunity", flag.ExitOnError)
	title := fs.String("title", "", "Opportunity title (required)")
	company := fs.String("company", "", "Company name")
	contact := fs.String("contact", "", "Contact ID")
	amount := fs.Int64("amount", 0, "Amount in cents")
	currency := fs.String("currency", "EUR", "Currency code")
	status := fs.String("status", models.OpportunityStatusOpen, "Status (abierto, ganado, perdido, descartado)")
	stage := fs.String("stage", "", "Pipeline stage")
	closeDate := fs.String("close-date", "", "Expected close date (YYYY-MM-DD)")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}

	opp := &models.Opportunity{
		Title:    *title,
		Amount:   *amount,
		Currency: *currency,
		Status:   *status,
		Stage:    *stage,
	}

	if *company != "" {
		companyID, err := findOrCreateCompany(database, *company)
		if err != nil {
			return err
		}
		opp.CompanyID = &companyID
	}

	if *contact != "" {
		contactID, err := requireContact(database, *contact)
		if err != nil {
			return err
		}
		opp.ContactID = &contactID
	}

	if *closeDate != "" {
		d, err := time.Parse("2006-01-02", *closeDate)
		if err != nil {
			return fmt.Errorf("invalid --close-date: %w", err)
		}
		opp.ExpectedCloseDate = &d
	}

	if err := db.CreateOpportunity(database, opp); err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}

	fmt.Printf("✓ Opportunity created: %s (ID: %s)\n", opp.Title, opp.ID)
	fmt.Printf("  Amount: %.2f %s\n", float64(opp.Amount)/100.0, opp.Currency)
	fmt.Printf("  Status: %s\n", opp.Status)

	return nil
}

// ListOpportunitiesCommand lists opportunities, newest activity first.
func ListOpportunitiesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-opportunities", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status")
	company := fs.String("company", "", "Filter by company name")
	contact := fs.String("contact", "", "Filter by contact ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	filter := db.OpportunityFilter{
		Status: models.NormalizeOpportunityStatus(*status),
		Limit:  *limit,
	}

	if *company != "" {
		existingCompany, err := db.FindCompanyByName(database, *company)
		if err != nil {
			return fmt.Errorf("failed to lookup company: %w", err)
		}
		if existingCompany == nil {
			fmt.Println("No opportunities found")
			return nil
		}
		filter.CompanyID = &existingCompany.ID
	}

	if *contact != "" {
		contactID, err := uuid.Parse(*contact)
		if err != nil {
			return fmt.Errorf("invalid contact ID: %w", err)
		}
		filter.ContactID = &contactID
	}

	opps, err := db.FindOpportunities(database, filter)
	if err != nil {
		return fmt.Errorf("failed to find opportunities: %w", err)
	}

	if len(opps) == 0 {
		fmt.Println("No opportunities found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tCOMPANY\tAMOUNT\tSTATUS\tSTAGE\tID")
	_, _ = fmt.Fprintln(w, "-----\t-------\t------\t------\t-----\t--")

	var total int64
	for _, opp := range opps {
		companyName := "-"
		if opp.CompanyID != nil {
			if c, err := db.GetCompany(database, *opp.CompanyID); err == nil && c != nil {
				companyName = c.Name
			}
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f %s\t%s\t%s\t%s\n",
			opp.Title, companyName, float64(opp.Amount)/100.0, opp.Currency,
			opp.Status, orDash(opp.Stage), opp.ID.String()[:8])
		total += opp.Amount
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d opportunity(ies) - %.2f\n", len(opps), float64(total)/100.0)
	return nil
}

// UpdateOpportunityCommand changes status, stage or amount of an opportunity.
// Marking it ganado rolls the amount into the contact's revenue.
func UpdateOpportunityCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-opportunity", flag.ExitOnError)
	title := fs.String("title", "", "Opportunity title")
	amount := fs.Int64("amount", -1, "Amount in cents")
	status := fs.String("status", "", "Status (abierto, ganado, perdido, descartado)")
	stage := fs.String("stage", "", "Pipeline stage")
	_ = fs.Parse(args)

	oppID, err := idArg(fs, "opportunity")
	if err != nil {
		return err
	}

	opp, err := db.GetOpportunity(database, oppID)
	if err != nil {
		return fmt.Errorf("failed to get opportunity: %w", err)
	}
	if opp == nil {
		return fmt.Errorf("opportunity not found: %s", oppID)
	}

	setIfNotEmpty(&opp.Title, *title)
	setIfNotEmpty(&opp.Status, *status)
	setIfNotEmpty(&opp.Stage, *stage)
	if *amount >= 0 {
		opp.Amount = *amount
	}

	if err := db.UpdateOpportunity(database, opp); err != nil {
		return fmt.Errorf("failed to update opportunity: %w", err)
	}

	fmt.Printf("✓ Opportunity updated: %s (%s)\n", opp.Title, opp.Status)
	return nil
}

func requireContact(database *sql.DB, idStr string) (uuid.UUID, error) {
	contactID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid contact ID: %w", err)
	}
	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return uuid.Nil, fmt.Errorf("contact not found: %s", contactID)
	}
	return contactID, nil
}
