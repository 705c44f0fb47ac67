// ABOUTME: Company CLI commands
// ABOUTME: Adds, lists and deletes companies with their contact and pipeline footprint
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
)

// AddCompanyCommand adds a new company
func AddCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	name := fs.String("name", "", "Company name (required)")
	domain := fs.String("domain", "", "Company domain (e.g., acme.com)")
	industry := fs.String("industry", "", "Industry")
	notes := fs.String("notes", "", "Notes about the company")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	company := &models.Company{
		Name:     *name,
		Domain:   *domain,
		Industry: *industry,
		Notes:    *notes,
	}

	if err := db.CreateCompany(database, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	fmt.Printf("✓ Company created: %s (ID: %s)\n", company.Name, company.ID)
	if company.Domain != "" {
		fmt.Printf("  Domain: %s\n", company.Domain)
	}
	if company.Industry != "" {
		fmt.Printf("  Industry: %s\n", company.Industry)
	}

	return nil
}

// ListCompaniesCommand lists all companies
func ListCompaniesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-companies", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or domain")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	companies, err := db.FindCompanies(database, *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Println("No companies found")
		return nil
	}

	// Pretty print results
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDOMAIN\tINDUSTRY\tCONTACTS\tOPEN PIPELINE\tID")
	_, _ = fmt.Fprintln(w, "----\t------\t--------\t--------\t-------------\t--")

	for _, company := range companies {
		contacts, pipeline, err := companyFootprint(database, company.ID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n",
			company.Name, orDash(company.Domain), orDash(company.Industry),
			contacts, float64(pipeline)/100.0, company.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d company(ies)\n", len(companies))
	return nil
}

// DeleteCompanyCommand deletes a company. Companies with open opportunities
// are refused.
func DeleteCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-company", flag.ExitOnError)
	_ = fs.Parse(args)

	companyID, err := idArg(fs, "company")
	if err != nil {
		return err
	}

	company, err := db.GetCompany(database, companyID)
	if err != nil {
		return fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return fmt.Errorf("company not found: %s", companyID)
	}

	if err := db.DeleteCompany(database, companyID); err != nil {
		return err
	}

	fmt.Printf("✓ Company deleted: %s\n", company.Name)
	return nil
}

// companyFootprint counts a company's contacts and sums its open opportunity
// amounts in cents.
func companyFootprint(database *sql.DB, companyID uuid.UUID) (int, int64, error) {
	contacts, err := db.FindContacts(database, "", &companyID, 10000)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to find contacts: %w", err)
	}

	opps, err := db.FindOpportunities(database, db.OpportunityFilter{
		Status:    models.OpportunityStatusOpen,
		CompanyID: &companyID,
		Limit:     10000,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to find opportunities: %w", err)
	}

	var pipeline int64
	for _, o := range opps {
		pipeline += o.Amount
	}
	return len(contacts), pipeline, nil
}
