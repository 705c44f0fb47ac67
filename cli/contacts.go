// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
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

// AddContactCommand adds a new contact.
func AddContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address")
	mobile := fs.String("mobile", "", "Mobile phone number")
	landline := fs.String("landline", "", "Landline phone number")
	jobTitle := fs.String("job-title", "", "Job title")
	company := fs.String("company", "", "Company name")
	address := fs.String("address", "", "Postal address")
	language := fs.String("language", "", "Preferred language (e.g., es, en)")
	status := fs.String("status", models.ContactStatusNew, "Status (nuevo, contactado, calificado, cliente, inactivo, descartado)")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if !models.IsValidContactStatus(*status) {
		return fmt.Errorf("invalid status: %s", *status)
	}

	contact := &models.Contact{
		Name:              *name,
		Email:             *email,
		PhoneMobile:       *mobile,
		PhoneLandline:     *landline,
		JobTitle:          *jobTitle,
		Address:           *address,
		PreferredLanguage: *language,
		Status:            *status,
		Notes:             *notes,
	}

	if *company != "" {
		companyID, err := findOrCreateCompany(database, *company)
		if err != nil {
			return err
		}
		contact.CompanyID = &companyID
	}

	if err := db.CreateContact(database, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	if contact.Email != "" {
		fmt.Printf("  Email: %s\n", contact.Email)
	}
	if *company != "" {
		fmt.Printf("  Company: %s\n", *company)
	}

	return nil
}

// ListContactsCommand lists contacts.
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or email")
	company := fs.String("company", "", "Filter by company name")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	var companyIDPtr *uuid.UUID
	if *company != "" {
		existingCompany, err := db.FindCompanyByName(database, *company)
		if err != nil {
			return fmt.Errorf("failed to lookup company: %w", err)
		}
		if existingCompany == nil {
			fmt.Println("No contacts found")
			return nil
		}
		companyIDPtr = &existingCompany.ID
	}

	contacts, err := db.FindContacts(database, *query, companyIDPtr, *limit)
	if err != nil {
		return fmt.Errorf("failed to find contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tPHONE\tSTATUS\tDAYS\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t------\t----\t--")

	for _, contact := range contacts {
		phone := contact.PhoneMobile
		if phone == "" {
			phone = contact.PhoneLandline
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			contact.Name, orDash(contact.Email), orDash(phone), contact.Status,
			contact.DaysSinceLastInteraction, contact.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand updates an existing contact.
func UpdateContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	email := fs.String("email", "", "Email address")
	mobile := fs.String("mobile", "", "Mobile phone number")
	landline := fs.String("landline", "", "Landline phone number")
	jobTitle := fs.String("job-title", "", "Job title")
	company := fs.String("company", "", "Company name")
	address := fs.String("address", "", "Postal address")
	language := fs.String("language", "", "Preferred language")
	status := fs.String("status", "", "Status")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	existing, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("contact not found: %s", contactID)
	}

	if *status != "" && !models.IsValidContactStatus(*status) {
		return fmt.Errorf("invalid status: %s", *status)
	}

	setIfNotEmpty(&existing.Name, *name)
	setIfNotEmpty(&existing.Email, *email)
	setIfNotEmpty(&existing.PhoneMobile, *mobile)
	setIfNotEmpty(&existing.PhoneLandline, *landline)
	setIfNotEmpty(&existing.JobTitle, *jobTitle)
	setIfNotEmpty(&existing.Address, *address)
	setIfNotEmpty(&existing.PreferredLanguage, *language)
	setIfNotEmpty(&existing.Status, *status)
	setIfNotEmpty(&existing.Notes, *notes)

	if *company != "" {
		companyID, err := findOrCreateCompany(database, *company)
		if err != nil {
			return err
		}
		existing.CompanyID = &companyID
	}

	if err := db.UpdateContact(database, contactID, existing); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s (ID: %s)\n", existing.Name, contactID)
	return nil
}

// DeleteContactCommand deletes a contact along with its activities.
func DeleteContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", contactID)
	}

	if err := db.DeleteContact(database, contactID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	fmt.Printf("✓ Contact deleted: %s\n", contactID)
	return nil
}

func findOrCreateCompany(database *sql.DB, name string) (uuid.UUID, error) {
	existing, err := db.FindCompanyByName(database, name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to lookup company: %w", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	company := &models.Company{Name: name}
	if err := db.CreateCompany(database, company); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company.ID, nil
}

// idArg parses the first positional argument as a UUID.
func idArg(fs *flag.FlagSet, entity string) (uuid.UUID, error) {
	if fs.NArg() < 1 {
		return uuid.Nil, fmt.Errorf("%s ID is required", entity)
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", entity, err)
	}
	return id, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
