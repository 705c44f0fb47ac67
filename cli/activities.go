// ABOUTME: Activity CLI commands
// ABOUTME: Commands for logging calls, emails, meetings and tasks against contacts
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
)

// LogActivityCommand records an activity for a contact and bumps its last
// contacted timestamp.
func LogActivityCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("log-activity", flag.ExitOnError)
	contact := fs.String("contact", "", "Contact ID (required)")
	activityType := fs.String("type", models.ActivityCall, "Type (tarea, llamada, email, reunion, nota)")
	status := fs.String("status", models.ActivityStatusPending, "Status (pendiente, completada, cancelada)")
	subject := fs.String("subject", "", "Short subject line")
	notes := fs.String("notes", "", "Notes")
	when := fs.String("when", "", "When it happened (RFC3339, default now)")
	due := fs.String("due", "", "Due time for tasks (RFC3339)")
	_ = fs.Parse(args)

	if *contact == "" {
		return fmt.Errorf("--contact is required")
	}
	contactID, err := requireContact(database, *contact)
	if err != nil {
		return err
	}

	activity := &models.Activity{
		ContactID: contactID,
		Type:      *activityType,
		Status:    *status,
		Subject:   *subject,
		Notes:     *notes,
	}

	if *when != "" {
		activity.CreatedAt, err = time.Parse(time.RFC3339, *when)
		if err != nil {
			return fmt.Errorf("invalid --when: %w", err)
		}
	}
	if *due != "" {
		d, err := time.Parse(time.RFC3339, *due)
		if err != nil {
			return fmt.Errorf("invalid --due: %w", err)
		}
		activity.DueAt = &d
	}

	if err := db.LogActivity(database, activity); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	fmt.Printf("✓ Logged %s for contact %s\n", activity.Type, contactID.String()[:8])
	return nil
}

// ListActivitiesCommand shows a contact's activity history, newest first.
func ListActivitiesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-activities", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum results (0 for all)")
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	activities, err := db.ListContactActivities(database, contactID, *limit)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	if len(activities) == 0 {
		fmt.Println("No activities found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tTYPE\tSTATUS\tSUBJECT")
	_, _ = fmt.Fprintln(w, "----\t----\t------\t-------")

	for _, a := range activities {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			a.CreatedAt.Format("2006-01-02 15:04"), a.Type, a.Status, orDash(a.Subject))
	}
	_ = w.Flush()

	return nil
}
