// ABOUTME: Lead scoring CLI commands
// ABOUTME: Prints a contact's score breakdown, suggested actions and the ranked lead list
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/scoring"
	"github.com/harperreed/leadflow/suggestions"
)

// ScoreCommand prints the lead score breakdown for a contact.
func ScoreCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	_ = fs.Parse(args)

	lead, err := loadLead(database, fs)
	if err != nil {
		return err
	}

	ev := lead.Evaluation
	fmt.Printf("%s\n", lead.Contact.Name)
	fmt.Printf("  Score:       %d (%s)\n", ev.Lead.TotalScore, ev.Lead.Level)
	fmt.Printf("  Profile:     %d\n", ev.Lead.Factors.Profile)
	fmt.Printf("  Revenue:     %d\n", ev.Lead.Factors.Revenue)
	fmt.Printf("  Decay:       %d (%d days without contact)\n", ev.Lead.Factors.Decay, lead.Contact.DaysSinceLastInteraction)
	fmt.Printf("  Engagement:  %d\n", ev.Engagement)
	fmt.Printf("  Conversion:  %d%%\n", ev.ConversionProbability)
	if ev.HasActiveDeal {
		fmt.Println("  Open opportunity: yes")
	}

	return nil
}

// SuggestCommand prints the next best actions for a contact.
func SuggestCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	sortBy := fs.String("sort", "rule", "Ordering: rule or priority")
	_ = fs.Parse(args)

	if *sortBy != "rule" && *sortBy != "priority" {
		return fmt.Errorf("invalid --sort: %s", *sortBy)
	}

	lead, err := loadLead(database, fs)
	if err != nil {
		return err
	}

	list := suggestions.Smart(lead.Contact, lead.Activities, lead.Opportunities)
	if *sortBy == "priority" {
		list = suggestions.SortByPriority(list)
	}

	if len(list) == 0 {
		fmt.Printf("No suggestions for %s\n", lead.Contact.Name)
		return nil
	}

	for _, s := range list {
		fmt.Printf("[%s] %s\n", s.Priority, s.Title)
		fmt.Printf("    %s\n", s.Description)
		if s.ActionLabel != "" {
			fmt.Printf("    → %s\n", s.ActionLabel)
		}
	}
	return nil
}

// LeadsCommand ranks contacts by lead score.
func LeadsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("leads", flag.ExitOnError)
	level := fs.String("level", "", "Only this level (hot, warm, cold)")
	limit := fs.Int("limit", 20, "Maximum results")
	_ = fs.Parse(args)

	switch scoring.Level(*level) {
	case "", scoring.LevelHot, scoring.LevelWarm, scoring.LevelCold:
	default:
		return fmt.Errorf("invalid --level: %s", *level)
	}

	leads, err := db.RankLeads(database, scoring.Level(*level), *limit, time.Now())
	if err != nil {
		return fmt.Errorf("failed to rank leads: %w", err)
	}

	if len(leads) == 0 {
		fmt.Println("No leads found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSCORE\tLEVEL\tENGAGEMENT\tCONVERSION\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t----------\t----------\t--")

	for _, l := range leads {
		ev := l.Evaluation
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d%%\t%s\n",
			l.Contact.Name, ev.Lead.TotalScore, ev.Lead.Level, ev.Engagement,
			ev.ConversionProbability, l.Contact.ID.String()[:8])
	}
	_ = w.Flush()

	return nil
}

func loadLead(database *sql.DB, fs *flag.FlagSet) (*db.Lead, error) {
	contactID, err := idArg(fs, "contact")
	if err != nil {
		return nil, err
	}

	lead, err := db.LoadLead(database, contactID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("contact not found: %s", contactID)
	}
	return lead, nil
}
