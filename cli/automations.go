// ABOUTME: Automation CLI commands
// ABOUTME: Builds and edits stored automation drafts step by step
package cli

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/workflow"
)

// CreateAutomationCommand stores a new, inactive automation with no steps.
func CreateAutomationCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation create", flag.ExitOnError)
	name := fs.String("name", "", "Automation name (required)")
	description := fs.String("description", "", "What the automation does")
	trigger := fs.String("trigger", "", "Trigger type ("+joinTriggers()+")")
	_ = fs.Parse(args)

	draft := &workflow.Draft{Name: *name, Description: *description}
	if err := draft.SetTrigger(workflow.TriggerType(*trigger), nil); err != nil {
		return err
	}

	a, err := db.SaveAutomation(database, nil, draft)
	if err != nil {
		return fmt.Errorf("failed to create automation: %w", err)
	}

	fmt.Printf("✓ Automation created: %s (ID: %s)\n", a.Name, a.ID)
	return nil
}

// ListAutomationsCommand lists stored automations.
func ListAutomationsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation list", flag.ExitOnError)
	trigger := fs.String("trigger", "", "Filter by trigger type")
	_ = fs.Parse(args)

	automations, err := db.ListAutomations(database, *trigger)
	if err != nil {
		return fmt.Errorf("failed to list automations: %w", err)
	}

	if len(automations) == 0 {
		fmt.Println("No automations found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTRIGGER\tACTIVE\tUPDATED\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t------\t-------\t--")

	for _, a := range automations {
		active := "no"
		if a.Active {
			active = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.Name, orDash(a.TriggerType), active, a.UpdatedAt.Format("2006-01-02"), a.ID.String()[:8])
	}
	_ = w.Flush()

	return nil
}

// ShowAutomationCommand prints the trigger, the numbered steps and any
// incomplete step configuration.
func ShowAutomationCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation show", flag.ExitOnError)
	_ = fs.Parse(args)

	a, draft, err := loadAutomation(database, fs)
	if err != nil {
		return err
	}

	status := "inactive"
	if a.Active {
		status = "active"
	}
	fmt.Printf("%s (%s)\n", a.Name, status)
	if a.Description != "" {
		fmt.Printf("  %s\n", a.Description)
	}
	fmt.Printf("Trigger: %s\n", orDash(string(draft.TriggerType)))

	if len(draft.Steps) == 0 {
		fmt.Println("No steps")
	}
	for i, step := range draft.Steps {
		fmt.Printf("%d. %s  [%s]\n", i+1, step.ActionType, step.ID)
		fields := step.Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("     %s: %v\n", k, fields[k])
		}
	}

	for _, issue := range draft.Lint() {
		fmt.Printf("! %s\n", issue)
	}
	return nil
}

// AddStepCommand inserts a step. Without --at it is appended.
func AddStepCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation add-step", flag.ExitOnError)
	at := fs.Int("at", 0, "1-based position to insert at (default: end)")
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: automation add-step [--at n] <automation-id> <action-type>")
	}

	a, draft, err := loadAutomation(database, fs)
	if err != nil {
		return err
	}

	pos := len(draft.Steps)
	if *at > 0 {
		pos = *at - 1
	}

	step, err := draft.InsertStep(workflow.ActionType(fs.Arg(1)), pos)
	if err != nil {
		return err
	}

	if err := saveDraft(database, a, draft); err != nil {
		return err
	}

	fmt.Printf("✓ Added %s step %s at position %d\n", step.ActionType, step.ID, draft.IndexOf(step.ID)+1)
	return nil
}

// RemoveStepCommand deletes a step by id or 1-based position.
func RemoveStepCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation remove-step", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: automation remove-step <automation-id> <step>")
	}

	a, draft, err := loadAutomation(database, fs)
	if err != nil {
		return err
	}

	stepID := resolveStep(draft, fs.Arg(1))
	if !draft.DeleteStep(stepID) {
		return fmt.Errorf("step not found: %s", fs.Arg(1))
	}

	if err := saveDraft(database, a, draft); err != nil {
		return err
	}

	fmt.Printf("✓ Removed step %s\n", stepID)
	return nil
}

// MoveStepCommand moves a step to the position currently held by another.
func MoveStepCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation move-step", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 3 {
		return fmt.Errorf("usage: automation move-step <automation-id> <from-step> <to-step>")
	}

	a, draft, err := loadAutomation(database, fs)
	if err != nil {
		return err
	}

	fromID := resolveStep(draft, fs.Arg(1))
	toID := resolveStep(draft, fs.Arg(2))
	if !draft.ReorderStep(fromID, toID) {
		fmt.Println("Nothing to move")
		return nil
	}

	if err := saveDraft(database, a, draft); err != nil {
		return err
	}

	fmt.Printf("✓ Moved step %s to position %d\n", fromID, draft.IndexOf(fromID)+1)
	return nil
}

// SetConfigCommand merges key=value pairs into a step's config. Values that
// parse as JSON (numbers, booleans, null, quoted strings) are stored as such,
// anything else as a plain string. --unset removes keys.
func SetConfigCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation set-config", flag.ExitOnError)
	unset := fs.String("unset", "", "Comma-separated keys to remove")
	_ = fs.Parse(args)

	if fs.NArg() < 2 || (fs.NArg() < 3 && *unset == "") {
		return fmt.Errorf("usage: automation set-config [--unset k1,k2] <automation-id> <step> [key=value...]")
	}

	patch, err := parseAssignments(fs.Args()[2:])
	if err != nil {
		return err
	}

	a, draft, err := loadAutomation(database, fs)
	if err != nil {
		return err
	}

	stepID := resolveStep(draft, fs.Arg(1))
	if draft.IndexOf(stepID) < 0 {
		return fmt.Errorf("step not found: %s", fs.Arg(1))
	}

	if len(patch) > 0 {
		draft.UpdateStepConfig(stepID, patch)
	}
	if *unset != "" {
		draft.RemoveStepConfigKeys(stepID, strings.Split(*unset, ",")...)
	}

	if err := saveDraft(database, a, draft); err != nil {
		return err
	}

	fmt.Printf("✓ Updated step %s\n", stepID)
	return nil
}

// SetActiveCommand returns a command that switches automations on or off.
func SetActiveCommand(active bool) func(*sql.DB, []string) error {
	return func(database *sql.DB, args []string) error {
		fs := flag.NewFlagSet("automation set-active", flag.ExitOnError)
		_ = fs.Parse(args)

		id, err := idArg(fs, "automation")
		if err != nil {
			return err
		}

		if err := db.SetAutomationActive(database, id, active); err != nil {
			return err
		}

		state := "deactivated"
		if active {
			state = "activated"
		}
		fmt.Printf("✓ Automation %s: %s\n", state, id)
		return nil
	}
}

// PayloadCommand prints the flattened executor payload as JSON.
func PayloadCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation payload", flag.ExitOnError)
	_ = fs.Parse(args)

	_, draft, err := loadAutomation(database, fs)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(draft.Payload(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

// DeleteAutomationCommand removes an automation.
func DeleteAutomationCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("automation delete", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "automation")
	if err != nil {
		return err
	}

	if err := db.DeleteAutomation(database, id); err != nil {
		return err
	}

	fmt.Printf("✓ Automation deleted: %s\n", id)
	return nil
}

func loadAutomation(database *sql.DB, fs *flag.FlagSet) (*models.Automation, *workflow.Draft, error) {
	id, err := idArg(fs, "automation")
	if err != nil {
		return nil, nil, err
	}

	a, err := db.GetAutomation(database, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get automation: %w", err)
	}
	if a == nil {
		return nil, nil, fmt.Errorf("%w: %s", db.ErrAutomationNotFound, id)
	}

	draft, err := db.LoadDraft(a)
	if err != nil {
		return nil, nil, err
	}
	return a, draft, nil
}

func saveDraft(database *sql.DB, a *models.Automation, draft *workflow.Draft) error {
	id := a.ID
	if _, err := db.SaveAutomation(database, &id, draft); err != nil {
		return fmt.Errorf("failed to save automation: %w", err)
	}
	return nil
}

// resolveStep accepts either a step id or a 1-based position.
func resolveStep(draft *workflow.Draft, ref string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(draft.Steps) {
		return draft.Steps[n-1].ID
	}
	return ref
}

func parseAssignments(pairs []string) (map[string]any, error) {
	patch := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		patch[key] = parseValue(value)
	}
	return patch, nil
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func joinTriggers() string {
	names := make([]string, len(workflow.TriggerTypes))
	for i, t := range workflow.TriggerTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
