// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and DOT graph generation commands
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/leadflow/viz"
)

// VizAutomationCommand renders an automation as a trigger followed by its steps.
func VizAutomationCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz automation", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	_, draft, err := loadAutomation(database, fs)
	if err != nil {
		return err
	}

	dot, err := viz.AutomationGraph(context.Background(), draft)
	if err != nil {
		return err
	}
	return writeDOT(*output, dot)
}

// VizPipelineCommand renders companies and their opportunities.
func VizPipelineCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	dot, err := viz.NewGraphGenerator(database).GeneratePipelineGraph(context.Background())
	if err != nil {
		return err
	}
	return writeDOT(*output, dot)
}

// VizContactCommand renders one contact with its company, opportunities and activity.
func VizContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz contact", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(database).GenerateContactGraph(context.Background(), contactID)
	if err != nil {
		return err
	}
	return writeDOT(*output, dot)
}

func VizDashboardCommand(database *sql.DB, args []string) error {
	stats, err := viz.GenerateDashboardStats(database, time.Now())
	if err != nil {
		return fmt.Errorf("failed to generate dashboard stats: %w", err)
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

func writeDOT(output, dot string) error {
	if output != "" {
		return os.WriteFile(output, []byte(dot), 0644)
	}
	fmt.Println(dot)
	return nil
}
