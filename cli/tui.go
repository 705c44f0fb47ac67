// ABOUTME: TUI command launching the interactive lead board
// ABOUTME: Refuses to start when stdout is not a terminal
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/harperreed/leadflow/tui"
)

// TUICommand runs the bubbletea lead board until the user quits.
func TUICommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	_ = fs.Parse(args)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal")
	}

	p := tea.NewProgram(tui.NewModel(database), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}
