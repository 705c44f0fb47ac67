// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms removal of the open contact and its activities
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadflow/db"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	if m.selected == nil {
		return "No contact selected"
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := "Are you sure you want to delete this contact?"
	entityInfo := fmt.Sprintf("\nCONTACT: %s\n%d activities will be removed", m.selected.Contact.Name, len(m.selected.Activities))
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		name := m.selected.Contact.Name
		if err := db.DeleteContact(m.db, m.selected.Contact.ID); err != nil {
			m.err = err
			m.viewMode = ViewDetail
			return m, nil
		}
		m.selected = nil
		m.viewMode = ViewList
		m.refresh()
		m.message = "Deleted " + name
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}
