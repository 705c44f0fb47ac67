package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadflow/viz"
)

var dotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

func (m Model) renderGraphView() string {
	var s strings.Builder

	title := "CONTACT GRAPH"
	if m.selected != nil {
		title += ": " + m.selected.Contact.Name
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("No graph\n")
	} else {
		s.WriteString(dotStyle.Render(m.graphDOT))
		s.WriteString(fmt.Sprintf("\n\n%d lines of DOT, render with `dot -Tpng`", strings.Count(m.graphDOT, "\n")+1))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Esc: Back • q: Quit"))

	return s.String()
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.viewMode = ViewDetail
		m.graphDOT = ""
	}
	return m, nil
}

// generateGraph renders the open contact with its company, opportunities and
// activities.
func (m *Model) generateGraph() error {
	dot, err := viz.NewGraphGenerator(m.db).GenerateContactGraph(context.Background(), m.selected.Contact.ID)
	if err != nil {
		return fmt.Errorf("failed to generate graph: %w", err)
	}
	m.graphDOT = dot
	return nil
}
