package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LEADFLOW LEADS"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching || m.searchQuery != "" {
		s.WriteString("/ " + m.search.View())
		s.WriteString("\n\n")
	}

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderLeadsTable())
	s.WriteString("\n")

	if m.message != "" {
		s.WriteString(m.message)
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, level := range levelFilters {
		name := "All"
		if level != "" {
			name = strings.ToUpper(string(level)[:1]) + string(level)[1:]
		}
		if i == m.levelIndex {
			rendered = append(rendered, tabActiveStyle.Render(name))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(name))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderLeadsTable() string {
	leads := m.visibleLeads()
	if len(leads) == 0 {
		return "No leads found\n"
	}

	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Score", Width: 6},
		{Title: "Level", Width: 6},
		{Title: "Engagement", Width: 11},
		{Title: "Conversion", Width: 11},
		{Title: "Days", Width: 5},
	}

	rows := make([]table.Row, 0, len(leads))
	for _, l := range leads {
		ev := l.Evaluation
		rows = append(rows, table.Row{
			l.Contact.Name,
			fmt.Sprintf("%d", ev.Lead.TotalScore),
			string(ev.Lead.Level),
			fmt.Sprintf("%d", ev.Engagement),
			fmt.Sprintf("%d%%", ev.ConversionProbability),
			fmt.Sprintf("%d", l.Contact.DaysSinceLastInteraction),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(5, m.height-12)),
	)
	t.SetCursor(m.selectedRow)

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Level",
		"Enter: Details",
		"/: Search",
		"r: Refresh",
		"q: Quit",
	}
	if m.searching {
		help = []string{"Enter: Apply", "Esc: Clear"}
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.visibleLeads())-1 {
			m.selectedRow++
		}
	case "tab":
		m.levelIndex = (m.levelIndex + 1) % len(levelFilters)
		m.selectedRow = 0
		m.refresh()
	case "r":
		m.refresh()
	case "/":
		m.searching = true
		m.search.SetValue(m.searchQuery)
		cmd := m.search.Focus()
		return m, cmd
	case "enter":
		leads := m.visibleLeads()
		if m.selectedRow < len(leads) {
			lead := leads[m.selectedRow]
			m.selected = &lead
			m.message = ""
			m.viewMode = ViewDetail
		}
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchQuery = ""
		m.search.SetValue("")
		m.search.Blur()
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.searchQuery = m.search.Value()
	m.selectedRow = 0
	return m, cmd
}
