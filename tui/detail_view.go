package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/suggestions"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().Bold(true)

	priorityStyles = map[suggestions.Priority]lipgloss.Style{
		suggestions.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		suggestions.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		suggestions.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

const recentActivities = 5

func (m Model) renderDetailView() string {
	if m.selected == nil {
		return "No contact selected"
	}
	lead := m.selected
	contact := lead.Contact
	ev := lead.Evaluation

	var s strings.Builder

	s.WriteString(titleStyle.Render(strings.ToUpper(contact.Name)))
	s.WriteString("\n\n")

	s.WriteString(m.renderField("Status", contact.Status))
	s.WriteString(m.renderField("Email", contact.Email))
	phone := contact.PhoneMobile
	if phone == "" {
		phone = contact.PhoneLandline
	}
	s.WriteString(m.renderField("Phone", phone))
	s.WriteString(m.renderField("Job Title", contact.JobTitle))
	if contact.CompanyID != nil {
		if company, _ := db.GetCompany(m.db, *contact.CompanyID); company != nil {
			s.WriteString(m.renderField("Company", company.Name))
		}
	}
	if contact.LastContactedAt != nil {
		s.WriteString(m.renderField("Last Contacted", contact.LastContactedAt.Format("2006-01-02")))
	}

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("SCORE"))
	s.WriteString("\n")
	s.WriteString(m.renderField("Total", fmt.Sprintf("%d (%s)", ev.Lead.TotalScore, renderLevel(ev.Lead.Level))))
	s.WriteString(m.renderField("Profile", fmt.Sprintf("%d", ev.Lead.Factors.Profile)))
	s.WriteString(m.renderField("Revenue", fmt.Sprintf("%d", ev.Lead.Factors.Revenue)))
	s.WriteString(m.renderField("Decay", fmt.Sprintf("%d (%d days)", ev.Lead.Factors.Decay, contact.DaysSinceLastInteraction)))
	s.WriteString(m.renderField("Engagement", fmt.Sprintf("%d", ev.Engagement)))
	s.WriteString(m.renderField("Conversion", fmt.Sprintf("%d%%", ev.ConversionProbability)))

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("SUGGESTIONS"))
	s.WriteString("\n")
	list := suggestions.Smart(contact, lead.Activities, lead.Opportunities)
	if len(list) == 0 {
		s.WriteString("  none\n")
	}
	for _, sug := range list {
		style := priorityStyles[sug.Priority]
		s.WriteString(fmt.Sprintf("  • %s %s\n", style.Render("["+string(sug.Priority)+"]"), sug.Title))
	}

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("RECENT ACTIVITY"))
	s.WriteString("\n")
	if len(lead.Activities) == 0 {
		s.WriteString("  none\n")
	}
	for i, a := range lead.Activities {
		if i == recentActivities {
			s.WriteString(fmt.Sprintf("  … %d more\n", len(lead.Activities)-recentActivities))
			break
		}
		s.WriteString(fmt.Sprintf("  • [%s] %s %s\n", a.CreatedAt.Format("2006-01-02"), a.Type, a.Subject))
	}

	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"a: Log activity",
		"g: View graph",
		"d: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.selected = nil
		m.message = ""
	case "a":
		m.initActivityForm()
		m.viewMode = ViewLogActivity
		return m, textinput.Blink
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewGraph
	case "d":
		m.viewMode = ViewConfirmDelete
	}

	return m, nil
}
