package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
)

const (
	fieldActivityType = iota
	fieldSubject
	fieldNotes
)

func (m Model) renderLogActivityView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LOG ACTIVITY: " + m.selected.Contact.Name))
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleLogActivityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.err = nil
		return m, nil
	case "tab":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		activity, err := m.saveActivity()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewDetail
		m.refresh()
		m.message = fmt.Sprintf("Logged %s", activity.Type)
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initActivityForm() {
	inputs := make([]textinput.Model, 3)

	inputs[fieldActivityType] = textinput.New()
	inputs[fieldActivityType].Placeholder = "Type (" + strings.Join(models.ActivityTypes, "/") + ")"
	inputs[fieldActivityType].CharLimit = 20
	inputs[fieldActivityType].SetValue(models.ActivityCall)

	inputs[fieldSubject] = textinput.New()
	inputs[fieldSubject].Placeholder = "Subject"
	inputs[fieldSubject].CharLimit = 100

	inputs[fieldNotes] = textinput.New()
	inputs[fieldNotes].Placeholder = "Notes"
	inputs[fieldNotes].CharLimit = 500

	m.formInputs = inputs
	m.focusIndex = 0
	m.err = nil
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) saveActivity() (*models.Activity, error) {
	activityType := strings.ToLower(strings.TrimSpace(m.formInputs[fieldActivityType].Value()))
	if !models.IsValidActivityType(activityType) {
		return nil, fmt.Errorf("unknown activity type: %q", activityType)
	}

	activity := &models.Activity{
		ContactID: m.selected.Contact.ID,
		Type:      activityType,
		Status:    models.ActivityStatusCompleted,
		Subject:   m.formInputs[fieldSubject].Value(),
		Notes:     m.formInputs[fieldNotes].Value(),
		CreatedAt: m.now(),
	}

	if err := db.LogActivity(m.db, activity); err != nil {
		return nil, err
	}
	return activity, nil
}
