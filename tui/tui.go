// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive lead board ranking contacts by score with drill-down detail
package tui

import (
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/scoring"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewGraph
	ViewLogActivity
	ViewConfirmDelete
)

// levelFilters is the cycle order of the tab key on the board.
var levelFilters = []scoring.Level{"", scoring.LevelHot, scoring.LevelWarm, scoring.LevelCold}

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	now      func() time.Time
	viewMode ViewMode

	// Board state
	leads       []db.Lead
	levelIndex  int
	selectedRow int
	searching   bool
	search      textinput.Model
	searchQuery string

	// Detail view state
	selected *db.Lead

	// Log activity form state
	formInputs []textinput.Model
	focusIndex int

	// Graph view state
	graphDOT string

	// UI state
	message string
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model with the board loaded.
func NewModel(database *sql.DB) Model {
	search := textinput.New()
	search.Placeholder = "name or email"
	search.CharLimit = 100

	m := Model{
		db:       database,
		now:      time.Now,
		viewMode: ViewList,
		search:   search,
		width:    100,
		height:   30,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewLogActivity:
		return m.renderLogActivityView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry owns every other key
	typing := m.searching || m.viewMode == ViewLogActivity
	if msg.String() == "q" && !typing {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewLogActivity:
		return m.handleLogActivityKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// refresh reloads the ranked board and re-resolves the open contact.
func (m *Model) refresh() {
	leads, err := db.RankLeads(m.db, levelFilters[m.levelIndex], 0, m.now())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.leads = leads

	if m.selected != nil {
		lead, err := db.LoadLead(m.db, m.selected.Contact.ID, m.now())
		if err != nil {
			m.err = err
			return
		}
		m.selected = lead
	}

	if rows := len(m.visibleLeads()); m.selectedRow >= rows {
		m.selectedRow = max(0, rows-1)
	}
}

// visibleLeads applies the search query to the loaded board.
func (m Model) visibleLeads() []db.Lead {
	q := strings.ToLower(strings.TrimSpace(m.searchQuery))
	if q == "" {
		return m.leads
	}

	var out []db.Lead
	for _, l := range m.leads {
		if strings.Contains(strings.ToLower(l.Contact.Name), q) ||
			strings.Contains(strings.ToLower(l.Contact.Email), q) {
			out = append(out, l)
		}
	}
	return out
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	levelStyles = map[scoring.Level]lipgloss.Style{
		scoring.LevelHot:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		scoring.LevelWarm: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		scoring.LevelCold: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
)

func renderLevel(level scoring.Level) string {
	if style, ok := levelStyles[level]; ok {
		return style.Render(string(level))
	}
	return string(level)
}
