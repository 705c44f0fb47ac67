// ABOUTME: Tests for CLI commands against a temporary database file
// ABOUTME: Covers contact, opportunity, lead and automation editing flows
package cli

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/scoring"
	"github.com/harperreed/leadflow/workflow"
)

func setupTestCLI(t *testing.T) *sql.DB {
	tmpDB, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	_ = tmpDB.Close()
	t.Cleanup(func() { _ = os.Remove(tmpDB.Name()) })

	database, err := db.OpenDatabase(tmpDB.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func findContact(t *testing.T, database *sql.DB, name string) models.Contact {
	t.Helper()
	contacts, err := db.FindContacts(database, name, nil, 10)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	return contacts[0]
}

func TestAddContactCreatesCompany(t *testing.T) {
	database := setupTestCLI(t)

	err := AddContactCommand(database, []string{"--name", "Ana Ruiz", "--email", "ana@acme.test", "--company", "Acme"})
	require.NoError(t, err)
	err = AddContactCommand(database, []string{"--name", "Luis Gil", "--company", "Acme"})
	require.NoError(t, err)

	company, err := db.FindCompanyByName(database, "Acme")
	require.NoError(t, err)
	require.NotNil(t, company)

	ana := findContact(t, database, "Ana Ruiz")
	luis := findContact(t, database, "Luis Gil")
	require.NotNil(t, ana.CompanyID)
	require.NotNil(t, luis.CompanyID)
	assert.Equal(t, company.ID, *ana.CompanyID)
	assert.Equal(t, company.ID, *luis.CompanyID)
	assert.Equal(t, models.ContactStatusNew, ana.Status)
}

func TestWonOpportunityRaisesScore(t *testing.T) {
	database := setupTestCLI(t)

	require.NoError(t, AddContactCommand(database, []string{"--name", "Ana Ruiz", "--email", "ana@acme.test"}))
	ana := findContact(t, database, "Ana Ruiz")

	err := AddOpportunityCommand(database, []string{
		"--title", "Licencias", "--contact", ana.ID.String(), "--amount", "2500000", "--status", models.OpportunityStatusWon,
	})
	require.NoError(t, err)

	lead, err := db.LoadLead(database, ana.ID, ana.CreatedAt)
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, 25000.0, lead.Contact.TotalRevenueGenerated)
	assert.Equal(t, 20, lead.Evaluation.Lead.Factors.Revenue)
	assert.Equal(t, 30, lead.Evaluation.Lead.TotalScore)
	assert.Equal(t, scoring.LevelCold, lead.Evaluation.Lead.Level)

	assert.NoError(t, ScoreCommand(database, []string{ana.ID.String()}))
	assert.NoError(t, SuggestCommand(database, []string{"--sort", "priority", ana.ID.String()}))
	assert.NoError(t, LeadsCommand(database, []string{"--level", "cold"}))
}

func TestAddOpportunityUnknownContact(t *testing.T) {
	database := setupTestCLI(t)

	err := AddOpportunityCommand(database, []string{"--title", "X", "--contact", "8b1f3c2e-0000-4000-8000-000000000000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact not found")
}

func TestSuggestRejectsUnknownSort(t *testing.T) {
	database := setupTestCLI(t)

	err := SuggestCommand(database, []string{"--sort", "random", "8b1f3c2e-0000-4000-8000-000000000000"})
	assert.Error(t, err)
}

func TestAutomationStepEditing(t *testing.T) {
	database := setupTestCLI(t)

	a, err := db.SaveAutomation(database, nil, &workflow.Draft{Name: "Welcome"})
	require.NoError(t, err)
	id := a.ID.String()

	require.NoError(t, AddStepCommand(database, []string{id, "send_email"}))
	require.NoError(t, AddStepCommand(database, []string{"--at", "1", id, "delay"}))

	draft := reloadDraft(t, database, id)
	require.Len(t, draft.Steps, 2)
	assert.Equal(t, workflow.ActionDelay, draft.Steps[0].ActionType)
	assert.Equal(t, workflow.ActionSendEmail, draft.Steps[1].ActionType)

	require.NoError(t, SetConfigCommand(database, []string{id, "2", "template=welcome", "subject=Hola"}))
	require.NoError(t, SetConfigCommand(database, []string{id, "1", "duration=3", "unit=days"}))

	draft = reloadDraft(t, database, id)
	assert.Equal(t, map[string]any{"template": "welcome", "subject": "Hola"}, draft.Steps[1].Fields())
	assert.Equal(t, map[string]any{"duration": float64(3), "unit": "days"}, draft.Steps[0].Fields())

	require.NoError(t, SetConfigCommand(database, []string{id, "1", "duration=5m"}))
	require.NoError(t, SetConfigCommand(database, []string{id, "2", "subject="}))
	draft = reloadDraft(t, database, id)
	assert.Equal(t, "5m", draft.Steps[0].Fields()["duration"])
	assert.Equal(t, map[string]any{"template": "welcome", "subject": ""}, draft.Steps[1].Fields())

	require.NoError(t, SetConfigCommand(database, []string{"--unset", "subject", id, "2"}))
	draft = reloadDraft(t, database, id)
	assert.Equal(t, map[string]any{"template": "welcome"}, draft.Steps[1].Fields())

	emailID := draft.Steps[1].ID
	require.NoError(t, MoveStepCommand(database, []string{id, emailID, "1"}))
	draft = reloadDraft(t, database, id)
	assert.Equal(t, emailID, draft.Steps[0].ID)

	require.NoError(t, RemoveStepCommand(database, []string{id, "2"}))
	draft = reloadDraft(t, database, id)
	require.Len(t, draft.Steps, 1)
	assert.Equal(t, emailID, draft.Steps[0].ID)

	assert.NoError(t, ShowAutomationCommand(database, []string{id}))
	assert.NoError(t, PayloadCommand(database, []string{id}))
}

func TestAutomationCommandErrors(t *testing.T) {
	database := setupTestCLI(t)

	a, err := db.SaveAutomation(database, nil, &workflow.Draft{Name: "Welcome"})
	require.NoError(t, err)
	id := a.ID.String()

	assert.ErrorIs(t, AddStepCommand(database, []string{id, "fax"}), workflow.ErrUnknownActionType)
	assert.Error(t, AddStepCommand(database, []string{id}))
	assert.Error(t, RemoveStepCommand(database, []string{id, "missing"}))
	assert.Error(t, SetConfigCommand(database, []string{id, "1", "novalue"}))
	assert.Error(t, SetConfigCommand(database, []string{id, "1"}))
	assert.ErrorIs(t, ShowAutomationCommand(database, []string{"8b1f3c2e-0000-4000-8000-000000000000"}), db.ErrAutomationNotFound)
}

func TestSetActiveCommand(t *testing.T) {
	database := setupTestCLI(t)

	a, err := db.SaveAutomation(database, nil, &workflow.Draft{Name: "Welcome"})
	require.NoError(t, err)
	require.False(t, a.Active)

	require.NoError(t, SetActiveCommand(true)(database, []string{a.ID.String()}))
	got, err := db.GetAutomation(database, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	require.NoError(t, SetActiveCommand(false)(database, []string{a.ID.String()}))
	got, err = db.GetAutomation(database, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, DeleteAutomationCommand(database, []string{a.ID.String()}))
	got, err = db.GetAutomation(database, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, float64(0), parseValue("0"))
	assert.Equal(t, 1.5, parseValue("1.5"))
	assert.Equal(t, true, parseValue("true"))
	assert.Nil(t, parseValue("null"))
	assert.Equal(t, "2", parseValue(`"2"`))
	assert.Equal(t, "5m", parseValue("5m"))
	assert.Equal(t, "", parseValue(""))
}

func reloadDraft(t *testing.T, database *sql.DB, id string) *workflow.Draft {
	t.Helper()
	a, err := db.GetAutomation(database, uuid.MustParse(id))
	require.NoError(t, err)
	require.NotNil(t, a)
	draft, err := db.LoadDraft(a)
	require.NoError(t, err)
	return draft
}

func TestListCompaniesWithFootprint(t *testing.T) {
	database := setupTestCLI(t)

	require.NoError(t, AddContactCommand(database, []string{"--name", "Ana Ruiz", "--company", "Acme"}))
	require.NoError(t, AddOpportunityCommand(database, []string{"--title", "Renewal", "--company", "Acme", "--amount", "150000"}))
	require.NoError(t, AddOpportunityCommand(database, []string{"--title", "Old", "--company", "Acme", "--amount", "99", "--status", models.OpportunityStatusLost}))

	company, err := db.FindCompanyByName(database, "Acme")
	require.NoError(t, err)
	require.NotNil(t, company)

	contacts, pipeline, err := companyFootprint(database, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, contacts)
	assert.Equal(t, int64(150000), pipeline)

	assert.NoError(t, ListCompaniesCommand(database, nil))
	assert.Error(t, DeleteCompanyCommand(database, []string{company.ID.String()}))
}
