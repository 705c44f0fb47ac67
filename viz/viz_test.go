// ABOUTME: Tests for graph generation and dashboard statistics
// ABOUTME: Renders DOT through graphviz and checks nodes and totals
package viz

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/scoring"
	"github.com/harperreed/leadflow/workflow"
)

func setupTestDB(t *testing.T) *sql.DB {
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))
	return database
}

func TestAutomationGraph(t *testing.T) {
	d := &workflow.Draft{Name: "Onboarding"}
	require.NoError(t, d.SetTrigger(workflow.TriggerContactCreated, nil))
	email, err := d.AppendStep(workflow.ActionSendEmail)
	require.NoError(t, err)
	d.UpdateStepConfig(email.ID, map[string]any{"template": "welcome"})
	wait, err := d.AppendStep(workflow.ActionDelay)
	require.NoError(t, err)
	d.UpdateStepConfig(wait.ID, map[string]any{"duration": "5m"})

	dot, err := AutomationGraph(context.Background(), d)
	require.NoError(t, err)

	assert.Contains(t, dot, "contact_created")
	assert.Contains(t, dot, "step_"+email.ID)
	assert.Contains(t, dot, "step_"+wait.ID)
	assert.Contains(t, dot, "send_email")
	assert.Contains(t, dot, "template: welcome")
	assert.Contains(t, dot, "wait 5m")
	assert.Contains(t, dot, "duration: 5m")
	assert.Equal(t, 2, strings.Count(dot, "->"))
}

func TestAutomationGraphEmptyDraft(t *testing.T) {
	dot, err := AutomationGraph(context.Background(), &workflow.Draft{Name: "Empty"})
	require.NoError(t, err)
	assert.Contains(t, dot, "no trigger")
	assert.NotContains(t, dot, "->")
}

func TestPipelineGraph(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	company := &models.Company{Name: "Acme"}
	require.NoError(t, db.CreateCompany(database, company))
	contact := &models.Contact{Name: "Ana"}
	require.NoError(t, db.CreateContact(database, contact))
	opp := &models.Opportunity{Title: "Licencias", Amount: 100000, CompanyID: &company.ID, ContactID: &contact.ID}
	require.NoError(t, db.CreateOpportunity(database, opp))

	dot, err := NewGraphGenerator(database).GeneratePipelineGraph(context.Background())
	require.NoError(t, err)

	assert.Contains(t, dot, "Acme")
	assert.Contains(t, dot, "Licencias")
	assert.Contains(t, dot, "lightyellow")
	assert.Contains(t, dot, "Ana")
}

func TestContactGraph(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	contact := &models.Contact{Name: "Ana"}
	require.NoError(t, db.CreateContact(database, contact))
	require.NoError(t, db.LogActivity(database, &models.Activity{ContactID: contact.ID, Type: models.ActivityCall}))
	require.NoError(t, db.LogActivity(database, &models.Activity{ContactID: contact.ID, Type: models.ActivityCall}))

	dot, err := NewGraphGenerator(database).GenerateContactGraph(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Contains(t, dot, "Ana")
	assert.Contains(t, dot, "llamada x2")
}

func TestDashboardStats(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	require.NoError(t, db.CreateCompany(database, &models.Company{Name: "Acme"}))
	contact := &models.Contact{Name: "Ana"}
	require.NoError(t, db.CreateContact(database, contact))
	require.NoError(t, db.CreateOpportunity(database, &models.Opportunity{Title: "A", Amount: 150000, ContactID: &contact.ID}))
	require.NoError(t, db.CreateOpportunity(database, &models.Opportunity{Title: "B", Amount: 50000, Status: models.OpportunityStatusLost}))

	stats, err := GenerateDashboardStats(database, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalContacts)
	assert.Equal(t, 1, stats.TotalCompanies)
	assert.Equal(t, 2, stats.TotalOpportunities)
	assert.Equal(t, int64(150000), stats.OpenPipelineValue)
	assert.Equal(t, 1, stats.ContactsByLevel[scoring.LevelCold])
	assert.Equal(t, 1, stats.PipelineByStatus[models.OpportunityStatusLost].Count)

	out := RenderDashboard(stats)
	assert.Contains(t, out, "LEADFLOW DASHBOARD")
	assert.Contains(t, out, "open value: 1500.00")
}
