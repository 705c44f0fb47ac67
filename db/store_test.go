// ABOUTME: Tests for contact, company, opportunity and activity storage
// ABOUTME: Covers derived interaction age, revenue rollup and delete cascades
package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadflow/models"
)

func TestCreateAndGetContact(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	company := &models.Company{Name: "Acme"}
	require.NoError(t, CreateCompany(db, company))

	contact := &models.Contact{
		Name:        "Ana Pérez",
		Email:       "ana@acme.com",
		PhoneMobile: "+34600000000",
		JobTitle:    "CTO",
		CompanyID:   &company.ID,
	}
	require.NoError(t, CreateContact(db, contact))
	assert.NotEqual(t, uuid.Nil, contact.ID)
	assert.Equal(t, models.ContactStatusNew, contact.Status)

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana Pérez", got.Name)
	assert.Equal(t, "CTO", got.JobTitle)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, company.ID, *got.CompanyID)
	assert.Nil(t, got.LastContactedAt)
	assert.Equal(t, 0, got.DaysSinceLastInteraction)
}

func TestGetContactMissing(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	got, err := GetContact(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDaysSinceLastInteractionDerivedOnRead(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{Name: "Old Lead"}
	require.NoError(t, CreateContact(db, contact))
	require.NoError(t, UpdateContactLastContacted(db, contact.ID, time.Now().Add(-10*24*time.Hour-time.Hour)))

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.DaysSinceLastInteraction)
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysSince(time.Time{}, now))
	assert.Equal(t, 0, DaysSince(now.Add(48*time.Hour), now))
	assert.Equal(t, 0, DaysSince(now.Add(-23*time.Hour), now))
	assert.Equal(t, 7, DaysSince(now.Add(-7*24*time.Hour), now))
}

func TestFindContacts(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	company := &models.Company{Name: "Globex"}
	require.NoError(t, CreateCompany(db, company))

	require.NoError(t, CreateContact(db, &models.Contact{Name: "Hank Scorpio", Email: "hank@globex.com", CompanyID: &company.ID}))
	require.NoError(t, CreateContact(db, &models.Contact{Name: "Homer Simpson", Email: "homer@springfield.gov"}))

	byName, err := FindContacts(db, "homer", nil, 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Homer Simpson", byName[0].Name)

	byEmail, err := FindContacts(db, "GLOBEX", nil, 10)
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)

	byCompany, err := FindContacts(db, "", &company.ID, 10)
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "Hank Scorpio", byCompany[0].Name)

	all, err := FindContacts(db, "", nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateContact(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{Name: "Lead"}
	require.NoError(t, CreateContact(db, contact))

	contact.Status = models.ContactStatusQualified
	contact.Address = "Calle Mayor 1"
	require.NoError(t, UpdateContact(db, contact.ID, contact))

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusQualified, got.Status)
	assert.Equal(t, "Calle Mayor 1", got.Address)
}

func TestUpdateContactRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{Name: "Lead"}
	require.NoError(t, CreateContact(db, contact))

	contact.Status = "open"
	assert.Error(t, UpdateContact(db, contact.ID, contact))
}

func TestLogActivityBumpsLastContacted(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{Name: "Caller"}
	require.NoError(t, CreateContact(db, contact))

	when := time.Now().Add(-3 * 24 * time.Hour)
	activity := &models.Activity{ContactID: contact.ID, Type: models.ActivityCall, Subject: "Intro", CreatedAt: when}
	require.NoError(t, LogActivity(db, activity))
	assert.Equal(t, models.ActivityStatusPending, activity.Status)

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastContactedAt)
	assert.WithinDuration(t, when, *got.LastContactedAt, time.Second)
	assert.Equal(t, 3, got.DaysSinceLastInteraction)

	// An older entry does not move the timestamp back
	older := &models.Activity{ContactID: contact.ID, Type: models.ActivityNote, CreatedAt: when.Add(-24 * time.Hour)}
	require.NoError(t, LogActivity(db, older))

	got, err = GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, when, *got.LastContactedAt, time.Second)

	activities, err := ListContactActivities(db, contact.ID, 0)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Intro", activities[0].Subject)
}

func TestLogActivityRejectsUnknownType(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{Name: "X"}
	require.NoError(t, CreateContact(db, contact))

	err := LogActivity(db, &models.Activity{ContactID: contact.ID, Type: "fax"})
	assert.Error(t, err)
}

func TestOpportunityLifecycleRollsUpRevenue(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{Name: "Buyer"}
	require.NoError(t, CreateContact(db, contact))

	opp := &models.Opportunity{Title: "Licencias", Amount: 1500000, ContactID: &contact.ID}
	require.NoError(t, CreateOpportunity(db, opp))
	assert.Equal(t, models.OpportunityStatusOpen, opp.Status)
	assert.Equal(t, "EUR", opp.Currency)

	opp.Status = "won"
	require.NoError(t, UpdateOpportunity(db, opp))
	assert.Equal(t, models.OpportunityStatusWon, opp.Status)

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.InDelta(t, 15000.0, got.TotalRevenueGenerated, 0.001)

	second := &models.Opportunity{Title: "Soporte", Amount: 250000, Status: models.OpportunityStatusWon, ContactID: &contact.ID}
	require.NoError(t, CreateOpportunity(db, second))

	got, err = GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.InDelta(t, 17500.0, got.TotalRevenueGenerated, 0.001)

	opps, err := ListContactOpportunities(db, contact.ID)
	require.NoError(t, err)
	assert.Len(t, opps, 2)
}

func TestCreateOpportunityNormalizesLegacyStatus(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	opp := &models.Opportunity{Title: "Legacy", Status: "open"}
	require.NoError(t, CreateOpportunity(db, opp))
	assert.Equal(t, models.OpportunityStatusOpen, opp.Status)

	err := CreateOpportunity(db, &models.Opportunity{Title: "Bad", Status: "pending"})
	assert.Error(t, err)
}

func TestFindOpportunities(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	company := &models.Company{Name: "Initech"}
	require.NoError(t, CreateCompany(db, company))

	require.NoError(t, CreateOpportunity(db, &models.Opportunity{Title: "A", CompanyID: &company.ID}))
	require.NoError(t, CreateOpportunity(db, &models.Opportunity{Title: "B", Status: models.OpportunityStatusLost}))

	open, err := FindOpportunities(db, OpportunityFilter{Status: "open"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "A", open[0].Title)

	byCompany, err := FindOpportunities(db, OpportunityFilter{CompanyID: &company.ID})
	require.NoError(t, err)
	assert.Len(t, byCompany, 1)

	all, err := FindOpportunities(db, OpportunityFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateOpportunityMissing(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	err := UpdateOpportunity(db, &models.Opportunity{ID: uuid.New(), Title: "ghost", Status: models.OpportunityStatusOpen, Currency: "EUR"})
	assert.Error(t, err)
}

func TestDeleteContactCascades(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{Name: "Leaving"}
	require.NoError(t, CreateContact(db, contact))
	require.NoError(t, LogActivity(db, &models.Activity{ContactID: contact.ID, Type: models.ActivityEmail}))
	opp := &models.Opportunity{Title: "Kept", ContactID: &contact.ID}
	require.NoError(t, CreateOpportunity(db, opp))

	require.NoError(t, DeleteContact(db, contact.ID))

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	activities, err := ListContactActivities(db, contact.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, activities)

	kept, err := GetOpportunity(db, opp.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Nil(t, kept.ContactID)
}

func TestDeleteCompanyWithOpenOpportunity(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	company := &models.Company{Name: "Busy"}
	require.NoError(t, CreateCompany(db, company))
	opp := &models.Opportunity{Title: "Pending", CompanyID: &company.ID}
	require.NoError(t, CreateOpportunity(db, opp))

	assert.Error(t, DeleteCompany(db, company.ID))

	opp.Status = models.OpportunityStatusLost
	require.NoError(t, UpdateOpportunity(db, opp))
	require.NoError(t, DeleteCompany(db, company.ID))

	got, err := GetCompany(db, company.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindCompanyByName(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	require.NoError(t, CreateCompany(db, &models.Company{Name: "Umbrella", Domain: "umbrella.com"}))

	got, err := FindCompanyByName(db, "umbrella")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "umbrella.com", got.Domain)

	found, err := FindCompanies(db, "UMBR", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
