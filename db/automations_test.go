// ABOUTME: Tests for automation persistence
// ABOUTME: Covers draft round trips, payload storage, activation and deletion
package db

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadflow/workflow"
)

func sampleDraft(t *testing.T) *workflow.Draft {
	t.Helper()
	d := &workflow.Draft{Name: "Welcome"}
	require.NoError(t, d.SetTrigger(workflow.TriggerContactCreated, map[string]any{}))

	email, err := d.AppendStep(workflow.ActionSendEmail)
	require.NoError(t, err)
	d.UpdateStepConfig(email.ID, map[string]any{"template": "welcome", "subject": "Hola"})

	wait, err := d.AppendStep(workflow.ActionDelay)
	require.NoError(t, err)
	// float64 is what a JSON round trip yields
	d.UpdateStepConfig(wait.ID, map[string]any{"duration": float64(2), "unit": "days"})

	return d
}

func TestSaveAutomationRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	draft := sampleDraft(t)
	saved, err := SaveAutomation(db, nil, draft)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", saved.Name)
	assert.Equal(t, string(workflow.TriggerContactCreated), saved.TriggerType)
	assert.False(t, saved.Active)

	got, err := GetAutomation(db, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	loaded, err := LoadDraft(got)
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, draft.Steps[0].ID, loaded.Steps[0].ID)
	assert.Equal(t, draft.Steps[1].Fields(), loaded.Steps[1].Fields())

	var payload workflow.Payload
	require.NoError(t, json.Unmarshal([]byte(got.Payload), &payload))
	require.Len(t, payload.Actions, 2)
	assert.Equal(t, "send_email", payload.Actions[0]["type"])
	assert.Equal(t, "welcome", payload.Actions[0]["template"])
}

func TestSaveAutomationRequiresName(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	_, err := SaveAutomation(db, nil, &workflow.Draft{Name: "   "})
	assert.ErrorIs(t, err, workflow.ErrNameRequired)

	list, err := ListAutomations(db, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaveAutomationUpdateKeepsActive(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	draft := sampleDraft(t)
	saved, err := SaveAutomation(db, nil, draft)
	require.NoError(t, err)
	require.NoError(t, SetAutomationActive(db, saved.ID, true))

	draft.Name = "Welcome v2"
	draft.DeleteStep(draft.Steps[1].ID)
	updated, err := SaveAutomation(db, &saved.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, "Welcome v2", updated.Name)
	assert.True(t, updated.Active)

	loaded, err := LoadDraft(updated)
	require.NoError(t, err)
	assert.Len(t, loaded.Steps, 1)
}

func TestSaveAutomationUnknownID(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	id := uuid.New()
	_, err := SaveAutomation(db, &id, sampleDraft(t))
	assert.True(t, errors.Is(err, ErrAutomationNotFound))
}

func TestListAutomationsByTrigger(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	_, err := SaveAutomation(db, nil, sampleDraft(t))
	require.NoError(t, err)

	manual := &workflow.Draft{Name: "Manual"}
	require.NoError(t, manual.SetTrigger(workflow.TriggerManual, nil))
	_, err = SaveAutomation(db, nil, manual)
	require.NoError(t, err)

	all, err := ListAutomations(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := ListAutomations(db, string(workflow.TriggerManual))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Manual", filtered[0].Name)
}

func TestDeleteAutomation(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	saved, err := SaveAutomation(db, nil, sampleDraft(t))
	require.NoError(t, err)

	require.NoError(t, DeleteAutomation(db, saved.ID))
	got, err := GetAutomation(db, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, DeleteAutomation(db, saved.ID), ErrAutomationNotFound)
	assert.ErrorIs(t, SetAutomationActive(db, saved.ID, true), ErrAutomationNotFound)
}
