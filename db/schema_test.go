// ABOUTME: Tests for database schema creation
// ABOUTME: Uses in-memory SQLite for fast isolated tests
package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSchema(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	for _, table := range []string{"companies", "contacts", "opportunities", "activities", "automations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	indexes := []string{
		"idx_contacts_status",
		"idx_opportunities_status",
		"idx_activities_contact",
		"idx_automations_trigger",
	}
	for _, idx := range indexes {
		var indexName string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&indexName)
		assert.NoError(t, err, "index %s", idx)
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	require.NoError(t, InitSchema(db))
}

func TestSchemaRejectsUnknownContactStatus(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	_, err := db.Exec(`INSERT INTO contacts (id, name, status, created_at, updated_at)
		VALUES ('x', 'Bad', 'open', datetime('now'), datetime('now'))`)
	assert.Error(t, err)
}
