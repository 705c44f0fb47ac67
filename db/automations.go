// ABOUTME: Automation database operations
// ABOUTME: Persists workflow drafts alongside their flattened executor payload
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/workflow"
)

var ErrAutomationNotFound = errors.New("automation not found")

const automationColumns = `id, name, description, trigger_type, active, definition, payload, created_at, updated_at`

// SaveAutomation validates the draft and stores it. A nil id creates a new
// automation; otherwise the existing row is replaced and keeps its active flag.
func SaveAutomation(db *sql.DB, id *uuid.UUID, draft *workflow.Draft) (*models.Automation, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	definition, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal definition: %w", err)
	}
	payload, err := json.Marshal(draft.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	now := time.Now()

	if id == nil {
		a := &models.Automation{
			ID:          uuid.New(),
			Name:        draft.Name,
			Description: draft.Description,
			TriggerType: string(draft.TriggerType),
			Definition:  string(definition),
			Payload:     string(payload),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		_, err := db.Exec(`
			INSERT INTO automations (`+automationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID.String(), a.Name, a.Description, a.TriggerType, a.Active, a.Definition, a.Payload, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert automation: %w", err)
		}
		return a, nil
	}

	res, err := db.Exec(`
		UPDATE automations
		SET name = ?, description = ?, trigger_type = ?, definition = ?, payload = ?, updated_at = ?
		WHERE id = ?
	`, draft.Name, draft.Description, string(draft.TriggerType), string(definition), string(payload), now, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to update automation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAutomationNotFound, id)
	}

	return GetAutomation(db, *id)
}

func GetAutomation(db *sql.DB, id uuid.UUID) (*models.Automation, error) {
	row := db.QueryRow(`SELECT `+automationColumns+` FROM automations WHERE id = ?`, id.String())

	a, err := scanAutomation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// LoadDraft decodes the stored definition back into an editable draft.
func LoadDraft(a *models.Automation) (*workflow.Draft, error) {
	var d workflow.Draft
	if err := json.Unmarshal([]byte(a.Definition), &d); err != nil {
		return nil, fmt.Errorf("failed to decode automation %s: %w", a.ID, err)
	}
	return &d, nil
}

// ListAutomations returns automations by most recent update. An empty
// trigger matches all.
func ListAutomations(db *sql.DB, trigger string) ([]models.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations`
	var args []any
	if trigger != "" {
		query += ` WHERE trigger_type = ?`
		args = append(args, trigger)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var automations []models.Automation
	for rows.Next() {
		a, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		automations = append(automations, *a)
	}

	return automations, rows.Err()
}

func SetAutomationActive(db *sql.DB, id uuid.UUID, active bool) error {
	res, err := db.Exec(`UPDATE automations SET active = ?, updated_at = ? WHERE id = ?`, active, time.Now(), id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrAutomationNotFound, id)
	}
	return nil
}

func DeleteAutomation(db *sql.DB, id uuid.UUID) error {
	res, err := db.Exec(`DELETE FROM automations WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrAutomationNotFound, id)
	}
	return nil
}

func scanAutomation(row rowScanner) (*models.Automation, error) {
	a := &models.Automation{}
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.TriggerType,
		&a.Active,
		&a.Definition,
		&a.Payload,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
