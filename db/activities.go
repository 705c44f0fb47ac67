// ABOUTME: Activity database operations
// ABOUTME: Logs calls, emails, meetings and tasks against contacts and tracks last contact
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/models"
)

// LogActivity records an activity and moves the contact's last_contacted_at
// forward to the activity time.
func LogActivity(db *sql.DB, activity *models.Activity) error {
	if !models.IsValidActivityType(activity.Type) {
		return fmt.Errorf("invalid activity type: %s", activity.Type)
	}

	activity.ID = uuid.New()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	if activity.Status == "" {
		activity.Status = models.ActivityStatusPending
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		INSERT INTO activities (id, contact_id, type, status, subject, notes, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, activity.ID.String(), activity.ContactID.String(), activity.Type, activity.Status,
		activity.Subject, activity.Notes, activity.DueAt, activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	// Only move forward; backdated entries leave a newer timestamp alone
	_, err = tx.Exec(`
		UPDATE contacts
		SET last_contacted_at = ?, updated_at = ?
		WHERE id = ? AND (last_contacted_at IS NULL OR last_contacted_at < ?)
	`, activity.CreatedAt, time.Now(), activity.ContactID.String(), activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	return tx.Commit()
}

// ListContactActivities returns a contact's activities, newest first.
// A limit of zero or less returns all of them.
func ListContactActivities(db *sql.DB, contactID uuid.UUID, limit int) ([]models.Activity, error) {
	query := `
		SELECT id, contact_id, type, status, subject, notes, due_at, created_at
		FROM activities
		WHERE contact_id = ?
		ORDER BY created_at DESC`
	args := []any{contactID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var dueAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.ContactID, &a.Type, &a.Status, &a.Subject, &a.Notes, &dueAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		if dueAt.Valid {
			t := dueAt.Time
			a.DueAt = &t
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}
