// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations, contact lookups, and interaction tracking
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/models"
)

const contactColumns = `id, name, email, phone_mobile, phone_landline, job_title, company_id, address,
	preferred_language, status, total_revenue_generated, notes, last_contacted_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if contact.Status == "" {
		contact.Status = models.ContactStatusNew
	}

	_, err := db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Name, contact.Email, contact.PhoneMobile, contact.PhoneLandline,
		contact.JobTitle, uuidOrNil(contact.CompanyID), contact.Address, contact.PreferredLanguage,
		contact.Status, contact.TotalRevenueGenerated, contact.Notes, contact.LastContactedAt,
		contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return err
	}

	contact.DaysSinceLastInteraction = DaysSince(lastInteraction(contact), now)
	return nil
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())

	contact, err := scanContact(row, time.Now())
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// FindContacts searches by name or email, or filters by company when companyID is set.
func FindContacts(db *sql.DB, query string, companyID *uuid.UUID, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows *sql.Rows
	var err error

	if companyID != nil {
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			WHERE company_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		`, companyID.String(), limit)
	} else if query != "" {
		searchPattern := "%" + strings.ToLower(query) + "%"
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ?
			ORDER BY created_at DESC
			LIMIT ?
		`, searchPattern, searchPattern, limit)
	} else {
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows, now)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

func UpdateContact(db *sql.DB, id uuid.UUID, updates *models.Contact) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE contacts
		SET name = ?, email = ?, phone_mobile = ?, phone_landline = ?, job_title = ?, company_id = ?,
			address = ?, preferred_language = ?, status = ?, total_revenue_generated = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, updates.Name, updates.Email, updates.PhoneMobile, updates.PhoneLandline, updates.JobTitle,
		uuidOrNil(updates.CompanyID), updates.Address, updates.PreferredLanguage, updates.Status,
		updates.TotalRevenueGenerated, updates.Notes, updates.UpdatedAt, id.String())

	return err
}

func DeleteContact(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	// Activities belong to the contact
	_, err = tx.Exec(`DELETE FROM activities WHERE contact_id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete activities: %w", err)
	}

	// Set contact_id to NULL for any opportunities
	_, err = tx.Exec(`UPDATE opportunities SET contact_id = NULL WHERE contact_id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to update opportunities: %w", err)
	}

	// Delete the contact
	_, err = tx.Exec(`DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return tx.Commit()
}

func UpdateContactLastContacted(db *sql.DB, contactID uuid.UUID, timestamp time.Time) error {
	_, err := db.Exec(`
		UPDATE contacts
		SET last_contacted_at = ?, updated_at = ?
		WHERE id = ?
	`, timestamp, time.Now(), contactID.String())

	return err
}

// RecalculateContactRevenue sets total_revenue_generated to the sum of the
// contact's won opportunities, converted from cents.
func RecalculateContactRevenue(db *sql.DB, contactID uuid.UUID) (float64, error) {
	var cents int64
	err := db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM opportunities
		WHERE contact_id = ? AND status = ?
	`, contactID.String(), models.OpportunityStatusWon).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("failed to sum won opportunities: %w", err)
	}

	revenue := float64(cents) / 100
	_, err = db.Exec(`
		UPDATE contacts SET total_revenue_generated = ?, updated_at = ? WHERE id = ?
	`, revenue, time.Now(), contactID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to update revenue: %w", err)
	}

	return revenue, nil
}

// DaysSince returns whole days elapsed between ref and now, never negative.
func DaysSince(ref time.Time, now time.Time) int {
	if ref.IsZero() || now.Before(ref) {
		return 0
	}
	return int(now.Sub(ref).Hours() / 24)
}

func lastInteraction(c *models.Contact) time.Time {
	if c.LastContactedAt != nil {
		return *c.LastContactedAt
	}
	return c.CreatedAt
}

func scanContact(row rowScanner, now time.Time) (*models.Contact, error) {
	c := &models.Contact{}
	var companyID sql.NullString
	var lastContacted sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.PhoneMobile,
		&c.PhoneLandline,
		&c.JobTitle,
		&companyID,
		&c.Address,
		&c.PreferredLanguage,
		&c.Status,
		&c.TotalRevenueGenerated,
		&c.Notes,
		&lastContacted,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if companyID.Valid {
		cid, err := uuid.Parse(companyID.String)
		if err == nil {
			c.CompanyID = &cid
		}
	}
	if lastContacted.Valid {
		t := lastContacted.Time
		c.LastContactedAt = &t
	}

	c.DaysSinceLastInteraction = DaysSince(lastInteraction(c), now)
	return c, nil
}

func uuidOrNil(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
