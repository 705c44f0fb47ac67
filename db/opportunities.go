// ABOUTME: Opportunity database operations
// ABOUTME: Handles opportunity lifecycle, status changes, and revenue rollup on win
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/models"
)

const opportunityColumns = `id, title, amount, currency, status, stage, company_id, contact_id,
	expected_close_date, created_at, updated_at`

// OpportunityFilter narrows FindOpportunities. Zero values match everything.
type OpportunityFilter struct {
	Status    string
	CompanyID *uuid.UUID
	ContactID *uuid.UUID
	Limit     int
}

func CreateOpportunity(db *sql.DB, opp *models.Opportunity) error {
	opp.ID = uuid.New()
	now := time.Now()
	opp.CreatedAt = now
	opp.UpdatedAt = now

	if opp.Currency == "" {
		opp.Currency = "EUR"
	}
	opp.Status = models.NormalizeOpportunityStatus(opp.Status)
	if opp.Status == "" {
		opp.Status = models.OpportunityStatusOpen
	}
	if !models.IsValidOpportunityStatus(opp.Status) {
		return fmt.Errorf("invalid opportunity status: %s", opp.Status)
	}

	_, err := db.Exec(`
		INSERT INTO opportunities (`+opportunityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, opp.ID.String(), opp.Title, opp.Amount, opp.Currency, opp.Status, opp.Stage,
		uuidOrNil(opp.CompanyID), uuidOrNil(opp.ContactID), opp.ExpectedCloseDate, opp.CreatedAt, opp.UpdatedAt)
	if err != nil {
		return err
	}

	return rollupRevenue(db, opp)
}

func GetOpportunity(db *sql.DB, id uuid.UUID) (*models.Opportunity, error) {
	row := db.QueryRow(`SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, id.String())

	opp, err := scanOpportunity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return opp, nil
}

// UpdateOpportunity writes all mutable fields. When the opportunity belongs to
// a contact, the contact's won revenue is recalculated.
func UpdateOpportunity(db *sql.DB, opp *models.Opportunity) error {
	opp.UpdatedAt = time.Now()
	opp.Status = models.NormalizeOpportunityStatus(opp.Status)
	if !models.IsValidOpportunityStatus(opp.Status) {
		return fmt.Errorf("invalid opportunity status: %s", opp.Status)
	}

	res, err := db.Exec(`
		UPDATE opportunities
		SET title = ?, amount = ?, currency = ?, status = ?, stage = ?, company_id = ?, contact_id = ?,
			expected_close_date = ?, updated_at = ?
		WHERE id = ?
	`, opp.Title, opp.Amount, opp.Currency, opp.Status, opp.Stage, uuidOrNil(opp.CompanyID),
		uuidOrNil(opp.ContactID), opp.ExpectedCloseDate, opp.UpdatedAt, opp.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("opportunity not found: %s", opp.ID)
	}

	return rollupRevenue(db, opp)
}

func FindOpportunities(db *sql.DB, filter OpportunityFilter) ([]models.Opportunity, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, models.NormalizeOpportunityStatus(filter.Status))
	}
	if filter.CompanyID != nil {
		query += " AND company_id = ?"
		args = append(args, filter.CompanyID.String())
	}
	if filter.ContactID != nil {
		query += " AND contact_id = ?"
		args = append(args, filter.ContactID.String())
	}

	query += " ORDER BY updated_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *o)
	}

	return opps, rows.Err()
}

// ListContactOpportunities returns every opportunity attached to a contact.
func ListContactOpportunities(db *sql.DB, contactID uuid.UUID) ([]models.Opportunity, error) {
	rows, err := db.Query(`
		SELECT `+opportunityColumns+`
		FROM opportunities
		WHERE contact_id = ?
		ORDER BY created_at DESC
	`, contactID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *o)
	}

	return opps, rows.Err()
}

func rollupRevenue(db *sql.DB, opp *models.Opportunity) error {
	if opp.ContactID == nil {
		return nil
	}
	if _, err := RecalculateContactRevenue(db, *opp.ContactID); err != nil {
		return fmt.Errorf("failed to recalculate revenue: %w", err)
	}
	return nil
}

func scanOpportunity(row rowScanner) (*models.Opportunity, error) {
	o := &models.Opportunity{}
	var companyID, contactID sql.NullString
	var expected sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Amount,
		&o.Currency,
		&o.Status,
		&o.Stage,
		&companyID,
		&contactID,
		&expected,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = models.NormalizeOpportunityStatus(o.Status)
	if companyID.Valid {
		if id, err := uuid.Parse(companyID.String); err == nil {
			o.CompanyID = &id
		}
	}
	if contactID.Valid {
		if id, err := uuid.Parse(contactID.String); err == nil {
			o.ContactID = &id
		}
	}
	if expected.Valid {
		t := expected.Time
		o.ExpectedCloseDate = &t
	}

	return o, nil
}
