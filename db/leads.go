// ABOUTME: Lead loading and ranking built on stored contacts
// ABOUTME: Joins a contact with its activities and opportunities and scores it
package db

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/scoring"
)

// Lead is a contact with everything needed to score it.
type Lead struct {
	Contact       models.Contact
	Activities    []models.Activity
	Opportunities []models.Opportunity
	Evaluation    scoring.Evaluation
}

// LoadLead returns nil when the contact does not exist.
func LoadLead(db *sql.DB, contactID uuid.UUID, now time.Time) (*Lead, error) {
	contact, err := GetContact(db, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, nil
	}
	return buildLead(db, *contact, now)
}

// RankLeads scores every contact and returns them best first. A non-empty
// level keeps only that level; limit <= 0 returns all.
func RankLeads(db *sql.DB, level scoring.Level, limit int, now time.Time) ([]Lead, error) {
	contacts, err := FindContacts(db, "", nil, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	var leads []Lead
	for _, c := range contacts {
		lead, err := buildLead(db, c, now)
		if err != nil {
			return nil, err
		}
		if level != "" && lead.Evaluation.Lead.Level != level {
			continue
		}
		leads = append(leads, *lead)
	}

	sort.SliceStable(leads, func(i, j int) bool {
		a, b := leads[i].Evaluation, leads[j].Evaluation
		if a.Lead.TotalScore != b.Lead.TotalScore {
			return a.Lead.TotalScore > b.Lead.TotalScore
		}
		if a.Engagement != b.Engagement {
			return a.Engagement > b.Engagement
		}
		return leads[i].Contact.Name < leads[j].Contact.Name
	})

	if limit > 0 && len(leads) > limit {
		leads = leads[:limit]
	}
	return leads, nil
}

func buildLead(db *sql.DB, contact models.Contact, now time.Time) (*Lead, error) {
	activities, err := ListContactActivities(db, contact.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	opps, err := ListContactOpportunities(db, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	return &Lead{
		Contact:       contact,
		Activities:    activities,
		Opportunities: opps,
		Evaluation:    scoring.Evaluate(contact, activities, opps, now),
	}, nil
}
