// ABOUTME: Combined contact evaluation used by the CLI, MCP and TUI surfaces
// ABOUTME: Runs lead, engagement and conversion scoring against one captured clock
package scoring

import (
	"time"

	"github.com/harperreed/leadflow/models"
)

type Evaluation struct {
	Lead                  LeadScoreResult `json:"lead"`
	Engagement            int             `json:"engagement"`
	ConversionProbability int             `json:"conversion_probability"`
	HasActiveDeal         bool            `json:"has_active_deal"`
}

// Evaluate scores a contact together with its activities and opportunities.
func Evaluate(contact models.Contact, activities []models.Activity, opportunities []models.Opportunity, now time.Time) Evaluation {
	lead := LeadScore(contact)
	active := HasOpenOpportunity(opportunities)

	return Evaluation{
		Lead:                  lead,
		Engagement:            EngagementScore(activities, now),
		ConversionProbability: ConversionProbability(lead.TotalScore, active),
		HasActiveDeal:         active,
	}
}

// HasOpenOpportunity reports whether any opportunity is still open.
func HasOpenOpportunity(opportunities []models.Opportunity) bool {
	for _, o := range opportunities {
		if o.Status == models.OpportunityStatusOpen {
			return true
		}
	}
	return false
}
