// ABOUTME: Tests for lead, engagement and conversion scoring
// ABOUTME: Covers factor caps, level thresholds and recency weighting
package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadflow/models"
	"github.com/stretchr/testify/assert"
)

func fullProfile() models.Contact {
	companyID := uuid.New()
	return models.Contact{
		Email:             "ana@acme.com",
		PhoneMobile:       "+34 600 000 000",
		JobTitle:          "CTO",
		CompanyID:         &companyID,
		Address:           "Calle Mayor 1",
		PreferredLanguage: "es",
	}
}

func TestLeadScoreEmptyContact(t *testing.T) {
	result := LeadScore(models.Contact{})

	assert.Equal(t, 0, result.TotalScore)
	assert.Equal(t, LevelCold, result.Level)
	assert.Equal(t, ScoreFactors{}, result.Factors)
}

func TestLeadScoreFullProfileMaxRevenue(t *testing.T) {
	c := fullProfile()
	c.TotalRevenueGenerated = 25000

	result := LeadScore(c)

	assert.Equal(t, 40, result.Factors.Profile)
	assert.Equal(t, 20, result.Factors.Revenue)
	assert.Equal(t, 0, result.Factors.Decay)
	assert.Equal(t, 0, result.Factors.Activity)
	assert.Equal(t, 60, result.TotalScore)
	assert.Equal(t, LevelWarm, result.Level)
}

func TestLeadScoreProfilePoints(t *testing.T) {
	companyID := uuid.New()
	cases := []struct {
		name    string
		contact models.Contact
		want    int
	}{
		{"email", models.Contact{Email: "a@b.c"}, 10},
		{"mobile", models.Contact{PhoneMobile: "1"}, 10},
		{"landline", models.Contact{PhoneLandline: "1"}, 10},
		{"both phones count once", models.Contact{PhoneMobile: "1", PhoneLandline: "2"}, 10},
		{"job title", models.Contact{JobTitle: "CEO"}, 5},
		{"company", models.Contact{CompanyID: &companyID}, 5},
		{"address", models.Contact{Address: "x"}, 5},
		{"language", models.Contact{PreferredLanguage: "es"}, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LeadScore(tc.contact).Factors.Profile)
		})
	}
}

func TestLeadScoreRevenueFloors(t *testing.T) {
	assert.Equal(t, 0, LeadScore(models.Contact{TotalRevenueGenerated: 999}).Factors.Revenue)
	assert.Equal(t, 1, LeadScore(models.Contact{TotalRevenueGenerated: 1999.99}).Factors.Revenue)
	assert.Equal(t, 20, LeadScore(models.Contact{TotalRevenueGenerated: 20000}).Factors.Revenue)
	assert.Equal(t, 0, LeadScore(models.Contact{TotalRevenueGenerated: -5000}).Factors.Revenue)
}

func TestLeadScoreDecay(t *testing.T) {
	c := fullProfile()
	c.DaysSinceLastInteraction = 20

	result := LeadScore(c)
	assert.Equal(t, -2, result.Factors.Decay)
	assert.Equal(t, 38, result.TotalScore)
	assert.Equal(t, LevelCold, result.Level)
}

func TestLeadScoreDecayCap(t *testing.T) {
	for _, days := range []int{140, 141, 500, 10000} {
		c := models.Contact{DaysSinceLastInteraction: days}
		assert.Equal(t, -20, LeadScore(c).Factors.Decay, "days=%d", days)
	}
}

func TestLeadScoreNeverNegative(t *testing.T) {
	c := models.Contact{Email: "a@b.c", DaysSinceLastInteraction: 365}

	result := LeadScore(c)
	assert.Equal(t, 0, result.TotalScore)
	assert.Equal(t, -20, result.Factors.Decay)
}

func TestLeadScoreNegativeDaysIgnored(t *testing.T) {
	c := models.Contact{DaysSinceLastInteraction: -30}
	assert.Equal(t, 0, LeadScore(c).Factors.Decay)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelCold, LevelFor(0))
	assert.Equal(t, LevelCold, LevelFor(39))
	assert.Equal(t, LevelWarm, LevelFor(40))
	assert.Equal(t, LevelWarm, LevelFor(69))
	assert.Equal(t, LevelHot, LevelFor(70))
	assert.Equal(t, LevelHot, LevelFor(100))
}

func TestEngagementScore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, EngagementScore(nil, now))
	assert.Equal(t, 0, EngagementScore([]models.Activity{}, now))

	meetingToday := []models.Activity{{Type: models.ActivityMeeting, CreatedAt: now}}
	assert.Equal(t, 10, EngagementScore(meetingToday, now))

	mixed := []models.Activity{
		{Type: models.ActivityMeeting, CreatedAt: now.AddDate(0, 0, -15)}, // 10 * 0.5
		{Type: models.ActivityCall, CreatedAt: now},                       // 5
		{Type: models.ActivityEmail, CreatedAt: now},                      // 2
		{Type: models.ActivityTask, CreatedAt: now},                       // 1
		{Type: models.ActivityNote, CreatedAt: now},                       // 1
		{Type: models.ActivityMeeting, CreatedAt: now.AddDate(0, 0, -31)}, // outside window
	}
	assert.Equal(t, 14, EngagementScore(mixed, now))
}

func TestEngagementScoreWindowEdge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	atEdge := []models.Activity{{Type: models.ActivityMeeting, CreatedAt: now.AddDate(0, 0, -30)}}

	assert.Equal(t, 0, EngagementScore(atEdge, now))
}

func TestEngagementScoreCap(t *testing.T) {
	now := time.Now()
	var activities []models.Activity
	for i := 0; i < 20; i++ {
		activities = append(activities, models.Activity{Type: models.ActivityMeeting, CreatedAt: now})
	}

	assert.Equal(t, 100, EngagementScore(activities, now))
}

func TestConversionProbability(t *testing.T) {
	assert.Equal(t, 0, ConversionProbability(0, false))
	assert.Equal(t, 80, ConversionProbability(100, true))
	assert.Equal(t, 20, ConversionProbability(0, true))
	assert.Equal(t, 40, ConversionProbability(80, false))
	assert.Equal(t, 51, ConversionProbability(81, false)) // 40.5 + 10 rounds up
	assert.Equal(t, 71, ConversionProbability(81, true))
	assert.Equal(t, 95, ConversionProbability(200, true))
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := fullProfile()
	c.TotalRevenueGenerated = 50000

	eval := Evaluate(c,
		[]models.Activity{{Type: models.ActivityCall, CreatedAt: now}},
		[]models.Opportunity{{Status: models.OpportunityStatusLost}, {Status: models.OpportunityStatusOpen}},
		now,
	)

	assert.Equal(t, 60, eval.Lead.TotalScore)
	assert.Equal(t, 5, eval.Engagement)
	assert.True(t, eval.HasActiveDeal)
	assert.Equal(t, 50, eval.ConversionProbability)
}

func TestHasOpenOpportunity(t *testing.T) {
	assert.False(t, HasOpenOpportunity(nil))
	assert.False(t, HasOpenOpportunity([]models.Opportunity{{Status: models.OpportunityStatusWon}}))
	assert.True(t, HasOpenOpportunity([]models.Opportunity{{Status: models.OpportunityStatusOpen}}))
}
