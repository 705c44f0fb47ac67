// ABOUTME: Lead score calculation from profile completeness, revenue and recency
// ABOUTME: Produces a 0-100 score, its factor breakdown and a temperature level
package scoring

import (
	"math"

	"github.com/harperreed/leadflow/models"
)

// Level is the temperature bucket of a lead score.
type Level string

const (
	LevelCold Level = "cold"
	LevelWarm Level = "warm"
	LevelHot  Level = "hot"
)

const (
	maxScore = 100

	hotThreshold  = 70
	warmThreshold = 40

	maxRevenuePoints = 20
	revenuePerPoint  = 1000.0

	maxDecayPoints = 20
	daysPerDecay   = 7
)

// ScoreFactors is the breakdown of a lead score. Decay is stored as a
// deduction (zero or negative). Activity is reserved and always zero here.
type ScoreFactors struct {
	Profile  int `json:"profile"`
	Activity int `json:"activity"`
	Revenue  int `json:"revenue"`
	Decay    int `json:"decay"`
}

type LeadScoreResult struct {
	TotalScore int          `json:"total_score"`
	Factors    ScoreFactors `json:"factors"`
	Level      Level        `json:"level"`
}

// LeadScore computes the lead score for a contact snapshot.
func LeadScore(contact models.Contact) LeadScoreResult {
	profile := profilePoints(contact)
	revenue := revenuePoints(contact.TotalRevenueGenerated)
	decay := decayPoints(contact.DaysSinceLastInteraction)

	total := clamp(profile+revenue-decay, 0, maxScore)

	return LeadScoreResult{
		TotalScore: total,
		Factors: ScoreFactors{
			Profile: profile,
			Revenue: revenue,
			Decay:   -decay,
		},
		Level: LevelFor(total),
	}
}

// LevelFor maps a total score onto its temperature level.
func LevelFor(score int) Level {
	switch {
	case score >= hotThreshold:
		return LevelHot
	case score >= warmThreshold:
		return LevelWarm
	default:
		return LevelCold
	}
}

func profilePoints(c models.Contact) int {
	points := 0
	if c.Email != "" {
		points += 10
	}
	if c.PhoneMobile != "" || c.PhoneLandline != "" {
		points += 10
	}
	if c.JobTitle != "" {
		points += 5
	}
	if c.CompanyID != nil {
		points += 5
	}
	if c.Address != "" {
		points += 5
	}
	if c.PreferredLanguage != "" {
		points += 5
	}
	return points
}

func revenuePoints(revenue float64) int {
	if math.IsNaN(revenue) || revenue <= 0 {
		return 0
	}
	return int(math.Min(maxRevenuePoints, math.Floor(revenue/revenuePerPoint)))
}

func decayPoints(days int) int {
	if days <= 0 {
		return 0
	}
	return min(maxDecayPoints, days/daysPerDecay)
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
