// ABOUTME: Engagement and conversion scoring
// ABOUTME: Time-decayed activity weighting and deal-aware conversion probability
package scoring

import (
	"math"
	"time"

	"github.com/harperreed/leadflow/models"
)

const (
	engagementWindowDays = 30.0
	maxEngagement        = 100.0
	maxConversion        = 95
)

var activityWeights = map[string]float64{
	models.ActivityMeeting: 10,
	models.ActivityCall:    5,
	models.ActivityEmail:   2,
	models.ActivityTask:    1,
}

const defaultActivityWeight = 1.0

// ActivityWeight returns the engagement weight of an activity type.
func ActivityWeight(activityType string) float64 {
	if w, ok := activityWeights[activityType]; ok {
		return w
	}
	return defaultActivityWeight
}

// EngagementScore sums type-weighted activities over the last 30 days with a
// linear recency ramp. now must be captured once by the caller.
func EngagementScore(activities []models.Activity, now time.Time) int {
	if len(activities) == 0 {
		return 0
	}

	sum := 0.0
	for _, a := range activities {
		daysAgo := float64(now.Sub(a.CreatedAt)) / float64(24*time.Hour)
		if daysAgo > engagementWindowDays {
			continue
		}
		multiplier := math.Max(0, (engagementWindowDays-daysAgo)/engagementWindowDays)
		sum += ActivityWeight(a.Type) * multiplier
	}

	return int(math.Round(math.Min(maxEngagement, sum)))
}

// ConversionProbability estimates the chance a lead converts, capped at 95.
// The active-deal and high-score bonuses are independent.
func ConversionProbability(leadScore int, hasActiveDeal bool) int {
	p := float64(leadScore) * 0.5
	if hasActiveDeal {
		p += 20
	}
	if leadScore > 80 {
		p += 10
	}
	return clamp(int(math.Round(p)), 0, maxConversion)
}
