// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII overview of lead temperature and the open pipeline
package viz

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
	"github.com/harperreed/leadflow/scoring"
)

type DashboardStats struct {
	// Contacts bucketed by lead level
	ContactsByLevel map[scoring.Level]int

	// Opportunities bucketed by status
	PipelineByStatus map[string]PipelineStatusStats

	// Sum of open opportunity amounts, in cents
	OpenPipelineValue int64

	TotalContacts      int
	TotalCompanies     int
	TotalOpportunities int

	// Needs attention
	StaleContacts []StaleContact
}

type PipelineStatusStats struct {
	Status string
	Count  int
	Amount int64 // in cents
}

type StaleContact struct {
	Name      string
	DaysSince int
}

// staleAfterDays matches the engagement window; older activity no longer counts.
const staleAfterDays = 30

func GenerateDashboardStats(database *sql.DB, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{
		ContactsByLevel:  make(map[scoring.Level]int),
		PipelineByStatus: make(map[string]PipelineStatusStats),
	}

	opps, err := db.FindOpportunities(database, db.OpportunityFilter{Limit: 10000})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}
	for _, opp := range opps {
		pstats := stats.PipelineByStatus[opp.Status]
		pstats.Status = opp.Status
		pstats.Count++
		pstats.Amount += opp.Amount
		stats.PipelineByStatus[opp.Status] = pstats

		if opp.Status == models.OpportunityStatusOpen {
			stats.OpenPipelineValue += opp.Amount
		}
	}
	stats.TotalOpportunities = len(opps)

	leads, err := db.RankLeads(database, "", 0, now)
	if err != nil {
		return nil, fmt.Errorf("failed to rank leads: %w", err)
	}
	for _, lead := range leads {
		stats.ContactsByLevel[lead.Evaluation.Lead.Level]++
		if lead.Contact.DaysSinceLastInteraction > staleAfterDays {
			stats.StaleContacts = append(stats.StaleContacts, StaleContact{
				Name:      lead.Contact.Name,
				DaysSince: lead.Contact.DaysSinceLastInteraction,
			})
		}
	}
	stats.TotalContacts = len(leads)

	companies, err := db.FindCompanies(database, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	stats.TotalCompanies = len(companies)

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  LEADFLOW DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("LEADS\n")
	renderLevels(&out, stats.ContactsByLevel)
	out.WriteString("\n")

	out.WriteString("PIPELINE\n")
	renderPipeline(&out, stats.PipelineByStatus)
	out.WriteString(fmt.Sprintf("  open value: %.2f\n\n", float64(stats.OpenPipelineValue)/100))

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  🏢 %d companies  💼 %d opportunities\n\n",
		stats.TotalContacts, stats.TotalCompanies, stats.TotalOpportunities))

	if len(stats.StaleContacts) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d contacts - no contact in %d+ days\n", len(stats.StaleContacts), staleAfterDays))
	}

	return out.String()
}

func renderLevels(out *strings.Builder, levels map[scoring.Level]int) {
	maxCount := 1
	for _, n := range levels {
		maxCount = max(maxCount, n)
	}

	for _, level := range []scoring.Level{scoring.LevelHot, scoring.LevelWarm, scoring.LevelCold} {
		n := levels[level]
		out.WriteString(fmt.Sprintf("  %-6s %s  %2d\n", level, bar(n, maxCount), n))
	}
}

func renderPipeline(out *strings.Builder, pipeline map[string]PipelineStatusStats) {
	maxCount := 1
	for _, pstats := range pipeline {
		maxCount = max(maxCount, pstats.Count)
	}

	for _, status := range models.OpportunityStatuses {
		pstats, exists := pipeline[status]
		if !exists {
			continue
		}
		out.WriteString(fmt.Sprintf("  %-11s %s  %2d (%.2f)\n",
			status, bar(pstats.Count, maxCount), pstats.Count, float64(pstats.Amount)/100))
	}
}

// bar draws a 10 block bar scaled against maxCount.
func bar(n, maxCount int) string {
	length := (n * 10) / maxCount
	return strings.Repeat("█", length) + strings.Repeat("░", 10-length)
}
