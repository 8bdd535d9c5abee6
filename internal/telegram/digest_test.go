package telegram

import (
	"testing"
	"time"

	"StaffRankService/internal/models/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func digestReport() *domain.Report {
	window := domain.ActivityWindow{
		Start: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC),
	}
	records := []domain.ScoredStaffRecord{
		{
			PerformanceAggregate: domain.PerformanceAggregate{
				Staff: domain.StaffMember{ID: uuid.New(), Name: "Anna", Department: "Networks"},
			},
			OverallScore: 92.5,
			Tier:         domain.TierTop,
			OverallRank:  1,
		},
		{
			PerformanceAggregate: domain.PerformanceAggregate{
				Staff: domain.StaffMember{ID: uuid.New(), Name: "Ben", Department: "Servers"},
			},
			OverallScore: 74.0,
			Tier:         domain.TierSatisfactory,
			OverallRank:  2,
		},
	}
	return &domain.Report{
		Window:   window,
		RankedBy: domain.RankByOverall,
		Records:  records,
		Summary: domain.Summary{
			TotalRanked: 2, AvgOverall: 83.25, MaxOverall: 92.5, MinOverall: 74.0,
			TierCounts: map[domain.Tier]int{domain.TierTop: 1, domain.TierSatisfactory: 1},
		},
	}
}

func TestFormatDigestTopN(t *testing.T) {
	text := formatDigest(digestReport(), "monthly", 1)

	assert.Contains(t, text, "monthly")
	assert.Contains(t, text, "2025-08-01 to 2025-08-28")
	assert.Contains(t, text, "1. *Anna* (Networks) - 92.50, Top Performer")
	assert.NotContains(t, text, "Ben", "digest is capped at top N")
	assert.Contains(t, text, "Ranked: 2 | avg 83.25 | max 92.50 | min 74.00")
}

func TestFormatDigestEmpty(t *testing.T) {
	report := digestReport()
	report.Records = nil
	report.Summary = domain.Summary{TierCounts: map[domain.Tier]int{}}

	text := formatDigest(report, "weekly", 10)
	assert.Contains(t, text, "No staff met the minimum activity threshold")
}

func TestFormatDigestOversizedTopN(t *testing.T) {
	text := formatDigest(digestReport(), "monthly", 50)
	assert.Contains(t, text, "Anna")
	assert.Contains(t, text, "Ben")
}
