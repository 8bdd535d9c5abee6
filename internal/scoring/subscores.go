package scoring

import (
	"StaffRankService/internal/models/domain"
)

// Neutral defaults applied when the underlying data is absent. Missing
// ratings or closed tickets are data conditions, not penalties, so these
// are deliberately non-zero.
const (
	defaultEfficiency = 50
	defaultQuality    = 60
)

// productivityMultiplier rewards high closure ratios disproportionately:
// a 67% closure rate already scores 100. Inherited from the original
// report formulas and kept intentionally.
const productivityMultiplier = 1.5

// Subscores converts a raw aggregate into the four component scores,
// each clamped to [0,100]. Efficiency and quality follow the selected
// policy; productivity and activity are the same under both.
func Subscores(agg domain.PerformanceAggregate, policy domain.ScorePolicy) domain.SubScores {
	s := domain.SubScores{
		Productivity: productivityScore(agg),
		Activity:     activityScore(agg),
	}
	switch policy {
	case domain.PolicyStep:
		s.Efficiency = efficiencyStep(agg)
		s.Quality = qualityStep(agg)
	default:
		s.Efficiency = efficiencyBlend(agg)
		s.Quality = qualityBlend(agg)
	}
	return s
}

// productivityScore scales the closure rate: min(100, closureRate*100*1.5).
// Zero tickets scores zero.
func productivityScore(agg domain.PerformanceAggregate) float64 {
	t := agg.Ticket
	if t.TotalTickets == 0 {
		return 0
	}
	rate := float64(t.TicketsClosed) / float64(t.TotalTickets) * 100
	return clamp(rate * productivityMultiplier)
}

// efficiencyBlend averages the closed-within-24h percentage and the SLA
// compliance percentage, each weighted 50%. No closed tickets yields the
// neutral default.
func efficiencyBlend(agg domain.PerformanceAggregate) float64 {
	t := agg.Ticket
	if t.TicketsClosed == 0 {
		return defaultEfficiency
	}
	within24 := float64(t.ClosedWithin24h) / float64(t.TicketsClosed) * 100
	return clamp(within24*0.5 + agg.SLAPercent()*0.5)
}

// efficiencyStep buckets average resolution hours. No closed tickets
// yields the neutral default.
func efficiencyStep(agg domain.PerformanceAggregate) float64 {
	t := agg.Ticket
	if t.TicketsClosed == 0 {
		return defaultEfficiency
	}
	switch h := t.AvgResolutionHours; {
	case h < 4:
		return 100
	case h < 8:
		return 90
	case h < 24:
		return 80
	case h < 48:
		return 60
	case h < 72:
		return 40
	default:
		return 20
	}
}

// qualityBlend combines the average rating (up to 50 pts), the fraction of
// tickets with any feedback (up to 25 pts), and the fraction rated 4 or
// higher (up to 25 pts). No ratings yields the neutral default.
func qualityBlend(agg domain.PerformanceAggregate) float64 {
	t := agg.Ticket
	if t.RatedTickets == 0 || t.TotalTickets == 0 {
		return defaultQuality
	}
	ratingPts := t.AvgRating / 5 * 50
	feedbackPts := float64(t.RatedTickets) / float64(t.TotalTickets) * 25
	highPts := float64(t.HighRatings) / float64(t.TotalTickets) * 25
	return clamp(ratingPts + feedbackPts + highPts)
}

// qualityStep buckets the average client rating. No ratings yields the
// neutral default.
func qualityStep(agg domain.PerformanceAggregate) float64 {
	t := agg.Ticket
	if t.RatedTickets == 0 {
		return defaultQuality
	}
	switch r := t.AvgRating; {
	case r >= 4.5:
		return 100
	case r >= 4.0:
		return 90
	case r >= 3.5:
		return 80
	case r >= 3.0:
		return 70
	case r >= 2.5:
		return 60
	default:
		return 50
	}
}

// activityScore rewards logged work and completed site visits. Each
// channel is capped before scaling so neither can saturate the score
// alone: 20 entries and 10 visits both contribute at most 50 points.
func activityScore(agg domain.PerformanceAggregate) float64 {
	entries := agg.Work.WorkLogEntries
	if entries > 20 {
		entries = 20
	}
	visits := agg.Visit.VisitsCompleted
	if visits > 10 {
		visits = 10
	}
	return clamp(float64(entries)*2.5 + float64(visits)*5)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
