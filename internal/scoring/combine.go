package scoring

import (
	"StaffRankService/internal/models/domain"
	"math"
)

// Fixed overall-score weights. They must sum to 1.
const (
	WeightProductivity = 0.40
	WeightEfficiency   = 0.30
	WeightQuality      = 0.20
	WeightActivity     = 0.10
)

// Combine folds the four sub-scores into the overall score, rounded to
// two decimal places.
func Combine(s domain.SubScores) float64 {
	overall := s.Productivity*WeightProductivity +
		s.Efficiency*WeightEfficiency +
		s.Quality*WeightQuality +
		s.Activity*WeightActivity
	return math.Round(overall*100) / 100
}

// AssignTier buckets a record into a performance tier under the selected
// policy.
func AssignTier(overall float64, agg domain.PerformanceAggregate, policy domain.TierPolicy) domain.Tier {
	if policy == domain.TierByThreshold {
		return tierByThreshold(agg)
	}
	return tierByScore(overall)
}

func tierByScore(overall float64) domain.Tier {
	switch {
	case overall >= 90:
		return domain.TierTop
	case overall >= 80:
		return domain.TierStrong
	case overall >= 70:
		return domain.TierSatisfactory
	case overall >= 60:
		return domain.TierNeedsImprovement
	default:
		return domain.TierBelow
	}
}

// tierByThreshold is the conjunctive raw-metric rule: every condition of
// a tier must hold simultaneously, which makes it stricter than the
// score-based bucketing.
func tierByThreshold(agg domain.PerformanceAggregate) domain.Tier {
	t := agg.Ticket
	sla := agg.SLAPercent()
	switch {
	case t.TicketsClosed >= 10 && t.AvgRating >= 4.0 && sla >= 70:
		return domain.TierTop
	case t.TicketsClosed >= 5 && t.AvgRating >= 3.5 && sla >= 50:
		return domain.TierStrong
	case t.TicketsClosed >= 3:
		return domain.TierSatisfactory
	case t.TicketsClosed >= 1:
		return domain.TierNeedsImprovement
	default:
		return domain.TierBelow
	}
}
