package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the report pipeline. Repositories and the scoring
// service wrap these so callers can classify failures with errors.Is.
var (
	ErrDataUnavailable   = errors.New("performance data unavailable")
	ErrInvalidWindow     = errors.New("invalid activity window")
	ErrInvalidRankingKey = errors.New("invalid ranking key")
	ErrStaffNotFound     = errors.New("staff member not found")
)

// Placeholder values substituted for missing organizational attributes.
const (
	DeptNotAssigned     = "Not Assigned"
	DesigNotSpecified   = "Not Specified"
	RoleNotCategorized  = "Not Categorized"
	DepartmentFilterAll = "All"
)

// StaffMember is an active staff identity with organizational attributes.
// Nullable columns are resolved to their placeholder values on read.
type StaffMember struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Department   string    `db:"department"`
	Designation  string    `db:"designation"`
	RoleCategory string    `db:"role_category"`
}

// ActivityWindow is the caller-supplied date range for a report run.
// Both dates are inclusive; Bounds adds the end-of-day boundary.
type ActivityWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Bounds returns the half-open [start, end) timestamp range used by all
// raw-data queries: start of Start's day through end of End's day.
func (w ActivityWindow) Bounds() (time.Time, time.Time) {
	start := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, w.Start.Location())
	end := time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 0, 0, 0, 0, w.End.Location()).AddDate(0, 0, 1)
	return start, end
}

// Validate rejects a window whose end precedes its start or which is unset.
func (w ActivityWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidWindow
	}
	if w.End.Before(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// TicketStats holds the per-staff ticket aggregates for one window.
type TicketStats struct {
	StaffID            uuid.UUID  `db:"staff_id"`
	TotalTickets       int        `db:"total_tickets"`
	TicketsClosed      int        `db:"tickets_closed"`
	TicketsOpen        int        `db:"tickets_open"`
	TicketsPending     int        `db:"tickets_pending"`
	AvgResolutionHours float64    `db:"avg_resolution_hours"`
	MinResolutionHours float64    `db:"min_resolution_hours"`
	MaxResolutionHours float64    `db:"max_resolution_hours"`
	AvgRating          float64    `db:"avg_rating"`
	RatedTickets       int        `db:"rated_tickets"`
	HighRatings        int        `db:"high_ratings"`
	LowRatings         int        `db:"low_ratings"`
	CriticalTickets    int        `db:"critical_tickets"`
	HighTickets        int        `db:"high_tickets"`
	MediumTickets      int        `db:"medium_tickets"`
	LowTickets         int        `db:"low_tickets"`
	ClosedWithin24h    int        `db:"closed_within_24h"`
	SLACompliant       int        `db:"sla_compliant"`
	LastTicketAt       *time.Time `db:"last_ticket_at"`
	LastClosedAt       *time.Time `db:"last_closed_at"`
}

// WorkStats holds the per-staff work-log aggregates for one window.
type WorkStats struct {
	StaffID        uuid.UUID `db:"staff_id"`
	WorkLogEntries int       `db:"work_log_entries"`
	WorkLogHours   float64   `db:"work_log_hours"`
}

// VisitStats holds the per-staff site-visit aggregates for one window.
type VisitStats struct {
	StaffID         uuid.UUID `db:"staff_id"`
	TotalVisits     int       `db:"total_visits"`
	VisitsCompleted int       `db:"visits_completed"`
	VisitHours      float64   `db:"visit_hours"`
}

// PerformanceAggregate is one staff member's raw activity over a window,
// assembled from the ticket, work-log, and site-visit aggregates.
type PerformanceAggregate struct {
	Staff  StaffMember
	Ticket TicketStats
	Work   WorkStats
	Visit  VisitStats
}

// AvgHoursPerEntry returns the mean logged hours per work-log entry,
// zero when no entries exist.
func (a PerformanceAggregate) AvgHoursPerEntry() float64 {
	if a.Work.WorkLogEntries == 0 {
		return 0
	}
	return a.Work.WorkLogHours / float64(a.Work.WorkLogEntries)
}

// SLAPercent returns the share of closed tickets that met SLA, 0–100.
func (a PerformanceAggregate) SLAPercent() float64 {
	if a.Ticket.TicketsClosed == 0 {
		return 0
	}
	return float64(a.Ticket.SLACompliant) / float64(a.Ticket.TicketsClosed) * 100
}

// SubScores are the four normalized component scores, each in [0,100].
type SubScores struct {
	Productivity float64 `json:"productivity"`
	Efficiency   float64 `json:"efficiency"`
	Quality      float64 `json:"quality"`
	Activity     float64 `json:"activity"`
}

// RankingKey selects which score orders the final report.
type RankingKey string

const (
	RankByOverall      RankingKey = "overall"
	RankByProductivity RankingKey = "productivity"
	RankByEfficiency   RankingKey = "efficiency"
	RankByQuality      RankingKey = "quality"
	RankByActivity     RankingKey = "activity"
)

// Valid reports whether k names a known ranking key.
func (k RankingKey) Valid() bool {
	switch k {
	case RankByOverall, RankByProductivity, RankByEfficiency, RankByQuality, RankByActivity:
		return true
	}
	return false
}

// ScorePolicy selects between the two efficiency/quality formulations
// used by the report variants.
type ScorePolicy string

const (
	// PolicyBlend scores efficiency as a 50/50 blend of the
	// closed-within-24h and SLA-compliance percentages, and quality as a
	// rating/feedback/high-rating blend.
	PolicyBlend ScorePolicy = "blend"
	// PolicyStep scores efficiency as a step function of average
	// resolution hours and quality as a step function of average rating.
	PolicyStep ScorePolicy = "step"
)

// Valid reports whether p names a known score policy.
func (p ScorePolicy) Valid() bool {
	return p == PolicyBlend || p == PolicyStep
}

// TierPolicy selects how performance tiers are assigned.
type TierPolicy string

const (
	// TierByScore buckets staff by overall score thresholds.
	TierByScore TierPolicy = "score"
	// TierByThreshold applies the conjunctive raw-metric rule
	// (closed count AND average rating AND SLA percentage together).
	TierByThreshold TierPolicy = "threshold"
)

// Valid reports whether p names a known tier policy.
func (p TierPolicy) Valid() bool {
	return p == TierByScore || p == TierByThreshold
}

// Tier is a categorical performance bucket.
type Tier string

const (
	TierTop              Tier = "Top Performer"
	TierStrong           Tier = "Strong Performer"
	TierSatisfactory     Tier = "Satisfactory"
	TierNeedsImprovement Tier = "Needs Improvement"
	TierBelow            Tier = "Below Expectations"
)

var tierColors = map[Tier]string{
	TierTop:              "#28a745",
	TierStrong:           "#17a2b8",
	TierSatisfactory:     "#ffc107",
	TierNeedsImprovement: "#fd7e14",
	TierBelow:            "#dc3545",
}

var tierRecommendations = map[Tier]string{
	TierTop:              "Outstanding performance. Consider for team lead responsibilities and recognition.",
	TierStrong:           "Consistently strong results. Maintain current workload and review for growth opportunities.",
	TierSatisfactory:     "Solid contribution. Identify one focus area for the next review period.",
	TierNeedsImprovement: "Below target on key metrics. Schedule a coaching session and set measurable goals.",
	TierBelow:            "Significant gaps against expectations. Requires a structured improvement plan.",
}

// Color returns the fixed display color for the tier.
func (t Tier) Color() string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return "#6c757d"
}

// Recommendation returns the canned review text for the tier.
func (t Tier) Recommendation() string {
	if r, ok := tierRecommendations[t]; ok {
		return r
	}
	return "No recommendation available."
}

// ScoredStaffRecord is one staff member's fully scored and ranked entry
// in a report. Built per invocation and never persisted.
type ScoredStaffRecord struct {
	PerformanceAggregate
	Scores       SubScores
	OverallScore float64
	Tier         Tier

	OverallRank      int
	ProductivityRank int
	EfficiencyRank   int
	QualityRank      int
	ActivityRank     int
}

// ScoreFor returns the record's value for a ranking key.
func (r ScoredStaffRecord) ScoreFor(key RankingKey) float64 {
	switch key {
	case RankByProductivity:
		return r.Scores.Productivity
	case RankByEfficiency:
		return r.Scores.Efficiency
	case RankByQuality:
		return r.Scores.Quality
	case RankByActivity:
		return r.Scores.Activity
	default:
		return r.OverallScore
	}
}

// RankFor returns the record's dense rank for a ranking key.
func (r ScoredStaffRecord) RankFor(key RankingKey) int {
	switch key {
	case RankByProductivity:
		return r.ProductivityRank
	case RankByEfficiency:
		return r.EfficiencyRank
	case RankByQuality:
		return r.QualityRank
	case RankByActivity:
		return r.ActivityRank
	default:
		return r.OverallRank
	}
}

// Summary describes the ranked set as a whole.
type Summary struct {
	TotalRanked int          `json:"total_ranked"`
	AvgOverall  float64      `json:"avg_overall"`
	MaxOverall  float64      `json:"max_overall"`
	MinOverall  float64      `json:"min_overall"`
	TierCounts  map[Tier]int `json:"tier_counts"`
}

// Report is the complete output of one pipeline run.
type Report struct {
	Window      ActivityWindow
	RankedBy    RankingKey
	Records     []ScoredStaffRecord
	Summary     Summary
	GeneratedAt time.Time
}
