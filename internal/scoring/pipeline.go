package scoring

import (
	"StaffRankService/internal/models/domain"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DataSource is the read-only activity store consumed by the pipeline.
// Implemented by the repositories package.
type DataSource interface {
	ListActiveStaff(ctx context.Context, department string) ([]domain.StaffMember, error)
	GetStaffByID(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error)
	TicketAggregates(ctx context.Context, window domain.ActivityWindow) (map[uuid.UUID]domain.TicketStats, error)
	WorkLogAggregates(ctx context.Context, window domain.ActivityWindow) (map[uuid.UUID]domain.WorkStats, error)
	SiteVisitAggregates(ctx context.Context, window domain.ActivityWindow) (map[uuid.UUID]domain.VisitStats, error)
}

// Request is the explicit configuration for one report run. All former
// page-level state (date range, department, filters) travels here.
type Request struct {
	Window      domain.ActivityWindow
	Department  string
	StaffID     *uuid.UUID
	MinTickets  int
	RankingBy   domain.RankingKey
	ScorePolicy domain.ScorePolicy
	TierPolicy  domain.TierPolicy
}

// Service runs the staff performance pipeline:
// aggregate → sub-scores → combine → rank.
type Service struct {
	data DataSource
	log  *slog.Logger
}

// New creates a new scoring service.
func New(logger *slog.Logger, data DataSource) *Service {
	return &Service{
		data: data,
		log:  logger.With(slog.String("component", "scoring")),
	}
}

// Run executes one full report. It is deterministic for a fixed data set
// and request, and no stage mutates the output of an earlier stage.
func (s *Service) Run(ctx context.Context, req Request) (*domain.Report, error) {
	op := "scoring.Run"

	if err := req.Window.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if req.RankingBy == "" {
		// Documented default, mirroring the legacy reports' fallthrough.
		req.RankingBy = domain.RankByOverall
	}
	if !req.RankingBy.Valid() {
		return nil, fmt.Errorf("%s: %w: %q", op, domain.ErrInvalidRankingKey, req.RankingBy)
	}
	if !req.ScorePolicy.Valid() {
		req.ScorePolicy = domain.PolicyBlend
	}
	if !req.TierPolicy.Valid() {
		req.TierPolicy = domain.TierByScore
	}
	if req.MinTickets < 0 {
		req.MinTickets = 0
	}

	staff, err := s.listStaff(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	aggregates, err := s.aggregate(ctx, staff, req.Window)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	scored := make([]domain.ScoredStaffRecord, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.Ticket.TotalTickets < req.MinTickets {
			continue
		}
		sub := Subscores(agg, req.ScorePolicy)
		overall := Combine(sub)
		scored = append(scored, domain.ScoredStaffRecord{
			PerformanceAggregate: agg,
			Scores:               sub,
			OverallScore:         overall,
			Tier:                 AssignTier(overall, agg, req.TierPolicy),
		})
	}

	ranked := Rank(scored, req.RankingBy)

	report := &domain.Report{
		Window:      req.Window,
		RankedBy:    req.RankingBy,
		Records:     ranked,
		Summary:     summarize(ranked),
		GeneratedAt: time.Now(),
	}

	s.log.Info("report generated",
		slog.Int("staff", len(staff)),
		slog.Int("ranked", len(ranked)),
		slog.String("rankingBy", string(req.RankingBy)),
		slog.String("scorePolicy", string(req.ScorePolicy)))

	return report, nil
}

// listStaff resolves the staff set: one member when StaffID is set,
// otherwise all active staff under the department filter.
func (s *Service) listStaff(ctx context.Context, req Request) ([]domain.StaffMember, error) {
	if req.StaffID != nil {
		member, err := s.data.GetStaffByID(ctx, *req.StaffID)
		if err != nil {
			return nil, err
		}
		return []domain.StaffMember{*member}, nil
	}
	return s.data.ListActiveStaff(ctx, req.Department)
}

// aggregate materializes one PerformanceAggregate per staff member from
// the three activity sources. Staff with no matching rows still get an
// all-zero aggregate; only a failing source aborts the run.
func (s *Service) aggregate(ctx context.Context, staff []domain.StaffMember, window domain.ActivityWindow) ([]domain.PerformanceAggregate, error) {
	tickets, err := s.data.TicketAggregates(ctx, window)
	if err != nil {
		return nil, err
	}
	work, err := s.data.WorkLogAggregates(ctx, window)
	if err != nil {
		return nil, err
	}
	visits, err := s.data.SiteVisitAggregates(ctx, window)
	if err != nil {
		return nil, err
	}

	aggregates := make([]domain.PerformanceAggregate, 0, len(staff))
	for _, member := range staff {
		agg := domain.PerformanceAggregate{
			Staff:  member,
			Ticket: tickets[member.ID],
			Work:   work[member.ID],
			Visit:  visits[member.ID],
		}
		agg.Ticket.StaffID = member.ID
		agg.Work.StaffID = member.ID
		agg.Visit.StaffID = member.ID
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}

// summarize recomputes the report summary from the ranked records.
func summarize(records []domain.ScoredStaffRecord) domain.Summary {
	summary := domain.Summary{
		TotalRanked: len(records),
		TierCounts:  make(map[domain.Tier]int),
	}
	if len(records) == 0 {
		return summary
	}

	var sum float64
	summary.MaxOverall = records[0].OverallScore
	summary.MinOverall = records[0].OverallScore
	for _, rec := range records {
		sum += rec.OverallScore
		if rec.OverallScore > summary.MaxOverall {
			summary.MaxOverall = rec.OverallScore
		}
		if rec.OverallScore < summary.MinOverall {
			summary.MinOverall = rec.OverallScore
		}
		summary.TierCounts[rec.Tier]++
	}
	summary.AvgOverall = sum / float64(len(records))
	return summary
}
