package server

import (
	"StaffRankService/internal/models/domain"
	"StaffRankService/internal/utils/logger/sl"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type recordResponse struct {
	StaffID      uuid.UUID        `json:"staff_id"`
	Name         string           `json:"name"`
	Department   string           `json:"department"`
	Designation  string           `json:"designation"`
	RoleCategory string           `json:"role_category"`
	Tickets      ticketsResponse  `json:"tickets"`
	WorkLog      workLogResponse  `json:"work_log"`
	SiteVisits   visitsResponse   `json:"site_visits"`
	Scores       domain.SubScores `json:"scores"`
	OverallScore float64          `json:"overall_score"`
	Tier         string           `json:"tier"`
	TierColor    string           `json:"tier_color"`
	Recommend    string           `json:"recommendation"`
	Ranks        ranksResponse    `json:"ranks"`
}

type ticketsResponse struct {
	Total              int        `json:"total"`
	Closed             int        `json:"closed"`
	Open               int        `json:"open"`
	Pending            int        `json:"pending"`
	AvgResolutionHours float64    `json:"avg_resolution_hours"`
	MinResolutionHours float64    `json:"min_resolution_hours"`
	MaxResolutionHours float64    `json:"max_resolution_hours"`
	AvgRating          float64    `json:"avg_rating"`
	RatedTickets       int        `json:"rated_tickets"`
	HighRatings        int        `json:"high_ratings"`
	LowRatings         int        `json:"low_ratings"`
	Critical           int        `json:"critical"`
	High               int        `json:"high"`
	Medium             int        `json:"medium"`
	Low                int        `json:"low"`
	SLACompliant       int        `json:"sla_compliant"`
	LastTicketAt       *time.Time `json:"last_ticket_at,omitempty"`
	LastClosedAt       *time.Time `json:"last_closed_at,omitempty"`
}

type workLogResponse struct {
	Entries          int     `json:"entries"`
	Hours            float64 `json:"hours"`
	AvgHoursPerEntry float64 `json:"avg_hours_per_entry"`
}

type visitsResponse struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Hours     float64 `json:"hours"`
}

type ranksResponse struct {
	Overall      int `json:"overall"`
	Productivity int `json:"productivity"`
	Efficiency   int `json:"efficiency"`
	Quality      int `json:"quality"`
	Activity     int `json:"activity"`
}

type reportResponse struct {
	Window      domain.ActivityWindow `json:"window"`
	RankedBy    string                `json:"ranked_by"`
	GeneratedAt time.Time             `json:"generated_at"`
	Summary     domain.Summary        `json:"summary"`
	Records     []recordResponse      `json:"records"`
}

func toRecordResponse(rec domain.ScoredStaffRecord) recordResponse {
	return recordResponse{
		StaffID:      rec.Staff.ID,
		Name:         rec.Staff.Name,
		Department:   rec.Staff.Department,
		Designation:  rec.Staff.Designation,
		RoleCategory: rec.Staff.RoleCategory,
		Tickets: ticketsResponse{
			Total:              rec.Ticket.TotalTickets,
			Closed:             rec.Ticket.TicketsClosed,
			Open:               rec.Ticket.TicketsOpen,
			Pending:            rec.Ticket.TicketsPending,
			AvgResolutionHours: rec.Ticket.AvgResolutionHours,
			MinResolutionHours: rec.Ticket.MinResolutionHours,
			MaxResolutionHours: rec.Ticket.MaxResolutionHours,
			AvgRating:          rec.Ticket.AvgRating,
			RatedTickets:       rec.Ticket.RatedTickets,
			HighRatings:        rec.Ticket.HighRatings,
			LowRatings:         rec.Ticket.LowRatings,
			Critical:           rec.Ticket.CriticalTickets,
			High:               rec.Ticket.HighTickets,
			Medium:             rec.Ticket.MediumTickets,
			Low:                rec.Ticket.LowTickets,
			SLACompliant:       rec.Ticket.SLACompliant,
			LastTicketAt:       rec.Ticket.LastTicketAt,
			LastClosedAt:       rec.Ticket.LastClosedAt,
		},
		WorkLog: workLogResponse{
			Entries:          rec.Work.WorkLogEntries,
			Hours:            rec.Work.WorkLogHours,
			AvgHoursPerEntry: rec.AvgHoursPerEntry(),
		},
		SiteVisits: visitsResponse{
			Total:     rec.Visit.TotalVisits,
			Completed: rec.Visit.VisitsCompleted,
			Hours:     rec.Visit.VisitHours,
		},
		Scores:       rec.Scores,
		OverallScore: rec.OverallScore,
		Tier:         string(rec.Tier),
		TierColor:    rec.Tier.Color(),
		Recommend:    rec.Tier.Recommendation(),
		Ranks: ranksResponse{
			Overall:      rec.OverallRank,
			Productivity: rec.ProductivityRank,
			Efficiency:   rec.EfficiencyRank,
			Quality:      rec.QualityRank,
			Activity:     rec.ActivityRank,
		},
	}
}

func toReportResponse(report *domain.Report) reportResponse {
	records := make([]recordResponse, 0, len(report.Records))
	for _, rec := range report.Records {
		records = append(records, toRecordResponse(rec))
	}
	return reportResponse{
		Window:      report.Window,
		RankedBy:    string(report.RankedBy),
		GeneratedAt: report.GeneratedAt,
		Summary:     report.Summary,
		Records:     records,
	}
}

// handleRanking serves the full ranked performance report as JSON.
// GET /api/v1/performance/ranking
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseReportRequest(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	report, err := s.pipeline.Run(ctx, req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toReportResponse(report))
}

// handleStaffReport serves the single-staff report variant.
// GET /api/v1/performance/staff/{id}
// The minimum-ticket filter defaults to 0 here so a quiet month still
// produces a report; min_tickets can override.
func (s *Server) handleStaffReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid staff id"})
		return
	}

	req, err := s.parseReportRequest(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	req.StaffID = &id
	if r.URL.Query().Get("min_tickets") == "" {
		req.MinTickets = 0
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	report, err := s.pipeline.Run(ctx, req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toReportResponse(report))
}

var csvHeader = []string{
	"rank", "name", "department", "designation",
	"total_tickets", "tickets_closed", "tickets_open", "tickets_pending",
	"avg_resolution_hours", "avg_rating", "sla_compliant",
	"work_log_entries", "work_log_hours", "site_visits_completed", "site_visit_hours",
	"productivity", "efficiency", "quality", "activity",
	"overall_score", "tier", "recommendation",
}

// handleExportCSV serves the same report as a CSV download, mirroring the
// exported report table of the back-office UI.
// GET /api/v1/performance/ranking/export
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseReportRequest(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	report, err := s.pipeline.Run(ctx, req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	filename := fmt.Sprintf("performance_%s_%s.csv",
		report.Window.Start.Format(dateLayout), report.Window.End.Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		s.log.Error("csv write failed", sl.Err(err))
		return
	}
	for _, rec := range report.Records {
		row := []string{
			strconv.Itoa(rec.RankFor(report.RankedBy)),
			rec.Staff.Name,
			rec.Staff.Department,
			rec.Staff.Designation,
			strconv.Itoa(rec.Ticket.TotalTickets),
			strconv.Itoa(rec.Ticket.TicketsClosed),
			strconv.Itoa(rec.Ticket.TicketsOpen),
			strconv.Itoa(rec.Ticket.TicketsPending),
			formatFloat(rec.Ticket.AvgResolutionHours),
			formatFloat(rec.Ticket.AvgRating),
			strconv.Itoa(rec.Ticket.SLACompliant),
			strconv.Itoa(rec.Work.WorkLogEntries),
			formatFloat(rec.Work.WorkLogHours),
			strconv.Itoa(rec.Visit.VisitsCompleted),
			formatFloat(rec.Visit.VisitHours),
			formatFloat(rec.Scores.Productivity),
			formatFloat(rec.Scores.Efficiency),
			formatFloat(rec.Scores.Quality),
			formatFloat(rec.Scores.Activity),
			formatFloat(rec.OverallScore),
			string(rec.Tier),
			rec.Tier.Recommendation(),
		}
		if err := cw.Write(row); err != nil {
			s.log.Error("csv write failed", sl.Err(err))
			return
		}
	}
	cw.Flush()
}

// handleDepartments serves the department filter values.
// GET /api/v1/departments
func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	departments, err := s.departments.ListDepartments(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{"departments": departments})
}

// handleHealth reports liveness.
// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryContext bounds the upstream data fetch with the configured timeout.
func (s *Server) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.cfg.HttpServer.QueryTimeout)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("response encode failed", sl.Err(err))
	}
}

// respondError maps pipeline errors to HTTP statuses: bad input → 400,
// unknown staff → 404, unreachable data source → 503.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidRankingKey),
		errors.Is(err, errBadParameter):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request", Details: err.Error()})
	case errors.Is(err, domain.ErrStaffNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: "staff member not found"})
	case errors.Is(err, domain.ErrDataUnavailable):
		s.log.Error("data source unavailable", sl.Err(err))
		s.respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "performance data unavailable"})
	default:
		s.log.Error("report failed", sl.Err(err))
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
