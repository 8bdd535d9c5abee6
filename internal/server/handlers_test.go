package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StaffRankService/internal/config"
	"StaffRankService/internal/models/domain"
	"StaffRankService/internal/scoring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPipeline struct {
	lastReq scoring.Request
	report  *domain.Report
	err     error
}

func (p *stubPipeline) Run(_ context.Context, req scoring.Request) (*domain.Report, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	report := *p.report
	report.Window = req.Window
	if req.RankingBy != "" {
		report.RankedBy = req.RankingBy
	}
	return &report, nil
}

type stubDepartments struct{}

func (stubDepartments) ListDepartments(_ context.Context) ([]string, error) {
	return []string{"Networks", domain.DeptNotAssigned}, nil
}

func testReport() *domain.Report {
	rec := domain.ScoredStaffRecord{
		PerformanceAggregate: domain.PerformanceAggregate{
			Staff: domain.StaffMember{
				ID: uuid.New(), Name: "Anna", Department: "Networks",
				Designation: "Engineer", RoleCategory: "Technical",
			},
			Ticket: domain.TicketStats{TotalTickets: 12, TicketsClosed: 11},
		},
		Scores:       domain.SubScores{Productivity: 100, Efficiency: 80, Quality: 90, Activity: 70},
		OverallScore: 89,
		Tier:         domain.TierStrong,
		OverallRank:  1, ProductivityRank: 1, EfficiencyRank: 1, QualityRank: 1, ActivityRank: 1,
	}
	return &domain.Report{
		RankedBy:    domain.RankByOverall,
		Records:     []domain.ScoredStaffRecord{rec},
		Summary:     domain.Summary{TotalRanked: 1, AvgOverall: 89, MaxOverall: 89, MinOverall: 89, TierCounts: map[domain.Tier]int{domain.TierStrong: 1}},
		GeneratedAt: time.Now(),
	}
}

func newTestServer(pipeline Pipeline) *Server {
	cfg := &config.Config{
		HttpServer: config.HttpServerConfig{
			Address:      "127.0.0.1",
			Port:         "0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			QueryTimeout: time.Second,
		},
		Report: config.ReportConfig{MinTickets: 5, ScorePolicy: "blend", TierPolicy: "score"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, cfg, pipeline, stubDepartments{})
}

func doRequest(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func TestRankingWithExplicitDates(t *testing.T) {
	pipeline := &stubPipeline{report: testReport()}
	s := newTestServer(pipeline)

	w := doRequest(s, "/api/v1/performance/ranking?start_date=2025-01-01&end_date=2025-01-31")
	require.Equal(t, http.StatusOK, w.Code)

	var resp reportResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Summary.TotalRanked)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "Anna", resp.Records[0].Name)
	assert.Equal(t, string(domain.TierStrong), resp.Records[0].Tier)

	// Configured defaults reach the pipeline unchanged.
	assert.Equal(t, 5, pipeline.lastReq.MinTickets)
	assert.Equal(t, domain.PolicyBlend, pipeline.lastReq.ScorePolicy)
}

func TestRankingWithNamedPeriod(t *testing.T) {
	pipeline := &stubPipeline{report: testReport()}
	s := newTestServer(pipeline)

	w := doRequest(s, "/api/v1/performance/ranking?period=weekly&ranking_by=quality&min_tickets=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RankByQuality, pipeline.lastReq.RankingBy)
	assert.Equal(t, 2, pipeline.lastReq.MinTickets)
	assert.False(t, pipeline.lastReq.Window.Start.IsZero())
}

func TestRankingMissingDates(t *testing.T) {
	s := newTestServer(&stubPipeline{report: testReport()})
	w := doRequest(s, "/api/v1/performance/ranking")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankingReversedDates(t *testing.T) {
	s := newTestServer(&stubPipeline{report: testReport()})
	w := doRequest(s, "/api/v1/performance/ranking?start_date=2025-02-01&end_date=2025-01-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankingUnknownRankingKey(t *testing.T) {
	pipeline := &stubPipeline{report: testReport()}
	s := newTestServer(pipeline)

	w := doRequest(s, "/api/v1/performance/ranking?period=monthly&ranking_by=charisma")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Details, "charisma")
}

func TestRankingDataUnavailable(t *testing.T) {
	pipeline := &stubPipeline{err: fmt.Errorf("db down: %w", domain.ErrDataUnavailable)}
	s := newTestServer(pipeline)

	w := doRequest(s, "/api/v1/performance/ranking?period=monthly")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStaffReportDefaultsMinTicketsToZero(t *testing.T) {
	pipeline := &stubPipeline{report: testReport()}
	s := newTestServer(pipeline)
	id := uuid.New()

	w := doRequest(s, "/api/v1/performance/staff/"+id.String()+"?period=monthly")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, pipeline.lastReq.StaffID)
	assert.Equal(t, id, *pipeline.lastReq.StaffID)
	assert.Zero(t, pipeline.lastReq.MinTickets)
}

func TestStaffReportBadID(t *testing.T) {
	s := newTestServer(&stubPipeline{report: testReport()})
	w := doRequest(s, "/api/v1/performance/staff/not-a-uuid?period=monthly")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffReportNotFound(t *testing.T) {
	pipeline := &stubPipeline{err: fmt.Errorf("lookup: %w", domain.ErrStaffNotFound)}
	s := newTestServer(pipeline)

	w := doRequest(s, "/api/v1/performance/staff/"+uuid.NewString()+"?period=monthly")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(&stubPipeline{report: testReport()})

	w := doRequest(s, "/api/v1/performance/ranking/export?start_date=2025-01-01&end_date=2025-01-31")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "performance_2025-01-01_2025-01-31.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "rank,name,department"))
	assert.Contains(t, lines[1], "Anna")
}

func TestDepartments(t *testing.T) {
	s := newTestServer(&stubPipeline{report: testReport()})
	w := doRequest(s, "/api/v1/departments")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp["departments"], domain.DeptNotAssigned)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubPipeline{report: testReport()})
	w := doRequest(s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}
