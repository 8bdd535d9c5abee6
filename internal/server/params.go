package server

import (
	"StaffRankService/internal/models/domain"
	"StaffRankService/internal/scoring"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// errBadParameter marks malformed query parameters outside the window
// and ranking-key sentinels.
var errBadParameter = errors.New("bad parameter")

// parseWindow resolves the window from either a named period or explicit
// dates. Unparseable dates and end-before-start are rejected here, before
// any aggregation starts.
func parseWindow(r *http.Request) (domain.ActivityWindow, error) {
	period := r.URL.Query().Get("period")
	if period != "" && period != domain.PeriodCustom {
		return domain.ResolveWindow(period, time.Now())
	}

	startRaw := r.URL.Query().Get("start_date")
	endRaw := r.URL.Query().Get("end_date")
	if startRaw == "" || endRaw == "" {
		return domain.ActivityWindow{}, fmt.Errorf("%w: start_date and end_date are required", domain.ErrInvalidWindow)
	}

	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return domain.ActivityWindow{}, fmt.Errorf("%w: bad start_date %q", domain.ErrInvalidWindow, startRaw)
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return domain.ActivityWindow{}, fmt.Errorf("%w: bad end_date %q", domain.ErrInvalidWindow, endRaw)
	}

	window := domain.ActivityWindow{Start: start, End: end}
	if err := window.Validate(); err != nil {
		return domain.ActivityWindow{}, err
	}
	return window, nil
}

// parseReportRequest builds a pipeline request from query parameters,
// falling back to the configured report defaults.
func (s *Server) parseReportRequest(r *http.Request) (scoring.Request, error) {
	window, err := parseWindow(r)
	if err != nil {
		return scoring.Request{}, err
	}

	q := r.URL.Query()
	req := scoring.Request{
		Window:      window,
		Department:  q.Get("department"),
		MinTickets:  s.cfg.Report.MinTickets,
		RankingBy:   domain.RankingKey(q.Get("ranking_by")),
		ScorePolicy: domain.ScorePolicy(q.Get("score_policy")),
		TierPolicy:  domain.TierPolicy(q.Get("tier_policy")),
	}

	if raw := q.Get("min_tickets"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return scoring.Request{}, fmt.Errorf("%w: bad min_tickets %q", errBadParameter, raw)
		}
		req.MinTickets = n
	}

	// Unknown ranking keys are rejected rather than silently defaulted;
	// only an absent parameter falls back to overall.
	if req.RankingBy != "" && !req.RankingBy.Valid() {
		return scoring.Request{}, fmt.Errorf("%w: %q", domain.ErrInvalidRankingKey, req.RankingBy)
	}
	if req.ScorePolicy == "" {
		req.ScorePolicy = domain.ScorePolicy(s.cfg.Report.ScorePolicy)
	}
	if req.TierPolicy == "" {
		req.TierPolicy = domain.TierPolicy(s.cfg.Report.TierPolicy)
	}

	return req, nil
}
