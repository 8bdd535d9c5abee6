package repositories

import (
	"StaffRankService/internal/models/domain"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// slaPredicate returns the SQL condition under which a ticket counts as
// SLA compliant: resolved within 24 hours, plus a recorded actual
// resolution time when the schema tracks one. Resolved once from the
// startup capability probe, never rebuilt per request.
func (r *Repository) slaPredicate() string {
	base := `x.status = 'Closed' AND x.closed_at IS NOT NULL
		AND x.closed_at - x.created_at <= INTERVAL '24 hours'`
	if r.caps.HasActualResolutionTime {
		return base + ` AND x.actual_resolution_hours IS NOT NULL`
	}
	return base
}

// TicketAggregates returns per-staff ticket statistics for the window.
// A ticket counts toward a staff member when they are the assignee or the
// primary assignee; the UNION deduplicates tickets where both relations
// point at the same person.
func (r *Repository) TicketAggregates(ctx context.Context, window domain.ActivityWindow) (map[uuid.UUID]domain.TicketStats, error) {
	op := "Repository.TicketAggregates"

	query := fmt.Sprintf(`SELECT
		x.staff_id,
		COUNT(*) AS total_tickets,
		COUNT(*) FILTER (WHERE x.status = 'Closed') AS tickets_closed,
		COUNT(*) FILTER (WHERE x.status IN ('Open', 'In Progress')) AS tickets_open,
		COUNT(*) FILTER (WHERE x.status = 'Pending') AS tickets_pending,
		COALESCE(AVG(EXTRACT(EPOCH FROM (x.closed_at - x.created_at)) / 3600)
			FILTER (WHERE x.status = 'Closed' AND x.closed_at IS NOT NULL), 0) AS avg_resolution_hours,
		COALESCE(MIN(EXTRACT(EPOCH FROM (x.closed_at - x.created_at)) / 3600)
			FILTER (WHERE x.status = 'Closed' AND x.closed_at IS NOT NULL), 0) AS min_resolution_hours,
		COALESCE(MAX(EXTRACT(EPOCH FROM (x.closed_at - x.created_at)) / 3600)
			FILTER (WHERE x.status = 'Closed' AND x.closed_at IS NOT NULL), 0) AS max_resolution_hours,
		COALESCE(AVG(x.client_rating), 0) AS avg_rating,
		COUNT(x.client_rating) AS rated_tickets,
		COUNT(*) FILTER (WHERE x.client_rating >= 4) AS high_ratings,
		COUNT(*) FILTER (WHERE x.client_rating <= 2) AS low_ratings,
		COUNT(*) FILTER (WHERE x.priority = 'Critical') AS critical_tickets,
		COUNT(*) FILTER (WHERE x.priority = 'High') AS high_tickets,
		COUNT(*) FILTER (WHERE x.priority = 'Medium') AS medium_tickets,
		COUNT(*) FILTER (WHERE x.priority = 'Low') AS low_tickets,
		COUNT(*) FILTER (WHERE x.status = 'Closed' AND x.closed_at IS NOT NULL
			AND x.closed_at - x.created_at <= INTERVAL '24 hours') AS closed_within_24h,
		COUNT(*) FILTER (WHERE %s) AS sla_compliant,
		MAX(x.created_at) AS last_ticket_at,
		MAX(x.closed_at) FILTER (WHERE x.status = 'Closed') AS last_closed_at
	FROM (
		SELECT t.assigned_to AS staff_id, t.* FROM tickets t WHERE t.assigned_to IS NOT NULL
		UNION
		SELECT t.primary_assignee AS staff_id, t.* FROM tickets t WHERE t.primary_assignee IS NOT NULL
	) x
	WHERE x.created_at >= $1 AND x.created_at < $2
	GROUP BY x.staff_id`, r.slaPredicate())

	start, end := window.Bounds()

	var rows []domain.TicketStats
	if err := r.DB.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}

	stats := make(map[uuid.UUID]domain.TicketStats, len(rows))
	for _, row := range rows {
		stats[row.StaffID] = row
	}
	return stats, nil
}

// WorkLogAggregates returns per-staff work-log totals for the window.
// An entry counts only when its work date AND its parent ticket's creation
// timestamp both fall inside the window; an entry logged outside the window
// against an in-window ticket (or vice versa) is excluded.
func (r *Repository) WorkLogAggregates(ctx context.Context, window domain.ActivityWindow) (map[uuid.UUID]domain.WorkStats, error) {
	op := "Repository.WorkLogAggregates"

	query := `SELECT
		w.staff_id,
		COUNT(*) AS work_log_entries,
		COALESCE(SUM(w.hours_worked), 0) AS work_log_hours
	FROM ticket_work_logs w
	JOIN tickets t ON t.id = w.ticket_id
	WHERE w.work_date >= $1 AND w.work_date < $2
		AND t.created_at >= $1 AND t.created_at < $2
	GROUP BY w.staff_id`

	start, end := window.Bounds()

	var rows []domain.WorkStats
	if err := r.DB.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}

	stats := make(map[uuid.UUID]domain.WorkStats, len(rows))
	for _, row := range rows {
		stats[row.StaffID] = row
	}
	return stats, nil
}

// SiteVisitAggregates returns per-staff site-visit totals for the window.
// Visit duration is check_out minus check_in; a visit missing either
// timestamp contributes zero hours and does not count as completed.
func (r *Repository) SiteVisitAggregates(ctx context.Context, window domain.ActivityWindow) (map[uuid.UUID]domain.VisitStats, error) {
	op := "Repository.SiteVisitAggregates"

	query := `SELECT
		v.engineer_id AS staff_id,
		COUNT(*) AS total_visits,
		COUNT(*) FILTER (WHERE v.check_in IS NOT NULL AND v.check_out IS NOT NULL) AS visits_completed,
		COALESCE(SUM(CASE
			WHEN v.check_in IS NOT NULL AND v.check_out IS NOT NULL
			THEN EXTRACT(EPOCH FROM (v.check_out - v.check_in)) / 3600
			ELSE 0
		END), 0) AS visit_hours
	FROM site_visits v
	WHERE v.visit_date >= $1 AND v.visit_date < $2
	GROUP BY v.engineer_id`

	start, end := window.Bounds()

	var rows []domain.VisitStats
	if err := r.DB.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}

	stats := make(map[uuid.UUID]domain.VisitStats, len(rows))
	for _, row := range rows {
		stats[row.StaffID] = row
	}
	return stats, nil
}
