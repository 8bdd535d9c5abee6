package repositories

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"StaffRankService/internal/models/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T, caps Capabilities) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &Repository{
		DB:     sqlx.NewDb(db, "sqlmock"),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		schema: "msp_reports",
		caps:   caps,
	}
	return repo, mock
}

func testWindow() domain.ActivityWindow {
	return domain.ActivityWindow{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestSLAPredicateFollowsCapabilities(t *testing.T) {
	repo, _ := newMockRepo(t, Capabilities{})
	assert.NotContains(t, repo.slaPredicate(), "actual_resolution_hours")

	repo, _ = newMockRepo(t, Capabilities{HasActualResolutionTime: true})
	assert.Contains(t, repo.slaPredicate(), "actual_resolution_hours IS NOT NULL")
}

func TestListActiveStaffMapsPlaceholders(t *testing.T) {
	repo, mock := newMockRepo(t, Capabilities{})
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "department", "designation", "role_category"}).
		AddRow(id, "Anna", "Not Assigned", "Not Specified", "Not Categorized")
	mock.ExpectQuery("FROM staff").WillReturnRows(rows)

	staff, err := repo.ListActiveStaff(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, domain.DeptNotAssigned, staff[0].Department)
	assert.Equal(t, domain.DesigNotSpecified, staff[0].Designation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketAggregatesScan(t *testing.T) {
	repo, mock := newMockRepo(t, Capabilities{})
	id := uuid.New()
	window := testWindow()
	start, end := window.Bounds()

	rows := sqlmock.NewRows([]string{"staff_id", "total_tickets", "tickets_closed", "sla_compliant", "avg_rating"}).
		AddRow(id, 9, 7, 5, 4.4)
	// Both halves of the staff attribution union carry the staff_id alias.
	mock.ExpectQuery("primary_assignee AS staff_id").
		WithArgs(start, end).
		WillReturnRows(rows)

	stats, err := repo.TicketAggregates(context.Background(), window)
	require.NoError(t, err)
	require.Contains(t, stats, id)
	assert.Equal(t, 9, stats[id].TotalTickets)
	assert.Equal(t, 7, stats[id].TicketsClosed)
	assert.Equal(t, 5, stats[id].SLACompliant)
	assert.InDelta(t, 4.4, stats[id].AvgRating, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkLogAggregatesWindowBounds(t *testing.T) {
	repo, mock := newMockRepo(t, Capabilities{})
	id := uuid.New()
	window := testWindow()
	start, end := window.Bounds()

	rows := sqlmock.NewRows([]string{"staff_id", "work_log_entries", "work_log_hours"}).
		AddRow(id, 7, 31.5)
	mock.ExpectQuery("FROM ticket_work_logs").
		WithArgs(start, end).
		WillReturnRows(rows)

	stats, err := repo.WorkLogAggregates(context.Background(), window)
	require.NoError(t, err)
	require.Contains(t, stats, id)
	assert.Equal(t, 7, stats[id].WorkLogEntries)
	assert.InDelta(t, 31.5, stats[id].WorkLogHours, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteVisitAggregatesScan(t *testing.T) {
	repo, mock := newMockRepo(t, Capabilities{})
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"staff_id", "total_visits", "visits_completed", "visit_hours"}).
		AddRow(id, 4, 3, 6.25)
	mock.ExpectQuery("FROM site_visits").WillReturnRows(rows)

	stats, err := repo.SiteVisitAggregates(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Equal(t, 3, stats[id].VisitsCompleted)
	assert.InDelta(t, 6.25, stats[id].VisitHours, 1e-9)
}

func TestTicketAggregatesQueryFailure(t *testing.T) {
	repo, mock := newMockRepo(t, Capabilities{})
	mock.ExpectQuery("FROM").WillReturnError(errors.New("connection reset"))

	_, err := repo.TicketAggregates(context.Background(), testWindow())
	assert.ErrorIs(t, err, domain.ErrDataUnavailable,
		"query failures surface as data-unavailable, never as a zero aggregate")
}

func TestGetStaffByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, Capabilities{})
	id := uuid.New()

	mock.ExpectQuery("FROM staff").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "department", "designation", "role_category"}))

	_, err := repo.GetStaffByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
}
