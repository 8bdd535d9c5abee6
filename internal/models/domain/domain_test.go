package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowBoundsAddEndOfDay(t *testing.T) {
	w := ActivityWindow{
		Start: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC),
	}
	start, end := w.Bounds()
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), end, "end date is inclusive")
}

func TestWindowValidate(t *testing.T) {
	ok := ActivityWindow{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, ok.Validate(), "single-day window is valid")

	reversed := ActivityWindow{Start: ok.End.AddDate(0, 0, 5), End: ok.End}
	assert.ErrorIs(t, reversed.Validate(), ErrInvalidWindow)
	assert.ErrorIs(t, ActivityWindow{}.Validate(), ErrInvalidWindow)
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, 8, 20, 16, 45, 0, 0, time.UTC)
	today := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		period    string
		wantStart time.Time
	}{
		{PeriodDaily, today},
		{PeriodWeekly, today.AddDate(0, 0, -6)},
		{PeriodMonthly, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodQuarterly, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodYearly, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		w, err := ResolveWindow(tc.period, now)
		require.NoError(t, err, tc.period)
		assert.Equal(t, tc.wantStart, w.Start, tc.period)
		assert.Equal(t, today, w.End, tc.period)
	}

	_, err := ResolveWindow("fortnightly", now)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestRankingKeyValid(t *testing.T) {
	for _, key := range []RankingKey{RankByOverall, RankByProductivity, RankByEfficiency, RankByQuality, RankByActivity} {
		assert.True(t, key.Valid(), string(key))
	}
	assert.False(t, RankingKey("charisma").Valid())
	assert.False(t, RankingKey("").Valid())
}

func TestSLAPercent(t *testing.T) {
	agg := PerformanceAggregate{Ticket: TicketStats{TicketsClosed: 8, SLACompliant: 6}}
	assert.InDelta(t, 75.0, agg.SLAPercent(), 1e-9)

	assert.Zero(t, PerformanceAggregate{}.SLAPercent(), "no closed tickets is not a division error")
}

func TestAvgHoursPerEntry(t *testing.T) {
	agg := PerformanceAggregate{Work: WorkStats{WorkLogEntries: 4, WorkLogHours: 10}}
	assert.InDelta(t, 2.5, agg.AvgHoursPerEntry(), 1e-9)
	assert.Zero(t, PerformanceAggregate{}.AvgHoursPerEntry())
}
