package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/syndic/internal/models"
)

var june15 = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func meeting(start time.Time, minutes int) models.Meeting {
	return models.Meeting{Title: "m", StartAt: start, EndAt: start.Add(time.Duration(minutes) * time.Minute)}
}

func TestComputeMonthTotal(t *testing.T) {
	stale := 999
	cached := meeting(time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC), 60)
	cached.DurationMinutes = &stale

	all := []models.Meeting{
		meeting(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 30),     // first instant
		cached,                                                               // cache ignored
		meeting(time.Date(2024, time.June, 3, 14, 0, 0, 0, time.UTC), 45),    // same day
		meeting(time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC), 10), // last second
		meeting(time.Date(2024, time.May, 31, 23, 59, 59, 0, time.UTC), 100), // previous month
		meeting(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), 100),    // next month
	}

	st := Compute(june15, all, nil, nil, 300, 20)

	assert.Equal(t, 145, st.TotalMinutesMonth)
	assert.Equal(t, []models.DayMinutes{
		{Date: "2024-06-01", Minutes: 30},
		{Date: "2024-06-03", Minutes: 105},
		{Date: "2024-06-30", Minutes: 10},
	}, st.DailyMinutes)
	assert.Equal(t, 155, st.RemainingMinutes)
	assert.InDelta(t, 145.0/300.0, st.Progress, 1e-9)
	assert.Equal(t, 20, st.TrackedMinutesMonth)
	assert.NotNil(t, st.UpcomingMeetings)
	assert.NotNil(t, st.RecentNotes)
}

func TestComputeQuota(t *testing.T) {
	all := []models.Meeting{meeting(june15, 120)}

	tests := []struct {
		name      string
		all       []models.Meeting
		quota     int
		remaining int
		progress  float64
	}{
		{"over quota", all, 60, 0, 1},
		{"zero quota with minutes", all, 0, 0, 1},
		{"zero quota empty month", nil, 0, 0, 0},
		{"empty month", nil, 2100, 2100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Compute(june15, tt.all, nil, nil, tt.quota, 0)
			assert.Equal(t, tt.remaining, st.RemainingMinutes)
			assert.InDelta(t, tt.progress, st.Progress, 1e-9)
			assert.NotNil(t, st.DailyMinutes)
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2024, time.February, 10, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 29, end.Day())
	assert.Equal(t, time.February, end.Month())
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0h 00m", FormatMinutes(0))
	assert.Equal(t, "1h 05m", FormatMinutes(65))
	assert.Equal(t, "35h 00m", FormatMinutes(2100))
	assert.Equal(t, "0h 00m", FormatMinutes(-3))
}

type fakeReaders struct {
	all      []models.Meeting
	upcoming []models.Meeting
	notes    []models.Note
	quota    int
	tracked  int
	month    string
	limit    int
	err      error
}

func (f *fakeReaders) GetAll(context.Context) ([]models.Meeting, error) { return f.all, f.err }

func (f *fakeReaders) GetUpcoming(_ context.Context, limit int) ([]models.Meeting, error) {
	f.limit = limit
	return f.upcoming, nil
}

func (f *fakeReaders) GetRecent(context.Context, int) ([]models.Note, error) { return f.notes, nil }

func (f *fakeReaders) Get(context.Context) (models.Settings, error) {
	s := models.DefaultSettings()
	s.MonthlyQuotaMinutes = f.quota
	return s, nil
}

func (f *fakeReaders) MonthMinutes(_ context.Context, month string) (int, error) {
	f.month = month
	return f.tracked, nil
}

func TestServiceStats(t *testing.T) {
	f := &fakeReaders{
		all:      []models.Meeting{meeting(june15, 90)},
		upcoming: []models.Meeting{meeting(june15.Add(48*time.Hour), 30)},
		notes:    []models.Note{{ID: 1, Content: "n"}},
		quota:    180,
		tracked:  40,
	}
	svc := NewService(f, f, f, f, func() time.Time { return june15 })

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90, st.TotalMinutesMonth)
	assert.Equal(t, 90, st.RemainingMinutes)
	assert.InDelta(t, 0.5, st.Progress, 1e-9)
	assert.Equal(t, 40, st.TrackedMinutesMonth)
	assert.Len(t, st.UpcomingMeetings, 1)
	assert.Len(t, st.RecentNotes, 1)
	assert.Equal(t, "2024-06", f.month)
	assert.Equal(t, ListLimit, f.limit)
}

func TestServiceStatsError(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeReaders{err: boom}
	svc := NewService(f, f, f, f, func() time.Time { return june15 })

	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}
