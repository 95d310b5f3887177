// Package dashboard computes the figures shown on the main screen from the
// meetings, notes, settings and time entries of the store.
package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"

	"github.com/starford/syndic/internal/models"
)

// ListLimit is how many upcoming meetings and recent notes are shown.
const ListLimit = 3

// Stats is one dashboard snapshot.
type Stats struct {
	MonthStart          time.Time           `json:"month_start"`
	MonthEnd            time.Time           `json:"month_end"`
	TotalMinutesMonth   int                 `json:"total_minutes_month"`
	DailyMinutes        []models.DayMinutes `json:"daily_minutes"`
	MonthlyQuotaMinutes int                 `json:"monthly_quota_minutes"`
	RemainingMinutes    int                 `json:"remaining_minutes"`
	Progress            float64             `json:"progress"`
	TrackedMinutesMonth int                 `json:"tracked_minutes_month"`
	UpcomingMeetings    []models.Meeting    `json:"upcoming_meetings"`
	RecentNotes         []models.Note       `json:"recent_notes"`
}

// MonthBounds returns the first and last instants of the month containing t,
// in t's location.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	m := now.With(t)
	return m.BeginningOfMonth(), m.EndOfMonth()
}

// Compute builds the snapshot for the month containing at. Meeting minutes
// are always derived from the timestamps, never from the cached duration.
// A quota <= 0 yields progress 1 once any minute is counted, 0 otherwise.
func Compute(at time.Time, all, upcoming []models.Meeting, recent []models.Note, quota, tracked int) Stats {
	start, end := MonthBounds(at)
	st := Stats{
		MonthStart:          start,
		MonthEnd:            end,
		MonthlyQuotaMinutes: quota,
		TrackedMinutesMonth: tracked,
		DailyMinutes:        []models.DayMinutes{},
		UpcomingMeetings:    nonNil(upcoming),
		RecentNotes:         nonNil(recent),
	}

	perDay := make(map[string]int)
	for _, m := range all {
		if m.StartAt.Before(start) || m.StartAt.After(end) {
			continue
		}
		minutes := m.Minutes()
		st.TotalMinutesMonth += minutes
		perDay[models.DayKey(m.StartAt.In(at.Location()))] += minutes
	}
	for day, minutes := range perDay {
		st.DailyMinutes = append(st.DailyMinutes, models.DayMinutes{Date: day, Minutes: minutes})
	}
	sort.Slice(st.DailyMinutes, func(i, j int) bool { return st.DailyMinutes[i].Date < st.DailyMinutes[j].Date })

	st.RemainingMinutes = max(0, quota-st.TotalMinutesMonth)
	switch {
	case quota > 0:
		st.Progress = min(1, float64(st.TotalMinutesMonth)/float64(quota))
	case st.TotalMinutesMonth > 0:
		st.Progress = 1
	}
	return st
}

// FormatMinutes renders a duration such as "1h 05m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
