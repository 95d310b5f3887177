package models

import "time"

// TimeEntry is one tracked work session. EndTime is nil while the session is open.
type TimeEntry struct {
	ID        int64      `json:"id"`
	Date      string     `json:"date"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Minutes   int        `json:"minutes"`
	MeetingID *int64     `json:"meeting_id"`
}

// Open reports whether the session is still running.
func (e TimeEntry) Open() bool { return e.EndTime == nil }
