package api

import (
	"github.com/starford/syndic/internal/appstate"
	"github.com/starford/syndic/internal/dashboard"
	"github.com/starford/syndic/internal/filestore"
	"github.com/starford/syndic/internal/models"
)

// SettingsResponse is the cached settings plus the resolved palette.
type SettingsResponse = appstate.Snapshot

// DashboardResponse adds display strings to the dashboard figures.
type DashboardResponse struct {
	dashboard.Stats
	TotalFormatted     string `json:"total_formatted" example:"12h 30m"`
	RemainingFormatted string `json:"remaining_formatted" example:"22h 30m"`
	TrackedFormatted   string `json:"tracked_formatted" example:"3h 05m"`
}

func newDashboardResponse(st dashboard.Stats) DashboardResponse {
	return DashboardResponse{
		Stats:              st,
		TotalFormatted:     dashboard.FormatMinutes(st.TotalMinutesMonth),
		RemainingFormatted: dashboard.FormatMinutes(st.RemainingMinutes),
		TrackedFormatted:   dashboard.FormatMinutes(st.TrackedMinutesMonth),
	}
}

// MeetingDetail is a meeting with the notes and documents attached to it.
type MeetingDetail struct {
	Meeting   models.Meeting `json:"meeting"`
	Minutes   int            `json:"minutes"`
	Notes     []models.Note  `json:"notes"`
	Documents []DocumentView `json:"documents"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Content   string `json:"content" example:"Relancer le syndic"`
	MeetingID *int64 `json:"meeting_id,omitempty"`
}

// UpdateNoteRequest is the request body for replacing a note's content.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// DocumentView is a document row with a readable size.
type DocumentView struct {
	models.Document
	SizeHuman string `json:"size_human" example:"2.0 kB"`
}

func documentViews(docs []models.Document) []DocumentView {
	out := make([]DocumentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentView{Document: d, SizeHuman: filestore.HumanSize(d.Size)})
	}
	return out
}

// ToggleResponse reports a task's status after a toggle.
type ToggleResponse struct {
	ID     int64             `json:"id"`
	Status models.TaskStatus `json:"status"`
}

// StartSessionRequest optionally links a new session to a meeting.
type StartSessionRequest struct {
	MeetingID *int64 `json:"meeting_id,omitempty"`
}

// MonthTimeResponse is the tracked time of one month.
type MonthTimeResponse struct {
	Month          string              `json:"month" example:"2024-06"`
	TotalMinutes   int                 `json:"total_minutes"`
	TotalFormatted string              `json:"total_formatted" example:"1h 05m"`
	Daily          []models.DayMinutes `json:"daily"`
}

// CreatedResponse carries the id of a new row.
type CreatedResponse struct {
	ID int64 `json:"id"`
}
