package models

import (
	"time"

	"github.com/starford/syndic/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Meeting is a scheduled syndic meeting.
type Meeting struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	// DurationMinutes caches EndAt-StartAt as written by the last update that
	// supplied both timestamps. It is nil until such an update happens.
	DurationMinutes *int `json:"duration_minutes,omitempty"`
}

// Minutes computes the meeting length from its timestamps.
func (m Meeting) Minutes() int {
	return MinutesBetween(m.StartAt, m.EndAt)
}

// Validate checks the fields required to store a meeting.
func (m Meeting) Validate() error {
	return apperr.Invalid("meeting", validation.ValidateStruct(&m,
		validation.Field(&m.Title, notBlank),
		validation.Field(&m.StartAt, validation.Required),
		validation.Field(&m.EndAt, validation.Required),
	))
}

// MeetingPatch carries the meeting fields to change; nil fields are kept.
type MeetingPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
}

// Validate checks the provided fields.
func (p MeetingPatch) Validate() error {
	return apperr.Invalid("meeting", validation.ValidateStruct(&p,
		validation.Field(&p.Title, notBlankPtr),
	))
}

// Empty reports whether the patch changes nothing.
func (p MeetingPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil && p.StartAt == nil && p.EndAt == nil
}
