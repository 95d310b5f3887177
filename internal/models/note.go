package models

import (
	"time"

	"github.com/starford/syndic/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Note is a free-text note, optionally attached to a meeting.
type Note struct {
	ID        int64     `json:"id"`
	MeetingID *int64    `json:"meeting_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields required to store a note.
func (n Note) Validate() error {
	return apperr.Invalid("note", validation.ValidateStruct(&n,
		validation.Field(&n.Content, notBlank),
	))
}
