// Package models defines the domain types of the syndic organizer and their
// write-time validation rules.
package models

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the calendar-day format used for day keys and time entry dates.
const DateLayout = "2006-01-02"

// MonthLayout is the format of month selectors such as "2024-06".
const MonthLayout = "2006-01"

// DayMinutes is one point of a per-day minutes series.
type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// MinutesBetween returns the whole minutes from start to end, truncated toward zero.
func MinutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// DayKey returns the YYYY-MM-DD key of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

var notBlank = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

var notBlankPtr = validation.By(func(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if strings.TrimSpace(*s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})
