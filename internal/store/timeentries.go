package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"github.com/starford/syndic/internal/apperr"
	"github.com/starford/syndic/internal/models"
)

const timeEntryColumns = `id, date, start_time, end_time, minutes, meeting_id`

// TimeEntryRepo tracks work sessions. At most one session is open at a time.
type TimeEntryRepo struct {
	db *DB
}

func scanTimeEntry(s rowScanner) (models.TimeEntry, error) {
	var (
		e         models.TimeEntry
		start     int64
		end       sql.NullInt64
		minutes   sql.NullInt64
		meetingID sql.NullInt64
	)
	if err := s.Scan(&e.ID, &e.Date, &start, &end, &minutes, &meetingID); err != nil {
		return models.TimeEntry{}, err
	}
	e.StartTime = fromUnix(start)
	e.EndTime = timePtr(end)
	e.Minutes = int(minutes.Int64)
	e.MeetingID = idPtr(meetingID)
	return e, nil
}

// GetAll returns every session, most recent start first.
func (r *TimeEntryRepo) GetAll(ctx context.Context) ([]models.TimeEntry, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries ORDER BY start_time DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list time entries: %w", err)
	}
	defer rows.Close()

	out := []models.TimeEntry{}
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list time entries: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetActive returns the open session or nil.
func (r *TimeEntryRepo) GetActive(ctx context.Context) (*models.TimeEntry, error) {
	e, err := scanTimeEntry(r.db.conn.QueryRowContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE end_time IS NULL ORDER BY start_time DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: active time entry: %w", err)
	}
	return &e, nil
}

// GetByID returns the session or nil when it does not exist.
func (r *TimeEntryRepo) GetByID(ctx context.Context, id int64) (*models.TimeEntry, error) {
	e, err := scanTimeEntry(r.db.conn.QueryRowContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get time entry: %w", err)
	}
	return &e, nil
}

// StartSession opens a session now, optionally linked to a meeting. It fails
// with apperr.ErrActiveSession while another session is open.
func (r *TimeEntryRepo) StartSession(ctx context.Context, meetingID *int64) (models.TimeEntry, error) {
	started := r.db.Now()
	e := models.TimeEntry{
		Date:      models.DayKey(started),
		StartTime: started,
		MeetingID: meetingID,
	}
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		var open int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM time_entries WHERE end_time IS NULL`).Scan(&open); err != nil {
			return fmt.Errorf("store: start session: %w", err)
		}
		if open > 0 {
			return fmt.Errorf("store: start session: %w", apperr.ErrActiveSession)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO time_entries (date, start_time, minutes, meeting_id) VALUES (?, ?, 0, ?)`,
			e.Date, unixOf(started), nullID(meetingID))
		if err != nil {
			return execErr("start session", "time entry", err)
		}
		e.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return models.TimeEntry{}, err
	}
	return e, nil
}

// StopSession closes session id now and stores its whole minutes.
func (r *TimeEntryRepo) StopSession(ctx context.Context, id int64) (models.TimeEntry, error) {
	var e models.TimeEntry
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		e, err = scanTimeEntry(tx.QueryRowContext(ctx,
			`SELECT `+timeEntryColumns+` FROM time_entries WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("stop session")
		}
		if err != nil {
			return fmt.Errorf("store: stop session: %w", err)
		}
		if !e.Open() {
			return fmt.Errorf("store: stop session %d: %w", id, apperr.ErrConflict)
		}
		ended := r.db.Now()
		e.EndTime = &ended
		e.Minutes = max(0, models.MinutesBetween(e.StartTime, ended))
		if _, err := tx.ExecContext(ctx,
			`UPDATE time_entries SET end_time = ?, minutes = ? WHERE id = ?`,
			unixOf(ended), e.Minutes, id); err != nil {
			return fmt.Errorf("store: stop session: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.TimeEntry{}, err
	}
	return e, nil
}

// Delete removes a session.
func (r *TimeEntryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete time entry: %w", err)
	}
	return affectedOrNotFound(res, "delete time entry")
}

// MonthMinutes sums the minutes of closed sessions dated within month (YYYY-MM).
func (r *TimeEntryRepo) MonthMinutes(ctx context.Context, month string) (int, error) {
	first, last, err := r.monthBounds(month)
	if err != nil {
		return 0, err
	}
	var total int
	err = r.db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(minutes), 0) FROM time_entries WHERE date BETWEEN ? AND ? AND end_time IS NOT NULL`,
		first, last).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("store: month minutes: %w", err)
	}
	return total, nil
}

// DailyMinutes returns the per-day minutes of closed sessions within month,
// oldest day first. Days without sessions are omitted.
func (r *TimeEntryRepo) DailyMinutes(ctx context.Context, month string) ([]models.DayMinutes, error) {
	first, last, err := r.monthBounds(month)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT date, COALESCE(SUM(minutes), 0) FROM time_entries
		WHERE date BETWEEN ? AND ? AND end_time IS NOT NULL
		GROUP BY date ORDER BY date`, first, last)
	if err != nil {
		return nil, fmt.Errorf("store: daily minutes: %w", err)
	}
	defer rows.Close()

	out := []models.DayMinutes{}
	for rows.Next() {
		var d models.DayMinutes
		if err := rows.Scan(&d.Date, &d.Minutes); err != nil {
			return nil, fmt.Errorf("store: daily minutes: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// monthBounds returns the first and last day keys of month. An empty month
// means the current one.
func (r *TimeEntryRepo) monthBounds(month string) (string, string, error) {
	ref := r.db.Now()
	if month != "" {
		t, err := time.ParseInLocation(models.MonthLayout, month, ref.Location())
		if err != nil {
			return "", "", apperr.Invalid("month", fmt.Errorf("want YYYY-MM, got %q", month))
		}
		ref = t
	}
	m := now.With(ref)
	return models.DayKey(m.BeginningOfMonth()), models.DayKey(m.EndOfMonth()), nil
}
