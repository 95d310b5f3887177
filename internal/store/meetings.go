package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/syndic/internal/models"
)

// DefaultListLimit is used by the "upcoming" and "recent" queries when the
// caller passes a non-positive limit.
const DefaultListLimit = 3

const meetingColumns = `id, title, description, location, start_at, end_at, duration_minutes`

// MeetingRepo manages the meetings table.
type MeetingRepo struct {
	db *DB
}

func scanMeeting(s rowScanner) (models.Meeting, error) {
	var (
		m                     models.Meeting
		description, location sql.NullString
		start, end            int64
		duration              sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.Title, &description, &location, &start, &end, &duration); err != nil {
		return models.Meeting{}, err
	}
	m.Description = description.String
	m.Location = location.String
	m.StartAt = fromUnix(start)
	m.EndAt = fromUnix(end)
	if duration.Valid {
		d := int(duration.Int64)
		m.DurationMinutes = &d
	}
	return m, nil
}

func (r *MeetingRepo) query(ctx context.Context, op, query string, args ...any) ([]models.Meeting, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", op, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetAll returns every meeting by ascending start.
func (r *MeetingRepo) GetAll(ctx context.Context) ([]models.Meeting, error) {
	return r.query(ctx, "list meetings",
		`SELECT `+meetingColumns+` FROM meetings ORDER BY start_at ASC, id ASC`)
}

// GetByID returns the meeting or nil when it does not exist.
func (r *MeetingRepo) GetByID(ctx context.Context, id int64) (*models.Meeting, error) {
	m, err := scanMeeting(r.db.conn.QueryRowContext(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get meeting: %w", err)
	}
	return &m, nil
}

// GetUpcoming returns at most limit meetings starting now or later, soonest first.
func (r *MeetingRepo) GetUpcoming(ctx context.Context, limit int) ([]models.Meeting, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.query(ctx, "upcoming meetings",
		`SELECT `+meetingColumns+` FROM meetings WHERE start_at >= ? ORDER BY start_at ASC, id ASC LIMIT ?`,
		ceilUnix(r.db.Now()), limit)
}

// GetByRange returns the meetings whose start lies in [start, end], ascending.
func (r *MeetingRepo) GetByRange(ctx context.Context, start, end time.Time) ([]models.Meeting, error) {
	return r.query(ctx, "meetings by range",
		`SELECT `+meetingColumns+` FROM meetings WHERE start_at >= ? AND start_at <= ? ORDER BY start_at ASC, id ASC`,
		ceilUnix(start), unixOf(end))
}

// Count returns the number of stored meetings.
func (r *MeetingRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT count(*) FROM meetings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count meetings: %w", err)
	}
	return n, nil
}

// Create inserts m and returns its new id. Title, StartAt and EndAt are required.
func (r *MeetingRepo) Create(ctx context.Context, m models.Meeting) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO meetings (title, description, location, start_at, end_at) VALUES (?, ?, ?, ?, ?)`,
		m.Title, nullString(m.Description), nullString(m.Location), unixOf(m.StartAt), unixOf(m.EndAt))
	if err != nil {
		return 0, fmt.Errorf("store: create meeting: %w", err)
	}
	return res.LastInsertId()
}

// Update merges the set fields of p into the meeting. When p carries both
// StartAt and EndAt the duration cache is rewritten from them.
func (r *MeetingRepo) Update(ctx context.Context, id int64, p models.MeetingPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var a assignments
	if p.Title != nil {
		a.set("title", *p.Title)
	}
	if p.Description != nil {
		a.set("description", nullString(*p.Description))
	}
	if p.Location != nil {
		a.set("location", nullString(*p.Location))
	}
	if p.StartAt != nil {
		a.set("start_at", unixOf(*p.StartAt))
	}
	if p.EndAt != nil {
		a.set("end_at", unixOf(*p.EndAt))
	}
	if p.StartAt != nil && p.EndAt != nil {
		a.set("duration_minutes", models.MinutesBetween(*p.StartAt, *p.EndAt))
	}
	return a.apply(ctx, r.db, "meetings", id, "update meeting")
}

// Delete removes the meeting together with its notes in one transaction.
// Documents and time entries stay but lose their link.
func (r *MeetingRepo) Delete(ctx context.Context, id int64) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM notes WHERE meeting_id = ?`,
			`UPDATE documents SET meeting_id = NULL WHERE meeting_id = ?`,
			`UPDATE time_entries SET meeting_id = NULL WHERE meeting_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("store: delete meeting dependents: %w", err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("store: delete meeting: %w", err)
		}
		return affectedOrNotFound(res, "delete meeting")
	})
}
