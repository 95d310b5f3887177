package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/syndic/internal/models"
)

const noteColumns = `id, meeting_id, content, created_at`

// NoteRepo manages the notes table.
type NoteRepo struct {
	db *DB
}

func scanNote(s rowScanner) (models.Note, error) {
	var (
		n         models.Note
		meetingID sql.NullInt64
		created   sql.NullInt64
	)
	if err := s.Scan(&n.ID, &meetingID, &n.Content, &created); err != nil {
		return models.Note{}, err
	}
	n.MeetingID = idPtr(meetingID)
	if created.Valid {
		n.CreatedAt = fromUnix(created.Int64)
	}
	return n, nil
}

func (r *NoteRepo) query(ctx context.Context, op, query string, args ...any) ([]models.Note, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", op, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetAll returns every note, newest first.
func (r *NoteRepo) GetAll(ctx context.Context) ([]models.Note, error) {
	return r.query(ctx, "list notes",
		`SELECT `+noteColumns+` FROM notes ORDER BY created_at DESC, id DESC`)
}

// GetByID returns the note or nil when it does not exist.
func (r *NoteRepo) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	n, err := scanNote(r.db.conn.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return &n, nil
}

// GetByMeetingID returns the notes attached to a meeting, newest first.
func (r *NoteRepo) GetByMeetingID(ctx context.Context, meetingID int64) ([]models.Note, error) {
	return r.query(ctx, "notes by meeting",
		`SELECT `+noteColumns+` FROM notes WHERE meeting_id = ? ORDER BY created_at DESC, id DESC`, meetingID)
}

// GetRecent returns at most limit notes, newest first.
func (r *NoteRepo) GetRecent(ctx context.Context, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.query(ctx, "recent notes",
		`SELECT `+noteColumns+` FROM notes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// Search returns the notes whose content contains substr, newest first.
// Matching follows SQLite LIKE: ASCII letters compare case-insensitively.
func (r *NoteRepo) Search(ctx context.Context, substr string) ([]models.Note, error) {
	return r.query(ctx, "search notes",
		`SELECT `+noteColumns+` FROM notes WHERE content LIKE ? ESCAPE '\' ORDER BY created_at DESC, id DESC`,
		"%"+escapeLike(substr)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// Create stores a note stamped with the current time and returns its id.
func (r *NoteRepo) Create(ctx context.Context, content string, meetingID *int64) (int64, error) {
	n := models.Note{Content: content, MeetingID: meetingID}
	if err := n.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO notes (meeting_id, content, created_at) VALUES (?, ?, ?)`,
		nullID(meetingID), content, unixOf(r.db.Now()))
	if err != nil {
		return 0, execErr("create note", "note", err)
	}
	return res.LastInsertId()
}

// Update replaces the content of a note.
func (r *NoteRepo) Update(ctx context.Context, id int64, content string) error {
	if err := (models.Note{Content: content}).Validate(); err != nil {
		return err
	}
	res, err := r.db.conn.ExecContext(ctx, `UPDATE notes SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	return affectedOrNotFound(res, "update note")
}

// Delete removes a note.
func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return affectedOrNotFound(res, "delete note")
}
