package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/syndic/internal/models"
)

const documentColumns = `id, name, category, uri, size, created_at, meeting_id`

// DocumentRepo manages document metadata rows. It never touches the files
// the rows point to.
type DocumentRepo struct {
	db *DB
}

func scanDocument(s rowScanner) (models.Document, error) {
	var (
		d         models.Document
		category  string
		size      sql.NullInt64
		created   sql.NullInt64
		meetingID sql.NullInt64
	)
	if err := s.Scan(&d.ID, &d.Name, &category, &d.URI, &size, &created, &meetingID); err != nil {
		return models.Document{}, err
	}
	d.Category = models.DocumentCategory(category)
	d.Size = size.Int64
	if created.Valid {
		d.CreatedAt = fromUnix(created.Int64)
	}
	d.MeetingID = idPtr(meetingID)
	return d, nil
}

func (r *DocumentRepo) query(ctx context.Context, op, query string, args ...any) ([]models.Document, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", op, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DocumentRepo) one(ctx context.Context, op, query string, args ...any) (*models.Document, error) {
	d, err := scanDocument(r.db.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	return &d, nil
}

// GetAll returns every document, newest first.
func (r *DocumentRepo) GetAll(ctx context.Context) ([]models.Document, error) {
	return r.query(ctx, "list documents",
		`SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC, id DESC`)
}

// GetByCategory returns the documents of one category, newest first.
func (r *DocumentRepo) GetByCategory(ctx context.Context, c models.DocumentCategory) ([]models.Document, error) {
	return r.query(ctx, "documents by category",
		`SELECT `+documentColumns+` FROM documents WHERE category = ? ORDER BY created_at DESC, id DESC`, string(c))
}

// GetByMeetingID returns the documents attached to a meeting, newest first.
func (r *DocumentRepo) GetByMeetingID(ctx context.Context, meetingID int64) ([]models.Document, error) {
	return r.query(ctx, "documents by meeting",
		`SELECT `+documentColumns+` FROM documents WHERE meeting_id = ? ORDER BY created_at DESC, id DESC`, meetingID)
}

// GetByID returns the document or nil when it does not exist.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	return r.one(ctx, "get document", `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
}

// GetByURI returns the first document pointing at uri, or nil.
func (r *DocumentRepo) GetByURI(ctx context.Context, uri string) (*models.Document, error) {
	return r.one(ctx, "document by uri",
		`SELECT `+documentColumns+` FROM documents WHERE uri = ? ORDER BY id LIMIT 1`, uri)
}

// Create inserts a document row exactly as supplied. A zero CreatedAt is
// stamped with the current time.
func (r *DocumentRepo) Create(ctx context.Context, d models.Document) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = r.db.Now()
	}
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO documents (name, category, uri, size, created_at, meeting_id) VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, string(d.Category), d.URI, d.Size, unixOf(d.CreatedAt), nullID(d.MeetingID))
	if err != nil {
		return 0, execErr("create document", "document", err)
	}
	return res.LastInsertId()
}

// Update merges the set fields of p. DetachMeeting clears the meeting link.
func (r *DocumentRepo) Update(ctx context.Context, id int64, p models.DocumentPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var a assignments
	if p.Name != nil {
		a.set("name", *p.Name)
	}
	if p.Category != nil {
		a.set("category", string(*p.Category))
	}
	if p.URI != nil {
		a.set("uri", *p.URI)
	}
	if p.Size != nil {
		a.set("size", *p.Size)
	}
	switch {
	case p.DetachMeeting:
		a.set("meeting_id", nil)
	case p.MeetingID != nil:
		a.set("meeting_id", *p.MeetingID)
	}
	return a.apply(ctx, r.db, "documents", id, "update document")
}

// Delete removes the row only; the stored file is left in place.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete document: %w", err)
	}
	return affectedOrNotFound(res, "delete document")
}
