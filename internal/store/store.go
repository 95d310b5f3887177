// Package store is the SQLite persistence engine of the organizer: it owns the
// schema migrations, the first-start bootstrap and one repository per table.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/syndic/internal/apperr"
)

// DB wraps a sql.DB and hands out the table repositories.
type DB struct {
	conn   *sql.DB
	now    func() time.Time
	logger *slog.Logger
	seed   bool

	settings    *SettingsRepo
	meetings    *MeetingRepo
	notes       *NoteRepo
	documents   *DocumentRepo
	contacts    *ContactRepo
	tasks       *TaskRepo
	finances    *FinanceRepo
	timeEntries *TimeEntryRepo
}

// Option configures a DB at Open time.
type Option func(*DB)

// WithClock replaces time.Now for every timestamp the store stamps itself.
func WithClock(fn func() time.Time) Option {
	return func(db *DB) { db.now = fn }
}

// WithLogger sets the logger used for migration and bootstrap messages.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) { db.logger = l }
}

// WithSeed toggles the demonstration data inserted into an empty store.
func WithSeed(enabled bool) Option {
	return func(db *DB) { db.seed = enabled }
}

// Open opens (or creates) the SQLite database at path. The schema is not
// touched until Initialize is called.
func Open(path string, opts ...Option) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create db dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	db := &DB{
		conn:   conn,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed:   true,
	}
	for _, opt := range opts {
		opt(db)
	}

	db.settings = &SettingsRepo{db: db}
	db.meetings = &MeetingRepo{db: db}
	db.notes = &NoteRepo{db: db}
	db.documents = &DocumentRepo{db: db}
	db.contacts = &ContactRepo{db: db}
	db.tasks = &TaskRepo{db: db}
	db.finances = &FinanceRepo{db: db}
	db.timeEntries = &TimeEntryRepo{db: db}
	return db, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Settings() *SettingsRepo { return db.settings }
func (db *DB) Meetings() *MeetingRepo { return db.meetings }
func (db *DB) Notes() *NoteRepo { return db.notes }
func (db *DB) Documents() *DocumentRepo { return db.documents }
func (db *DB) Contacts() *ContactRepo { return db.contacts }
func (db *DB) Tasks() *TaskRepo { return db.tasks }
func (db *DB) Finances() *FinanceRepo { return db.finances }
func (db *DB) TimeEntries() *TimeEntryRepo { return db.timeEntries }

// Now returns the store clock's current time truncated to the stored precision.
func (db *DB) Now() time.Time {
	return db.now().Truncate(time.Second)
}

// inTx runs fn inside a transaction, committing when fn returns nil.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func unixOf(t time.Time) int64 { return t.Unix() }

// ceilUnix rounds t up to a whole second, for inclusive lower bounds
// compared against second-resolution columns.
func ceilUnix(t time.Time) int64 {
	if t.Nanosecond() > 0 {
		return t.Unix() + 1
	}
	return t.Unix()
}

func fromUnix(v int64) time.Time { return time.Unix(v, 0) }

func nullUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func idPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// affectedOrNotFound turns a zero-row mutation into apperr.ErrNotFound.
func affectedOrNotFound(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: %s: %w", op, err)
	}
	if n == 0 {
		return notFound(op)
	}
	return nil
}

// execErr wraps a failed write. A broken meeting reference becomes a
// validation error of entity.
func execErr(op, entity string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return apperr.Invalid(entity, errors.New("referenced meeting does not exist"))
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

func notFound(op string) error {
	return fmt.Errorf("store: %s: %w", op, apperr.ErrNotFound)
}

// assignments collects the "col = ?" pairs of a partial update.
type assignments struct {
	cols []string
	args []any
}

func (a *assignments) set(col string, v any) {
	a.cols = append(a.cols, col+" = ?")
	a.args = append(a.args, v)
}

// apply updates row id of table. An empty set only checks that the row exists.
func (a *assignments) apply(ctx context.Context, db *DB, table string, id int64, op string) error {
	if len(a.cols) == 0 {
		var one int
		err := db.conn.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(op)
		}
		if err != nil {
			return fmt.Errorf("store: %s: %w", op, err)
		}
		return nil
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE `+table+` SET `+strings.Join(a.cols, ", ")+` WHERE id = ?`, append(a.args, id)...)
	if err != nil {
		return execErr(op, table, err)
	}
	return affectedOrNotFound(res, op)
}
