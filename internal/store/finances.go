package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/syndic/internal/models"
)

const financeColumns = `id, title, amount, type, category, date, created_at`

// FinanceRepo manages income and expense lines.
type FinanceRepo struct {
	db *DB
}

func scanFinance(s rowScanner) (models.FinanceEntry, error) {
	var (
		f         models.FinanceEntry
		typ       string
		category  sql.NullString
		date      int64
		createdAt sql.NullInt64
	)
	if err := s.Scan(&f.ID, &f.Title, &f.Amount, &typ, &category, &date, &createdAt); err != nil {
		return models.FinanceEntry{}, err
	}
	f.Type = models.FinanceType(typ)
	f.Category = category.String
	f.Date = fromUnix(date)
	if createdAt.Valid {
		f.CreatedAt = fromUnix(createdAt.Int64)
	}
	return f, nil
}

// GetAll returns every entry, most recent date first.
func (r *FinanceRepo) GetAll(ctx context.Context) ([]models.FinanceEntry, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+financeColumns+` FROM finances ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list finances: %w", err)
	}
	defer rows.Close()

	out := []models.FinanceEntry{}
	for rows.Next() {
		f, err := scanFinance(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list finances: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID returns the entry or nil when it does not exist.
func (r *FinanceRepo) GetByID(ctx context.Context, id int64) (*models.FinanceEntry, error) {
	f, err := scanFinance(r.db.conn.QueryRowContext(ctx,
		`SELECT `+financeColumns+` FROM finances WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get finance: %w", err)
	}
	return &f, nil
}

// Create inserts f stamped with the current time and returns its id.
func (r *FinanceRepo) Create(ctx context.Context, f models.FinanceEntry) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO finances (title, amount, type, category, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.Title, f.Amount, string(f.Type), nullString(f.Category), unixOf(f.Date), unixOf(r.db.Now()))
	if err != nil {
		return 0, fmt.Errorf("store: create finance: %w", err)
	}
	return res.LastInsertId()
}

// Delete removes an entry.
func (r *FinanceRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM finances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete finance: %w", err)
	}
	return affectedOrNotFound(res, "delete finance")
}

// GetStats sums every stored entry.
func (r *FinanceRepo) GetStats(ctx context.Context) (models.FinanceStats, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return models.FinanceStats{}, err
	}
	return models.SumFinances(all), nil
}
