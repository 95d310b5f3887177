package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/syndic/internal/models"
)

const settingsID = 1

// SettingsRepo reads and writes the settings singleton.
type SettingsRepo struct {
	db *DB
}

func (r *SettingsRepo) ensure(ctx context.Context) error {
	d := models.DefaultSettings()
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (id, display_name, monthly_quota_minutes, theme_variant) VALUES (?, ?, ?, ?)`,
		settingsID, d.DisplayName, d.MonthlyQuotaMinutes, string(d.ThemeVariant))
	if err != nil {
		return fmt.Errorf("store: ensure settings: %w", err)
	}
	return nil
}

// Get returns the settings row, recreating it with defaults when it is missing.
// NULL columns read as their defaults.
func (r *SettingsRepo) Get(ctx context.Context) (models.Settings, error) {
	s, err := r.get(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.ensure(ctx); err != nil {
			return models.Settings{}, err
		}
		s, err = r.get(ctx)
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("store: get settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepo) get(ctx context.Context) (models.Settings, error) {
	var (
		name  sql.NullString
		quota sql.NullInt64
		theme sql.NullString
	)
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT display_name, monthly_quota_minutes, theme_variant FROM settings WHERE id = ?`, settingsID).
		Scan(&name, &quota, &theme)
	if err != nil {
		return models.Settings{}, err
	}

	s := models.DefaultSettings()
	if name.Valid {
		s.DisplayName = name.String
	}
	if quota.Valid {
		s.MonthlyQuotaMinutes = int(quota.Int64)
	}
	if theme.Valid {
		s.ThemeVariant = models.ThemeVariant(theme.String)
	}
	return s, nil
}

// Update merges p into the settings row and returns the stored result.
func (r *SettingsRepo) Update(ctx context.Context, p models.SettingsPatch) (models.Settings, error) {
	if err := p.Validate(); err != nil {
		return models.Settings{}, err
	}
	cur, err := r.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	next := p.Apply(cur)
	_, err = r.db.conn.ExecContext(ctx,
		`UPDATE settings SET display_name = ?, monthly_quota_minutes = ?, theme_variant = ? WHERE id = ?`,
		next.DisplayName, next.MonthlyQuotaMinutes, string(next.ThemeVariant), settingsID)
	if err != nil {
		return models.Settings{}, fmt.Errorf("store: update settings: %w", err)
	}
	return next, nil
}

// ResetAll wipes meetings, notes and time entries in one transaction.
// Documents and the other tables are kept; documents lose their meeting link.
func (r *SettingsRepo) ResetAll(ctx context.Context) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM notes`,
			`DELETE FROM time_entries`,
			`UPDATE documents SET meeting_id = NULL WHERE meeting_id IS NOT NULL`,
			`DELETE FROM meetings`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("store: reset: %w", err)
			}
		}
		return nil
	})
}
