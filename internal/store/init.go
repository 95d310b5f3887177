package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/syndic/internal/models"
)

// Initialize brings the store to a usable state: it applies pending
// migrations, makes sure the settings singleton exists and, when seeding is
// enabled and no meeting exists yet, inserts the demonstration meetings.
// Calling it again is harmless.
func (db *DB) Initialize(ctx context.Context) error {
	if err := db.migrate(ctx); err != nil {
		return err
	}
	if err := db.settings.ensure(ctx); err != nil {
		return err
	}
	if !db.seed {
		return nil
	}

	n, err := db.meetings.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := db.seedDemo(ctx); err != nil {
		return fmt.Errorf("store: seed: %w", err)
	}
	db.logger.Info("demonstration data seeded")
	return nil
}

type seedMeeting struct {
	title, description, location string
	dayOffset                    int
	startHour, startMinute       int
	endHour, endMinute           int
}

var demoMeetings = []seedMeeting{
	{
		title:       "Briefing Syndicat",
		description: "Réunion de routine sur les protocoles néon.",
		location:    "Secteur 7",
		dayOffset:   1, startHour: 10, endHour: 11, endMinute: 30,
	},
	{
		title:       "Intervention Matrix",
		description: "Débogage du sous-système de pointage.",
		location:    "Mainframe",
		dayOffset:   3, startHour: 14, endHour: 16,
	},
}

const seedDisplayName = "Neo"

func (db *DB) seedDemo(ctx context.Context) error {
	now := db.Now()
	at := func(days, hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()+days, hour, minute, 0, 0, now.Location())
	}

	return db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE settings SET display_name = ?, monthly_quota_minutes = ?, theme_variant = ? WHERE id = 1`,
			seedDisplayName, models.DefaultMonthlyQuotaMinutes, string(models.DefaultThemeVariant)); err != nil {
			return err
		}
		for _, m := range demoMeetings {
			start := at(m.dayOffset, m.startHour, m.startMinute)
			end := at(m.dayOffset, m.endHour, m.endMinute)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO meetings (title, description, location, start_at, end_at) VALUES (?, ?, ?, ?, ?)`,
				m.title, m.description, m.location, unixOf(start), unixOf(end)); err != nil {
				return err
			}
			db.logger.Debug("seeded meeting", slog.String("title", m.title), slog.Time("start_at", start))
		}
		return nil
	})
}
