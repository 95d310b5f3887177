package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/syndic/internal/models"
)

// MeetingReader is the meeting lookup the dashboard needs.
type MeetingReader interface {
	GetAll(ctx context.Context) ([]models.Meeting, error)
	GetUpcoming(ctx context.Context, limit int) ([]models.Meeting, error)
}

// NoteReader is the note lookup the dashboard needs.
type NoteReader interface {
	GetRecent(ctx context.Context, limit int) ([]models.Note, error)
}

// SettingsReader provides the monthly quota.
type SettingsReader interface {
	Get(ctx context.Context) (models.Settings, error)
}

// TimeReader provides the tracked minutes of a month.
type TimeReader interface {
	MonthMinutes(ctx context.Context, month string) (int, error)
}

// Service gathers the dashboard inputs and computes a fresh snapshot on
// every call.
type Service struct {
	meetings MeetingReader
	notes    NoteReader
	settings SettingsReader
	time     TimeReader
	now      func() time.Time
}

// NewService wires the readers. A nil clock means time.Now.
func NewService(meetings MeetingReader, notes NoteReader, settings SettingsReader, tr TimeReader, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{meetings: meetings, notes: notes, settings: settings, time: tr, now: clock}
}

// Stats reads every input and returns the snapshot for the current month.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	at := s.now()

	var (
		all, upcoming []models.Meeting
		recent        []models.Note
		settings      models.Settings
		tracked       int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all, err = s.meetings.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = s.meetings.GetUpcoming(gctx, ListLimit)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.notes.GetRecent(gctx, ListLimit)
		return err
	})
	g.Go(func() (err error) {
		settings, err = s.settings.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		tracked, err = s.time.MonthMinutes(gctx, at.Format(models.MonthLayout))
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return Compute(at, all, upcoming, recent, settings.MonthlyQuotaMinutes, tracked), nil
}
