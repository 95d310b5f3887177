package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/syndic/internal/apperr"
	"github.com/starford/syndic/internal/models"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *testClock {
	return &testClock{t: time.Date(2024, time.June, 15, 9, 0, 0, 0, time.Local)}
}

// testDB opens an initialized store in a temp file. Seeding is off unless
// an option turns it back on.
func testDB(t *testing.T, clock *testClock, opts ...Option) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "syndic-test-*.db")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() {
		os.Remove(f.Name())
		os.Remove(f.Name() + "-wal")
		os.Remove(f.Name() + "-shm")
	})

	all := append([]Option{WithSeed(false), WithClock(clock.Now)}, opts...)
	db, err := Open(f.Name(), all...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize(context.Background()))
	return db
}

func ptr[T any](v T) *T { return &v }

func mustMeeting(t *testing.T, db *DB, title string, start time.Time, d time.Duration) int64 {
	t.Helper()
	id, err := db.Meetings().Create(context.Background(), models.Meeting{
		Title: title, StartAt: start, EndAt: start.Add(d),
	})
	require.NoError(t, err)
	return id
}

func count(t *testing.T, db *DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.conn.QueryRow(query, args...).Scan(&n))
	return n
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testDB(t, newClock(), WithSeed(true))

	require.NoError(t, db.Initialize(ctx))

	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM settings`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM meetings`))

	v, err := db.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	s, err := db.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Neo", s.DisplayName)
	assert.Equal(t, 2100, s.MonthlyQuotaMinutes)
	assert.Equal(t, models.ThemeCyan, s.ThemeVariant)
}

func TestSeedPlacesMeetingsAfterToday(t *testing.T) {
	clock := newClock()
	db := testDB(t, clock, WithSeed(true))

	all, err := db.Meetings().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "Briefing Syndicat", all[0].Title)
	assert.True(t, all[0].StartAt.Equal(time.Date(2024, time.June, 16, 10, 0, 0, 0, time.Local)))
	assert.Equal(t, 90, all[0].Minutes())
	assert.Equal(t, "Intervention Matrix", all[1].Title)
	assert.True(t, all[1].StartAt.Equal(time.Date(2024, time.June, 18, 14, 0, 0, 0, time.Local)))
	assert.Equal(t, 120, all[1].Minutes())
}

func TestSeedSkippedWhenMeetingsExist(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	db := testDB(t, clock)
	mustMeeting(t, db, "Existing", clock.t, time.Hour)

	db.seed = true
	require.NoError(t, db.Initialize(ctx))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM meetings`))
}

func TestInitializeToleratesLegacySchema(t *testing.T) {
	ctx := context.Background()
	f, err := os.CreateTemp("", "syndic-legacy-*.db")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name(), WithSeed(false))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// A store written by an older build: tables exist, one later column was
	// already added by hand, no migration bookkeeping.
	_, err = db.conn.Exec(`
		CREATE TABLE meetings (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, title TEXT NOT NULL,
			description TEXT, location TEXT, start_at INTEGER NOT NULL, end_at INTEGER NOT NULL);
		CREATE TABLE documents (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, name TEXT NOT NULL,
			category TEXT NOT NULL, uri TEXT NOT NULL, size INTEGER, created_at INTEGER, meeting_id INTEGER);
		INSERT INTO meetings (title, start_at, end_at) VALUES ('Old', 1700000000, 1700003600);`)
	require.NoError(t, err)

	require.NoError(t, db.Initialize(ctx))

	m, err := db.Meetings().GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Old", m.Title)
	assert.Nil(t, m.DurationMinutes)

	v, err := db.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, v)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- header\nCREATE TABLE a (x INTEGER);\n\nCREATE INDEX i ON a(x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INTEGER)", "CREATE INDEX i ON a(x)"}, got)
}

func TestSettingsSelfHeal(t *testing.T) {
	ctx := context.Background()
	db := testDB(t, newClock())

	_, err := db.conn.Exec(`DELETE FROM settings`)
	require.NoError(t, err)

	s, err := db.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM settings`))
}

func TestSettingsNullColumnsReadAsDefaults(t *testing.T) {
	ctx := context.Background()
	db := testDB(t, newClock())

	_, err := db.conn.Exec(`UPDATE settings SET display_name = NULL, theme_variant = NULL WHERE id = 1`)
	require.NoError(t, err)

	s, err := db.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDisplayName, s.DisplayName)
	assert.Equal(t, models.DefaultThemeVariant, s.ThemeVariant)
}

func TestSettingsUpdate(t *testing.T) {
	ctx := context.Background()
	db := testDB(t, newClock())

	s, err := db.Settings().Update(ctx, models.SettingsPatch{
		MonthlyQuotaMinutes: ptr(600),
		ThemeVariant:        ptr(models.ThemePink),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDisplayName, s.DisplayName)
	assert.Equal(t, 600, s.MonthlyQuotaMinutes)

	got, err := db.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	_, err = db.Settings().Update(ctx, models.SettingsPatch{MonthlyQuotaMinutes: ptr(-1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = db.Settings().Update(ctx, models.SettingsPatch{ThemeVariant: ptr(models.ThemeVariant("green"))})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	db := testDB(t, clock)

	mid := mustMeeting(t, db, "Board", clock.t, time.Hour)
	_, err := db.Notes().Create(ctx, "minutes", &mid)
	require.NoError(t, err)
	docID, err := db.Documents().Create(ctx, models.Document{
		Name: "pv.pdf", Category: models.CategoryPV, URI: "file:///pv.pdf", MeetingID: &mid,
	})
	require.NoError(t, err)
	_, err = db.TimeEntries().StartSession(ctx, &mid)
	require.NoError(t, err)
	_, err = db.Contacts().Create(ctx, models.Contact{Name: "Me Dupont", Type: models.ContactAvocat})
	require.NoError(t, err)

	require.NoError(t, db.Settings().ResetAll(ctx))

	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM meetings`))
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM notes`))
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM time_entries`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM contacts`))

	d, err := db.Documents().GetByID(ctx, docID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Nil(t, d.MeetingID)
}
