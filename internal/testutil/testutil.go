// Package testutil provides shared test helpers for setting up stores and file roots.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/syndic/internal/filestore"
	"github.com/starford/syndic/internal/store"
)

// TestDB creates an initialized temporary SQLite store that is automatically
// cleaned up. Demonstration seeding is disabled unless opts re-enable it.
func TestDB(t *testing.T, opts ...store.Option) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "syndic-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			os.Remove(dbFile.Name() + suffix)
		}
	})

	db, err := store.Open(dbFile.Name(), append([]store.Option{store.WithSeed(false)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestFiles creates an empty document root.
func TestFiles(t *testing.T) *filestore.FS {
	t.Helper()
	fs, err := filestore.New(filepath.Join(t.TempDir(), "documents"))
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
