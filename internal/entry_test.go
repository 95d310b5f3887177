package internal

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/starford/syndic/internal/store"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(dir, "syndic.db")
	cfg.Files.Path = filepath.Join(dir, "documents")
	return cfg
}

func meetingCount(t *testing.T, path string) int {
	t.Helper()
	db, err := store.Open(path, store.WithSeed(false))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	n, err := db.Meetings().Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestInitSeedsThenResetClears(t *testing.T) {
	cfg := testConfig(t)
	var logs bytes.Buffer
	ctx := context.Background()

	if err := Init(ctx, WithConfig(cfg), WithLogOutput(&logs)); err != nil {
		t.Fatalf("init: %v", err)
	}
	if n := meetingCount(t, cfg.SQLite.Path); n != 2 {
		t.Errorf("meetings after init = %d, want 2", n)
	}
	if !bytes.Contains(logs.Bytes(), []byte(`"schema_version":6`)) {
		t.Errorf("init log missing schema version: %s", logs.String())
	}

	cfg.Seed.Enabled = false
	if err := Reset(ctx, WithConfig(cfg), WithLogOutput(&logs)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n := meetingCount(t, cfg.SQLite.Path); n != 0 {
		t.Errorf("meetings after reset = %d, want 0", n)
	}
}

func TestSetupRequiresConfig(t *testing.T) {
	if err := Init(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
