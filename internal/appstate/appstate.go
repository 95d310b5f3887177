// Package appstate holds the settings shared by every presentation surface.
// It is built once at startup and passed explicitly to whoever needs it.
package appstate

import (
	"context"
	"sync"

	"github.com/starford/syndic/internal/models"
)

// SettingsStore is the persistence behind the cached settings.
type SettingsStore interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, p models.SettingsPatch) (models.Settings, error)
}

// Snapshot is the cached settings plus the palette of their theme.
type Snapshot struct {
	models.Settings
	Theme models.Theme `json:"theme"`
}

// State caches the settings row. Writes go to the store first.
type State struct {
	store SettingsStore

	mu       sync.RWMutex
	settings models.Settings
}

// New loads the current settings from store.
func New(ctx context.Context, store SettingsStore) (*State, error) {
	s := &State{store: store}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the cached settings.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Settings: s.settings, Theme: s.settings.ThemeVariant.Palette()}
}

// Update persists p and, once stored, refreshes the cache. On failure the
// cache is left as it was.
func (s *State) Update(ctx context.Context, p models.SettingsPatch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.store.Update(ctx, p)
	if err != nil {
		return Snapshot{}, err
	}
	s.settings = next
	return Snapshot{Settings: next, Theme: next.ThemeVariant.Palette()}, nil
}

// Reload re-reads the settings from the store, e.g. after a reset.
func (s *State) Reload(ctx context.Context) error {
	cur, err := s.store.Get(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = cur
	s.mu.Unlock()
	return nil
}
