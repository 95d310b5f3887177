package appstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/syndic/internal/models"
)

type memStore struct {
	mu        sync.Mutex
	s         models.Settings
	updateErr error
}

func (m *memStore) Get(context.Context) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *memStore) Update(_ context.Context, p models.SettingsPatch) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return models.Settings{}, m.updateErr
	}
	if err := p.Validate(); err != nil {
		return models.Settings{}, err
	}
	m.s = p.Apply(m.s)
	return m.s, nil
}

func TestSnapshotAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := &memStore{s: models.DefaultSettings()}
	st, err := New(ctx, store)
	require.NoError(t, err)

	snap := st.Snapshot()
	assert.Equal(t, "Agent", snap.DisplayName)
	assert.Equal(t, models.ThemeCyan.Palette(), snap.Theme)

	pink := models.ThemePink
	snap, err = st.Update(ctx, models.SettingsPatch{ThemeVariant: &pink})
	require.NoError(t, err)
	assert.Equal(t, models.ThemePink, snap.ThemeVariant)
	assert.Equal(t, pink.Palette(), st.Snapshot().Theme)

	persisted, _ := store.Get(ctx)
	assert.Equal(t, models.ThemePink, persisted.ThemeVariant)
}

func TestUpdateFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	store := &memStore{s: models.DefaultSettings()}
	st, err := New(ctx, store)
	require.NoError(t, err)

	store.updateErr = errors.New("disk full")
	name := "Trinity"
	_, err = st.Update(ctx, models.SettingsPatch{DisplayName: &name})
	require.Error(t, err)
	assert.Equal(t, "Agent", st.Snapshot().DisplayName)
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	store := &memStore{s: models.DefaultSettings()}
	st, err := New(ctx, store)
	require.NoError(t, err)

	store.s.DisplayName = "Neo"
	assert.Equal(t, "Agent", st.Snapshot().DisplayName)
	require.NoError(t, st.Reload(ctx))
	assert.Equal(t, "Neo", st.Snapshot().DisplayName)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st, err := New(ctx, &memStore{s: models.DefaultSettings()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			q := i * 10
			_, _ = st.Update(ctx, models.SettingsPatch{MonthlyQuotaMinutes: &q})
		}()
		go func() {
			defer wg.Done()
			_ = st.Snapshot()
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, st.Snapshot().MonthlyQuotaMinutes, 0)
}
