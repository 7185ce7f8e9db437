package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := viper.New()
	cfg.Set(sessionPathKey, filepath.Join(t.TempDir(), "session.toml"))

	store, err := NewStore(cfg)
	require.NoError(t, err)
	return store
}

func TestLoadWithoutSavedSession(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrNoSession)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	saved := domain.Session{
		AccessToken:   "token-abc",
		RefreshCookie: "rt=cookie-value",
		Email:         "admin@example.com",
		SavedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(context.Background(), saved))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved.AccessToken, loaded.AccessToken)
	assert.Equal(t, saved.RefreshCookie, loaded.RefreshCookie)
	assert.Equal(t, saved.Email, loaded.Email)
	assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))
}

func TestSaveRestrictsFileMode(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "token"}))

	info, err := os.Stat(store.sessionPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(sessionFileMode), info.Mode().Perm())
}

func TestSaveOverwritesPreviousSession(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "old"}))
	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "new"}))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.AccessToken)
}

func TestClearRemovesSession(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "token"}))
	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, store.Clear(context.Background()))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrNoSession)
}

func TestLoadRejectsNewerSchema(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.sessionPath), sessionDirMode))
	require.NoError(t, os.WriteFile(store.sessionPath, []byte("version = 99\n"), sessionFileMode))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported session schema version")
}
