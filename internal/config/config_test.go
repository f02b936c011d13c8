package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/library-of-memories/internal/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"LIBRARY_STORE", "LIBRARY_SAVE_DIR", "LIBRARY_SQLITE_PATH", "LIBRARY_SAVE_KEY",
		"LIBRARY_LOG_FILE", "LIBRARY_LOG_LEVEL", "GEMINI_API_KEY", "GEMINI_MODEL",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, ".saves", cfg.SaveDir)
	assert.Equal(t, "library.db", cfg.SQLitePath)
	assert.Equal(t, "isfjLibraryGame", cfg.SaveKey)
	assert.Equal(t, "library.log", cfg.LogFile)
	assert.Equal(t, log.InfoLevel, cfg.Level())
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.False(t, cfg.NarratorEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LIBRARY_STORE", "sqlite")
	t.Setenv("LIBRARY_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("LIBRARY_LOG_LEVEL", "debug")
	t.Setenv("GEMINI_API_KEY", "k")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.True(t, cfg.NarratorEnabled())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("LIBRARY_STORE", "postgres")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "LIBRARY_STORE")

	t.Setenv("LIBRARY_STORE", "file")
	t.Setenv("LIBRARY_LOG_LEVEL", "loud")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "LIBRARY_LOG_LEVEL")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := &Config{Store: StoreFile, SaveDir: filepath.Join(dir, "saves")}
	s, err := cfg.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, s)
	require.NoError(t, s.Close())

	cfg = &Config{Store: StoreSQLite, SQLitePath: filepath.Join(dir, "library.db")}
	s, err = cfg.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, s)
	require.NoError(t, s.Close())
}
