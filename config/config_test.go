package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Config{
		ServerURL:   "https://journal.example.com",
		Email:       "maya@example.com",
		DisplayName: "Maya",
		Theme:       "light",
	}
	require.NoError(t, Save(dir, cfg))

	got := Load(dir)
	assert.Equal(t, cfg, got)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got := Load(t.TempDir())
	assert.Equal(t, "dark", got.Theme)
	assert.Empty(t, got.Email)
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tui.json"), []byte("{not json"), 0o644))

	got := Load(dir)
	assert.Equal(t, "dark", got.Theme)
}

func TestSaveCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	require.NoError(t, Save(dir, Config{Email: "maya@example.com"}))
	assert.Equal(t, "maya@example.com", Load(dir).Email)
}
