package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "kind", cfg.Sort)
	assert.True(t, cfg.ShowHeader())
	assert.Empty(t, cfg.Columns)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
columns: [NAME, SIZE, MOUNTPOINT]
color: never
sort: name
header: false
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"NAME", "SIZE", "MOUNTPOINT"}, cfg.Columns)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "name", cfg.Sort)
	assert.False(t, cfg.ShowHeader())
}

func TestLoadDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config/blktree")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("color: always\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.Color)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("color: sometimes\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("sort: size\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not yaml\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
