package api_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/iconify/api"
)

func TestGetConfigPath(t *testing.T) {
	t.Parallel()

	got := api.GetConfigPath("config.yaml")

	assert.True(t, strings.HasSuffix(got, filepath.Join("iconify", "config.yaml")), got)
	assert.True(t, filepath.IsAbs(got), got)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: Configuration\n"), 0o600))

	data, err := api.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kind: Configuration\n", string(data))

	_, err = api.ReadFile(dir)
	require.ErrorIs(t, err, api.ErrIsDir)

	_, err = api.ReadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	written, err := api.WriteFile(path, []byte("a: 1\n"), false)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = api.WriteFile(path, []byte("a: 2\n"), false)
	require.NoError(t, err)
	assert.False(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))

	written, err = api.WriteFile(path, []byte("a: 3\n"), true)
	require.NoError(t, err)
	assert.True(t, written)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 3\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "expected the config and one backup")

	_, err = api.WriteFile(dir, []byte("x"), true)
	require.ErrorIs(t, err, api.ErrIsDir)
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	deep := filepath.Join(root, "Assets", "Scripts")
	require.NoError(t, os.MkdirAll(deep, 0o700))

	got, err := api.FindConfigFile(deep, []string{".iconify.yaml"})
	require.NoError(t, err)
	assert.Empty(t, got)

	want := filepath.Join(root, ".iconify.yaml")
	require.NoError(t, os.WriteFile(want, []byte("{}"), 0o600))

	got, err = api.FindConfigFile(deep, []string{".iconify.yml", ".iconify.yaml"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = api.FindConfigFile(filepath.Join(root, "missing"), []string{".iconify.yaml"})
	require.Error(t, err)
}
