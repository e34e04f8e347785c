package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	assert.True(t, s.ParallelProcessing)
	assert.True(t, s.ShowProgress)
	assert.False(t, s.GracefulExit)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.True(t, s.ParallelProcessing)
}

func TestLoadParsesTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
parallel_processing = false
violation_ignore = ["subprogram:type", "member:name"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"member:name", "subprogram:type"}, s.ViolationIgnore)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("graceful_exit = false\n"), 0o644))

	t.Setenv("ODRV_GRACEFUL_EXIT", "true")

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.GracefulExit)
}

func TestSortedHas(t *testing.T) {
	sorted := []string{"a", "m", "z"}
	assert.True(t, SortedHas(sorted, "m"))
	assert.False(t, SortedHas(sorted, "q"))
	assert.False(t, SortedHas(nil, "q"))
}
