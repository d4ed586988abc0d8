package spatialgrid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "axes.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadAxisConfig_MixedPeriodicity(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `[
		{"periodic": false},
		{"periodic": true, "lo": 0, "hi": 360},
		{"periodic": false}
	]`)

	axes, err := LoadAxisConfig(path)
	require.NoError(t, err)
	require.Len(t, axes, 3)
	assert.False(t, axes[0].Periodic)
	assert.True(t, axes[1].Periodic)
	assert.Equal(t, 0.0, axes[1].Lo)
	assert.Equal(t, 360.0, axes[1].Hi)
	assert.False(t, axes[2].Periodic)
}

func TestLoadAxisConfig_RejectsNonJSONExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "axes.txt")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	_, err := LoadAxisConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: BadAxisConfig})
}

func TestLoadAxisConfig_RejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `{not valid json`)
	_, err := LoadAxisConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: BadAxisConfig})
}

func TestLoadAxisConfig_RejectsPeriodicLoGEHi(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `[{"periodic": true, "lo": 10, "hi": 10}]`)
	_, err := LoadAxisConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: BadAxisConfig})
}

func TestLoadAxisConfig_RejectsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadAxisConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: BadAxisConfig})
}
