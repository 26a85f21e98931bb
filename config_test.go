package bspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg := "format: verbose\nfailfast: true\nselector: \"!skipped\"\ngenerate:\n  package: specs\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".bspec.yaml"), []byte(cfg), 0o600))

	loaded, err := LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, "verbose", loaded.Format)
	assert.True(t, loaded.FailFast)
	assert.Equal(t, "!skipped", loaded.Selector)
	assert.Equal(t, "specs", loaded.Generate.Package)
}

func TestFindConfig_NotFound(t *testing.T) {
	_, err := FindConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t-"), 0o600))

	_, err := LoadConfigFile(path)
	assert.Error(t, err)
}
