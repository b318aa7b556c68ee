package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "status", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
	assert.NotNil(t, serveCmd.Flags().Lookup("no-panel"))
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.NotNil(t, statusCmd.Flags().Lookup("json"))
}

func TestLoadConfigValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("panel:\n  enabled: true\n  width: 5\n"), 0o644))

	orig := cfgFile
	t.Cleanup(func() { cfgFile = orig })
	cfgFile = path

	_, err := loadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfigMissingFile(t *testing.T) {
	orig := cfgFile
	t.Cleanup(func() { cfgFile = orig })
	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := loadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
