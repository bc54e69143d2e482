package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, int(slog.LevelWarn), cfg.Log.Level)
	assert.Equal(t, []string{"dispatch", "registry"}, cfg.Log.Sections)
	assert.Equal(t, "warn", cfg.Dispatch.Ambiguity)
	assert.Equal(t, "table", cfg.Output)
	assert.Empty(t, cfg.Classes)
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	err := os.WriteFile(path, []byte(`
log:
  level: 0
dispatch:
  ambiguity: error
output: plain
classes:
  Person: []
  Employee: [Person]
`), 0o644)
	require.NoError(t, err)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Log.Level)
		assert.Equal(t, "error", cfg.Dispatch.Ambiguity)
		assert.Equal(t, "plain", cfg.Output)
		assert.Equal(t, []string{"Person"}, cfg.Classes["Employee"])
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("OCL_DISPATCH_AMBIGUITY", "warn")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Dispatch.Ambiguity)
		assert.Equal(t, "plain", cfg.Output)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("OCL_OUTPUT", "plain")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("output", "table", "")
		flags.Int("log-level", 8, "")
		require.NoError(t, flags.Parse([]string{"--output", "table"}))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "table", cfg.Output)
		assert.Equal(t, 0, cfg.Log.Level, "unchanged flags do not override")
	})
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err, "an explicit config file must exist")

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("output: fancy\n"), 0o644))
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "invalid output")
}
