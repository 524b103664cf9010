package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/skirmish/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[game]
level = 2
debug = true

[logging]
level = "debug"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Game.Level)
	assert.True(t, cfg.Game.Debug)
	assert.Equal(t, 60, cfg.Game.TPS)
	assert.Equal(t, "assets/scripts", cfg.Game.ScriptsDir)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "assets/manifest.yaml", cfg.Assets.Manifest)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "[window\nwidth = 3"))
	assert.ErrorContains(t, err, "parse config")

	_, err = config.Load(writeConfig(t, "[game]\ntps = 0\n"))
	assert.ErrorContains(t, err, "tps 0 must be positive")
}

func TestResolvePath(t *testing.T) {
	t.Setenv(config.EnvPath, "")
	assert.Equal(t, config.DefaultPath, config.ResolvePath(""))

	t.Setenv(config.EnvPath, "/etc/skirmish.toml")
	assert.Equal(t, "/etc/skirmish.toml", config.ResolvePath(""))
	assert.Equal(t, "custom.toml", config.ResolvePath("custom.toml"))
}
