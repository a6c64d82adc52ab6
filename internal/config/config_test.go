package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "browser_recordings", cfg.Recording.Dir)
	assert.True(t, cfg.Recording.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Browser.FindTimeout)
	assert.Equal(t, 50, cfg.Browser.WindowOffset)
	assert.Equal(t, time.Second, cfg.Clicker.Interval)
	assert.Equal(t, 5, cfg.Clicker.MaxErrors)
	assert.Equal(t, 100*time.Millisecond, cfg.Overlay.PollInterval)
	assert.Equal(t, 100, cfg.Overlay.PollAttempts)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logger:
  level: debug
recording:
  dir: /tmp/recs
clicker:
  interval: 250ms
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "/tmp/recs", cfg.Recording.Dir)
	assert.Equal(t, 250*time.Millisecond, cfg.Clicker.Interval)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.Clicker.MaxErrors)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("AUTOCLICKER_LOGGER_LEVEL", "warn")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
}
