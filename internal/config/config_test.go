package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Extractors.EdgeThreshold)
	assert.Equal(t, 2.0, cfg.Extractors.IdleThresholdSeconds)
	assert.Contains(t, cfg.Extractors.ShortcutKeys, "Control")
	assert.Equal(t, 300, cfg.Rolling.IntervalSeconds)
	assert.Equal(t, 900, cfg.Rolling.WindowSizeSeconds)
	assert.Equal(t, 100, cfg.Rolling.FallbackLimit)
	assert.True(t, cfg.Monitoring.EnableLiveStream)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
rolling:
  interval_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 60, cfg.Rolling.IntervalSeconds)
	// Untouched sections keep their defaults.
	assert.Equal(t, 900, cfg.Rolling.WindowSizeSeconds)
	assert.Equal(t, 0.05, cfg.Extractors.EdgeThreshold)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
