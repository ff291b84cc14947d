package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
plugin:
  name: track-watcher
  support_email: dev@example.com
logging:
  level: debug
task_queue:
  capacity: 64
`))
	require.NoError(t, err)

	assert.Equal(t, "track-watcher", cfg.Plugin.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset fields keep defaults")
	assert.Equal(t, 64, cfg.TaskQueue.Capacity)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "logging:\n  level: chatty\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"zero capacity", "task_queue:\n  capacity: 0\n"},
		{"bad email", "plugin:\n  support_email: nope\n"},
		{"empty name", "plugin:\n  name: \"\"\n"},
		{"metrics without namespace", "metrics:\n  enabled: true\n  namespace: \"\"\n"},
		{"malformed", "logging: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "reapergo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: true\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "reapergo", cfg.Metrics.Namespace)
}
