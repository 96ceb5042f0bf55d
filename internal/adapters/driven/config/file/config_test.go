package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, 6*time.Hour, cfg.SyncInterval)
	assert.True(t, cfg.SchedulerEnabled)
	assert.True(t, cfg.ANM.Enabled)
	assert.True(t, cfg.SEC.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
data_dir = "/var/lib/radar"
http_addr = ":9090"
workers = 3
sync_interval = "2h"
verbose = true

[anm]
base_url = "https://mirror.example/anm"
limit = 25
enabled = true

[sec]
enabled = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/radar", cfg.DataDir)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 2*time.Hour, cfg.SyncInterval)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "https://mirror.example/anm", cfg.ANM.BaseURL)
	assert.Equal(t, 25, cfg.ANM.Limit)
	assert.False(t, cfg.SEC.Enabled)
	// Untouched sources keep their defaults.
	assert.True(t, cfg.IBAMA.Enabled)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
workers = 3
http_addr = ":9090"
`)

	t.Setenv("RADAR_WORKERS", "12")
	t.Setenv("RADAR_ANM_BASE_URL", "https://env.example/anm")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, ":9090", cfg.HTTPAddr, "file value survives when no env override")
	assert.Equal(t, "https://env.example/anm", cfg.ANM.BaseURL)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, `workers = [not toml`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadClampsBadValues(t *testing.T) {
	path := writeConfig(t, `
workers = -2
sync_interval = "0s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, 6*time.Hour, cfg.SyncInterval)
}
