package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostwatch/internal/errors"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTempConfig(t, `
api:
  base_url: http://dashboard.local:9000
poll:
  interval: 10s
  window_minutes: 60
  max_points: 30
thresholds:
  disk_critical: 95
hosts:
  - web-1
  - db-1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://dashboard.local:9000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 60, cfg.Poll.WindowMinutes)
	assert.Equal(t, 30, cfg.Poll.MaxPoints)
	assert.Equal(t, []string{"web-1", "db-1"}, cfg.Hosts)

	th := cfg.FormatThresholds()
	assert.Equal(t, 95.0, th.DiskCritical)
	// Unset boundaries keep their defaults.
	assert.Equal(t, 70.0, th.DiskWarning)
}

func TestLoad_PartialConfigMergesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
api:
  base_url: http://10.0.0.2:8000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:8000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 120, cfg.Poll.WindowMinutes)
	assert.Equal(t, 60, cfg.Poll.MaxPoints)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "api: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults are valid", func(c *Config) {}, true},
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, false},
		{"empty url", func(c *Config) { c.API.BaseURL = "" }, false},
		{"sub-second interval", func(c *Config) { c.Poll.Interval = 200 * time.Millisecond }, false},
		{"one max point", func(c *Config) { c.Poll.MaxPoints = 1 }, false},
		{"zero window", func(c *Config) { c.Poll.WindowMinutes = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFind_ExplicitPathMustExist(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeTempConfig(t, "api:\n  base_url: http://x:1\n")
	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestLoadOrDefault_NoConfigAnywhere(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
}

func TestLoadOrDefault_PicksUpLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("poll:\n  interval: 5s\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
}
