package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/config"
	"github.com/rileyhilliard/hostwatch/internal/modal"
)

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "", formatVersion(""))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("6h")
	require.NoError(t, err)
	assert.Equal(t, modal.Range6h, r)

	_, err = parseRange("90m")
	assert.Error(t, err)
}

func TestResolveHostNames(t *testing.T) {
	hosts := []api.Host{
		{ID: 1, Name: "web-1"},
		{ID: 2, Name: "db-1"},
	}

	ids, err := resolveHostNames(hosts, []string{"db-1", " web-1 ", ""})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, ids)

	_, err = resolveHostNames(hosts, []string{"web-2"})
	assert.Error(t, err, "a typo must not silently monitor nothing")
}

func TestApplyIntervalFlag(t *testing.T) {
	cfg := config.DefaultConfig()

	require.NoError(t, applyIntervalFlag(cfg, ""))
	assert.Equal(t, 30*time.Second, cfg.Poll.Interval)

	require.NoError(t, applyIntervalFlag(cfg, "10s"))
	assert.Equal(t, 10*time.Second, cfg.Poll.Interval)

	assert.Error(t, applyIntervalFlag(cfg, "fast"))
	assert.Error(t, applyIntervalFlag(cfg, "500ms"))
}

func TestLastSeen(t *testing.T) {
	assert.Equal(t, "never", lastSeen(api.Host{}))

	ts := time.Now().Add(-2 * time.Minute).Unix()
	assert.Contains(t, lastSeen(api.Host{LastTS: &ts}), "minutes ago")
}

func TestWriteConfig_RoundTripsThroughLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = "http://10.1.2.3:9000"
	cfg.Poll.Interval = 45 * time.Second
	cfg.Hosts = []string{"web-1"}

	require.NoError(t, writeConfig(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval: 45s", "the interval serializes as a duration string")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.BaseURL, loaded.API.BaseURL)
	assert.Equal(t, 45*time.Second, loaded.Poll.Interval)
	assert.Equal(t, []string{"web-1"}, loaded.Hosts)
}

func TestInitTargetPath_Local(t *testing.T) {
	initGlobalFlag = false
	path, err := initTargetPath()
	require.NoError(t, err)
	assert.Equal(t, config.ConfigFileName, path)
}
