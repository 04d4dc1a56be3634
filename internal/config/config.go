// Package config defines the hostwatch configuration and its loader.
package config

import (
	"time"

	"github.com/rileyhilliard/hostwatch/internal/format"
)

// APIConfig points the client at the metrics backend.
type APIConfig struct {
	// BaseURL is the root of the backend API, e.g. "http://127.0.0.1:8000".
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// PollConfig controls the subscription timers and series windows.
type PollConfig struct {
	// Interval is the global poll period for monitored hosts.
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	// WindowMinutes bounds the series fetch per render.
	WindowMinutes int `mapstructure:"window_minutes" yaml:"window_minutes"`
	// MaxPoints bounds every normalized point sequence.
	MaxPoints int `mapstructure:"max_points" yaml:"max_points"`
}

// ThresholdConfig externalizes the qualitative label and severity
// boundaries so locale or policy tweaks don't fork the rendering logic.
type ThresholdConfig struct {
	CPUIdle     float64 `mapstructure:"cpu_idle" yaml:"cpu_idle"`
	CPULow      float64 `mapstructure:"cpu_low" yaml:"cpu_low"`
	CPUModerate float64 `mapstructure:"cpu_moderate" yaml:"cpu_moderate"`
	CPUHigh     float64 `mapstructure:"cpu_high" yaml:"cpu_high"`

	MemOptimal  float64 `mapstructure:"mem_optimal" yaml:"mem_optimal"`
	MemModerate float64 `mapstructure:"mem_moderate" yaml:"mem_moderate"`
	MemLow      float64 `mapstructure:"mem_low" yaml:"mem_low"`

	DiskCritical float64 `mapstructure:"disk_critical" yaml:"disk_critical"`
	DiskWarning  float64 `mapstructure:"disk_warning" yaml:"disk_warning"`
}

// Config is the full hostwatch configuration.
type Config struct {
	API        APIConfig       `mapstructure:"api" yaml:"api"`
	Poll       PollConfig      `mapstructure:"poll" yaml:"poll"`
	Thresholds ThresholdConfig `mapstructure:"thresholds" yaml:"thresholds"`

	// Hosts optionally names the hosts to start monitoring on launch.
	// Empty means pick interactively (or monitor none with --no-picker).
	Hosts []string `mapstructure:"hosts" yaml:"hosts,omitempty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	t := format.DefaultThresholds()
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
		},
		Poll: PollConfig{
			Interval:      30 * time.Second,
			WindowMinutes: 120,
			MaxPoints:     60,
		},
		Thresholds: ThresholdConfig{
			CPUIdle:      t.CPUIdle,
			CPULow:       t.CPULow,
			CPUModerate:  t.CPUModerate,
			CPUHigh:      t.CPUHigh,
			MemOptimal:   t.MemOptimal,
			MemModerate:  t.MemModerate,
			MemLow:       t.MemLow,
			DiskCritical: t.DiskCritical,
			DiskWarning:  t.DiskWarning,
		},
	}
}

// FormatThresholds converts the config block into the formatter's threshold
// set, falling back to defaults for unset boundaries.
func (c *Config) FormatThresholds() format.Thresholds {
	t := format.DefaultThresholds()
	tc := c.Thresholds

	if tc.CPUIdle > 0 {
		t.CPUIdle = tc.CPUIdle
	}
	if tc.CPULow > 0 {
		t.CPULow = tc.CPULow
	}
	if tc.CPUModerate > 0 {
		t.CPUModerate = tc.CPUModerate
	}
	if tc.CPUHigh > 0 {
		t.CPUHigh = tc.CPUHigh
	}
	if tc.MemOptimal > 0 {
		t.MemOptimal = tc.MemOptimal
	}
	if tc.MemModerate > 0 {
		t.MemModerate = tc.MemModerate
	}
	if tc.MemLow > 0 {
		t.MemLow = tc.MemLow
	}
	if tc.DiskCritical > 0 {
		t.DiskCritical = tc.DiskCritical
	}
	if tc.DiskWarning > 0 {
		t.DiskWarning = tc.DiskWarning
	}
	return t
}
