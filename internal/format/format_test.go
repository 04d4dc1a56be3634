package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLabel(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		cpu  float64
		want string
	}{
		{0, "Idle"},
		{4.9, "Idle"},
		{5, "Low"},
		{29.9, "Low"},
		{30, "Moderate"},
		{69.9, "Moderate"},
		{70, "High"},
		{89.9, "High"},
		{90, "Critical"},
		{150, "Critical"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.LoadLabel(tt.cpu), "cpu=%v", tt.cpu)
	}
}

func TestMemoryLabel(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		free float64
		want string
	}{
		{80, "Optimal"},
		{50.1, "Optimal"},
		{50, "Moderate"},
		{30.1, "Moderate"},
		{30, "Low"},
		{15.1, "Low"},
		{15, "Critical"},
		{0, "Critical"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.MemoryLabel(tt.free), "free=%v", tt.free)
	}
}

func TestDiskSeverity(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, SeverityCritical, th.DiskSeverity(90))
	assert.Equal(t, SeverityWarning, th.DiskSeverity(75))
	assert.Equal(t, SeverityNormal, th.DiskSeverity(50))
	// Boundaries are exclusive: exactly at the threshold stays below it.
	assert.Equal(t, SeverityWarning, th.DiskSeverity(85))
	assert.Equal(t, SeverityNormal, th.DiskSeverity(70))
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "normal", SeverityNormal.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "critical", SeverityCritical.String())
}

func TestBytes(t *testing.T) {
	assert.Equal(t, "4.0 GiB", Bytes(4*1024*1024*1024))
	assert.Equal(t, "512 B", Bytes(512))
	assert.Equal(t, Placeholder, Bytes(-1))
}

func TestKbps(t *testing.T) {
	assert.Equal(t, "250.0 Kbps", Kbps(250))
	assert.Equal(t, "1.5 Mbps", Kbps(1500))
	assert.Equal(t, "1.0 Mbps", Kbps(1000))
	assert.Equal(t, Placeholder, Kbps(-1))
}

func TestUptime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{3600, "1h 0m"},
		{3600 + 120, "1h 2m"},
		{86400*12 + 3600*3 + 60*4, "12d 3h 4m"},
		{-1, Placeholder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Uptime(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestLoadAvgFormatting(t *testing.T) {
	assert.Equal(t, "0.52 1.10 2.00", LoadAvg(0.52, 1.1, 2))
}

func TestValue(t *testing.T) {
	assert.Equal(t, "42.5%", Value(FormatPercent, 42.5))
	assert.Equal(t, "1.0 KiB", Value(FormatBytes, 1024))
	assert.Equal(t, "3.1", Value(FormatPlain, 3.14))
	assert.Equal(t, Placeholder, Value(FormatBytes, -1))
}
