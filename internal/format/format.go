// Package format holds the pure display-formatting functions shared by the
// dashboard cards, chart labels, and the expanded view. It carries no state:
// threshold and label constants live in Thresholds so the qualitative labels
// are configuration, not duplicated logic.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Placeholder is shown wherever a value is absent or malformed.
const Placeholder = "—"

// ValueFormat selects how a chart axis tick or tooltip renders a value.
type ValueFormat string

const (
	FormatPercent ValueFormat = "percent"
	FormatBytes   ValueFormat = "bytes"
	FormatPlain   ValueFormat = "plain"
)

// Severity classifies a metric against warning/critical thresholds.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Thresholds are the boundaries for qualitative labels and disk severity.
// The zero value is unusable; start from DefaultThresholds.
type Thresholds struct {
	// CPU load label boundaries, in percent used.
	CPUIdle     float64
	CPULow      float64
	CPUModerate float64
	CPUHigh     float64

	// Memory label boundaries, in percent free.
	MemOptimal  float64
	MemModerate float64
	MemLow      float64

	// Disk severity boundaries, in percent used.
	DiskCritical float64
	DiskWarning  float64
}

// DefaultThresholds returns the stock boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUIdle:     5,
		CPULow:      30,
		CPUModerate: 70,
		CPUHigh:     90,

		MemOptimal:  50,
		MemModerate: 30,
		MemLow:      15,

		DiskCritical: 85,
		DiskWarning:  70,
	}
}

// LoadLabel returns the qualitative CPU load label for a usage percentage.
func (t Thresholds) LoadLabel(cpuPct float64) string {
	switch {
	case cpuPct < t.CPUIdle:
		return "Idle"
	case cpuPct < t.CPULow:
		return "Low"
	case cpuPct < t.CPUModerate:
		return "Moderate"
	case cpuPct < t.CPUHigh:
		return "High"
	default:
		return "Critical"
	}
}

// MemoryLabel returns the qualitative label for a memory-free percentage.
func (t Thresholds) MemoryLabel(freePct float64) string {
	switch {
	case freePct > t.MemOptimal:
		return "Optimal"
	case freePct > t.MemModerate:
		return "Moderate"
	case freePct > t.MemLow:
		return "Low"
	default:
		return "Critical"
	}
}

// DiskSeverity classifies a disk used percentage.
func (t Thresholds) DiskSeverity(usedPct float64) Severity {
	switch {
	case usedPct > t.DiskCritical:
		return SeverityCritical
	case usedPct > t.DiskWarning:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// Bytes formats a byte count as a human-readable IEC string ("4.2 GiB").
func Bytes(n int64) string {
	if n < 0 {
		return Placeholder
	}
	return humanize.IBytes(uint64(n))
}

// Kbps formats a kilobit-per-second throughput figure, switching to Mbps
// above 1000.
func Kbps(v float64) string {
	if v < 0 {
		return Placeholder
	}
	if v >= 1000 {
		return fmt.Sprintf("%.1f Mbps", v/1000)
	}
	return fmt.Sprintf("%.1f Kbps", v)
}

// Percent formats a percentage with one decimal place.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Uptime formats an uptime in seconds as "12d 3h 4m" (largest two or three
// units that apply).
func Uptime(seconds int64) string {
	if seconds < 0 {
		return Placeholder
	}
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// LoadAvg formats the 1/5/15 minute load averages.
func LoadAvg(l1, l5, l15 float64) string {
	return fmt.Sprintf("%.2f %.2f %.2f", l1, l5, l15)
}

// Value formats v according to the chart's value format. Used for axis ticks
// and tooltips so both always agree.
func Value(f ValueFormat, v float64) string {
	switch f {
	case FormatPercent:
		return Percent(v)
	case FormatBytes:
		if v < 0 {
			return Placeholder
		}
		return humanize.IBytes(uint64(v))
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
