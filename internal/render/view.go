// Package render builds per-host view models from backend data and drives
// the chart registry. A view model is a plain data structure describing what
// to display; turning it into terminal output is the dashboard's job. That
// split keeps data derivation testable without a UI attached.
package render

import (
	"time"

	"github.com/rileyhilliard/hostwatch/internal/format"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

// GroupError is a scoped failure from building one display group. Other
// groups in the same view are unaffected - rendering is partial-success,
// not all-or-nothing.
type GroupError struct {
	Group string
	Err   error
}

// CPUGroup is the current CPU reading with its qualitative load label.
type CPUGroup struct {
	Percent float64
	Label   string
}

// MemoryGroup is the current memory state.
type MemoryGroup struct {
	FreePercent float64
	Label       string
	UsageText   string // e.g. "5.2 GiB / 16 GiB used"
}

// NetworkGroup is the latest aggregate throughput.
type NetworkGroup struct {
	RxText       string
	TxText       string
	ActiveIfaces int
}

// ProcessRow is one entry of the top-CPU process list.
type ProcessRow struct {
	PID int
	Cmd string
	CPU float64
	Mem float64
}

// DiskRow is a per-mount usage row, joined with its inode record by mount
// when one exists.
type DiskRow struct {
	Mount       string
	Device      string
	UsedPercent float64
	Severity    format.Severity
	SizeText    string
	FreeText    string
	InodeText   string // "" when no matching inode record
}

// HostView is the declarative view model for one host's panel. Every group
// is independently optional: a nil pointer or empty string means "no data",
// which the dashboard renders as a placeholder, never as an error.
type HostView struct {
	HostID    int
	UpdatedAt time.Time

	CPU       *CPUGroup
	Memory    *MemoryGroup
	Uptime    string
	LoadAvg   string
	System    string
	CPUDetail string
	Swap      string
	Network   *NetworkGroup
	ProcTotal int
	Processes []ProcessRow
	Disks     []DiskRow

	// Errors collects scoped display-group failures for the inline
	// indicator. A populated Errors never implies the rest of the view
	// is invalid.
	Errors []GroupError
}

// Update is one completed fetch-and-derive cycle for a host: the view model
// plus the normalized point sequences for its charts. Deriving an Update
// touches no shared state; Commit applies it to the chart registry.
type Update struct {
	View      *HostView
	CPUPoints []series.Point
	MemPoints []series.Point
	NetPoints []series.Point
}
