package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/charts"
	"github.com/rileyhilliard/hostwatch/internal/errors"
	"github.com/rileyhilliard/hostwatch/internal/format"
	"github.com/rileyhilliard/hostwatch/internal/logger"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

// Chart colors for the per-host sparklines.
const (
	colorCPU = lipgloss.Color("#00FFFF")
	colorMem = lipgloss.Color("#39FF14")
	colorNet = lipgloss.Color("#FF2E97")
)

// CPUChartKey returns the registry key for a host's CPU sparkline.
func CPUChartKey(host int) string { return fmt.Sprintf("cpuChart-%d", host) }

// MemChartKey returns the registry key for a host's memory sparkline.
func MemChartKey(host int) string { return fmt.Sprintf("memChart-%d", host) }

// NetChartKey returns the registry key for a host's network sparkline.
func NetChartKey(host int) string { return fmt.Sprintf("netChart-%d", host) }

// Renderer fetches a host's data and derives its view model and chart
// series. One Renderer serves all hosts; it holds no per-host state.
type Renderer struct {
	fetcher    api.Fetcher
	registry   *charts.Registry
	thresholds format.Thresholds

	// windowMinutes bounds the series fetch; maxPoints bounds the
	// normalized sequences.
	windowMinutes int
	maxPoints     int
	chartWidth    int

	log logger.Logger
}

// NewRenderer creates a renderer reading through fetcher and committing
// charts to registry.
func NewRenderer(fetcher api.Fetcher, registry *charts.Registry, thresholds format.Thresholds, windowMinutes, maxPoints int) *Renderer {
	if windowMinutes <= 0 {
		windowMinutes = 120
	}
	if maxPoints <= 0 {
		maxPoints = series.DefaultMaxPoints
	}
	return &Renderer{
		fetcher:       fetcher,
		registry:      registry,
		thresholds:    thresholds,
		windowMinutes: windowMinutes,
		maxPoints:     maxPoints,
		chartWidth:    30,
		log:           logger.NewEnvLogger("[render]"),
	}
}

// SetChartWidth sets the sparkline width used on Commit.
func (r *Renderer) SetChartWidth(w int) {
	if w > 0 {
		r.chartWidth = w
	}
}

// Fetch performs one fetch-and-derive cycle for host: the series window and
// the latest snapshot are requested concurrently, then normalized into an
// Update. Fetch mutates no shared state, so callers can drop the result if
// the host was unsubscribed while the requests were in flight.
func (r *Renderer) Fetch(ctx context.Context, host int) (*Update, error) {
	var (
		wg        sync.WaitGroup
		ser       *api.Series
		latest    *api.Latest
		serErr    error
		latestErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		ser, serErr = r.fetcher.Series(ctx, host, r.windowMinutes)
	}()
	go func() {
		defer wg.Done()
		latest, latestErr = r.fetcher.Latest(ctx, host)
	}()
	wg.Wait()

	if serErr != nil {
		return nil, serErr
	}
	if latestErr != nil {
		return nil, latestErr
	}

	update := &Update{
		View:      r.buildView(host, latest),
		CPUPoints: series.Normalize(ser.Samples, series.CPUPercent, r.maxPoints),
		MemPoints: series.Normalize(ser.Samples, series.MemFreePercent, r.maxPoints),
		NetPoints: series.Normalize(ser.Samples, series.NetRxKbps, r.maxPoints),
	}
	return update, nil
}

// Commit applies an Update's chart series to the registry, replacing the
// host's previous instances. Empty sequences clear the corresponding chart.
func (r *Renderer) Commit(u *Update) {
	host := u.View.HostID
	r.registry.Render(CPUChartKey(host), u.CPUPoints, charts.Config{
		Label:       "CPU",
		Color:       colorCPU,
		Fill:        true,
		ValueFormat: format.FormatPercent,
		Width:       r.chartWidth,
		Height:      2,
	})
	r.registry.Render(MemChartKey(host), u.MemPoints, charts.Config{
		Label:       "MEM free",
		Color:       colorMem,
		Fill:        true,
		ValueFormat: format.FormatPercent,
		Width:       r.chartWidth,
		Height:      2,
	})
	r.registry.Render(NetChartKey(host), u.NetPoints, charts.Config{
		Label:       "NET rx",
		Color:       colorNet,
		ValueFormat: format.FormatPlain,
		Width:       r.chartWidth,
		Height:      1,
	})
}

// DisposeHost clears the host's chart instances, e.g. on unsubscribe.
func (r *Renderer) DisposeHost(host int) {
	r.registry.Dispose(CPUChartKey(host))
	r.registry.Dispose(MemChartKey(host))
	r.registry.Dispose(NetChartKey(host))
}

// buildView derives the display groups from the latest snapshot. Each group
// is built in its own scoped step: a failure in one (malformed data, an
// unexpected panic) surfaces as a GroupError without preventing the others
// from updating.
func (r *Renderer) buildView(host int, latest *api.Latest) *HostView {
	view := &HostView{HostID: host, UpdatedAt: time.Now()}
	if latest == nil {
		return view
	}
	last := latest.Last
	extras := latest.Extras

	group(view, "cpu", func() {
		if last == nil || last.CPU == nil {
			return
		}
		view.CPU = &CPUGroup{
			Percent: *last.CPU,
			Label:   r.thresholds.LoadLabel(*last.CPU),
		}
	})

	group(view, "memory", func() {
		if last == nil || last.MemTotal == nil || last.MemAvail == nil || *last.MemTotal <= 0 {
			return
		}
		freePct := float64(*last.MemAvail) / float64(*last.MemTotal) * 100
		used := *last.MemTotal - *last.MemAvail
		view.Memory = &MemoryGroup{
			FreePercent: freePct,
			Label:       r.thresholds.MemoryLabel(freePct),
			UsageText:   fmt.Sprintf("%s / %s used", format.Bytes(used), format.Bytes(*last.MemTotal)),
		}
	})

	group(view, "uptime", func() {
		if last == nil || last.Uptime == nil {
			return
		}
		view.Uptime = format.Uptime(*last.Uptime)
	})

	group(view, "load", func() {
		if extras.LoadAvg == nil {
			return
		}
		view.LoadAvg = format.LoadAvg(extras.LoadAvg.L1, extras.LoadAvg.L5, extras.LoadAvg.L15)
	})

	group(view, "system", func() {
		sys := extras.System
		if sys == nil {
			return
		}
		view.System = fmt.Sprintf("%s · %s %s · %s · %d cores",
			sys.Hostname, sys.OS, sys.OSVersion, sys.Kernel, sys.Cores)
	})

	group(view, "cpu_detail", func() {
		d := extras.CPUDetail
		if d == nil {
			return
		}
		view.CPUDetail = fmt.Sprintf("usr %.1f%% · sys %.1f%% · idle %.1f%% · io %.1f%%",
			d.UserPct, d.SysPct, d.IdlePct, d.IOWaitPct)
	})

	group(view, "swap", func() {
		s := extras.Swap
		if s == nil {
			return
		}
		if s.TotalBytes == 0 {
			view.Swap = "none"
			return
		}
		view.Swap = fmt.Sprintf("%s / %s (%.1f%%)",
			format.Bytes(s.UsedBytes), format.Bytes(s.TotalBytes), s.UsedPct)
	})

	group(view, "network", func() {
		n := extras.Net
		if n == nil {
			return
		}
		view.Network = &NetworkGroup{
			RxText:       format.Kbps(n.TotalRxKbps),
			TxText:       format.Kbps(n.TotalTxKbps),
			ActiveIfaces: len(n.Interfaces),
		}
	})

	group(view, "processes", func() {
		p := extras.Processes
		if p == nil {
			return
		}
		view.ProcTotal = p.Total
		for _, proc := range p.TopCPU {
			view.Processes = append(view.Processes, ProcessRow(proc))
		}
	})

	group(view, "disks", func() {
		view.Disks = r.buildDisks(latest.Disks, extras.Inodes)
	})

	return view
}

// buildDisks joins disks with inode records by mount and classifies each
// row's severity.
func (r *Renderer) buildDisks(disks []api.Disk, inodes []api.Inode) []DiskRow {
	inodeByMount := make(map[string]float64, len(inodes))
	for _, in := range inodes {
		inodeByMount[in.Mount] = in.IUsedPercent
	}

	rows := make([]DiskRow, 0, len(disks))
	for _, d := range disks {
		row := DiskRow{
			Mount:       d.Mount,
			Device:      d.Device,
			UsedPercent: d.UsedPercent,
			Severity:    r.thresholds.DiskSeverity(d.UsedPercent),
			SizeText:    format.Bytes(d.SizeBytes),
			FreeText:    format.Bytes(d.FreeBytes),
		}
		if pct, ok := inodeByMount[d.Mount]; ok {
			row.InodeText = fmt.Sprintf("inodes %.0f%%", pct)
		}
		rows = append(rows, row)
	}
	return rows
}

// group runs one display-group builder, converting a panic into a scoped
// GroupError so the remaining groups still render.
func group(view *HostView, name string, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			view.Errors = append(view.Errors, GroupError{
				Group: name,
				Err:   errors.New(errors.ErrRender, fmt.Sprintf("%s display failed: %v", name, p), ""),
			})
		}
	}()
	fn()
}
