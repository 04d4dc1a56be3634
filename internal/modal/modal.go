// Package modal implements the expanded view: a single, page-level overlay
// showing one metric for one host at a user-selected time range,
// independent of the per-host panels. There is exactly one slot - opening a
// new modal replaces any prior one.
package modal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/charts"
	"github.com/rileyhilliard/hostwatch/internal/errors"
	"github.com/rileyhilliard/hostwatch/internal/format"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

// Range is one of the fixed expanded-view time windows.
type Range string

const (
	Range1h  Range = "1h"
	Range6h  Range = "6h"
	Range24h Range = "24h"
)

// Ranges is the fixed enumerated set, in selector order.
var Ranges = []Range{Range1h, Range6h, Range24h}

// Minutes returns the window size for the series fetch.
func (r Range) Minutes() int {
	switch r {
	case Range6h:
		return 6 * 60
	case Range24h:
		return 24 * 60
	default:
		return 60
	}
}

// Next cycles to the next range in the selector.
func (r Range) Next() Range {
	for i, candidate := range Ranges {
		if candidate == r {
			return Ranges[(i+1)%len(Ranges)]
		}
	}
	return Range1h
}

// metricTitles resolves the human-readable modal title per metric name.
var metricTitles = map[string]string{
	"cpu":     "CPU Usage (%)",
	"mem":     "Memory Free (%)",
	"uptime":  "Uptime (hours)",
	"net_rx":  "Network RX (Kbps)",
	"net_tx":  "Network TX (Kbps)",
	"latency": "Latency (ms)",
}

// Title returns the display title for a metric name.
func Title(metric string) string {
	if t, ok := metricTitles[metric]; ok {
		return t
	}
	return metric
}

// metricFormats maps metric names to the chart value format.
var metricFormats = map[string]format.ValueFormat{
	"cpu": format.FormatPercent,
	"mem": format.FormatPercent,
}

// Session is the modal's single global state slot.
type Session struct {
	HostID     int
	HostName   string
	Metric     string
	Range      Range
	LastPoints []series.Point
}

// LoadRequest is one pending series load. Its sequence number decides which
// of several in-flight loads is allowed to update the modal.
type LoadRequest struct {
	seq     uint64
	HostID  int
	Metric  string
	Range   Range
	MaxPnts int
}

// Result is a completed load, carrying its originating request.
type Result struct {
	Req    LoadRequest
	Points []series.Point
}

// Controller manages the single modal slot, its chart instance, and CSV
// export of the last rendered series.
type Controller struct {
	mu        sync.Mutex
	fetcher   api.Fetcher
	registry  *charts.Registry
	maxPoints int
	seq       uint64
	session   *Session
}

// NewController creates a modal controller rendering through registry.
func NewController(fetcher api.Fetcher, registry *charts.Registry, maxPoints int) *Controller {
	if maxPoints <= 0 {
		maxPoints = series.DefaultMaxPoints
	}
	return &Controller{
		fetcher:   fetcher,
		registry:  registry,
		maxPoints: maxPoints,
	}
}

// Open sets the modal to host/metric at the default range and returns the
// load request for the initial fetch. Opening while another modal is active
// replaces it.
func (c *Controller) Open(hostID int, hostName, metric string) LoadRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = &Session{
		HostID:   hostID,
		HostName: hostName,
		Metric:   metric,
		Range:    Range1h,
	}
	return c.nextRequestLocked()
}

// SetRange switches the window and returns the load request for the reload.
// Returns ok=false when no modal is open.
func (c *Controller) SetRange(r Range) (LoadRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return LoadRequest{}, false
	}
	c.session.Range = r
	return c.nextRequestLocked(), true
}

// nextRequestLocked bumps the sequence and snapshots the current session
// into a request. Caller holds c.mu.
func (c *Controller) nextRequestLocked() LoadRequest {
	c.seq++
	return LoadRequest{
		seq:     c.seq,
		HostID:  c.session.HostID,
		Metric:  c.session.Metric,
		Range:   c.session.Range,
		MaxPnts: c.maxPoints,
	}
}

// Load fetches and normalizes the series for req. It touches no shared
// state, so several loads may run concurrently; Apply arbitrates.
func (c *Controller) Load(ctx context.Context, req LoadRequest) (*Result, error) {
	extract := series.ByName(req.Metric)
	if extract == nil {
		return nil, errors.New(errors.ErrRender,
			"Unknown metric '"+req.Metric+"'",
			"Valid metrics: cpu, mem, uptime, net_rx, net_tx, latency")
	}

	ser, err := c.fetcher.Series(ctx, req.HostID, req.Range.Minutes())
	if err != nil {
		return nil, err
	}
	return &Result{
		Req:    req,
		Points: series.Normalize(ser.Samples, extract, req.MaxPnts),
	}, nil
}

// Apply commits a completed load to the modal. A result from a superseded
// request - an older range selection, or a modal that has since been
// reopened or closed - is ignored on arrival, so the latest selection
// always wins regardless of response ordering.
func (c *Controller) Apply(res *Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || res.Req.seq != c.seq {
		return false
	}

	c.session.LastPoints = res.Points
	c.registry.Render(charts.ModalKey, res.Points, charts.Config{
		Label:       Title(res.Req.Metric),
		Color:       lipgloss.Color("#BF40FF"),
		Fill:        true,
		ShowAxis:    true,
		ValueFormat: chartFormat(res.Req.Metric),
		Width:       60,
		Height:      6,
	})
	return true
}

// Close disposes the modal's chart instance and clears the slot.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	c.registry.Dispose(charts.ModalKey)
	c.session = nil
	c.seq++ // orphan any in-flight load
}

// Session returns a copy of the current session, or ok=false when the modal
// is closed.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// IsOpen reports whether the modal slot is occupied.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Filename returns the export filename for the current session, following
// the series_<metric>_<hostID>.csv pattern.
func (c *Controller) Filename() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return "", false
	}
	return ExportFilename(c.session.Metric, c.session.HostID), true
}

// ExportFilename builds the CSV filename for a metric and host.
func ExportFilename(metric string, hostID int) string {
	return fmt.Sprintf("series_%s_%d.csv", metric, hostID)
}

// ExportCSV writes the most recently rendered point sequence as RFC-4180
// CSV with a timestamp,value header. Timestamps are ISO-8601 UTC with
// millisecond precision.
func (c *Controller) ExportCSV(w io.Writer) error {
	c.mu.Lock()
	points := []series.Point(nil)
	if c.session != nil {
		points = c.session.LastPoints
	}
	open := c.session != nil
	c.mu.Unlock()

	if !open {
		return errors.New(errors.ErrExport,
			"No expanded view open",
			"Open a metric's expanded view before exporting")
	}
	return WriteCSV(w, points)
}

// WriteCSV serializes points as timestamp,value rows.
func WriteCSV(w io.Writer, points []series.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "value"}); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "CSV export failed", "")
	}
	for _, p := range points {
		ts := time.Unix(p.TS, 0).UTC().Format("2006-01-02T15:04:05.000Z")
		v := strconv.FormatFloat(p.V, 'f', -1, 64)
		if err := cw.Write([]string{ts, v}); err != nil {
			return errors.WrapWithCode(err, errors.ErrExport, "CSV export failed", "")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "CSV export failed", "")
	}
	return nil
}

func chartFormat(metric string) format.ValueFormat {
	if f, ok := metricFormats[metric]; ok {
		return f
	}
	return format.FormatPlain
}
