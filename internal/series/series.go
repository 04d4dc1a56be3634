// Package series turns raw backend sample arrays into sanitized,
// time-ordered, bounded point sequences ready for charting.
//
// Backend samples may arrive out of order or with partial fields (collection
// gaps), so input order is never trusted and entries missing the timestamp
// or the derived value are dropped rather than charted as zeros.
package series

import (
	"sort"

	"github.com/rileyhilliard/hostwatch/internal/api"
)

// DefaultMaxPoints bounds a normalized sequence when the caller passes no
// explicit limit.
const DefaultMaxPoints = 60

// Point is the normalized unit the renderer and charts consume.
type Point struct {
	TS int64   // epoch seconds
	V  float64 // derived value
}

// Extractor derives a single chartable value from one sample.
// ok is false when the sample lacks the fields the metric needs.
type Extractor func(s api.Sample) (v float64, ok bool)

// Normalize produces an ordered sequence of points from raw samples:
// entries with a missing timestamp or missing derived value are dropped,
// the result is sorted ascending by timestamp, and only the most recent
// maxPoints entries are retained. Empty input yields an empty (nil) slice,
// never an error - the caller's "no chart" path handles it.
func Normalize(samples []api.Sample, extract Extractor, maxPoints int) []Point {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	if len(samples) == 0 || extract == nil {
		return nil
	}

	points := make([]Point, 0, len(samples))
	for _, s := range samples {
		if s.TS <= 0 {
			continue
		}
		v, ok := extract(s)
		if !ok {
			continue
		}
		points = append(points, Point{TS: s.TS, V: v})
	}
	if len(points) == 0 {
		return nil
	}

	sort.Slice(points, func(i, j int) bool { return points[i].TS < points[j].TS })

	if len(points) > maxPoints {
		points = points[len(points)-maxPoints:]
	}
	return points
}

// Values returns just the value column, for chart primitives that only take
// a y-series.
func Values(points []Point) []float64 {
	if len(points) == 0 {
		return nil
	}
	vs := make([]float64, len(points))
	for i, p := range points {
		vs[i] = p.V
	}
	return vs
}

// CPUPercent passes the raw CPU percentage through.
func CPUPercent(s api.Sample) (float64, bool) {
	if s.CPU == nil {
		return 0, false
	}
	return *s.CPU, true
}

// MemFreePercent derives available/total*100. Samples missing either field
// are skipped rather than charted at 0 or 100.
func MemFreePercent(s api.Sample) (float64, bool) {
	if s.MemTotal == nil || s.MemAvail == nil || *s.MemTotal <= 0 {
		return 0, false
	}
	return float64(*s.MemAvail) / float64(*s.MemTotal) * 100, true
}

// UptimeHours converts uptime seconds to hours.
func UptimeHours(s api.Sample) (float64, bool) {
	if s.Uptime == nil {
		return 0, false
	}
	return float64(*s.Uptime) / 3600, true
}

// NetRxKbps passes inbound throughput through.
func NetRxKbps(s api.Sample) (float64, bool) {
	if s.NetRxKbps == nil {
		return 0, false
	}
	return *s.NetRxKbps, true
}

// NetTxKbps passes outbound throughput through.
func NetTxKbps(s api.Sample) (float64, bool) {
	if s.NetTxKbps == nil {
		return 0, false
	}
	return *s.NetTxKbps, true
}

// LatencyMS passes TCP probe latency through.
func LatencyMS(s api.Sample) (float64, bool) {
	if s.LatencyMS == nil {
		return 0, false
	}
	return *s.LatencyMS, true
}

// ByName maps a metric name (as used in the modal and CSV export) to its
// extractor. Unknown names return nil.
func ByName(metric string) Extractor {
	switch metric {
	case "cpu":
		return CPUPercent
	case "mem":
		return MemFreePercent
	case "uptime":
		return UptimeHours
	case "net_rx":
		return NetRxKbps
	case "net_tx":
		return NetTxKbps
	case "latency":
		return LatencyMS
	default:
		return nil
	}
}
