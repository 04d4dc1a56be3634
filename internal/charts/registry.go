// Package charts owns the mapping from a render-target key to at most one
// live chart instance. All chart creation and destruction goes through the
// Registry; no other component touches instances directly, so the "one live
// chart per key" invariant is enforced at this boundary instead of by
// convention.
package charts

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostwatch/internal/format"
	"github.com/rileyhilliard/hostwatch/internal/logger"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

// ModalKey is the reserved registry key for the expanded-view chart.
const ModalKey = "modal"

// Config describes how a chart renders its series.
type Config struct {
	Label       string
	Color       lipgloss.Color
	Fill        bool
	ShowAxis    bool
	Min         *float64 // nil: derive from data
	Max         *float64 // nil: derive from data
	ValueFormat format.ValueFormat
	Width       int
	Height      int
}

// Instance is an opaque live chart created by a Factory.
type Instance interface {
	// View returns the rendered frame for the terminal.
	View() string
	// Close releases the instance. Further View calls return "".
	Close()
}

// Factory creates chart instances from a labeled series. The charting
// primitive's internals are deliberately opaque: create from points, destroy.
type Factory interface {
	New(points []series.Point, cfg Config) Instance
}

// Registry maps render-target keys to live chart instances with
// create-or-replace semantics.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	charts  map[string]Instance
	log     logger.Logger
}

// NewRegistry creates an empty registry backed by the given factory.
func NewRegistry(f Factory) *Registry {
	return &Registry{
		factory: f,
		charts:  make(map[string]Instance),
		log:     logger.NewEnvLogger("[charts]"),
	}
}

// Render replaces the chart for key with a fresh instance built from points.
// Any prior instance for the same key is destroyed first; there is no
// incremental-update path. Empty points destroy the prior instance and
// create nothing - the explicit empty state.
func (r *Registry) Render(key string, points []series.Point, cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.charts[key]; ok {
		old.Close()
		delete(r.charts, key)
	}

	if len(points) == 0 {
		r.log.Debug("no data for %q, chart cleared", key)
		return
	}

	r.charts[key] = r.factory.New(points, cfg)
}

// View returns the rendered frame for key, or ok=false when no live
// instance exists (the "no data" path).
func (r *Registry) View(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.charts[key]
	if !ok {
		return "", false
	}
	return inst.View(), true
}

// Live reports whether a live instance exists for key.
func (r *Registry) Live(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.charts[key]
	return ok
}

// Count returns the number of live instances.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.charts)
}

// Dispose destroys the instance for key, if any.
func (r *Registry) Dispose(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.charts[key]; ok {
		inst.Close()
		delete(r.charts, key)
	}
}

// DisposeAll destroys every live instance. Used on page teardown; this is
// unconditional and synchronous.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, inst := range r.charts {
		inst.Close()
		delete(r.charts, key)
	}
}
