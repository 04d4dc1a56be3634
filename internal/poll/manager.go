// Package poll owns the set of monitored hosts and their recurring poll
// timers. Each subscription is a self-healing loop: a failed tick is
// reported and retried at the next natural interval, never cancelling the
// timer. Lifecycle invariants (exactly one timer per active host, no stale
// UI writes after unsubscribe) are enforced here rather than by convention
// in the callers.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/hostwatch/internal/logger"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 30 * time.Second

// Token identifies one generation of a host's subscription. A tick's
// completion must check Current before mutating shared state, so an
// in-flight fetch finishing after unsubscribe (or after the timer was
// replaced) cannot write stale data.
type Token struct {
	m    *Manager
	host int
	gen  uint64
}

// Current reports whether this token still belongs to the host's live
// subscription.
func (t Token) Current() bool {
	if t.m == nil {
		return false
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	sub, ok := t.m.subs[t.host]
	return ok && sub.gen == t.gen
}

// Host returns the host this token belongs to.
func (t Token) Host() int {
	return t.host
}

// TickFunc performs one fetch-and-render for a host. Implementations must
// consult tok.Current before publishing results. A returned error marks the
// tick failed; the subscription itself keeps running.
type TickFunc func(ctx context.Context, host int, tok Token) error

// ErrorFunc receives per-host tick failures for display. Never called with
// a nil error.
type ErrorFunc func(host int, err error)

// subscription is one active host's timer state.
type subscription struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager is the subscription state store. All mutation goes through its
// typed operations; hosts move between Inactive and Active only via
// Subscribe and Unsubscribe.
type Manager struct {
	mu       sync.Mutex
	interval time.Duration
	nextGen  uint64
	subs     map[int]*subscription
	tick     TickFunc
	onErr    ErrorFunc
	log      logger.Logger
	closed   bool
}

// NewManager creates a manager that invokes tick for every poll and reports
// tick failures through onErr (which may be nil).
func NewManager(interval time.Duration, tick TickFunc, onErr ErrorFunc) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Manager{
		interval: interval,
		subs:     make(map[int]*subscription),
		tick:     tick,
		onErr:    onErr,
		log:      logger.NewEnvLogger("[poll]"),
	}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(l logger.Logger) {
	if l != nil {
		m.log = l
	}
}

// Subscribe activates polling for host: one immediate fetch-and-render,
// then a recurring tick at the current global interval. Subscribing an
// already-active host first cancels the existing timer defensively, so the
// transition is idempotent and can never leave two timers running.
func (m *Manager) Subscribe(host int) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	// Defensive cancel of any stray timer for this host.
	if old, ok := m.subs[host]; ok {
		old.cancel()
		delete(m.subs, host)
	}
	sub := m.startLocked(host, m.interval)
	m.mu.Unlock()

	m.log.Debug("subscribed host %d (gen %d)", host, sub.gen)
}

// Unsubscribe deactivates polling for host. The timer is cancelled and the
// host leaves the active set immediately; an in-flight fetch is allowed to
// complete but its token is no longer current, so its results are dropped.
func (m *Manager) Unsubscribe(host int) {
	m.mu.Lock()
	sub, ok := m.subs[host]
	if ok {
		sub.cancel()
		delete(m.subs, host)
	}
	m.mu.Unlock()

	if ok {
		m.log.Debug("unsubscribed host %d", host)
	}
}

// SetInterval changes the global poll period. Every active host's timer is
// cancelled and rescheduled at the new period, counting from now - elapsed
// time under the old period is not replayed, so a change can briefly burst
// or stretch the gap between polls. That matches the original dashboard's
// behavior and keeps the implementation simple.
func (m *Manager) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.interval = interval

	hosts := make([]int, 0, len(m.subs))
	for host, sub := range m.subs {
		sub.cancel()
		hosts = append(hosts, host)
	}
	for _, host := range hosts {
		delete(m.subs, host)
	}
	for _, host := range hosts {
		m.startLocked(host, interval)
	}
}

// Interval returns the current global poll period.
func (m *Manager) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// RefreshAll runs one immediate out-of-band tick for every currently active
// host without touching their timers.
func (m *Manager) RefreshAll() {
	m.mu.Lock()
	tokens := make([]Token, 0, len(m.subs))
	for host, sub := range m.subs {
		tokens = append(tokens, Token{m: m, host: host, gen: sub.gen})
	}
	m.mu.Unlock()

	for _, tok := range tokens {
		go m.runTick(context.Background(), tok)
	}
}

// IsActive reports whether host is currently subscribed.
func (m *Manager) IsActive(host int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[host]
	return ok
}

// Active returns the currently subscribed hosts in no particular order.
func (m *Manager) Active() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	hosts := make([]int, 0, len(m.subs))
	for host := range m.subs {
		hosts = append(hosts, host)
	}
	return hosts
}

// Close cancels every timer and waits for the poll loops to exit. This is
// the teardown path: unconditional and synchronous.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	var done []chan struct{}
	for host, sub := range m.subs {
		sub.cancel()
		done = append(done, sub.done)
		delete(m.subs, host)
	}
	m.mu.Unlock()

	for _, d := range done {
		<-d
	}
}

// startLocked creates and registers a new subscription for host and spawns
// its poll loop. Caller holds m.mu.
func (m *Manager) startLocked(host int, interval time.Duration) *subscription {
	m.nextGen++
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		gen:    m.nextGen,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.subs[host] = sub

	tok := Token{m: m, host: host, gen: sub.gen}
	go m.loop(ctx, tok, interval, sub.done)
	return sub
}

// loop is one subscription's lifetime: immediate tick, then recurring ticks
// until the context is cancelled.
func (m *Manager) loop(ctx context.Context, tok Token, interval time.Duration, done chan struct{}) {
	defer close(done)

	m.runTick(ctx, tok)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runTick(ctx, tok)
		}
	}
}

// runTick executes one fetch-and-render, converting any failure into an
// error report. Failures never propagate past this boundary - an uncaught
// error must never cancel a host's recurring timer.
func (m *Manager) runTick(ctx context.Context, tok Token) {
	if !tok.Current() {
		return
	}
	if err := m.tick(ctx, tok.host, tok); err != nil {
		m.log.Warn("poll for host %d failed: %v", tok.host, err)
		if m.onErr != nil {
			m.onErr(tok.host, err)
		}
	}
}
