// Package dashboard implements the live terminal dashboard for hostwatch.
//
// The package uses the Bubble Tea framework (Model-Update-View). Unlike a
// tick-driven TUI, the recurring work lives outside the program: the poll
// manager runs one self-healing loop per monitored host and publishes
// committed view models into an event channel, which the model pumps via a
// wait command. The model itself only holds display state.
package dashboard

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/charts"
	"github.com/rileyhilliard/hostwatch/internal/config"
	"github.com/rileyhilliard/hostwatch/internal/modal"
	"github.com/rileyhilliard/hostwatch/internal/poll"
	"github.com/rileyhilliard/hostwatch/internal/render"
)

// modalMetrics is the expanded-view metric cycle order.
var modalMetrics = []string{"cpu", "mem", "net_rx", "net_tx", "latency", "uptime"}

// intervalChoices is the global polling-interval selector cycle.
var intervalChoices = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	hosts    []api.Host
	views    map[int]*render.HostView
	hostErrs map[int]string
	selected int

	width  int
	height int

	manager  *poll.Manager
	renderer *render.Renderer
	registry *charts.Registry
	modalCtl *modal.Controller

	events chan tea.Msg
	spin   spinner.Model

	intervalIdx int
	metricIdx   int
	modalStatus string
	showHelp    bool
	quitting    bool
}

// New wires the dashboard: fetcher for data, hosts from discovery, and the
// polling/rendering/chart components built from cfg. Hosts named in
// initialMonitored are subscribed as soon as the program starts.
func New(fetcher api.Fetcher, hosts []api.Host, cfg *config.Config, initialMonitored []int) Model {
	registry := charts.NewRegistry(charts.NewSparklineFactory())
	renderer := render.NewRenderer(fetcher, registry, cfg.FormatThresholds(),
		cfg.Poll.WindowMinutes, cfg.Poll.MaxPoints)
	modalCtl := modal.NewController(fetcher, registry, cfg.Poll.MaxPoints)

	events := make(chan tea.Msg, 64)

	tick := func(ctx context.Context, host int, tok poll.Token) error {
		update, err := renderer.Fetch(ctx, host)
		if err != nil {
			if tok.Current() {
				publish(events, hostErrorMsg{host: host, err: err})
			}
			return err
		}
		// The host may have been unsubscribed while the fetch was in
		// flight; a stale completion must not touch charts or UI.
		if !tok.Current() {
			return nil
		}
		renderer.Commit(update)
		publish(events, hostUpdateMsg{view: update.View})
		return nil
	}

	manager := poll.NewManager(cfg.Poll.Interval, tick, nil)

	spin := spinner.New()
	spin.Spinner = spinner.Spinner{
		Frames: []string{"◐", "◓", "◑", "◒"},
		FPS:    time.Second / 10,
	}
	spin.Style = lipgloss.NewStyle().Foreground(ColorAccentDim)

	m := Model{
		hosts:       hosts,
		views:       make(map[int]*render.HostView),
		hostErrs:    make(map[int]string),
		manager:     manager,
		renderer:    renderer,
		registry:    registry,
		modalCtl:    modalCtl,
		events:      events,
		spin:        spin,
		intervalIdx: nearestInterval(cfg.Poll.Interval),
	}

	for _, id := range initialMonitored {
		manager.Subscribe(id)
	}

	return m
}

// publish delivers an event without ever blocking a poll goroutine; if the
// UI has fallen behind by a full buffer, the tick is droppable because the
// next poll supersedes it anyway.
func publish(events chan<- tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	default:
	}
}

// nearestInterval returns the selector index closest to d.
func nearestInterval(d time.Duration) int {
	best, bestDiff := 0, time.Duration(1<<62)
	for i, c := range intervalChoices {
		diff := c - d
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

// Init starts the event pump and the waiting-state spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitEvent(), m.spin.Tick)
}

// waitEvent returns a command that blocks for the next poll event.
func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderer.SetChartWidth(cardInnerWidth(m.cardWidth()))

	case spinner.TickMsg:
		// The spinner only animates while some monitored host has no view
		// yet; it is re-armed when a new subscription starts.
		if !m.anyWaiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case hostUpdateMsg:
		m.views[msg.view.HostID] = msg.view
		delete(m.hostErrs, msg.view.HostID)
		return m, m.waitEvent()

	case hostErrorMsg:
		// Scoped to one host: the indicator shows on its card only and
		// the next scheduled tick retries automatically.
		m.hostErrs[msg.host] = firstLine(msg.err.Error())
		return m, m.waitEvent()

	case modalLoadedMsg:
		// Apply arbitrates racing loads: a stale result is dropped here.
		if m.modalCtl.Apply(msg.res) {
			m.modalStatus = ""
		}
		return m, m.waitEvent()

	case modalErrorMsg:
		m.modalStatus = firstLine(msg.err.Error())
		return m, m.waitEvent()

	case exportedMsg:
		if msg.err != nil {
			m.modalStatus = "export failed: " + firstLine(msg.err.Error())
		} else {
			m.modalStatus = "exported " + msg.path
		}
		return m, m.waitEvent()
	}

	return m, nil
}

// handleKey routes keystrokes, modal-first when the expanded view is open.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == KeyQuit || key == KeyQuitAlt {
		return m.teardown()
	}

	if m.modalCtl.IsOpen() {
		return m.handleModalKey(key)
	}

	switch key {
	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.hosts)-1 {
			m.selected++
		}

	case KeyToggle, KeyToggleAlt:
		if host, ok := m.selectedHost(); ok {
			m.toggleMonitor(host.ID)
			if m.manager.IsActive(host.ID) {
				return m, m.spin.Tick
			}
		}

	case KeyRefresh:
		// Refresh-all is limited to currently monitored hosts.
		m.manager.RefreshAll()

	case KeyInterval:
		m.intervalIdx = (m.intervalIdx + 1) % len(intervalChoices)
		m.manager.SetInterval(intervalChoices[m.intervalIdx])

	case KeyDismiss:
		if host, ok := m.selectedHost(); ok {
			delete(m.hostErrs, host.ID)
		}

	case KeyExpand:
		if host, ok := m.selectedHost(); ok {
			m.metricIdx = 0
			m.modalStatus = ""
			req := m.modalCtl.Open(host.ID, host.Name, modalMetrics[m.metricIdx])
			return m, m.modalLoadCmd(req)
		}

	case KeyToggleHelp:
		m.showHelp = !m.showHelp
	}

	return m, nil
}

// handleModalKey handles keys while the expanded view is open.
func (m Model) handleModalKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyCollapse:
		m.modalCtl.Close()
		m.modalStatus = ""

	case KeyRange1h:
		return m.reloadRange(modal.Range1h)
	case KeyRange6h:
		return m.reloadRange(modal.Range6h)
	case KeyRange24h:
		return m.reloadRange(modal.Range24h)
	case KeyCycleRange:
		if s, ok := m.modalCtl.Session(); ok {
			return m.reloadRange(s.Range.Next())
		}

	case KeyCycleMetric:
		if s, ok := m.modalCtl.Session(); ok {
			m.metricIdx = (m.metricIdx + 1) % len(modalMetrics)
			req := m.modalCtl.Open(s.HostID, s.HostName, modalMetrics[m.metricIdx])
			return m, m.modalLoadCmd(req)
		}

	case KeyExport:
		return m, m.exportCmd()
	}

	return m, nil
}

// reloadRange switches the modal window and triggers the reload.
func (m Model) reloadRange(r modal.Range) (tea.Model, tea.Cmd) {
	req, ok := m.modalCtl.SetRange(r)
	if !ok {
		return m, nil
	}
	return m, m.modalLoadCmd(req)
}

// modalLoadCmd fetches the expanded-view series off the UI loop. If the
// user changes range again before this load completes, both loads run;
// Apply keeps only the latest selection's result.
func (m Model) modalLoadCmd(req modal.LoadRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := m.modalCtl.Load(context.Background(), req)
		if err != nil {
			return modalErrorMsg{err: err}
		}
		return modalLoadedMsg{res: res}
	}
}

// exportCmd writes the modal's last rendered series to a CSV file in the
// working directory.
func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		name, ok := m.modalCtl.Filename()
		if !ok {
			return exportedMsg{err: fmt.Errorf("no expanded view open")}
		}
		f, err := os.Create(name)
		if err != nil {
			return exportedMsg{err: err}
		}
		defer f.Close()
		if err := m.modalCtl.ExportCSV(f); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: name}
	}
}

// toggleMonitor flips a host between monitored and hidden.
func (m *Model) toggleMonitor(host int) {
	if m.manager.IsActive(host) {
		m.manager.Unsubscribe(host)
		m.renderer.DisposeHost(host)
		delete(m.views, host)
		delete(m.hostErrs, host)
		return
	}
	m.manager.Subscribe(host)
}

// teardown cancels every timer and disposes every chart, then quits. This
// path is unconditional and synchronous.
func (m Model) teardown() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.manager.Close()
	m.modalCtl.Close()
	m.registry.DisposeAll()
	return m, tea.Quit
}

// anyWaiting reports whether a monitored host is still awaiting its first
// committed view.
func (m Model) anyWaiting() bool {
	for _, host := range m.manager.Active() {
		if _, ok := m.views[host]; !ok {
			return true
		}
	}
	return false
}

// selectedHost returns the host under the cursor.
func (m Model) selectedHost() (api.Host, bool) {
	if m.selected < 0 || m.selected >= len(m.hosts) {
		return api.Host{}, false
	}
	return m.hosts[m.selected], true
}

// MonitoredCount returns how many hosts are actively polled.
func (m Model) MonitoredCount() int {
	return len(m.manager.Active())
}

// Interval returns the current global poll period.
func (m Model) Interval() time.Duration {
	return m.manager.Interval()
}

// firstLine trims a structured multi-line error down to its headline.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return trimMark(s[:i])
		}
	}
	return trimMark(s)
}

// trimMark drops the leading ✗ so inline indicators don't double up.
func trimMark(s string) string {
	if len(s) >= len("✗ ") && s[:len("✗")] == "✗" {
		return s[len("✗ "):]
	}
	return s
}
