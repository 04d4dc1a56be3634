package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/format"
	"github.com/rileyhilliard/hostwatch/internal/render"
)

const (
	minCardWidth = 44
	maxProcRows  = 3
)

// cardWidth picks the card width for the current terminal size: two columns
// when they fit, one otherwise.
func (m Model) cardWidth() int {
	if m.width <= 0 {
		return minCardWidth
	}
	cols := m.columns()
	w := m.width/cols - 2
	if w < minCardWidth {
		w = minCardWidth
	}
	return w
}

// columns returns how many cards fit side by side.
func (m Model) columns() int {
	if m.width >= 2*(minCardWidth+3) {
		return 2
	}
	return 1
}

// cardInnerWidth is the usable content width inside the card border and
// padding.
func cardInnerWidth(cardW int) int {
	inner := cardW - 4
	if inner < 10 {
		inner = 10
	}
	return inner
}

// renderCard renders one host's panel.
func (m Model) renderCard(host api.Host, selected bool) string {
	inner := cardInnerWidth(m.cardWidth())
	monitored := m.manager.IsActive(host.ID)

	var b strings.Builder
	b.WriteString(m.cardHeader(host, monitored, inner))

	if !monitored {
		b.WriteString("\n" + MutedStyle.Render("not monitored · space to start"))
		return m.frameCard(b.String(), selected)
	}

	if errText, ok := m.hostErrs[host.ID]; ok {
		b.WriteString("\n" + ErrorStyle.Render(IndicatorError+" "+errText))
		b.WriteString("\n" + MutedStyle.Render("retrying · x to dismiss"))
	}

	view, ok := m.views[host.ID]
	if !ok {
		b.WriteString("\n" + m.spin.View() + MutedStyle.Render(" waiting for first poll"))
		return m.frameCard(b.String(), selected)
	}

	b.WriteString("\n" + renderMetrics(view))
	b.WriteString(m.renderCharts(host.ID))
	b.WriteString(renderProcesses(view))
	b.WriteString(renderDisks(view, inner))

	for _, ge := range view.Errors {
		b.WriteString("\n" + ErrorStyle.Render(fmt.Sprintf("%s %s unavailable", IndicatorError, ge.Group)))
	}

	return m.frameCard(b.String(), selected)
}

// cardHeader renders the name row: indicator, host name, OS and IP.
func (m Model) cardHeader(host api.Host, monitored bool, inner int) string {
	ind := IndicatorUnmonitored
	indStyle := MutedStyle
	if monitored {
		ind = IndicatorMonitored
		indStyle = lipgloss.NewStyle().Foreground(ColorHealthy)
	}

	left := indStyle.Render(ind) + " " + HostNameStyle.Render(host.Name)
	right := MutedStyle.Render(host.OS + " · " + host.IP)

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderMetrics renders the headline value lines. A group missing from the
// view shows the placeholder, not an error.
func renderMetrics(view *render.HostView) string {
	var lines []string

	cpu := format.Placeholder
	if view.CPU != nil {
		cpu = format.Percent(view.CPU.Percent) + " " +
			lipgloss.NewStyle().Foreground(labelColor(view.CPU.Label)).Render(view.CPU.Label)
	}
	lines = append(lines, LabelStyle.Render("cpu  ")+ValueStyle.Render(cpu))

	mem := format.Placeholder
	if view.Memory != nil {
		mem = format.Percent(view.Memory.FreePercent) + " free " +
			lipgloss.NewStyle().Foreground(labelColor(view.Memory.Label)).Render(view.Memory.Label) +
			MutedStyle.Render(" · "+view.Memory.UsageText)
	}
	lines = append(lines, LabelStyle.Render("mem  ")+ValueStyle.Render(mem))

	net := format.Placeholder
	if view.Network != nil {
		net = fmt.Sprintf("↓%s ↑%s · %d ifaces",
			view.Network.RxText, view.Network.TxText, view.Network.ActiveIfaces)
	}
	lines = append(lines, LabelStyle.Render("net  ")+ValueStyle.Render(net))

	lines = append(lines,
		LabelStyle.Render("up   ")+ValueStyle.Render(orPlaceholder(view.Uptime)),
		LabelStyle.Render("load ")+ValueStyle.Render(orPlaceholder(view.LoadAvg)),
	)

	if view.CPUDetail != "" {
		lines = append(lines, MutedStyle.Render(view.CPUDetail))
	}
	if view.Swap != "" {
		lines = append(lines, LabelStyle.Render("swap ")+ValueStyle.Render(view.Swap))
	}
	if view.System != "" {
		lines = append(lines, MutedStyle.Render(view.System))
	}

	return strings.Join(lines, "\n")
}

// renderCharts pulls the host's live sparkline frames from the registry.
func (m Model) renderCharts(host int) string {
	var b strings.Builder
	for _, key := range []string{
		render.CPUChartKey(host),
		render.MemChartKey(host),
		render.NetChartKey(host),
	} {
		if frame, ok := m.registry.View(key); ok {
			b.WriteString("\n" + frame)
		}
	}
	return b.String()
}

// renderProcesses renders the top-CPU process rows.
func renderProcesses(view *render.HostView) string {
	if len(view.Processes) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n" + MutedStyle.Render(fmt.Sprintf("top cpu (%d procs)", view.ProcTotal)))
	for i, p := range view.Processes {
		if i >= maxProcRows {
			break
		}
		b.WriteString("\n" + ValueStyle.Render(
			fmt.Sprintf("  %5.1f%% %s", p.CPU, truncate(p.Cmd, 28))))
	}
	return b.String()
}

// renderDisks renders one bar row per mount, inode usage appended when a
// matching record exists.
func renderDisks(view *render.HostView, inner int) string {
	if len(view.Disks) == 0 {
		return ""
	}

	barWidth := 10
	var b strings.Builder
	for _, d := range view.Disks {
		color := severityColor(d.Severity.String())
		line := fmt.Sprintf("%s %s %s",
			usageBar(barWidth, d.UsedPercent, color),
			lipgloss.NewStyle().Foreground(color).Render(format.Percent(d.UsedPercent)),
			ValueStyle.Render(truncate(d.Mount, inner-barWidth-20)))
		detail := MutedStyle.Render(d.FreeText + " free of " + d.SizeText)
		if d.InodeText != "" {
			detail += MutedStyle.Render(" · " + d.InodeText)
		}
		b.WriteString("\n" + line + " " + detail)
	}
	return b.String()
}

// frameCard wraps content in the card border, accent-colored when selected.
func (m Model) frameCard(content string, selected bool) string {
	style := CardStyle
	if selected {
		style = CardSelectedStyle
	}
	return style.Width(m.cardWidth()).Render(content)
}

// orPlaceholder substitutes the em-dash placeholder for empty values.
func orPlaceholder(s string) string {
	if s == "" {
		return format.Placeholder
	}
	return s
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
