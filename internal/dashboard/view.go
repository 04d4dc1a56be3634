package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostwatch/internal/charts"
	"github.com/rileyhilliard/hostwatch/internal/modal"
)

// View renders the full dashboard frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if s, ok := m.modalCtl.Session(); ok {
		return m.renderModal(s)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

// renderHeader renders the title row with the fleet summary.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render("HOSTWATCH")
	summary := MutedStyle.Render(fmt.Sprintf(
		"%d hosts · %d monitored · every %s",
		len(m.hosts), m.MonitoredCount(), m.Interval()))
	return HeaderStyle.Render(title + "  " + summary)
}

// renderGrid lays host cards out in columns.
func (m Model) renderGrid() string {
	if len(m.hosts) == 0 {
		return MutedStyle.Padding(1, 2).Render("no hosts discovered")
	}

	cols := m.columns()
	cards := make([]string, 0, len(m.hosts))
	for i, h := range m.hosts {
		cards = append(cards, m.renderCard(h, i == m.selected))
	}

	var rows []string
	for i := 0; i < len(cards); i += cols {
		end := i + cols
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the one-line key hint bar.
func (m Model) renderFooter() string {
	return FooterStyle.Render(
		"↑/↓ select · space monitor · enter expand · r refresh · i interval · ? help · q quit")
}

// renderHelp renders the expanded key reference.
func (m Model) renderHelp() string {
	rows := []string{
		"↑/↓ or j/k   select host",
		"space or m   toggle monitoring",
		"enter        expand selected host",
		"r            refresh all monitored hosts now",
		"i            cycle poll interval",
		"x            dismiss error on selected host",
		"?            close this help",
		"q / ctrl+c   quit",
		"",
		"in expanded view:",
		"1 / 2 / 3    range 1h / 6h / 24h",
		"t            cycle range",
		"tab          cycle metric",
		"e            export CSV",
		"esc          close",
	}
	return FooterStyle.Render(strings.Join(rows, "\n"))
}

// renderModal renders the expanded single-metric view.
func (m Model) renderModal(s modal.Session) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(ColorAccentDim).Bold(true).
		Render(modal.Title(s.Metric))
	b.WriteString(title + MutedStyle.Render("  ·  "+s.HostName))
	b.WriteString("\n\n")
	b.WriteString(m.renderRangeSelector(s.Range))
	b.WriteString("\n\n")

	if frame, ok := m.registry.View(charts.ModalKey); ok {
		b.WriteString(frame)
	} else {
		b.WriteString(MutedStyle.Render("no data in this range"))
	}

	if len(s.LastPoints) > 0 {
		b.WriteString("\n" + MutedStyle.Render(fmt.Sprintf("%d points", len(s.LastPoints))))
	}

	if m.modalStatus != "" {
		b.WriteString("\n" + LabelStyle.Render(m.modalStatus))
	}

	b.WriteString("\n\n" + FooterStyle.Render(
		"1/2/3 range · tab metric · e export · esc close"))

	box := ModalStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// renderRangeSelector renders the 1h/6h/24h toggle with the active range
// highlighted.
func (m Model) renderRangeSelector(active modal.Range) string {
	parts := make([]string, 0, len(modal.Ranges))
	for _, r := range modal.Ranges {
		label := string(r)
		if r == active {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(ColorDarkBg).Background(ColorAccentDim).Bold(true).
				Render(" "+label+" "))
			continue
		}
		parts = append(parts, MutedStyle.Render(" "+label+" "))
	}
	return strings.Join(parts, " ")
}
