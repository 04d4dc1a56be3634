package dashboard

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette
const (
	ColorDarkBg  = lipgloss.Color("#0A0A0F")
	ColorBorder  = lipgloss.Color("#2A2A4A")
	ColorHealthy = lipgloss.Color("#39FF14")
	ColorWarning = lipgloss.Color("#FFAA00")
	ColorDanger  = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	HostNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorAccentDim).
			Padding(1, 2)
)

// Status indicator characters for the monitor toggle.
const (
	IndicatorMonitored   = "◉"
	IndicatorUnmonitored = "◌"
	IndicatorError       = "✗"
)

// severityColor maps a disk severity name onto the palette.
func severityColor(severity string) lipgloss.Color {
	switch severity {
	case "critical":
		return ColorDanger
	case "warning":
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// labelColor maps a qualitative CPU/memory label onto the palette.
func labelColor(label string) lipgloss.Color {
	switch label {
	case "Critical":
		return ColorDanger
	case "High", "Low":
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// usageBar renders a severity-colored horizontal bar for a 0-100 value.
func usageBar(width int, percent float64, color lipgloss.Color) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "▰"
		} else {
			bar += "▱"
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}
