package charts

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostwatch/internal/format"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

// SparklineFactory renders series as braille sparklines. It is the default
// chart primitive for the terminal dashboard.
type SparklineFactory struct{}

// NewSparklineFactory returns the default terminal chart factory.
func NewSparklineFactory() *SparklineFactory {
	return &SparklineFactory{}
}

// New renders the points once and returns the frozen frame as the chart
// instance. Re-rendering with fresh data is the registry's job.
func (f *SparklineFactory) New(points []series.Point, cfg Config) Instance {
	return &sparkline{frame: renderFrame(points, cfg)}
}

type sparkline struct {
	frame  string
	closed bool
}

func (s *sparkline) View() string {
	if s.closed {
		return ""
	}
	return s.frame
}

func (s *sparkline) Close() {
	s.closed = true
	s.frame = ""
}

// Braille patterns use a 2x4 dot matrix per character. Unicode braille
// starts at U+2800 (empty); bit n sets dot n+1.
const brailleBase = '⠀'

// brailleDots maps [row][col] to the bit offset for the braille pattern,
// row 0-3 top to bottom, col 0-1 left to right.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

func renderFrame(points []series.Point, cfg Config) string {
	width := cfg.Width
	if width <= 0 {
		width = 30
	}
	height := cfg.Height
	if height <= 0 {
		height = 2
	}

	data := series.Values(points)
	minVal, maxVal := bounds(data, cfg)

	graph := renderBraille(data, width, height, minVal, maxVal, cfg.Color, cfg.Fill)

	var lines []string
	if cfg.Label != "" {
		last := points[len(points)-1]
		header := cfg.Label + " " + format.Value(cfg.ValueFormat, last.V) +
			"  " + time.Unix(last.TS, 0).UTC().Format("15:04:05")
		lines = append(lines, lipgloss.NewStyle().Foreground(cfg.Color).Render(header))
	}

	if cfg.ShowAxis {
		axisStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B8D"))
		maxLabel := format.Value(cfg.ValueFormat, maxVal)
		minLabel := format.Value(cfg.ValueFormat, minVal)
		labelWidth := len(maxLabel)
		if len(minLabel) > labelWidth {
			labelWidth = len(minLabel)
		}

		graphLines := strings.Split(graph, "\n")
		for i, gl := range graphLines {
			label := strings.Repeat(" ", labelWidth)
			if i == 0 {
				label = fmt.Sprintf("%*s", labelWidth, maxLabel)
			} else if i == len(graphLines)-1 {
				label = fmt.Sprintf("%*s", labelWidth, minLabel)
			}
			lines = append(lines, axisStyle.Render(label)+" "+gl)
		}
	} else {
		lines = append(lines, strings.Split(graph, "\n")...)
	}

	return strings.Join(lines, "\n")
}

// bounds picks the y-range: explicit config bounds win, percent charts pin
// to 0-100, everything else derives from the data.
func bounds(data []float64, cfg Config) (minVal, maxVal float64) {
	if cfg.ValueFormat == format.FormatPercent {
		minVal, maxVal = 0, 100
	} else if len(data) > 0 {
		minVal, maxVal = data[0], data[0]
		for _, v := range data {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if cfg.Min != nil {
		minVal = *cfg.Min
	}
	if cfg.Max != nil {
		maxVal = *cfg.Max
	}
	if maxVal <= minVal {
		maxVal = minVal + 1
	}
	return minVal, maxVal
}

// renderBraille plots data into a width x height grid of braille cells.
// Each character column holds 2 data points with 4 vertical levels per row.
// When fill is set, every dot below a point is lit; otherwise only the top
// dot of each column is.
func renderBraille(data []float64, width, height int, minVal, maxVal float64, color lipgloss.Color, fill bool) string {
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	if len(data) > targetPoints {
		resampled = resample(data, targetPoints)
	}

	// Right-align short series so the newest data sits at the right edge.
	offset := targetPoints - len(resampled)
	if offset < 0 {
		offset = 0
	}

	for i, val := range resampled {
		norm := (val - minVal) / (maxVal - minVal)
		if norm < 0 {
			norm = 0
		}
		if norm > 1 {
			norm = 1
		}
		dotHeight := int(norm * float64(totalDots))
		if dotHeight < 1 {
			dotHeight = 1
		}

		charCol := (i + offset) / 2
		if charCol >= width {
			continue
		}
		subCol := (i + offset) % 2

		lo := dotHeight - 1
		if fill {
			lo = 0
		}
		for dot := lo; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = style.Render(string(row))
	}
	return strings.Join(lines, "\n")
}

// resample compresses data to targetSize using max-per-bucket sampling so
// spikes survive downsampling.
func resample(data []float64, targetSize int) []float64 {
	if targetSize <= 0 || len(data) == 0 {
		return nil
	}
	if len(data) <= targetSize {
		return data
	}

	result := make([]float64, targetSize)
	bucketSize := float64(len(data)) / float64(targetSize)
	for i := 0; i < targetSize; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}
		maxVal := data[start]
		for j := start + 1; j < end; j++ {
			if data[j] > maxVal {
				maxVal = data[j]
			}
		}
		result[i] = maxVal
	}
	return result
}
