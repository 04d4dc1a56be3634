package charts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostwatch/internal/format"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

func TestSparkline_ViewAfterCloseIsEmpty(t *testing.T) {
	f := NewSparklineFactory()
	inst := f.New(somePoints(), Config{Width: 10, Height: 2})

	require.NotEmpty(t, inst.View())
	inst.Close()
	assert.Empty(t, inst.View())
}

func TestSparkline_FrameHasConfiguredHeight(t *testing.T) {
	f := NewSparklineFactory()
	inst := f.New(somePoints(), Config{Width: 10, Height: 3})

	lines := strings.Split(inst.View(), "\n")
	assert.Len(t, lines, 3)
}

func TestSparkline_LabelHeaderShowsLastValue(t *testing.T) {
	f := NewSparklineFactory()
	points := []series.Point{
		{TS: 1700000000, V: 12.5},
		{TS: 1700000060, V: 42.5},
	}
	inst := f.New(points, Config{
		Label:       "CPU",
		ValueFormat: format.FormatPercent,
		Width:       10,
		Height:      2,
	})

	view := inst.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 3, "header plus two graph rows")
	assert.Contains(t, view, "CPU")
	assert.Contains(t, view, "42.5%", "header shows the newest value, not the first")
}

func TestSparkline_AxisLabelsUseValueFormat(t *testing.T) {
	f := NewSparklineFactory()
	inst := f.New(somePoints(), Config{
		ShowAxis:    true,
		ValueFormat: format.FormatPercent,
		Width:       10,
		Height:      2,
	})

	view := inst.View()
	// Percent charts pin to 0-100 regardless of the data range.
	assert.Contains(t, view, "100.0%")
	assert.Contains(t, view, "0.0%")
}

func TestBounds(t *testing.T) {
	low, high := 5.0, 50.0

	tests := []struct {
		name    string
		data    []float64
		cfg     Config
		wantMin float64
		wantMax float64
	}{
		{"percent pins 0-100", []float64{20, 80}, Config{ValueFormat: format.FormatPercent}, 0, 100},
		{"plain derives from data", []float64{3, 9, 6}, Config{}, 3, 9},
		{"explicit bounds win", []float64{3, 9}, Config{Min: &low, Max: &high}, 5, 50},
		{"degenerate range widens", []float64{7, 7}, Config{}, 7, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := bounds(tt.data, tt.cfg)
			assert.Equal(t, tt.wantMin, gotMin)
			assert.Equal(t, tt.wantMax, gotMax)
		})
	}
}

func TestResample_MaxPerBucketKeepsSpikes(t *testing.T) {
	data := make([]float64, 100)
	data[37] = 99 // lone spike

	out := resample(data, 10)
	require.Len(t, out, 10)

	found := false
	for _, v := range out {
		if v == 99 {
			found = true
		}
	}
	assert.True(t, found, "downsampling must not swallow spikes")
}

func TestResample_ShortInputPassesThrough(t *testing.T) {
	data := []float64{1, 2, 3}
	assert.Equal(t, data, resample(data, 10))
	assert.Nil(t, resample(nil, 10))
	assert.Nil(t, resample(data, 0))
}
