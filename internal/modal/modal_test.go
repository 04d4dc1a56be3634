package modal

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/charts"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

func f64(v float64) *float64 { return &v }

// stubFetcher returns the same series for every request and records the
// minutes argument.
type stubFetcher struct {
	samples []api.Sample
	minutes []int
	err     error
}

func (s *stubFetcher) Hosts(ctx context.Context) ([]api.Host, error) { return nil, nil }
func (s *stubFetcher) Latest(ctx context.Context, hostID int) (*api.Latest, error) {
	return &api.Latest{}, nil
}
func (s *stubFetcher) Series(ctx context.Context, hostID, minutes int) (*api.Series, error) {
	s.minutes = append(s.minutes, minutes)
	if s.err != nil {
		return nil, s.err
	}
	return &api.Series{Samples: s.samples}, nil
}

func newTestController(f *stubFetcher) (*Controller, *charts.Registry) {
	reg := charts.NewRegistry(charts.NewSparklineFactory())
	return NewController(f, reg, 60), reg
}

func TestRangeMinutes(t *testing.T) {
	assert.Equal(t, 60, Range1h.Minutes())
	assert.Equal(t, 360, Range6h.Minutes())
	assert.Equal(t, 1440, Range24h.Minutes())
}

func TestRangeNext_Cycles(t *testing.T) {
	assert.Equal(t, Range6h, Range1h.Next())
	assert.Equal(t, Range24h, Range6h.Next())
	assert.Equal(t, Range1h, Range24h.Next())
	assert.Equal(t, Range1h, Range("bogus").Next())
}

func TestOpenLoadApply(t *testing.T) {
	f := &stubFetcher{samples: []api.Sample{
		{TS: 100, CPU: f64(10)},
		{TS: 200, CPU: f64(20)},
	}}
	c, reg := newTestController(f)

	req := c.Open(3, "web-1", "cpu")
	assert.Equal(t, Range1h, req.Range)

	res, err := c.Load(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Points, 2)

	assert.True(t, c.Apply(res))
	assert.True(t, reg.Live(charts.ModalKey))

	s, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, "web-1", s.HostName)
	assert.Len(t, s.LastPoints, 2)
}

func TestSetRange_UsesNewWindow(t *testing.T) {
	f := &stubFetcher{samples: []api.Sample{{TS: 100, CPU: f64(10)}}}
	c, _ := newTestController(f)

	c.Open(1, "h", "cpu")
	req, ok := c.SetRange(Range24h)
	require.True(t, ok)

	_, err := c.Load(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int{1440}, f.minutes)

	s, _ := c.Session()
	assert.Equal(t, Range24h, s.Range)
}

func TestSetRange_ClosedModal(t *testing.T) {
	c, _ := newTestController(&stubFetcher{})
	_, ok := c.SetRange(Range6h)
	assert.False(t, ok)
}

func TestApply_StaleResultIsIgnored(t *testing.T) {
	f := &stubFetcher{samples: []api.Sample{{TS: 100, CPU: f64(10)}}}
	c, reg := newTestController(f)

	c.Open(1, "h", "cpu")
	stale, ok := c.SetRange(Range6h)
	require.True(t, ok)
	latest, ok := c.SetRange(Range24h)
	require.True(t, ok)

	// Responses arrive out of order: the newest selection's result lands
	// first, the superseded one afterwards.
	latestRes, err := c.Load(context.Background(), latest)
	require.NoError(t, err)
	staleRes, err := c.Load(context.Background(), stale)
	require.NoError(t, err)

	assert.True(t, c.Apply(latestRes))
	assert.False(t, c.Apply(staleRes), "a superseded load must not overwrite the newer one")

	s, _ := c.Session()
	assert.Equal(t, Range24h, s.Range)
	assert.True(t, reg.Live(charts.ModalKey))
}

func TestApply_AfterCloseIsIgnored(t *testing.T) {
	f := &stubFetcher{samples: []api.Sample{{TS: 100, CPU: f64(10)}}}
	c, reg := newTestController(f)

	req := c.Open(1, "h", "cpu")
	res, err := c.Load(context.Background(), req)
	require.NoError(t, err)

	c.Close()
	assert.False(t, c.Apply(res), "a load finishing after close must not resurrect the chart")
	assert.False(t, reg.Live(charts.ModalKey))
	assert.False(t, c.IsOpen())
}

func TestOpen_ReplacesPriorModal(t *testing.T) {
	f := &stubFetcher{samples: []api.Sample{{TS: 100, CPU: f64(10)}}}
	c, _ := newTestController(f)

	first := c.Open(1, "one", "cpu")
	c.Open(2, "two", "mem")

	res, err := c.Load(context.Background(), first)
	require.NoError(t, err)
	assert.False(t, c.Apply(res), "the first modal's load is stale once replaced")

	s, _ := c.Session()
	assert.Equal(t, 2, s.HostID)
	assert.Equal(t, "mem", s.Metric)
}

func TestLoad_UnknownMetric(t *testing.T) {
	c, _ := newTestController(&stubFetcher{})
	req := c.Open(1, "h", "gpu")
	_, err := c.Load(context.Background(), req)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "series_cpu_3.csv", ExportFilename("cpu", 3))

	c, _ := newTestController(&stubFetcher{})
	_, ok := c.Filename()
	assert.False(t, ok)

	c.Open(7, "h", "net_rx")
	name, ok := c.Filename()
	require.True(t, ok)
	assert.Equal(t, "series_net_rx_7.csv", name)
}

func TestWriteCSV_Format(t *testing.T) {
	points := []series.Point{
		{TS: 1700000000, V: 42.5},
		{TS: 1700000060, V: 17},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))

	want := "timestamp,value\n" +
		"2023-11-14T22:13:20.000Z,42.5\n" +
		"2023-11-14T22:14:20.000Z,17\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_EmptySeriesIsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "timestamp,value\n", buf.String())
}

func TestExportCSV(t *testing.T) {
	f := &stubFetcher{samples: []api.Sample{{TS: 1700000000, CPU: f64(42.5)}}}
	c, _ := newTestController(f)

	var buf bytes.Buffer
	err := c.ExportCSV(&buf)
	assert.Error(t, err, "export without an open modal fails")

	req := c.Open(1, "h", "cpu")
	res, err := c.Load(context.Background(), req)
	require.NoError(t, err)
	require.True(t, c.Apply(res))

	buf.Reset()
	require.NoError(t, c.ExportCSV(&buf))
	assert.Contains(t, buf.String(), "2023-11-14T22:13:20.000Z,42.5")
}
