package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostwatch/internal/errors"
)

func TestHosts_DecodesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hosts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"web-1","ip":"10.0.0.5","os":"Linux","last_ts":1700000000},
			{"id":2,"name":"db-1","ip":"10.0.0.6","os":"Linux","last_ts":null}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	hosts, err := c.Hosts(context.Background())
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	assert.Equal(t, "web-1", hosts[0].Name)
	require.NotNil(t, hosts[0].LastTS)
	assert.Equal(t, int64(1700000000), *hosts[0].LastTS)
	assert.Nil(t, hosts[1].LastTS, "a host that never reported has no last_ts")
}

func TestSeries_PassesMinutesAndBypassesCaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/host/3/series", r.URL.Path)
		assert.Equal(t, "120", r.URL.Query().Get("minutes"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))
		w.Write([]byte(`{"samples":[{"ts":100,"cpu":12.5}],"disks":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	s, err := c.Series(context.Background(), 3, 120)
	require.NoError(t, err)
	require.Len(t, s.Samples, 1)
	require.NotNil(t, s.Samples[0].CPU)
	assert.Equal(t, 12.5, *s.Samples[0].CPU)
}

func TestLatest_DecodesOptionalSections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/host/7/latest", r.URL.Path)
		w.Write([]byte(`{
			"last": {"ts": 100, "cpu": 9.5, "mem_total": 1000, "mem_avail": 600},
			"extras": {"load_avg": {"l1": 0.1, "l5": 0.2, "l15": 0.3}},
			"disks": [{"mount": "/", "device": "sda1", "size_bytes": 100, "free_bytes": 40, "used_percent": 60}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	l, err := c.Latest(context.Background(), 7)
	require.NoError(t, err)

	require.NotNil(t, l.Last)
	assert.Equal(t, 9.5, *l.Last.CPU)
	require.NotNil(t, l.Extras.LoadAvg)
	assert.Equal(t, 0.2, l.Extras.LoadAvg.L5)
	assert.Nil(t, l.Extras.Net, "absent sections decode to nil, not zero values")
	require.Len(t, l.Disks, 1)
	assert.Equal(t, 60.0, l.Disks[0].UsedPercent)
}

func TestGetJSON_Non2xxIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"host not found"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Latest(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "host not found")
}

func TestGetJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"samples": [`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Series(context.Background(), 1, 60)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
}

func TestGetJSON_UnreachableBackend(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	_, err := c.Hosts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
}

func TestGetJSON_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL)
	_, err := c.Hosts(ctx)
	assert.Error(t, err)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hosts", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	_, err := c.Hosts(context.Background())
	assert.NoError(t, err)
}
