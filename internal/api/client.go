// Package api is the typed client for the metrics backend's read-only HTTP
// API. The backend owns collection and storage; this package only fetches
// and decodes.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rileyhilliard/hostwatch/internal/errors"
	"github.com/rileyhilliard/hostwatch/internal/logger"
)

// Fetcher is the data-fetch boundary consumed by the renderer and the modal.
// It exists so tests can substitute canned responses for the HTTP client.
type Fetcher interface {
	Hosts(ctx context.Context) ([]Host, error)
	Series(ctx context.Context, hostID, minutes int) (*Series, error)
	Latest(ctx context.Context, hostID int) (*Latest, error)
}

// Client talks to the backend API over HTTP.
//
// Requests are always fresh: the client sends cache-bypassing headers and
// never caches responses itself. No request timeout is applied beyond the
// caller's context; a slow fetch delays only the host it belongs to.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// NewClient creates a client for the API rooted at baseURL
// (e.g. "http://dashboard.local:8000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logger.NewEnvLogger("[api]"),
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l logger.Logger) {
	if l != nil {
		c.log = l
	}
}

// Hosts fetches the list of configured hosts.
func (c *Client) Hosts(ctx context.Context) ([]Host, error) {
	var hosts []Host
	if err := c.getJSON(ctx, "/api/hosts", &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// Series fetches the sample window for a host covering the last `minutes`
// minutes.
func (c *Client) Series(ctx context.Context, hostID, minutes int) (*Series, error) {
	path := fmt.Sprintf("/api/host/%d/series?minutes=%s", hostID, url.QueryEscape(strconv.Itoa(minutes)))
	var s Series
	if err := c.getJSON(ctx, path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Latest fetches the most recent snapshot for a host, including extras and
// the current disk list.
func (c *Client) Latest(ctx context.Context, hostID int) (*Latest, error) {
	var l Latest
	if err := c.getJSON(ctx, fmt.Sprintf("/api/host/%d/latest", hostID), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// getJSON performs a cache-bypassing GET and decodes the JSON body into out.
// Any non-2xx status is a transport failure.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Invalid API request for "+path,
			"Check the api.base_url setting in your config")
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("GET %s", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Can't reach the metrics API at "+c.baseURL,
			"Check the backend is running and api.base_url is correct")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for diagnostics, then discard the rest.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return errors.New(errors.ErrAPI,
			fmt.Sprintf("API returned %s for %s", resp.Status, path),
			errDetail(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Malformed JSON from "+path,
			"The backend may be a different version than this client expects")
	}
	return nil
}

// errDetail turns a body snippet into a single-line suggestion, or a generic
// hint when the body is empty or binary.
func errDetail(snippet []byte) string {
	s := strings.TrimSpace(string(snippet))
	if s == "" || !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "\"") && !isPrintable(s) {
		return "The backend may be mid-restart; the next poll retries automatically"
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return "Backend said: " + s
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\t' {
			return false
		}
	}
	return true
}
