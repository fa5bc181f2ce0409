package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/storage"
)

// ErrNotRunning is returned by Client when nothing is listening on the
// control address.
var ErrNotRunning = errors.New("pomidor is not running")

const clientTimeout = 5 * time.Second

// APIError is a non-2xx response from the control server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running control server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server listening on addr (host:port).
func NewClient(addr string) *Client {
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: clientTimeout},
	}
}

// Start starts a countdown of minutes with label.
func (c *Client) Start(ctx context.Context, minutes int, label string) (CommandResponse, error) {
	var resp CommandResponse
	err := c.do(ctx, http.MethodPost, "/timer/start", StartRequest{Minutes: minutes, Label: label}, &resp)
	return resp, err
}

// Stop stops the active timer.
func (c *Client) Stop(ctx context.Context) (CommandResponse, error) {
	var resp CommandResponse
	err := c.do(ctx, http.MethodPost, "/timer/stop", nil, &resp)
	return resp, err
}

// Toggle pauses or resumes the active timer.
func (c *Client) Toggle(ctx context.Context) (CommandResponse, error) {
	var resp CommandResponse
	err := c.do(ctx, http.MethodPost, "/timer/toggle", nil, &resp)
	return resp, err
}

// ToggleDisplay flips the status display flag.
func (c *Client) ToggleDisplay(ctx context.Context) (CommandResponse, error) {
	var resp CommandResponse
	err := c.do(ctx, http.MethodPost, "/timer/display", nil, &resp)
	return resp, err
}

// Status returns the live timer status.
func (c *Client) Status(ctx context.Context) (engine.Status, error) {
	var st engine.Status
	err := c.do(ctx, http.MethodGet, "/timer", nil, &st)
	return st, err
}

// History returns the recorded sessions grouped by day. A positive limit
// keeps only that many days.
func (c *Client) History(ctx context.Context, limit int) ([]storage.DayGroup, error) {
	path := "/history"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var groups []storage.DayGroup
	err := c.do(ctx, http.MethodGet, path, nil, &groups)
	return groups, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return ErrNotRunning
		}
		return fmt.Errorf("contact pomidor at %s: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
