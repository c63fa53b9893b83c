// Package client implements the HTTP capability the benchmark runs
// against: one client per base URL, sending method/path/query requests
// and wrapping responses with status classification.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"apibench/internal/core"
)

const (
	defaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is retained for
	// status diagnostics and acknowledgement parsing.
	maxBodySize = 1 * 1024 * 1024
)

// Client sends HTTP requests against a single base URL. It implements
// core.Transport.
type Client struct {
	base  *url.URL
	hc    *http.Client
	debug *DebugLogger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithDebug enables request/response logging.
func WithDebug(d *DebugLogger) Option {
	return func(c *Client) { c.debug = d }
}

// New creates a Client for the given absolute base URL. No network
// traffic occurs until Send.
func New(rawURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", rawURL)
	}

	c := &Client{
		base: base,
		hc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Send issues one HTTP exchange. A completed exchange returns a
// response regardless of its status code; only failures to complete
// the exchange return an error, as a core response error preserving
// the transport cause.
func (c *Client) Send(ctx context.Context, method, path string, headers http.Header, query url.Values, body []byte) (core.Response, error) {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, core.ResponseError(fmt.Sprintf("building %s %s", method, path), err)
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	c.debug.LogRequest(req, body)

	start := time.Now()
	resp, err := c.hc.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.debug.LogError(method, u.String(), err.Error(), duration)
		return nil, core.ResponseError(fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	_, _ = io.Copy(io.Discard, resp.Body) // drain errors are ignorable

	c.debug.LogResponse(resp, payload, duration)

	return &Response{
		status:     resp.StatusCode,
		statusText: resp.Status,
		header:     resp.Header.Clone(),
		body:       payload,
	}, nil
}

// Response wraps one completed HTTP exchange.
type Response struct {
	status     int
	statusText string
	header     http.Header
	body       []byte
}

func (r *Response) StatusCode() int     { return r.status }
func (r *Response) Header() http.Header { return r.header }
func (r *Response) Body() []byte        { return r.body }

// ErrorForStatus converts the response into its success/failure
// classification: nil for 2xx statuses, a response error otherwise.
func (r *Response) ErrorForStatus() error {
	if r.status >= 200 && r.status < 300 {
		return nil
	}
	text := r.statusText
	if text == "" {
		text = fmt.Sprintf("%d %s", r.status, http.StatusText(r.status))
	}
	return core.ResponseError("server returned "+text, nil)
}
