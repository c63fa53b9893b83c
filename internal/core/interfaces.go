// Package core defines the fundamental contracts of the benchmark
// harness: the action descriptor, the operation interface, the HTTP
// capability the operations run against, and the per-repetition record.
package core

import (
	"context"
	"net/http"
	"net/url"
)

// Response is the completed half of an HTTP exchange. A response exists
// even for failure statuses; only transport errors produce no response.
type Response interface {
	StatusCode() int
	// Body returns the (possibly truncated) response payload.
	Body() []byte
	// ErrorForStatus returns nil when the status denotes success (2xx)
	// and a response error naming the status otherwise.
	ErrorForStatus() error
}

// Transport sends one HTTP request against a configured base URL and
// returns the response or a transport-level error.
type Transport interface {
	Send(ctx context.Context, method, path string, headers http.Header, query url.Values, body []byte) (Response, error)
}

// Operation is one benchmarkable unit of client behavior. Setup runs
// once before any invocation and may be a no-op. Measure is invoked
// once per warmup and once per measured repetition, with the 0-based
// iteration index of its loop.
type Operation interface {
	Setup(ctx context.Context, t Transport) error
	Measure(ctx context.Context, i int, t Transport) (Response, error)
}
