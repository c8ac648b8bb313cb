package utils

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// TraceIDHeader carries the trace id between the local API and the
	// sync server.
	TraceIDHeader = "X-Trace-ID"

	userAgent = "go-sync-engine"
)

// HTTPClient is a resty client preset for JSON exchanges with one server.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client for baseURL. A zero timeout leaves requests
// bounded by their context only.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &HTTPClient{Client: c}
}

// Request starts a request bound to ctx. A trace id stored in ctx is
// forwarded in TraceIDHeader.
func (c *HTTPClient) Request(ctx context.Context) *resty.Request {
	req := c.R().SetContext(ctx)
	if traceID, ok := GetTraceIDFromContext(ctx); ok {
		req.SetHeader(TraceIDHeader, traceID)
	}
	return req
}
