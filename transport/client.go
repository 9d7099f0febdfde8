package transport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Doer performs HTTP requests. *http.Client is a Doer.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Request is a single HTTP request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// ExpectSuccess makes a non-2xx response a KindHTTP error.
	ExpectSuccess bool
}

// Response is a response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is 2xx.
func (r *Response) Success() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Client performs requests using a Doer.
type Client struct {
	doer      Doer
	logger    *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger requests are logged to at debug level.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// NewClient returns a Client using d, or an *http.Client built from the
// zero Config if d is nil.
func NewClient(d Doer, opts ...Option) *Client {
	if d == nil {
		d = NewHTTPClient(Config{})
	}
	c := &Client{doer: d, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs req. The error is always an *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: errors.WithStack(err)}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	if c.userAgent != "" && hreq.Header.Get("User-Agent") == "" {
		hreq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	hresp, err := c.doer.Do(hreq)
	if err != nil {
		c.logger.Debug("escl request failed", "method", req.Method, "url", req.URL, "err", err)
		return nil, Classify(err)
	}
	var b []byte
	if hresp.Body != nil {
		defer hresp.Body.Close()
		b, err = io.ReadAll(hresp.Body)
	}
	if err != nil {
		c.logger.Debug("escl response read failed", "method", req.Method, "url", req.URL, "err", err)
		return nil, Classify(err)
	}
	c.logger.Debug("escl request",
		"method", req.Method,
		"url", req.URL,
		"status", hresp.StatusCode,
		"bytes", len(b),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	resp := &Response{StatusCode: hresp.StatusCode, Header: hresp.Header, Body: b}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	if req.ExpectSuccess && !resp.Success() {
		return nil, HTTPError(resp.StatusCode, resp.Body)
	}
	return resp, nil
}
