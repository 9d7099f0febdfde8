package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"

	"github.com/andaru/escl/model"
	"github.com/andaru/escl/schema"
	"github.com/andaru/escl/transport"
)

const (
	opCapabilities = "capabilities"
	opStatus       = "status"
	opCreateJob    = "create-job"
	opDeleteJob    = "delete-job"
	opNextPage     = "next-page"
	opImageInfo    = "image-info"
)

// Client speaks eSCL to one scanner, addressed by its base URL such as
// "http://192.168.1.20:80/eSCL/". A Client holds no mutable state and
// may be shared between goroutines.
type Client struct {
	base   *url.URL
	tc     *transport.Client
	logger *slog.Logger
}

type options struct {
	doer      transport.Doer
	config    transport.Config
	logger    *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*options)

// WithDoer sets the HTTP implementation. The default is an *http.Client
// built by transport.NewHTTPClient.
func WithDoer(d transport.Doer) Option { return func(o *options) { o.doer = d } }

// WithTransportConfig sets the timeouts and TLS configuration of the
// default HTTP implementation. It has no effect together with WithDoer.
func WithTransportConfig(cfg transport.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option { return func(o *options) { o.userAgent = ua } }

// New returns a Client for the scanner at base. The base path is given a
// trailing slash if it lacks one.
func New(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid base URL %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return nil, errors.Errorf("invalid base URL %q: no host", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery, u.Fragment, u.RawPath = "", "", ""

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.doer == nil {
		o.doer = transport.NewHTTPClient(o.config)
	}
	topts := []transport.Option{transport.WithLogger(o.logger)}
	if o.userAgent != "" {
		topts = append(topts, transport.WithUserAgent(o.userAgent))
	}
	return &Client{
		base:   u,
		tc:     transport.NewClient(o.doer, topts...),
		logger: o.logger,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Result is a decoded response document along with the input the
// decoder did not recognise.
type Result[T any] struct {
	Value   *T
	Unknown []schema.UnknownInput
	// Body is the raw document, for schema.Lookup.
	Body []byte
}

// Page is one retrieved document page.
type Page struct {
	ContentType     string
	ContentLocation string
	Data            []byte
	// AcceptRanges is true if the scanner advertised byte range support.
	AcceptRanges bool
}

// Capabilities fetches the ScannerCapabilities document.
func (c *Client) Capabilities(ctx context.Context) (res *Result[model.ScannerCapabilities], err error) {
	defer c.guard(opCapabilities, &err)
	return get(ctx, c, opCapabilities, c.endpoint("ScannerCapabilities"), model.DecodeScannerCapabilities)
}

// Status fetches the ScannerStatus document.
func (c *Client) Status(ctx context.Context) (res *Result[model.ScannerStatus], err error) {
	defer c.guard(opStatus, &err)
	return get(ctx, c, opStatus, c.endpoint("ScannerStatus"), model.DecodeScannerStatus)
}

// CreateJob posts settings and returns the job the scanner created.
func (c *Client) CreateJob(ctx context.Context, settings *model.ScanSettings) (job *ScanJob, err error) {
	defer c.guard(opCreateJob, &err)
	if settings == nil {
		return nil, newError(opCreateJob, KindInternalBug, errors.New("nil scan settings"))
	}
	body, err := settings.Marshal()
	if err != nil {
		return nil, newError(opCreateJob, KindInternalBug, err)
	}
	resp, err := c.tc.Do(ctx, transport.Request{
		Method:        http.MethodPost,
		URL:           c.endpoint("ScanJobs"),
		Header:        http.Header{"Content-Type": {"text/xml"}},
		Body:          body,
		ExpectSuccess: true,
	})
	if err != nil {
		return nil, requestFailure(opCreateJob, err)
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil, &Error{Op: opCreateJob, Kind: KindNoLocationGiven, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	uri, err := jobURIFromLocation(loc)
	if err != nil {
		return nil, newError(opCreateJob, KindJobURLBuildingFailed, err)
	}
	c.logger.Debug("escl job created", "job", uri)
	return &ScanJob{c: c, uri: uri, settings: settings}, nil
}

// DeleteJob cancels the job at jobURI.
func (c *Client) DeleteJob(ctx context.Context, jobURI string) (err error) {
	defer c.guard(opDeleteJob, &err)
	u, err := c.jobURL(jobURI, "")
	if err != nil {
		return newError(opDeleteJob, KindInvalidJobURI, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	_, err = c.tc.Do(ctx, transport.Request{Method: http.MethodDelete, URL: u.String(), ExpectSuccess: true})
	if err != nil {
		return requestFailure(opDeleteJob, err)
	}
	return nil
}

// NextPage retrieves the next page of the job at jobURI. When the job
// has no more pages the error matches ErrNoFurtherPages.
func (c *Client) NextPage(ctx context.Context, jobURI string) (page *Page, err error) {
	defer c.guard(opNextPage, &err)
	u, err := c.jobURL(jobURI, "NextDocument")
	if err != nil {
		return nil, newError(opNextPage, KindInvalidJobURI, err)
	}
	resp, err := c.tc.Do(ctx, transport.Request{Method: http.MethodGet, URL: u.String()})
	if err != nil {
		return nil, requestFailure(opNextPage, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Op: opNextPage, Kind: KindNoFurtherPages, StatusCode: resp.StatusCode}
	case !resp.Success():
		return nil, requestFailure(opNextPage, transport.HTTPError(resp.StatusCode, resp.Body))
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return nil, &Error{Op: opNextPage, Kind: KindContentTypeMissing, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return &Page{
		ContentType:     ct,
		ContentLocation: resp.Header.Get("Content-Location"),
		Data:            resp.Body,
		AcceptRanges:    strings.EqualFold(strings.TrimSpace(resp.Header.Get("Accept-Ranges")), "bytes"),
	}, nil
}

// ScanImageInfo fetches the ScanImageInfo document of the job at jobURI.
func (c *Client) ScanImageInfo(ctx context.Context, jobURI string) (res *Result[model.ScanImageInfo], err error) {
	defer c.guard(opImageInfo, &err)
	u, err := c.jobURL(jobURI, "ScanImageInfo")
	if err != nil {
		return nil, newError(opImageInfo, KindInvalidJobURI, err)
	}
	return get(ctx, c, opImageInfo, u.String(), model.DecodeScanImageInfo)
}

func (c *Client) endpoint(name string) string { return c.base.String() + name }

// jobURL resolves jobURI against the base and appends suffix.
func (c *Client) jobURL(jobURI, suffix string) (*url.URL, error) {
	if jobURI == "" {
		return nil, errors.New("empty job URI")
	}
	ref, err := url.Parse(jobURI)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	u := c.base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("job URI %q: unsupported scheme %q", jobURI, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.Path += suffix
	u.RawPath = ""
	return u, nil
}

// jobURIFromLocation keeps the path of a Location header with a trailing
// slash, so "/eSCL/ScanJobs/123" becomes "/eSCL/ScanJobs/123/".
func jobURIFromLocation(loc string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return "", errors.WithStack(err)
	}
	if u.Path == "" || u.Path == "/" {
		return "", errors.Errorf("location %q has no job path", loc)
	}
	p := u.Path
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p, nil
}

type decodeFunc[T any] func(io.Reader) (*T, []schema.UnknownInput, error)

func get[T any](ctx context.Context, c *Client, op, rawURL string, decode decodeFunc[T]) (*Result[T], error) {
	resp, err := c.tc.Do(ctx, transport.Request{Method: http.MethodGet, URL: rawURL, ExpectSuccess: true})
	if err != nil {
		return nil, requestFailure(op, err)
	}
	v, unknown, err := decode(bytes.NewReader(resp.Body))
	if err != nil {
		c.logger.Debug("escl malformed response", "op", op, "err", err)
		return nil, malformed(op, resp.Body, err)
	}
	for _, u := range unknown {
		c.logger.Debug("escl unknown input", "op", op, "input", u.String())
	}
	return &Result[T]{Value: v, Unknown: unknown, Body: resp.Body}, nil
}

// guard turns a panic in op into a KindInternalBug error. Any other
// error which is not already an *Error is treated the same way.
func (c *Client) guard(op string, errp *error) {
	if r := recover(); r != nil {
		*errp = newError(op, KindInternalBug, fmt.Errorf("panic: %v", r))
		c.logger.Error("escl internal error", "op", op, "err", *errp, "stack", string(debug.Stack()))
		return
	}
	if *errp == nil {
		return
	}
	var e *Error
	if !errors.As(*errp, &e) {
		*errp = newError(op, KindInternalBug, *errp)
		c.logger.Error("escl internal error", "op", op, "err", *errp)
	}
}
