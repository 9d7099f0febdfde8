package client

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/OpenPrinting/go-mfp/util/optional"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andaru/escl/model"
	"github.com/andaru/escl/transport"
)

type mockDoer struct{ mock.Mock }

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func response(code int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{StatusCode: code, Header: header, Body: io.NopCloser(strings.NewReader(body))}
}

func request(method, url string) interface{} {
	return mock.MatchedBy(func(r *http.Request) bool {
		return r.Method == method && r.URL.String() == url
	})
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestClient(t *testing.T, d transport.Doer) *Client {
	t.Helper()
	c, err := New("http://scanner/eSCL", WithDoer(d), WithLogger(quietLogger()))
	require.NoError(t, err)
	return c
}

func testdata(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("../model/testdata/" + name)
	require.NoError(t, err)
	return string(b)
}

func testSettings() *model.ScanSettings {
	return &model.ScanSettings{
		Version:           "2.63",
		Intent:            optional.New(model.Known(model.IntentDocument)),
		DocumentFormatExt: optional.New("image/jpeg"),
		InputSource:       optional.New(model.Known(model.Platen)),
		XResolution:       optional.New(uint(300)),
		YResolution:       optional.New(uint(300)),
		ColorMode:         optional.New(model.Known(model.RGB24)),
	}
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "adds slash", base: "http://scanner/eSCL", want: "http://scanner/eSCL/"},
		{name: "keeps slash", base: "https://scanner:443/eSCL/", want: "https://scanner:443/eSCL/"},
		{name: "root", base: "http://10.0.0.5", want: "http://10.0.0.5/"},
		{name: "drops query", base: "http://scanner/eSCL?x=1", want: "http://scanner/eSCL/"},
		{name: "bad scheme", base: "ftp://scanner/eSCL", wantErr: true},
		{name: "no host", base: "http:///eSCL", wantErr: true},
		{name: "unparseable", base: "http://[::1", wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.base)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.BaseURL())
		})
	}
}

func TestCapabilities(t *testing.T) {
	a := assert.New(t)
	d := &mockDoer{}
	d.On("Do", request(http.MethodGet, "http://scanner/eSCL/ScannerCapabilities")).
		Return(response(http.StatusOK, nil, testdata(t, "capabilities.xml")), nil).Once()

	res, err := newTestClient(t, d).Capabilities(context.Background())
	require.NoError(t, err)
	a.Equal("Brother MFC-L8690CDW series", res.Value.MakeAndModel)
	a.Len(res.Unknown, 1)
	a.NotEmpty(res.Body)
	d.AssertExpectations(t)
}

func TestHTTPErrorsThenSuccess(t *testing.T) {
	for _, tc := range []struct {
		name string
		path string
		doc  string
		op   string
		want interface{}
		call func(*Client) (interface{}, error)
	}{
		{
			name: "capabilities",
			path: "ScannerCapabilities",
			doc:  "capabilities.xml",
			op:   opCapabilities,
			want: "Brother MFC-L8690CDW series",
			call: func(c *Client) (interface{}, error) {
				res, err := c.Capabilities(context.Background())
				if err != nil {
					return nil, err
				}
				return res.Value.MakeAndModel, nil
			},
		},
		{
			name: "status",
			path: "ScannerStatus",
			doc:  "status.xml",
			op:   opStatus,
			want: true,
			call: func(c *Client) (interface{}, error) {
				res, err := c.Status(context.Background())
				if err != nil {
					return nil, err
				}
				return res.Value.State.Is(model.StateProcessing), nil
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)
			url := "http://scanner/eSCL/" + tc.path
			codes := []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable}
			d := &mockDoer{}
			for _, code := range codes {
				d.On("Do", request(http.MethodGet, url)).Return(response(code, nil, "busy"), nil).Once()
			}
			d.On("Do", request(http.MethodGet, url)).
				Return(response(http.StatusOK, nil, testdata(t, tc.doc)), nil).Once()
			c := newTestClient(t, d)

			for _, code := range codes {
				_, err := tc.call(c)
				require.Error(t, err, code)
				a.Equal(KindRequestFailure, KindOf(err))
				a.Equal(code, StatusCode(err))
				var e *Error
				if a.True(errors.As(err, &e)) && a.NotNil(e.Transport) {
					a.Equal(transport.KindHTTP, e.Transport.Kind)
					a.Equal("busy", string(e.Transport.Body))
					a.Equal(tc.op, e.Op)
				}
			}

			v, err := tc.call(c)
			require.NoError(t, err)
			a.Equal(tc.want, v)
			d.AssertExpectations(t)
		})
	}
}

func TestMalformedResponse(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		op   func(*Client) error
	}{
		{
			name: "capabilities",
			body: `<scan:ScannerCapabilities xmlns:scan="http://schemas.hp.com/imaging/escl/2011/05/03">`,
			op: func(c *Client) error {
				_, err := c.Capabilities(context.Background())
				return err
			},
		},
		{
			name: "status",
			body: `<html><body>login</body></html>`,
			op: func(c *Client) error {
				_, err := c.Status(context.Background())
				return err
			},
		},
		{
			name: "image info",
			body: ``,
			op: func(c *Client) error {
				_, err := c.ScanImageInfo(context.Background(), "/eSCL/ScanJobs/1/")
				return err
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := &mockDoer{}
			d.On("Do", mock.Anything).Return(response(http.StatusOK, nil, tc.body), nil).Once()
			err := tc.op(newTestClient(t, d))
			require.Error(t, err)
			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, KindMalformed, e.Kind)
			assert.Equal(t, tc.body, string(e.Body))
			assert.NotNil(t, e.Err)
		})
	}
}

func TestCreateJob(t *testing.T) {
	for _, tc := range []struct {
		location string
		want     string
	}{
		{location: "/eSCL/ScanJobs/123", want: "/eSCL/ScanJobs/123/"},
		{location: "/eSCL/ScanJobs/123/", want: "/eSCL/ScanJobs/123/"},
		{location: "http://192.168.1.20:80/eSCL/ScanJobs/9", want: "/eSCL/ScanJobs/9/"},
	} {
		t.Run(tc.location, func(t *testing.T) {
			a := assert.New(t)
			settings := testSettings()
			want, err := settings.Marshal()
			require.NoError(t, err)

			var body []byte
			d := &mockDoer{}
			d.On("Do", mock.MatchedBy(func(r *http.Request) bool {
				return r.Method == http.MethodPost &&
					r.URL.String() == "http://scanner/eSCL/ScanJobs" &&
					r.Header.Get("Content-Type") == "text/xml"
			})).Run(func(args mock.Arguments) {
				body, _ = io.ReadAll(args.Get(0).(*http.Request).Body)
			}).Return(response(http.StatusCreated, http.Header{"Location": {tc.location}}, ""), nil).Once()

			job, err := newTestClient(t, d).CreateJob(context.Background(), settings)
			require.NoError(t, err)
			a.Equal(tc.want, job.URI())
			a.Same(settings, job.Settings())
			a.False(job.Cancelled())
			a.Equal(string(want), string(body))
			d.AssertExpectations(t)
		})
	}
}

func TestCreateJobErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		resp   *http.Response
		kind   Kind
		expect error
	}{
		{
			name:   "no location",
			resp:   response(http.StatusCreated, nil, ""),
			kind:   KindNoLocationGiven,
			expect: ErrNoLocationGiven,
		},
		{
			name: "bad location",
			resp: response(http.StatusCreated, http.Header{"Location": {"http://[::1"}}, ""),
			kind: KindJobURLBuildingFailed,
		},
		{
			name: "root location",
			resp: response(http.StatusCreated, http.Header{"Location": {"/"}}, ""),
			kind: KindJobURLBuildingFailed,
		},
		{
			name: "busy",
			resp: response(http.StatusServiceUnavailable, nil, ""),
			kind: KindRequestFailure,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := &mockDoer{}
			d.On("Do", mock.Anything).Return(tc.resp, nil).Once()
			job, err := newTestClient(t, d).CreateJob(context.Background(), testSettings())
			assert.Nil(t, job)
			assert.Equal(t, tc.kind, KindOf(err))
			if tc.expect != nil {
				assert.True(t, errors.Is(err, tc.expect))
			}
		})
	}
}

func TestCreateJobNilSettings(t *testing.T) {
	_, err := newTestClient(t, &mockDoer{}).CreateJob(context.Background(), nil)
	assert.Equal(t, KindInternalBug, KindOf(err))
}

func TestNextPage(t *testing.T) {
	const url = "http://scanner/eSCL/ScanJobs/123/NextDocument"
	for _, tc := range []struct {
		name     string
		jobURI   string
		resp     *http.Response
		want     *Page
		wantKind Kind
		wantCode int
	}{
		{
			name:   "page",
			jobURI: "/eSCL/ScanJobs/123/",
			resp: response(http.StatusOK, http.Header{
				"Content-Type":     {"image/jpeg"},
				"Content-Location": {"/eSCL/ScanJobs/123/1"},
				"Accept-Ranges":    {"bytes"},
			}, "JPEG"),
			want: &Page{
				ContentType:     "image/jpeg",
				ContentLocation: "/eSCL/ScanJobs/123/1",
				Data:            []byte("JPEG"),
				AcceptRanges:    true,
			},
		},
		{
			name:   "no trailing slash",
			jobURI: "/eSCL/ScanJobs/123",
			resp:   response(http.StatusOK, http.Header{"Content-Type": {"application/pdf"}}, "%PDF"),
			want:   &Page{ContentType: "application/pdf", Data: []byte("%PDF")},
		},
		{
			name:   "absolute job uri",
			jobURI: "http://scanner/eSCL/ScanJobs/123/",
			resp:   response(http.StatusOK, http.Header{"Content-Type": {"image/png"}, "Accept-Ranges": {"none"}}, "PNG"),
			want:   &Page{ContentType: "image/png", Data: []byte("PNG")},
		},
		{
			name:     "no further pages",
			jobURI:   "/eSCL/ScanJobs/123/",
			resp:     response(http.StatusNotFound, nil, ""),
			wantKind: KindNoFurtherPages,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "busy",
			jobURI:   "/eSCL/ScanJobs/123/",
			resp:     response(http.StatusServiceUnavailable, nil, ""),
			wantKind: KindRequestFailure,
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "no content type",
			jobURI:   "/eSCL/ScanJobs/123/",
			resp:     response(http.StatusOK, nil, "data"),
			wantKind: KindContentTypeMissing,
			wantCode: http.StatusOK,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := &mockDoer{}
			d.On("Do", request(http.MethodGet, url)).Return(tc.resp, nil).Once()
			page, err := newTestClient(t, d).NextPage(context.Background(), tc.jobURI)
			d.AssertExpectations(t)
			if tc.wantKind != 0 {
				assert.Nil(t, page)
				assert.Equal(t, tc.wantKind, KindOf(err))
				assert.Equal(t, tc.wantCode, StatusCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, page)
		})
	}
}

func TestNextPageNoFurtherPagesIs(t *testing.T) {
	d := &mockDoer{}
	d.On("Do", mock.Anything).Return(response(http.StatusNotFound, nil, ""), nil).Once()
	_, err := newTestClient(t, d).NextPage(context.Background(), "/eSCL/ScanJobs/1/")
	assert.True(t, errors.Is(err, ErrNoFurtherPages))
	assert.False(t, errors.Is(err, ErrNoLocationGiven))
}

func TestContentTypeMissingBody(t *testing.T) {
	d := &mockDoer{}
	d.On("Do", mock.Anything).Return(response(http.StatusOK, nil, "data"), nil).Once()
	_, err := newTestClient(t, d).NextPage(context.Background(), "/eSCL/ScanJobs/1/")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "data", string(e.Body))
	assert.Equal(t, "escl next-page: content-type-missing (status 200)", e.Error())
}

func TestInvalidJobURI(t *testing.T) {
	for _, uri := range []string{"", "http://[::1", "ftp://scanner/eSCL/ScanJobs/1"} {
		t.Run(uri, func(t *testing.T) {
			c := newTestClient(t, &mockDoer{})
			_, err := c.NextPage(context.Background(), uri)
			assert.Equal(t, KindInvalidJobURI, KindOf(err))
			_, err = c.ScanImageInfo(context.Background(), uri)
			assert.Equal(t, KindInvalidJobURI, KindOf(err))
			assert.Equal(t, KindInvalidJobURI, KindOf(c.DeleteJob(context.Background(), uri)))
		})
	}
}

func TestCancel(t *testing.T) {
	a := assert.New(t)
	d := &mockDoer{}
	d.On("Do", request(http.MethodDelete, "http://scanner/eSCL/ScanJobs/123")).
		Return(response(http.StatusInternalServerError, nil, ""), nil).Once()
	d.On("Do", request(http.MethodDelete, "http://scanner/eSCL/ScanJobs/123")).
		Return(response(http.StatusOK, nil, ""), nil).Once()
	job := &ScanJob{c: newTestClient(t, d), uri: "/eSCL/ScanJobs/123/"}

	err := job.Cancel(context.Background())
	a.Equal(KindRequestFailure, KindOf(err))
	a.Equal(http.StatusInternalServerError, StatusCode(err))
	a.False(job.Cancelled())

	a.NoError(job.Cancel(context.Background()))
	a.True(job.Cancelled())
	d.AssertExpectations(t)
}

func TestJobStatus(t *testing.T) {
	for _, tc := range []struct {
		uri       string
		wantFound bool
		wantState model.JobState
	}{
		{uri: "/eSCL/ScanJobs/1/", wantFound: true, wantState: model.JobCompleted},
		{uri: "/eSCL/ScanJobs/2/", wantFound: true, wantState: model.JobProcessing},
		{uri: "/eSCL/ScanJobs/7/"},
	} {
		t.Run(tc.uri, func(t *testing.T) {
			d := &mockDoer{}
			d.On("Do", request(http.MethodGet, "http://scanner/eSCL/ScannerStatus")).
				Return(response(http.StatusOK, nil, testdata(t, "status.xml")), nil).Once()
			job := &ScanJob{c: newTestClient(t, d), uri: tc.uri}
			info, found, err := job.Status(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.wantFound, found)
			if tc.wantFound {
				assert.True(t, info.JobState.Is(tc.wantState))
			} else {
				assert.Nil(t, info)
			}
		})
	}
}

func TestScanImageInfo(t *testing.T) {
	d := &mockDoer{}
	d.On("Do", request(http.MethodGet, "http://scanner/eSCL/ScanJobs/2/ScanImageInfo")).
		Return(response(http.StatusOK, nil, testdata(t, "imageinfo.xml")), nil).Once()
	job := &ScanJob{c: newTestClient(t, d), uri: "/eSCL/ScanJobs/2/"}
	res, err := job.ImageInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(2550), res.Value.ActualWidth)
	assert.Empty(t, res.Unknown)
	d.AssertExpectations(t)
}

func TestTransportFailure(t *testing.T) {
	d := &mockDoer{}
	d.On("Do", mock.Anything).Return(nil, context.DeadlineExceeded).Once()
	_, err := newTestClient(t, d).Capabilities(context.Background())
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindRequestFailure, e.Kind)
	if assert.NotNil(t, e.Transport) {
		assert.Equal(t, transport.KindNetwork, e.Transport.Kind)
	}
	assert.Equal(t, 0, StatusCode(err))
}

func TestPanicRecovered(t *testing.T) {
	var logs bytes.Buffer
	d := &mockDoer{}
	d.On("Do", mock.Anything).Run(func(mock.Arguments) { panic("boom") })
	c, err := New("http://scanner/eSCL/", WithDoer(d), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, err = c.Status(context.Background())
	})
	assert.Equal(t, KindInternalBug, KindOf(err))
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "escl internal error")
}

func TestErrorString(t *testing.T) {
	for _, tc := range []struct {
		err  *Error
		want string
	}{
		{err: &Error{Op: opCreateJob, Kind: KindNoLocationGiven}, want: "escl create-job: no-location-given"},
		{err: &Error{Op: opNextPage, Kind: KindNoFurtherPages, StatusCode: 404}, want: "escl next-page: no-further-pages"},
		{
			err:  newError(opDeleteJob, KindInvalidJobURI, errors.New("empty job URI")),
			want: "escl delete-job: invalid-job-uri: empty job URI",
		},
		{err: &Error{Op: "x", Kind: Kind(42)}, want: "escl x: Kind(42)"},
	} {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

// TestScanSession runs a two page job against an HTTP server.
func TestScanSession(t *testing.T) {
	a := assert.New(t)
	pages := []string{"page-1", "page-2"}
	var deleted atomic.Bool
	capsXML := testdata(t, "capabilities.xml")
	statusXML := testdata(t, "status.xml")
	infoXML := testdata(t, "imageinfo.xml")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/eSCL/ScannerCapabilities":
			_, _ = io.WriteString(w, capsXML)
		case r.Method == http.MethodPost && r.URL.Path == "/eSCL/ScanJobs":
			w.Header().Set("Location", "/eSCL/ScanJobs/2")
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && r.URL.Path == "/eSCL/ScanJobs/2/NextDocument":
			if len(pages) == 0 {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = io.WriteString(w, pages[0])
			pages = pages[1:]
		case r.Method == http.MethodGet && r.URL.Path == "/eSCL/ScanJobs/2/ScanImageInfo":
			_, _ = io.WriteString(w, infoXML)
		case r.Method == http.MethodGet && r.URL.Path == "/eSCL/ScannerStatus":
			_, _ = io.WriteString(w, statusXML)
		case r.Method == http.MethodDelete && r.URL.Path == "/eSCL/ScanJobs/2":
			deleted.Store(true)
		default:
			http.Error(w, "unexpected", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c, err := New(srv.URL+"/eSCL", WithDoer(srv.Client()), WithLogger(quietLogger()), WithUserAgent("escl-test"))
	require.NoError(t, err)

	caps, err := c.Capabilities(ctx)
	require.NoError(t, err)
	platen, ok := caps.Value.SourceCaps(model.Platen, false)
	require.True(t, ok)

	settings := testSettings()
	settings.ScanRegions = optional.New(model.NewRegionBuilder(platen).MaxSize().Build())
	job, err := c.CreateJob(ctx, settings)
	require.NoError(t, err)
	a.Equal("/eSCL/ScanJobs/2/", job.URI())

	var got []string
	for {
		page, err := job.NextPage(ctx)
		if errors.Is(err, ErrNoFurtherPages) {
			break
		}
		require.NoError(t, err)
		a.Equal("image/jpeg", page.ContentType)
		got = append(got, string(page.Data))

		info, err := job.ImageInfo(ctx)
		require.NoError(t, err)
		a.Equal(uint(3300), info.Value.ActualHeight)
	}
	a.Equal([]string{"page-1", "page-2"}, got)

	info, found, err := job.Status(ctx)
	require.NoError(t, err)
	require.True(t, found)
	a.True(info.JobState.Is(model.JobProcessing))

	require.NoError(t, job.Cancel(ctx))
	a.True(job.Cancelled())
	a.True(deleted.Load())
}
