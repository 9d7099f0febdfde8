package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func urlErr(err error) error { return &url.Error{Op: "Get", URL: "http://scanner/eSCL/ScannerStatus", Err: err} }

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want Kind
	}{
		{name: "unknown authority", err: urlErr(&tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}}), want: KindUntrustedCertificate},
		{name: "bare unknown authority", err: x509.UnknownAuthorityError{}, want: KindUntrustedCertificate},
		{name: "expired", err: urlErr(x509.CertificateInvalidError{Reason: x509.Expired}), want: KindUntrustedCertificate},
		{name: "hostname", err: urlErr(x509.HostnameError{Host: "scanner"}), want: KindUntrustedCertificate},
		{name: "dial", err: urlErr(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}), want: KindNetwork},
		{name: "dns", err: urlErr(&net.DNSError{Err: "no such host", Name: "scanner.local", IsNotFound: true}), want: KindNetwork},
		{name: "errno", err: fmt.Errorf("read: %w", syscall.ECONNRESET), want: KindNetwork},
		{name: "deadline", err: urlErr(context.DeadlineExceeded), want: KindNetwork},
		{name: "eof", err: urlErr(io.EOF), want: KindNetwork},
		{name: "unexpected eof", err: io.ErrUnexpectedEOF, want: KindNetwork},
		{name: "canceled", err: urlErr(context.Canceled), want: KindUnknown},
		{name: "other", err: errors.New("unsupported protocol scheme"), want: KindUnknown},
		{name: "url other", err: urlErr(errors.New("unsupported protocol scheme")), want: KindUnknown},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)
			got := Classify(tc.err)
			a.Equal(tc.want, got.Kind)
			a.True(errors.Is(got, tc.err))
		})
	}
}

func TestClassifyPassThrough(t *testing.T) {
	a := assert.New(t)
	a.Nil(Classify(nil))
	he := HTTPError(503, []byte("busy"))
	a.Same(he, Classify(errors.Wrap(he, "status")))
}

func TestErrorString(t *testing.T) {
	a := assert.New(t)
	a.Equal("transport http error: status 404", HTTPError(404, nil).Error())
	a.Equal("transport network error: boom", (&Error{Kind: KindNetwork, Err: errors.New("boom")}).Error())
	a.Equal("transport unknown error", (&Error{}).Error())
	a.Equal("untrusted-certificate", KindUntrustedCertificate.String())
	a.Equal("Kind(9)", Kind(9).String())
}
