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

	"github.com/pkg/errors"
)

// Kind classifies a transport failure.
type Kind int

const (
	// KindUnknown is any failure not otherwise classified.
	KindUnknown Kind = iota
	// KindNetwork is a connectivity, resolution or timeout failure.
	KindNetwork
	// KindUntrustedCertificate is a TLS certificate verification failure.
	KindUntrustedCertificate
	// KindHTTP is a non-2xx response status.
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindNetwork:
		return "network"
	case KindUntrustedCertificate:
		return "untrusted-certificate"
	case KindHTTP:
		return "http"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a transport failure.
type Error struct {
	Kind Kind
	// StatusCode and Body are set for KindHTTP.
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTP:
		return fmt.Sprintf("transport %s error: status %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("transport %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("transport %s error", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPError returns a KindHTTP error.
func HTTPError(code int, body []byte) *Error {
	return &Error{Kind: KindHTTP, StatusCode: code, Body: body}
}

// Classify returns err as an *Error. Errors which already are an *Error
// are returned unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	var (
		unknownAuthority x509.UnknownAuthorityError
		invalidCert      x509.CertificateInvalidError
		hostname         x509.HostnameError
		verification     *tls.CertificateVerificationError
	)
	switch {
	case errors.As(err, &unknownAuthority),
		errors.As(err, &invalidCert),
		errors.As(err, &hostname),
		errors.As(err, &verification):
		return KindUntrustedCertificate
	case errors.Is(err, context.Canceled):
		return KindUnknown
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return KindNetwork
	}

	// *url.Error is itself a net.Error, so look at what it wraps
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	var (
		ne    net.Error
		errno syscall.Errno
	)
	switch {
	case errors.As(err, &ne), errors.As(err, &errno):
		return KindNetwork
	}
	return KindUnknown
}
