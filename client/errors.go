package client

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/andaru/escl/transport"
)

// Kind is the outcome class of a failed operation.
type Kind int

const (
	// KindRequestFailure means the request failed in transport or
	// returned a non-2xx status. Error.Transport has the details.
	KindRequestFailure Kind = iota + 1
	// KindMalformed means a 2xx response body could not be decoded.
	// Error.Body has the body.
	KindMalformed
	// KindInternalBug is a condition this package did not anticipate.
	KindInternalBug
	// KindNoLocationGiven means a created job's response had no Location.
	KindNoLocationGiven
	// KindJobURLBuildingFailed means the Location could not be parsed.
	KindJobURLBuildingFailed
	// KindInvalidJobURI means a job URI could not be resolved.
	KindInvalidJobURI
	// KindNoFurtherPages means the job has no more pages to retrieve.
	KindNoFurtherPages
	// KindContentTypeMissing means a page was returned without a
	// Content-Type. Error.StatusCode and Error.Body are set.
	KindContentTypeMissing
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailure:
		return "request-failure"
	case KindMalformed:
		return "malformed"
	case KindInternalBug:
		return "internal-bug"
	case KindNoLocationGiven:
		return "no-location-given"
	case KindJobURLBuildingFailed:
		return "job-url-building-failed"
	case KindInvalidJobURI:
		return "invalid-job-uri"
	case KindNoFurtherPages:
		return "no-further-pages"
	case KindContentTypeMissing:
		return "content-type-missing"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the error returned by every Client and ScanJob operation.
type Error struct {
	// Op is the operation, such as "capabilities" or "next-page".
	Op   string
	Kind Kind
	// Transport is set for KindRequestFailure.
	Transport  *transport.Error
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("escl %s: %s", e.Op, e.Kind)
	switch {
	case e.Kind == KindContentTypeMissing:
		s += fmt.Sprintf(" (status %d)", e.StatusCode)
	case e.Err != nil:
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so errors.Is(err,
// ErrNoFurtherPages) works for errors from any operation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// ErrNoFurtherPages matches the error NextPage returns once the job has no more pages.
	ErrNoFurtherPages = &Error{Kind: KindNoFurtherPages}
	// ErrNoLocationGiven matches a CreateJob response without a Location header.
	ErrNoLocationGiven = &Error{Kind: KindNoLocationGiven}
)

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusCode returns the HTTP status of a failed request, or 0.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return 0
	}
	if e.Transport != nil && e.Transport.Kind == transport.KindHTTP {
		return e.Transport.StatusCode
	}
	return e.StatusCode
}

func requestFailure(op string, err error) *Error {
	te := transport.Classify(err)
	return &Error{Op: op, Kind: KindRequestFailure, Transport: te, Err: te}
}

func malformed(op string, body []byte, err error) *Error {
	return &Error{Op: op, Kind: KindMalformed, Body: body, Err: err}
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
