package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind buckets fetch failures for the UI. Cancellation is not a
// kind: a superseded request surfaces context.Canceled and callers
// discard it silently.
type ErrorKind int

const (
	// KindTransport means no response reached the server (DNS, refused
	// connection, captive portal). Retryable.
	KindTransport ErrorKind = iota + 1
	// KindServer is a 5xx response. Retryable via explicit user action.
	KindServer
	// KindClient is a 4xx response; retrying the same request will not
	// succeed.
	KindClient
)

// FetchError wraps a failed catalog request with its classification.
type FetchError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("catalog: server error (status %d)", e.Status)
	case KindClient:
		return fmt.Sprintf("catalog: rejected request (status %d)", e.Status)
	default:
		return fmt.Sprintf("catalog: request failed: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf extracts the error kind, or 0 for nil, cancellation, and
// non-catalog errors.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsCanceled reports whether the request was abandoned, either by
// supersession or teardown. Not an error condition. Timeouts are excluded
// on purpose: a request that ran out of time is a transport failure.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func statusError(status int) *FetchError {
	kind := KindClient
	if status >= 500 {
		kind = KindServer
	}
	return &FetchError{Kind: kind, Status: status}
}
