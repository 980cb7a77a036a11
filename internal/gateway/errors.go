package gateway

import (
	"errors"
	"fmt"
)

// Kind distinguishes how a gateway call failed.
type Kind int

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport Kind = iota
	// KindServer means the backend answered with a non-2xx status.
	KindServer
)

// Error is the normalized outcome of a failed gateway call. Detail is the
// user-visible message; Status is set for KindServer only.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	cause  error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.cause }

// NewTransportError wraps a failure where no response reached the client.
func NewTransportError(op string, cause error) *Error {
	return &Error{
		Kind:   KindTransport,
		Detail: fmt.Sprintf("%s request failed: no response from inference service", op),
		cause:  cause,
	}
}

// NewServerError carries the message decoded from the backend's {detail}
// error shape; an empty detail falls back to a templated message.
func NewServerError(status int, detail string) *Error {
	if detail == "" {
		detail = fmt.Sprintf("server error (status %d)", status)
	}
	return &Error{Kind: KindServer, Status: status, Detail: detail}
}

// AsError extracts a gateway error from err's chain.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}
