package betterstack

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is matched by every TransportError.
	ErrTransport = errors.New("better stack request failed")

	// ErrUnsupportedOperation is matched by every UnsupportedOperationError.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrMalformedInput is matched by every MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")

	// ErrPageLimitExceeded is returned when pagination follows more pages than
	// the client allows.
	ErrPageLimitExceeded = errors.New("pagination page limit exceeded")

	// ErrMissingToken is returned when a client is built without an API token.
	ErrMissingToken = errors.New("better stack API token is required")
)

// TransportError reports a network failure or a non-2xx backend response.
type TransportError struct {
	Method     string
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Message    string // errors[0].detail or errors[0].title when the backend sent one
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Endpoint, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s %s: request failed", e.Method, e.Endpoint)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// UnsupportedOperationError is returned when an operation name is not one of
// the operations a resource supports.
type UnsupportedOperationError struct {
	Resource  string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("the operation %q is not supported for resource %q", e.Operation, e.Resource)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// MalformedInputError reports a parameter or payload that could not be parsed.
type MalformedInputError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed value for %s %q: %v", e.Field, e.Value, e.Err)
	}

	return fmt.Sprintf("malformed value for %s %q", e.Field, e.Value)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// IsTransportError reports whether err is or wraps a TransportError.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsUnsupportedOperation reports whether err is or wraps an UnsupportedOperationError.
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsMalformedInput reports whether err is or wraps a MalformedInputError.
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}
