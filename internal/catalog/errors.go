package catalog

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Client wraps exactly one of these,
// so callers classify with errors.Is.
var (
	ErrNetwork  = errors.New("catalog unreachable")
	ErrDecode   = errors.New("malformed catalog payload")
	ErrNotFound = errors.New("character not found")
)

// Error describes a failed catalog operation.
type Error struct {
	Op     string // fetch-page, fetch-by-name, fetch-by-id, fetch-by-ids
	Kind   error  // ErrNetwork, ErrDecode or ErrNotFound
	Status int    // HTTP status when one was received
	Err    error
}

func (e *Error) Error() string {
	var msg string
	switch {
	case e.Status > 0 && e.Err != nil:
		msg = fmt.Sprintf("%s: %v (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	case e.Status > 0:
		msg = fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.Status)
	case e.Err != nil:
		msg = fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		msg = fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func networkError(op string, status int, err error) error {
	return &Error{Op: op, Kind: ErrNetwork, Status: status, Err: err}
}

func decodeError(op string, err error) error {
	return &Error{Op: op, Kind: ErrDecode, Err: err}
}

func notFoundError(op string) error {
	return &Error{Op: op, Kind: ErrNotFound, Status: 404}
}
