package session

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by session operations.
var (
	// ErrNotFound indicates no matching device is attached.
	ErrNotFound = errors.New("device not found")

	// ErrTimeout indicates the poll attempt budget was exhausted while
	// the device was busy or a response never became ready. After a
	// timed-out configuration write the device state is indeterminate:
	// re-read the status before retrying.
	ErrTimeout = errors.New("device poll timed out")

	// ErrDeviceRejected indicates the device went idle without accepting
	// the operation (the program sequence counter did not advance after a
	// configuration write). Distinct from ErrTimeout so callers can tell
	// a clean rejection from an ambiguous outcome.
	ErrDeviceRejected = errors.New("device rejected the operation")
)

// IOError wraps a transport failure: device removed, report read or write
// refused. The engine never retries these; confirm device presence before
// re-issuing the whole operation.
type IOError struct {
	// Op is the transport operation that failed
	Op string

	// Err is the underlying transport error
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ioErr wraps a transport error with its operation name.
func ioErr(op string, err error) error {
	return &IOError{Op: op, Err: err}
}
