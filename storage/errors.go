package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a precondition violation detected before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIO marks a failure reported by the underlying filesystem or service.
	ErrIO = errors.New("io failure")
)

// Error records a failed storage operation.
type Error struct {
	Op   string
	Path string
	Kind error // ErrInvalidArgument or ErrIO
	Err  error
}

func (e *Error) Error() string {
	msg := "storage: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	if e.Kind != nil {
		return msg + ": " + e.Kind.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IOError wraps err as an ErrIO failure of op on path.
func IOError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Kind: ErrIO, Err: err}
}

// InvalidArgument reports a rejected argument of op.
func InvalidArgument(op, path, format string, args ...any) error {
	return &Error{Op: op, Path: path, Kind: ErrInvalidArgument, Err: fmt.Errorf(format, args...)}
}

// IsInvalidArgument reports whether err is a precondition violation.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
