// Package errors provides error wrapping that carries structured logging
// attributes alongside the usual error chain.
package errors

import (
	"errors"
	"log/slog"
)

// annotatedError is an error with a message and optional slog attributes.
// Wrapping preserves the full chain so std errors.Is/As keep working.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewSentinel creates an error intended to be used as a sentinel value.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg, err: nil, attrs: nil}
}

// New creates an error with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: nil, attrs: attrs}
}

// Wrap annotates err with a message and attributes. Returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{msg: msg, err: err, attrs: attrs}
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// SlogError converts an error into a slog attribute containing the error
// message and any attributes collected along the wrap chain.
func SlogError(err error) slog.Attr {
	attrs := []any{slog.String("message", err.Error())}
	for current := err; current != nil; current = errors.Unwrap(current) {
		var annotated *annotatedError
		if errors.As(current, &annotated) {
			for _, attr := range annotated.attrs {
				attrs = append(attrs, attr)
			}
			current = annotated
		}
	}
	return slog.Group("error", attrs...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps a multi-error join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
