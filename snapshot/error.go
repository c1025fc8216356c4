package snapshot

import (
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadSnapshot  = NewError("failed to read snapshot")
	ErrDecodeYAML    = NewError("failed to decode snapshot YAML")
	ErrNoDocument    = NewError("snapshot has no document section")
	ErrDuplicateName = NewError("duplicate parameter name")
	ErrUnknownUnit   = NewError("unknown unit")
	ErrExprCompile   = NewError("expression compilation failed")
	ErrExprEvaluate  = NewError("expression evaluation failed")
	ErrExprType      = NewError("expression is not numeric")
	ErrExprCycle     = NewError("parameter expressions form a cycle")
	ErrBadSketch     = NewError("sketch references unknown component")
)

// Error represents a snapshot error with optional structured logging
// attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches errors sharing this error's message, so errors derived from a
// sentinel by Wrap and With still satisfy errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}
