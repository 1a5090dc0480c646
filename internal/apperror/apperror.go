// Package apperror classifies failures of the availability and pricing engine.
//
// Engine code never decides how a failure is presented; it only tags the error
// with a Kind. The HTTP layer maps kinds to status codes.
package apperror

import (
	"errors"
	"fmt"
)

// Kind is the failure class. A Kind is itself an error so callers can write
// errors.Is(err, apperror.InvalidInput).
type Kind string

const (
	InvalidInput           Kind = "invalid input"
	ConfigurationMissing   Kind = "configuration missing"
	ConfigurationMalformed Kind = "configuration malformed"
	NoApplicableZone       Kind = "no applicable zone"
	NotFound               Kind = "not found"
)

func (k Kind) Error() string { return string(k) }

// Error is a classified failure with a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. The outer kind wins over any kind carried by err.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the outermost Kind in err's chain, or "" for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

// Message returns the caller-facing message of the outermost classified error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
