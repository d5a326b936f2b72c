// Package errors carries the failures termdash shows to a user: what went
// wrong, the underlying cause, and what to try next.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Failure areas. Callers branch on these with IsCode.
const (
	ErrConfig   = "CONFIG"
	ErrSensor   = "SENSOR"
	ErrRender   = "RENDER"
	ErrTerminal = "TERMINAL"
)

// Error is a user-facing failure. Its text is a headline marked with ✗,
// then the cause and the suggestion as indented paragraphs when present.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

func New(code, message, suggestion string) *Error {
	return WrapWithCode(nil, code, message, suggestion)
}

// Wrap attaches a headline to err. The code is ErrSensor, since most
// wrapped failures come from reading the machine.
func Wrap(err error, message string) *Error {
	return WrapWithCode(err, ErrSensor, message, "")
}

func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

// SensorUnavailable reports that a single metric could not be read this tick.
func SensorUnavailable(metric string, cause error) *Error {
	return Wrap(cause, metric+" unavailable")
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s\n", e.Message)
	for _, para := range e.details() {
		fmt.Fprintf(&b, "\n  %s\n", para)
	}
	return b.String()
}

// details lists the indented paragraphs under the headline, cause first.
func (e *Error) details() []string {
	var out []string
	if e.Cause != nil {
		out = append(out, e.Cause.Error())
	}
	if e.Suggestion != "" {
		out = append(out, e.Suggestion)
	}
	return out
}

func (e *Error) Unwrap() error { return e.Cause }

// IsCode reports whether err, or anything it wraps, is an *Error with code.
func IsCode(err error, code string) bool {
	var target *Error
	return errors.As(err, &target) && target.Code == code
}
