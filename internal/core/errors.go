package core

import "strings"

// ErrorKind discriminates the harness error taxonomy.
type ErrorKind int

const (
	// KindConfig is a startup validation failure; its message enumerates
	// every violated input, one per line.
	KindConfig ErrorKind = iota
	// KindResponse wraps a transport or status failure from one HTTP
	// exchange, preserving the underlying error as its cause.
	KindResponse
	// KindRun aggregates the per-repetition failures of one action's
	// execution, in occurrence order.
	KindRun
)

// Error is the harness error type. Errors are values: a KindRun error
// from one action never halts the rest of the sweep.
type Error struct {
	kind     ErrorKind
	message  string
	cause    error
	failures []string
}

// ConfigError returns a KindConfig error carrying the aggregated
// violation message.
func ConfigError(message string) *Error {
	return &Error{kind: KindConfig, message: message}
}

// ResponseError returns a KindResponse error. Either argument may be
// zero; the cause, when present, survives for errors.Is/As chains.
func ResponseError(message string, cause error) *Error {
	return &Error{kind: KindResponse, message: message, cause: cause}
}

// RunError returns a KindRun error carrying the failure messages in
// occurrence order.
func RunError(failures []string) *Error {
	return &Error{kind: KindRun, failures: failures}
}

func (e *Error) Kind() ErrorKind { return e.kind }

// Failures returns the per-repetition messages of a KindRun error.
func (e *Error) Failures() []string { return e.failures }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Error() string {
	switch e.kind {
	case KindRun:
		return strings.Join(e.failures, "\n")
	case KindResponse:
		if e.message != "" && e.cause != nil {
			return e.message + ": " + e.cause.Error()
		}
		if e.cause != nil {
			return e.cause.Error()
		}
		return e.message
	default:
		return e.message
	}
}
