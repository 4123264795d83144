// Package service orchestrates the per-command flow of §4.7: load, fold,
// handle, append, notify.
package service

import "fmt"

// ErrorKind classifies a ServiceError by which stage of the §4.7 flow
// produced it, composing the eventlog/event/resource taxonomies into one
// shape callers can switch on without reaching into each subpackage.
type ErrorKind string

const (
	KindCommand     ErrorKind = "command"     // *resource.CommandError
	KindConcurrency ErrorKind = "concurrency" // *eventlog.ConcurrencyError
	KindLog         ErrorKind = "log"         // transient/schema eventlog errors
	KindNotify      ErrorKind = "notify"      // publish to the notification subject failed
)

// Error wraps a failure from any stage of the service flow while
// preserving the causal chain back to the underlying error.
type Error struct {
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("service: %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }
