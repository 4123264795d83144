// Package eventlog defines the event log contract (§4.6) and its two
// implementations: memlog for tests and in-process use, natslog against
// NATS JetStream in production.
package eventlog

import (
	"context"
	"fmt"
	"time"

	"infracore/event"
)

// Log is the operations exposed to the rest of the core. Implementations
// must provide strict per-aggregate ordering and all-or-nothing batch
// append observability; cross-aggregate ordering is not guaranteed.
type Log interface {
	// Append appends events atomically. If expectedVersion is non-nil, the
	// append only succeeds when the aggregate's current version equals
	// *expectedVersion; otherwise it returns a *ConcurrencyError. An empty
	// batch is a no-op that returns the current version.
	Append(ctx context.Context, aggregateID event.ID, events []event.Envelope, expectedVersion *uint64) (newVersion uint64, err error)

	ReadEvents(ctx context.Context, aggregateID event.ID) ([]event.Stored, error)
	ReadEventsFrom(ctx context.Context, aggregateID event.ID, fromVersion uint64) ([]event.Stored, error)
	ReadByCorrelation(ctx context.Context, correlationID event.CorrelationID) ([]event.Stored, error)
	ReadEventsByTimeRange(ctx context.Context, aggregateID event.ID, from, to time.Time) ([]event.Stored, error)

	// GetVersion returns the aggregate's current version, or 0 if it has no
	// events yet.
	GetVersion(ctx context.Context, aggregateID event.ID) (uint64, error)
}

// ConcurrencyError signals that Append's expectedVersion did not match the
// aggregate's current version. It is never transient and is never retried
// automatically by the service layer.
type ConcurrencyError struct {
	AggregateID     event.ID
	ExpectedVersion uint64
	ActualVersion   uint64
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("eventlog: concurrency conflict on %s: expected version %d, actual %d",
		e.AggregateID, e.ExpectedVersion, e.ActualVersion)
}

// TransientError wraps a recoverable transport failure (broker unreachable,
// request timed out mid-flight). The Log implementations in this module
// return it after a single failed attempt; they do not retry.
type TransientError struct {
	Op    string
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("eventlog: transient error during %s: %v", e.Op, e.Cause)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// SchemaError signals that a stored record could not be brought to its
// current schema version — either no upcaster chain covers the stored
// version, or the chain itself failed. Fatal for the record in question.
type SchemaError struct {
	AggregateID event.ID
	Cause       error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("eventlog: schema error reading %s: %v", e.AggregateID, e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }
