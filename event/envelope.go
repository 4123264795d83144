// Package event defines the polymorphic event envelope, identifiers, and the
// upcasting machinery that brings older stored records to the current
// schema on read. Nothing in this package performs I/O.
package event

import "time"

// Family names the aggregate family an event belongs to. The wire envelope
// tags every event with its family so that a single stream (or a single
// subject hierarchy) can carry more than one kind of aggregate.
type Family string

const (
	FamilyComputeResource Family = "ComputeResource"
	// Reserved for future aggregate families; the envelope format already
	// accommodates them, nothing in this core emits them yet.
	FamilyNetwork Family = "Network"
	FamilyStorage Family = "Storage"
)

// Payload is implemented by every typed event payload (ResourceRegistered,
// StatusChanged, ...). CurrentVersion reports the schema version the struct
// represents; it is used both when writing (to stamp EventVersion) and by
// the upcaster registry (as the terminal version of a chain).
type Payload interface {
	EventType() string
	CurrentVersion() uint32
}

// Envelope is the on-wire, on-log record: identity, ordering, causation,
// and a typed payload. Envelope itself never mutates after construction.
type Envelope struct {
	AggregateType Family
	EventType     string
	EventVersion  uint32
	EventID       ID
	AggregateID   ID
	Timestamp     time.Time
	CorrelationID CorrelationID
	CausationID   CausationID // zero value means "no causation" (root event)
	Payload       Payload
}

// HasCausation reports whether the envelope carries a causation id.
func (e Envelope) HasCausation() bool {
	return !e.CausationID.IsZero()
}

// New builds an envelope around a freshly-decided payload. It is the single
// point where the three identifiers (event id, correlation id, causation
// id) and the timestamp come together; the service layer is the only
// caller, and it supplies every non-deterministic input explicitly rather
// than letting Envelope read the clock or mint ids itself.
func New(family Family, aggregateID ID, eventID ID, at time.Time, correlation CorrelationID, causation CausationID, payload Payload) Envelope {
	return Envelope{
		AggregateType: family,
		EventType:     payload.EventType(),
		EventVersion:  payload.CurrentVersion(),
		EventID:       eventID,
		AggregateID:   aggregateID,
		Timestamp:     at,
		CorrelationID: correlation,
		CausationID:   causation,
		Payload:       payload,
	}
}

// Stored is a stream position paired with the envelope read back from the
// log: the log implementation is the only thing that knows the per-aggregate
// sequence number an envelope occupies.
type Stored struct {
	Sequence uint64 // 1-based position within the aggregate's stream
	Envelope Envelope
}
