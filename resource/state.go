package resource

import (
	"time"

	"infracore/event"
)

// State is the pure, immutable ComputeResource aggregate state. Every field
// past AggregateID is optional until the corresponding event has been
// applied. State is never mutated in place; Apply always returns a new
// value.
type State struct {
	AggregateID event.ID

	Initialized bool
	Hostname    Hostname
	ResourceType ResourceType
	Status      Status

	OrganizationID string
	LocationID     string
	OwnerID        string
	PolicyIDs      map[string]bool

	AccountConceptID string

	Manufacturer string
	Model        string
	SerialNumber string
	AssetTag     string

	Metadata map[MetadataKey]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Empty is the zero aggregate state, the starting point of every fold.
func Empty() State {
	return State{}
}

// clone produces a deep-enough copy of s for the one or two map fields that
// Apply might touch, so that the returned state never aliases the input's
// mutable fields.
func (s State) clone() State {
	next := s
	next.PolicyIDs = make(map[string]bool, len(s.PolicyIDs))
	for k, v := range s.PolicyIDs {
		next.PolicyIDs[k] = v
	}
	next.Metadata = make(map[MetadataKey]string, len(s.Metadata))
	for k, v := range s.Metadata {
		next.Metadata[k] = v
	}
	return next
}

// Apply is pure, total, and deterministic: it never fails (events are
// already-decided facts), never consults the clock, and never mutates s.
// Every event, recognized or not, sets UpdatedAt to its timestamp;
// unrecognized payload types change nothing else, the same
// forward-compatible stance the teacher's aggregates take toward event
// types introduced by a newer version of the writer.
func Apply(s State, env event.Envelope) State {
	next := s.clone()
	next.UpdatedAt = env.Timestamp

	switch e := env.Payload.(type) {
	case ResourceRegistered:
		next.AggregateID = env.AggregateID
		next.Initialized = true
		next.Hostname = e.Hostname
		next.ResourceType = e.ResourceType
		next.Status = StatusProvisioning
		next.CreatedAt = env.Timestamp
	case OrganizationAssigned:
		next.OrganizationID = e.OrganizationID
	case LocationAssigned:
		next.LocationID = e.LocationID
	case OwnerAssigned:
		next.OwnerID = e.OwnerID
	case PolicyAdded:
		next.PolicyIDs[e.PolicyID] = true
	case PolicyRemoved:
		delete(next.PolicyIDs, e.PolicyID)
	case AccountConceptAssigned:
		next.AccountConceptID = e.AccountConceptID
	case AccountConceptCleared:
		next.AccountConceptID = ""
	case HardwareDetailsSet:
		next.Manufacturer = e.Manufacturer
		next.Model = e.Model
		next.SerialNumber = e.SerialNumber
	case AssetTagAssigned:
		next.AssetTag = e.AssetTag
	case MetadataUpdated:
		next.Metadata[e.Key] = e.Value
	case StatusChanged:
		next.Status = e.ToStatus
	}
	return next
}

// FromEvents reconstructs state from any prefix of the log:
// fold(empty_state, events, Apply).
func FromEvents(events []event.Envelope) State {
	s := Empty()
	for _, e := range events {
		s = Apply(s, e)
	}
	return s
}

// HasPolicy reports whether policyID is currently attached.
func (s State) HasPolicy(policyID string) bool {
	return s.PolicyIDs[policyID]
}
