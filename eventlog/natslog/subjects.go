// Package natslog implements eventlog.Log against NATS JetStream: one
// stream per aggregate family, one subject per aggregate, and optimistic
// concurrency via the Nats-Expected-Last-Subject-Sequence header compared
// against that subject's last stream sequence.
package natslog

import (
	"fmt"

	"infracore/event"
)

// Subject builds the single subject an aggregate's events are published and
// read on: infrastructure.<family>.<aggregate_id>. Every event for an
// aggregate lands on this one subject regardless of event type, so
// JetStream's per-subject last-sequence is exactly the aggregate's version
// counter and can back optimistic concurrency directly.
func Subject(family event.Family, aggregateID event.ID) string {
	return fmt.Sprintf("infrastructure.%s.%s", family, aggregateID)
}

// FamilyFilter builds the wildcard subject that selects every aggregate's
// events within a family, used by projectors subscribing across aggregates.
func FamilyFilter(family event.Family) string {
	return fmt.Sprintf("infrastructure.%s.*", family)
}

// StreamName is the JetStream stream name backing a family.
func StreamName(family event.Family) string {
	return fmt.Sprintf("INFRASTRUCTURE_%s", family)
}
