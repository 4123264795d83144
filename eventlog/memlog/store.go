// Package memlog is an in-process Log implementation for tests and for
// exercising the service and projection layers without a broker, built the
// way the teacher's InMemoryEventBus builds its in-memory collaborator: a
// mutex-guarded map standing in for the durable backend.
package memlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"infracore/event"
	"infracore/eventlog"
)

type stream struct {
	events []event.Stored
}

// Store is an in-memory eventlog.Log. All state lives in process memory and
// is lost on restart; it exists for tests and local development.
type Store struct {
	mu        sync.Mutex
	streams   map[event.ID]*stream
	byCorrelation map[event.CorrelationID][]event.Stored
}

func New() *Store {
	return &Store{
		streams:       make(map[event.ID]*stream),
		byCorrelation: make(map[event.CorrelationID][]event.Stored),
	}
}

func (s *Store) Append(ctx context.Context, aggregateID event.ID, events []event.Envelope, expectedVersion *uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streams[aggregateID]
	if !ok {
		st = &stream{}
		s.streams[aggregateID] = st
	}
	current := uint64(len(st.events))

	if len(events) == 0 {
		return current, nil
	}

	if expectedVersion != nil && *expectedVersion != current {
		return 0, &eventlog.ConcurrencyError{AggregateID: aggregateID, ExpectedVersion: *expectedVersion, ActualVersion: current}
	}

	for i, env := range events {
		stored := event.Stored{Sequence: current + uint64(i) + 1, Envelope: env}
		st.events = append(st.events, stored)
		s.byCorrelation[env.CorrelationID] = append(s.byCorrelation[env.CorrelationID], stored)
	}

	return current + uint64(len(events)), nil
}

func (s *Store) ReadEvents(ctx context.Context, aggregateID event.ID) ([]event.Stored, error) {
	return s.ReadEventsFrom(ctx, aggregateID, 0)
}

func (s *Store) ReadEventsFrom(ctx context.Context, aggregateID event.ID, fromVersion uint64) ([]event.Stored, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streams[aggregateID]
	if !ok {
		return nil, nil
	}
	out := make([]event.Stored, 0, len(st.events))
	for _, ev := range st.events {
		if ev.Sequence > fromVersion {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Store) ReadByCorrelation(ctx context.Context, correlationID event.CorrelationID) ([]event.Stored, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.byCorrelation[correlationID]
	out := make([]event.Stored, len(found))
	copy(out, found)
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Envelope.Timestamp, out[j].Envelope.Timestamp
		if ti.Equal(tj) {
			return out[i].Envelope.EventID.String() < out[j].Envelope.EventID.String()
		}
		return ti.Before(tj)
	})
	return out, nil
}

func (s *Store) ReadEventsByTimeRange(ctx context.Context, aggregateID event.ID, from, to time.Time) ([]event.Stored, error) {
	all, err := s.ReadEvents(ctx, aggregateID)
	if err != nil {
		return nil, err
	}
	out := make([]event.Stored, 0, len(all))
	for _, ev := range all {
		ts := ev.Envelope.Timestamp
		if (ts.Equal(from) || ts.After(from)) && (ts.Equal(to) || ts.Before(to)) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Store) GetVersion(ctx context.Context, aggregateID event.ID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streams[aggregateID]
	if !ok {
		return 0, nil
	}
	return uint64(len(st.events)), nil
}

var _ eventlog.Log = (*Store)(nil)
