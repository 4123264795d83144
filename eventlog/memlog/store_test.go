package memlog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/event"
	"infracore/eventlog"
)

type stubPayload struct{ N int }

func (stubPayload) EventType() string      { return "Stub" }
func (stubPayload) CurrentVersion() uint32 { return 1 }

func stubEnvelope(ids *event.IDSource, aggregateID event.ID, at time.Time, n int) event.Envelope {
	return event.New(event.FamilyComputeResource, aggregateID, ids.New(at), at, event.NewCorrelationID(), event.CausationID{}, stubPayload{N: n})
}

func TestStore_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := New()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	v, err := s.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, now, 1)}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	events, err := s.ReadEvents(ctx, aggregateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(1), events[0].Sequence)
}

func TestStore_AppendEmptyBatchIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := New()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())

	v, err := s.Append(ctx, aggregateID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

// TestStore_ConcurrencyConflict exercises §8 Scenario D: two writers read
// the same version and race to append with the same expected_version;
// exactly one succeeds.
func TestStore_ConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	s := New()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, now, i)}, nil)
		require.NoError(t, err)
	}

	expected := uint64(5)
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, now, 100+i)}, &expected)
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		default:
			_, ok := err.(*eventlog.ConcurrencyError)
			require.True(t, ok, "unexpected error type: %v", err)
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	finalVersion, err := s.GetVersion(ctx, aggregateID)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), finalVersion)
}

func TestStore_ReadEventsFrom(t *testing.T) {
	ctx := context.Background()
	s := New()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, now, i)}, nil)
		require.NoError(t, err)
	}

	tail, err := s.ReadEventsFrom(ctx, aggregateID, 1)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, uint64(2), tail[0].Sequence)
}

func TestStore_ReadByCorrelation(t *testing.T) {
	ctx := context.Background()
	s := New()
	ids := event.NewIDSource()
	a1, a2 := ids.New(time.Now()), ids.New(time.Now())
	corr := event.NewCorrelationID()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	e1 := event.New(event.FamilyComputeResource, a1, ids.New(now), now, corr, event.CausationID{}, stubPayload{N: 1})
	e2 := event.New(event.FamilyComputeResource, a2, ids.New(now.Add(time.Second)), now.Add(time.Second), corr, event.CausationID{}, stubPayload{N: 2})

	_, err := s.Append(ctx, a1, []event.Envelope{e1}, nil)
	require.NoError(t, err)
	_, err = s.Append(ctx, a2, []event.Envelope{e2}, nil)
	require.NoError(t, err)

	out, err := s.ReadByCorrelation(ctx, corr)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Envelope.Timestamp.Before(out[1].Envelope.Timestamp))
}
