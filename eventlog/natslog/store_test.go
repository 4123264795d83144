package natslog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"infracore/compress"
	"infracore/event"
	"infracore/eventlog"
)

// testNatsContainer manages a JetStream-enabled NATS container for
// integration tests, grounded in the teacher's TestRedisContainer shape
// from redisstream's event bus tests.
type testNatsContainer struct {
	container testcontainers.Container
	url       string
}

func newTestNatsContainer(ctx context.Context) (*testNatsContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "nats:2-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "4222")
	if err != nil {
		return nil, err
	}

	return &testNatsContainer{
		container: container,
		url:       fmt.Sprintf("nats://%s:%s", host, port.Port()),
	}, nil
}

func (c *testNatsContainer) Close(ctx context.Context) error {
	return c.container.Terminate(ctx)
}

type stubPayload struct{ N int }

func (stubPayload) EventType() string      { return "Stub" }
func (stubPayload) CurrentVersion() uint32 { return 1 }

// stubPayloadTwo is a second, distinct event type on the same aggregate —
// used to exercise that optimistic concurrency is enforced per aggregate,
// not per event type.
type stubPayloadTwo struct{ S string }

func (stubPayloadTwo) EventType() string      { return "StubTwo" }
func (stubPayloadTwo) CurrentVersion() uint32 { return 1 }

func testCodec() *event.Codec {
	payloads := event.NewPayloadRegistry()
	payloads.Register(stubPayload{})
	payloads.Register(stubPayloadTwo{})
	payloads.Register(stubPayloadLarge{})
	return event.NewCodec(payloads, event.NewUpcasterRegistry())
}

func stubEnvelope(ids *event.IDSource, aggregateID event.ID, at time.Time, n int) event.Envelope {
	return event.New(event.FamilyComputeResource, aggregateID, ids.New(at), at, event.NewCorrelationID(), event.CausationID{}, stubPayload{N: n})
}

func stubEnvelopeTwo(ids *event.IDSource, aggregateID event.ID, at time.Time, s string) event.Envelope {
	return event.New(event.FamilyComputeResource, aggregateID, ids.New(at), at, event.NewCorrelationID(), event.CausationID{}, stubPayloadTwo{S: s})
}

// stubPayloadLarge is big enough to cross compress.MinSize, exercising the
// compression path that stubPayload's tiny body never reaches.
type stubPayloadLarge struct{ Blob string }

func (stubPayloadLarge) EventType() string      { return "StubLarge" }
func (stubPayloadLarge) CurrentVersion() uint32 { return 1 }

func stubEnvelopeLarge(ids *event.IDSource, aggregateID event.ID, at time.Time, blob string) event.Envelope {
	return event.New(event.FamilyComputeResource, aggregateID, ids.New(at), at, event.NewCorrelationID(), event.CausationID{}, stubPayloadLarge{Blob: blob})
}

// newTestStore skips the test unless CI has Docker available, since this
// suite drives a real JetStream server rather than a fake. Pass configure
// funcs to override Config fields beyond the URL and FetchTimeout.
func newTestStore(t *testing.T, configure ...func(*Config)) (*Store, func()) {
	t.Helper()
	ctx := context.Background()

	nats, err := newTestNatsContainer(ctx)
	if err != nil {
		t.Skipf("natslog: docker unavailable, skipping integration test: %v", err)
	}

	cfg := Config{URL: nats.url, FetchTimeout: time.Second}
	for _, fn := range configure {
		fn(&cfg)
	}

	store, err := New(cfg, event.FamilyComputeResource, testCodec())
	require.NoError(t, err)

	cleanup := func() {
		store.Close()
		_ = nats.Close(ctx)
	}
	return store, cleanup
}

func TestStore_AppendAndReadEvents(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	v, err := store.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, at, 1)}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	events, err := store.ReadEvents(ctx, aggregateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(1), events[0].Sequence)
}

// TestStore_ConcurrencyConflict covers Testable Property 8: an append with
// a stale expected version is rejected as a ConcurrencyError rather than
// silently applied.
func TestStore_ConcurrencyConflict(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	expected := uint64(0)
	_, err := store.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, at, 1)}, &expected)
	require.NoError(t, err)

	_, err = store.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, at, 2)}, &expected)
	require.Error(t, err)
	var concurrencyErr *eventlog.ConcurrencyError
	require.ErrorAs(t, err, &concurrencyErr)
	assert.Equal(t, uint64(1), concurrencyErr.ActualVersion)
}

// TestStore_AppendAcrossEventTypes_Sequentially checks that two different
// event types on the same aggregate share one subject, so the
// second append's expected-sequence header is checked against the first
// append's actual message, not against an empty subject.
func TestStore_AppendAcrossEventTypes_Sequentially(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	v, err := store.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, at, 1)}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = store.Append(ctx, aggregateID, []event.Envelope{stubEnvelopeTwo(ids, aggregateID, at, "a")}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	events, err := store.ReadEvents(ctx, aggregateID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.IsType(t, stubPayload{}, events[0].Envelope.Payload)
	assert.IsType(t, stubPayloadTwo{}, events[1].Envelope.Payload)
}

// TestStore_ConcurrencyConflict_AcrossEventTypes covers Testable Property 8
// and Scenario D together: a stale expected version is rejected even when
// the conflicting append targets a different event type than the one
// already recorded.
func TestStore_ConcurrencyConflict_AcrossEventTypes(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	expected := uint64(0)
	_, err := store.Append(ctx, aggregateID, []event.Envelope{stubEnvelope(ids, aggregateID, at, 1)}, &expected)
	require.NoError(t, err)

	_, err = store.Append(ctx, aggregateID, []event.Envelope{stubEnvelopeTwo(ids, aggregateID, at, "a")}, &expected)
	require.Error(t, err)
	var concurrencyErr *eventlog.ConcurrencyError
	require.ErrorAs(t, err, &concurrencyErr)
	assert.Equal(t, uint64(1), concurrencyErr.ActualVersion)
}

// TestStore_AppendAndReadEvents_WithCompression covers the ambient
// compression path: a payload large enough to cross compress.MinSize is
// compressed on write and decompressed transparently on read.
func TestStore_AppendAndReadEvents_WithCompression(t *testing.T) {
	store, cleanup := newTestStore(t, func(c *Config) { c.Compression = compress.LZ4 })
	defer cleanup()

	ctx := context.Background()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	blob := strings.Repeat("infrastructure-node-telemetry-", 64)
	require.GreaterOrEqual(t, len(blob), compress.MinSize)

	_, err := store.Append(ctx, aggregateID, []event.Envelope{stubEnvelopeLarge(ids, aggregateID, at, blob)}, nil)
	require.NoError(t, err)

	events, err := store.ReadEvents(ctx, aggregateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	payload, ok := events[0].Envelope.Payload.(stubPayloadLarge)
	require.True(t, ok)
	assert.Equal(t, blob, payload.Blob)
}

func TestStore_GetVersion_ZeroForUnknownAggregate(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ids := event.NewIDSource()
	v, err := store.GetVersion(context.Background(), ids.New(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}
