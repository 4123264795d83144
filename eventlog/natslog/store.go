package natslog

import (
	"context"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"infracore/compress"
	"infracore/event"
	"infracore/eventlog"
)

// expectedLastSubjectSequenceHeader is JetStream's header for per-subject
// optimistic concurrency: the publish is rejected unless the subject's last
// message has exactly this sequence number.
const expectedLastSubjectSequenceHeader = "Nats-Expected-Last-Subject-Sequence"

// compressionHeader records which compress.Algorithm, if any, was applied to
// a message's data, since decoding needs to undo exactly what encoding did
// and the store's Compression setting can change between Append calls.
const compressionHeader = "Infracore-Compression"

// Config configures a Store. FetchTimeout bounds how long a read waits for
// a batch before treating the absence of further messages as the end of
// the stream rather than an error. Compression is the preferred algorithm
// for payloads at or above compress.MinSize; it defaults to compress.None,
// matching the teacher's own default of no compression unless opted into.
type Config struct {
	URL          string
	FetchBatch   int
	FetchTimeout time.Duration
	MinRetention time.Duration
	Replicas     int
	Compression  compress.Algorithm
}

func (c Config) withDefaults() Config {
	if c.FetchBatch <= 0 {
		c.FetchBatch = 256
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 2 * time.Second
	}
	if c.MinRetention <= 0 {
		c.MinRetention = 30 * 24 * time.Hour
	}
	if c.Replicas <= 0 {
		c.Replicas = 1
	}
	return c
}

// Store is a JetStream-backed eventlog.Log. One JetStream stream is
// provisioned per aggregate family on first use; per-aggregate ordering
// comes from JetStream's per-subject sequencing within that stream.
type Store struct {
	cfg    Config
	nc     *nats.Conn
	js     nats.JetStreamContext
	codec  *event.Codec
	family event.Family

	ensuredStream bool
}

// New connects to NATS and returns a Store scoped to a single aggregate
// family. A fresh Store is expected per family, matching the one-stream-
// per-family layout.
func New(cfg Config, family event.Family, codec *event.Codec) (*Store, error) {
	cfg = cfg.withDefaults()
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, &eventlog.TransientError{Op: "connect", Cause: err}
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, &eventlog.TransientError{Op: "jetstream_context", Cause: err}
	}
	s := &Store{cfg: cfg, nc: nc, js: js, codec: codec, family: family}
	if err := s.ensureStream(); err != nil {
		nc.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureStream() error {
	if s.ensuredStream {
		return nil
	}
	name := StreamName(s.family)
	_, err := s.js.StreamInfo(name)
	if err == nil {
		s.ensuredStream = true
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return &eventlog.TransientError{Op: "stream_info", Cause: err}
	}
	_, err = s.js.AddStream(&nats.StreamConfig{
		Name:      name,
		Subjects:  []string{FamilyFilter(s.family)},
		Storage:   nats.FileStorage,
		MaxAge:    s.cfg.MinRetention,
		Replicas:  s.cfg.Replicas,
		Retention: nats.LimitsPolicy,
	})
	if err != nil {
		return &eventlog.TransientError{Op: "add_stream", Cause: err}
	}
	s.ensuredStream = true
	return nil
}

func (s *Store) Close() error {
	s.nc.Close()
	return nil
}

// Append publishes events one at a time on the aggregate's single subject,
// carrying the expected-last-subject-sequence header on every message. A
// conflict on the first message rejects the batch before anything is
// stored, but the batch is not atomic: if a later message fails, the
// messages already accepted stay in the stream. The header compares
// against that subject's actual last stream sequence, not the aggregate's
// version count — the two coincide only because every event for an
// aggregate shares one subject.
func (s *Store) Append(ctx context.Context, aggregateID event.ID, events []event.Envelope, expectedVersion *uint64) (uint64, error) {
	if len(events) == 0 {
		v, err := s.GetVersion(ctx, aggregateID)
		return v, err
	}

	current, err := s.GetVersion(ctx, aggregateID)
	if err != nil {
		return 0, err
	}
	if expectedVersion != nil && *expectedVersion != current {
		return 0, &eventlog.ConcurrencyError{AggregateID: aggregateID, ExpectedVersion: *expectedVersion, ActualVersion: current}
	}

	subject := Subject(s.family, aggregateID)
	expectedSeq, err := s.lastSubjectSequence(ctx, subject)
	if err != nil {
		return 0, err
	}

	for _, env := range events {
		payload, err := s.codec.Marshal(env)
		if err != nil {
			return 0, &eventlog.SchemaError{AggregateID: aggregateID, Cause: err}
		}
		algo := compress.Choose(s.cfg.Compression, payload)
		stored, err := compress.Compress(algo, payload)
		if err != nil {
			return 0, &eventlog.SchemaError{AggregateID: aggregateID, Cause: err}
		}
		msg := nats.NewMsg(subject)
		msg.Data = stored
		msg.Header.Set(compressionHeader, string(algo))
		msg.Header.Set(expectedLastSubjectSequenceHeader, strconv.FormatUint(expectedSeq, 10))

		ack, err := s.js.PublishMsg(msg, nats.Context(ctx))
		if err != nil {
			if isWrongSequenceError(err) {
				actual, verr := s.GetVersion(ctx, aggregateID)
				if verr != nil {
					return 0, &eventlog.TransientError{Op: "append_reconcile", Cause: verr}
				}
				return 0, &eventlog.ConcurrencyError{AggregateID: aggregateID, ExpectedVersion: current, ActualVersion: actual}
			}
			return 0, &eventlog.TransientError{Op: "publish", Cause: err}
		}
		expectedSeq = ack.Sequence
	}

	return current + uint64(len(events)), nil
}

// lastSubjectSequence returns the stream sequence of the last message
// published on subject, or 0 if the subject has never been published to —
// JetStream's convention for "expect no prior message" on this header.
func (s *Store) lastSubjectSequence(ctx context.Context, subject string) (uint64, error) {
	msg, err := s.js.GetLastMsg(StreamName(s.family), subject, nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrMsgNotFound) {
			return 0, nil
		}
		return 0, &eventlog.TransientError{Op: "get_last_msg", Cause: err}
	}
	return msg.Sequence, nil
}

func isWrongSequenceError(err error) bool {
	return errors.Is(err, nats.ErrSequenceMismatch) ||
		errors.Is(err, nats.ErrWrongLastSequence) ||
		errors.Is(err, nats.ErrWrongLastMsgID)
}

// ReadEvents reads the full history for an aggregate.
func (s *Store) ReadEvents(ctx context.Context, aggregateID event.ID) ([]event.Stored, error) {
	return s.ReadEventsFrom(ctx, aggregateID, 0)
}

// ReadEventsFrom reads the tail of an aggregate's stream starting after
// fromVersion, using a short-lived ephemeral ordered consumer bound to the
// aggregate's subject filter. Fetch timeouts are treated as "no more
// messages", not as an error.
func (s *Store) ReadEventsFrom(ctx context.Context, aggregateID event.ID, fromVersion uint64) ([]event.Stored, error) {
	sub, err := s.js.SubscribeSync(Subject(s.family, aggregateID),
		nats.OrderedConsumer(),
		nats.DeliverAll(),
	)
	if err != nil {
		return nil, &eventlog.TransientError{Op: "subscribe", Cause: err}
	}
	defer sub.Unsubscribe()

	var out []event.Stored
	for {
		msg, err := fetchOne(ctx, sub, s.cfg.FetchTimeout)
		if err != nil {
			if err == errNoMoreMessages {
				break
			}
			return nil, &eventlog.TransientError{Op: "fetch", Cause: err}
		}
		meta, err := msg.Metadata()
		if err != nil {
			return nil, &eventlog.TransientError{Op: "metadata", Cause: err}
		}
		seq := meta.Sequence.Consumer
		if seq <= fromVersion {
			continue
		}
		data, err := compress.Decompress(compress.Algorithm(msg.Header.Get(compressionHeader)), msg.Data)
		if err != nil {
			return nil, &eventlog.SchemaError{AggregateID: aggregateID, Cause: err}
		}
		env, err := s.codec.Unmarshal(data)
		if err != nil {
			return nil, &eventlog.SchemaError{AggregateID: aggregateID, Cause: err}
		}
		out = append(out, event.Stored{Sequence: seq, Envelope: env})
	}
	return out, nil
}

// ReadByCorrelation reads across the whole family stream, filtering by
// correlation id; it is necessarily less efficient than a per-aggregate
// read since JetStream has no correlation-indexed subject.
func (s *Store) ReadByCorrelation(ctx context.Context, correlationID event.CorrelationID) ([]event.Stored, error) {
	sub, err := s.js.SubscribeSync(FamilyFilter(s.family), nats.OrderedConsumer(), nats.DeliverAll())
	if err != nil {
		return nil, &eventlog.TransientError{Op: "subscribe", Cause: err}
	}
	defer sub.Unsubscribe()

	var out []event.Stored
	perAggregate := make(map[string]uint64)
	for {
		msg, err := fetchOne(ctx, sub, s.cfg.FetchTimeout)
		if err != nil {
			if err == errNoMoreMessages {
				break
			}
			return nil, &eventlog.TransientError{Op: "fetch", Cause: err}
		}
		perAggregate[msg.Subject]++
		seq := perAggregate[msg.Subject]
		data, err := compress.Decompress(compress.Algorithm(msg.Header.Get(compressionHeader)), msg.Data)
		if err != nil {
			return nil, &eventlog.SchemaError{Cause: err}
		}
		env, err := s.codec.Unmarshal(data)
		if err != nil {
			return nil, &eventlog.SchemaError{Cause: err}
		}
		if env.CorrelationID != correlationID {
			continue
		}
		out = append(out, event.Stored{Sequence: seq, Envelope: env})
	}
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

// GetVersion returns the number of messages published on the aggregate's
// subject so far, which is exactly its version count since every event for
// an aggregate is published on that one subject.
func (s *Store) GetVersion(ctx context.Context, aggregateID event.ID) (uint64, error) {
	name := StreamName(s.family)
	info, err := s.js.StreamInfo(name, &nats.StreamInfoRequest{
		SubjectsFilter: Subject(s.family, aggregateID),
	})
	if err != nil {
		return 0, &eventlog.TransientError{Op: "stream_info", Cause: err}
	}
	var total uint64
	for _, count := range info.State.Subjects {
		total += count
	}
	return total, nil
}

var errNoMoreMessages = errors.New("natslog: no more messages")

// fetchOne waits up to timeout for the next message, translating a fetch
// timeout into errNoMoreMessages rather than propagating it as an error:
// per §4.6, a bounded-read timeout means "no more messages", not failure.
func fetchOne(ctx context.Context, sub *nats.Subscription, timeout time.Duration) (*nats.Msg, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := sub.NextMsgWithContext(fetchCtx)
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, errNoMoreMessages
		}
		return nil, err
	}
	return msg, nil
}

var _ eventlog.Log = (*Store)(nil)
