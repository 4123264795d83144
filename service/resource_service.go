package service

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"infracore/event"
	"infracore/eventlog"
	"infracore/resource"
)

// Notifier publishes a freshly-appended envelope to the notification
// subject for projectors. It is a narrow seam so tests can substitute a
// no-op or recording implementation without standing up real NATS.
type Notifier interface {
	Publish(ctx context.Context, subject string, env event.Envelope) error
}

// NatsNotifier publishes to a NATS core subject (fire-and-forget; the
// durable copy projectors rely on is the JetStream append itself, this is
// only the low-latency nudge).
type NatsNotifier struct {
	nc     *nats.Conn
	codec  *event.Codec
}

func NewNatsNotifier(nc *nats.Conn, codec *event.Codec) *NatsNotifier {
	return &NatsNotifier{nc: nc, codec: codec}
}

func (n *NatsNotifier) Publish(ctx context.Context, subject string, env event.Envelope) error {
	data, err := n.codec.Marshal(env)
	if err != nil {
		return err
	}
	return n.nc.Publish(subject, data)
}

// ResourceService is the single async method per command described in
// §4.7, one per ComputeResource command. Each method loads, folds,
// delegates to a pure handler, appends, and notifies; no aggregate state is
// held between calls.
type ResourceService struct {
	log      eventlog.Log
	ids      *event.IDSource
	cache    *VersionedCache
	notifier Notifier
}

func NewResourceService(log eventlog.Log, ids *event.IDSource, notifier Notifier, cache *VersionedCache) *ResourceService {
	return &ResourceService{log: log, ids: ids, cache: cache, notifier: notifier}
}

// notificationSubject is the event's own subject,
// infrastructure.<family>.<aggregate_id>.<event_type>; projectors match it
// with a family-level wildcard such as infrastructure.<family>.>, and can
// narrow their interest later without a service-side change.
func notificationSubject(env event.Envelope) string {
	return "infrastructure." + string(env.AggregateType) + "." + env.AggregateID.String() + "." + env.EventType
}

// loadState implements steps 1-3 of §4.7: load events, fold, compute
// expected version. When a cache is configured it is consulted first and
// re-validated against the log's current version before being trusted;
// otherwise, or on a stale/missing entry, the tail from the cached version
// (or from the start) is folded and the cache is refreshed.
func (s *ResourceService) loadState(ctx context.Context, aggregateID event.ID) (resource.State, uint64, error) {
	currentVersion, err := s.log.GetVersion(ctx, aggregateID)
	if err != nil {
		return resource.State{}, 0, &Error{Kind: KindLog, Cause: err}
	}

	var (
		state    resource.State
		fromVer  uint64
	)
	if s.cache != nil {
		if cachedVersion, cachedState, ok := s.cache.Get(ctx, aggregateID); ok && cachedVersion <= currentVersion {
			state = cachedState
			fromVer = cachedVersion
		}
	}

	if fromVer < currentVersion {
		tail, err := s.log.ReadEventsFrom(ctx, aggregateID, fromVer)
		if err != nil {
			return resource.State{}, 0, &Error{Kind: KindLog, Cause: err}
		}
		for _, stored := range tail {
			state = resource.Apply(state, stored.Envelope)
		}
		if s.cache != nil {
			_ = s.cache.Put(ctx, aggregateID, currentVersion, state)
		}
	}

	return state, currentVersion, nil
}

// commit implements steps 5-6: envelope the event, append with the
// expected version computed in loadState, and publish the notification.
// causation is the id of whatever directly triggered this call — the
// causation id the command minted for itself at construction for a root
// event, or an upstream event id set with SetCausation when the command is
// itself a reaction to one.
func (s *ResourceService) commit(ctx context.Context, aggregateID event.ID, expectedVersion uint64, at time.Time, corr event.CorrelationID, causation event.CausationID, payload event.Payload) error {
	eventID := s.ids.New(at)
	env := event.New(event.FamilyComputeResource, aggregateID, eventID, at, corr, causation, payload)

	if _, err := s.log.Append(ctx, aggregateID, []event.Envelope{env}, &expectedVersion); err != nil {
		if _, ok := err.(*eventlog.ConcurrencyError); ok {
			return &Error{Kind: KindConcurrency, Cause: err}
		}
		return &Error{Kind: KindLog, Cause: err}
	}

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, notificationSubject(env), env); err != nil {
			return &Error{Kind: KindNotify, Cause: err}
		}
	}
	return nil
}

func (s *ResourceService) Register(ctx context.Context, c resource.Register) (event.ID, error) {
	state, version, err := s.loadState(ctx, c.AggregateID())
	if err != nil {
		return event.Zero, err
	}
	payload, cmdErr := resource.HandleRegister(state, c)
	if cmdErr != nil {
		return event.Zero, &Error{Kind: KindCommand, Cause: cmdErr}
	}
	if err := s.commit(ctx, c.AggregateID(), version, c.OccurredAt(), c.CorrelationID(), c.CausationID(), payload); err != nil {
		return event.Zero, err
	}
	return c.AggregateID(), nil
}

func (s *ResourceService) AssignOrganization(ctx context.Context, c resource.AssignOrganization) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleAssignOrganization(state, c)
	})
}

func (s *ResourceService) AssignLocation(ctx context.Context, c resource.AssignLocation) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleAssignLocation(state, c)
	})
}

func (s *ResourceService) AssignOwner(ctx context.Context, c resource.AssignOwner) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleAssignOwner(state, c)
	})
}

func (s *ResourceService) AddPolicy(ctx context.Context, c resource.AddPolicy) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleAddPolicy(state, c)
	})
}

func (s *ResourceService) RemovePolicy(ctx context.Context, c resource.RemovePolicy) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleRemovePolicy(state, c)
	})
}

func (s *ResourceService) AssignAccountConcept(ctx context.Context, c resource.AssignAccountConcept) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleAssignAccountConcept(state, c)
	})
}

func (s *ResourceService) ClearAccountConcept(ctx context.Context, c resource.ClearAccountConcept) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleClearAccountConcept(state, c)
	})
}

func (s *ResourceService) SetHardwareDetails(ctx context.Context, c resource.SetHardwareDetails) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleSetHardwareDetails(state, c)
	})
}

func (s *ResourceService) AssignAssetTag(ctx context.Context, c resource.AssignAssetTag) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleAssignAssetTag(state, c)
	})
}

func (s *ResourceService) UpdateMetadata(ctx context.Context, c resource.UpdateMetadata) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleUpdateMetadata(state, c)
	})
}

func (s *ResourceService) ChangeStatus(ctx context.Context, c resource.ChangeStatus) error {
	return s.handle(ctx, c, func(state resource.State) (event.Payload, error) {
		return resource.HandleChangeStatus(state, c)
	})
}

// handle runs the common load/fold/handle/commit shape shared by every
// command except Register, whose return value (the new aggregate id)
// doesn't fit the shared signature.
func (s *ResourceService) handle(ctx context.Context, c resource.Command, decide func(resource.State) (event.Payload, error)) error {
	state, version, err := s.loadState(ctx, c.AggregateID())
	if err != nil {
		return err
	}
	payload, cmdErr := decide(state)
	if cmdErr != nil {
		return &Error{Kind: KindCommand, Cause: cmdErr}
	}
	return s.commit(ctx, c.AggregateID(), version, c.OccurredAt(), c.CorrelationID(), c.CausationID(), payload)
}
