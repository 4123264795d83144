package event

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/pkg/errors"
)

// wireEnvelope is the §6 wire format: a tagged union of aggregate_type and
// a nested event record carrying the stable envelope fields plus whatever
// payload fields the event-specific schema defines at its stored version.
type wireEnvelope struct {
	AggregateType Family          `json:"aggregate_type"`
	Event         json.RawMessage `json:"event"`
}

// PayloadRegistry maps an event type name to the Go struct that decodes its
// current-version wire shape. Payload values are registered once at program
// start (typically from an init function in the package defining the
// events), the same shape as the teacher's EventDataRegistry, but keyed
// directly off the Payload interface instead of raw reflection.
type PayloadRegistry struct {
	types map[string]reflect.Type
}

func NewPayloadRegistry() *PayloadRegistry {
	return &PayloadRegistry{types: make(map[string]reflect.Type)}
}

// Register records the Go type backing eventType. Pass a zero value, e.g.
// Register(ResourceRegistered{}).
func (r *PayloadRegistry) Register(zero Payload) {
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.types[zero.EventType()] = t
}

func (r *PayloadRegistry) new(eventType string) (reflect.Value, error) {
	t, ok := r.types[eventType]
	if !ok {
		return reflect.Value{}, errors.Errorf("event: no payload type registered for %q", eventType)
	}
	return reflect.New(t), nil
}

// Codec serializes and deserializes Envelopes to the wire format in §6,
// applying upcasting on read when a stored record is behind the current
// schema version.
type Codec struct {
	payloads  *PayloadRegistry
	upcasters *UpcasterRegistry
}

func NewCodec(payloads *PayloadRegistry, upcasters *UpcasterRegistry) *Codec {
	return &Codec{payloads: payloads, upcasters: upcasters}
}

// Marshal renders an envelope in the §6 wire format, always at its
// payload's current version (events are only ever written at the version
// current when they are appended).
func (c *Codec) Marshal(env Envelope) ([]byte, error) {
	payloadFields, err := structToFields(env.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "event: marshal payload")
	}
	payloadFields["event_type"] = env.EventType
	payloadFields["event_version"] = env.EventVersion
	payloadFields["event_id"] = env.EventID.String()
	payloadFields["aggregate_id"] = env.AggregateID.String()
	payloadFields["timestamp"] = env.Timestamp.UTC().Format(rfc3339Nano)
	payloadFields["correlation_id"] = env.CorrelationID.String()
	if env.HasCausation() {
		payloadFields["causation_id"] = env.CausationID.String()
	} else {
		payloadFields["causation_id"] = nil
	}

	eventJSON, err := json.Marshal(payloadFields)
	if err != nil {
		return nil, errors.Wrap(err, "event: marshal event record")
	}
	return json.Marshal(wireEnvelope{AggregateType: env.AggregateType, Event: eventJSON})
}

const rfc3339Nano = "2006-01-02T15:04:05.999999999Z07:00"

// Unmarshal parses a stored record and, if its event_version is behind the
// payload's current version, upcasts the schema-free field tree before
// decoding it into the typed Payload.
func (c *Codec) Unmarshal(data []byte) (Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastDeserializeFailed, Cause: err}
	}

	var fields map[string]any
	if err := json.Unmarshal(w.Event, &fields); err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastDeserializeFailed, Cause: err}
	}

	eventType, _ := fields["event_type"].(string)
	eventID, err := extractID(fields, "event_id")
	if err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastInvalidFieldValue, EventType: eventType, Field: "event_id", Cause: err}
	}
	storedVersion, err := extractVersion(fields)
	if err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastInvalidFieldValue, EventID: eventID, EventType: eventType, Field: "event_version", Cause: err}
	}

	zero, err := c.payloads.new(eventType)
	if err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastDeserializeFailed, EventID: eventID, EventType: eventType, Cause: err}
	}
	currentVersion := zero.Interface().(Payload).CurrentVersion()

	upcasted, err := c.upcasters.UpcastToVersion(eventID, eventType, fields, storedVersion, currentVersion)
	if err != nil {
		return Envelope{}, err
	}

	payload, err := decodeFields(upcasted, zero)
	if err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastDeserializeFailed, EventID: eventID, EventType: eventType, FromVersion: storedVersion, ToVersion: currentVersion, Cause: err}
	}

	aggregateID, err := extractID(upcasted, "aggregate_id")
	if err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastInvalidFieldValue, EventID: eventID, EventType: eventType, Field: "aggregate_id", Cause: err}
	}
	ts, err := extractTime(upcasted, "timestamp")
	if err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastInvalidFieldValue, EventID: eventID, EventType: eventType, Field: "timestamp", Cause: err}
	}
	corr, err := extractCorrelation(upcasted)
	if err != nil {
		return Envelope{}, &UpcastError{Kind: UpcastInvalidFieldValue, EventID: eventID, EventType: eventType, Field: "correlation_id", Cause: err}
	}
	causation := extractCausation(upcasted)

	return Envelope{
		AggregateType: w.AggregateType,
		EventType:     eventType,
		EventVersion:  currentVersion,
		EventID:       eventID,
		AggregateID:   aggregateID,
		Timestamp:     ts,
		CorrelationID: corr,
		CausationID:   causation,
		Payload:       payload,
	}, nil
}

func structToFields(payload Payload) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeFields(fields map[string]any, zero reflect.Value) (Payload, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, zero.Interface()); err != nil {
		return nil, err
	}
	return zero.Interface().(Payload), nil
}

func extractID(fields map[string]any, key string) (ID, error) {
	s, _ := fields[key].(string)
	if s == "" {
		return Zero, errors.Errorf("missing or empty %q", key)
	}
	return ParseID(s)
}

func extractVersion(fields map[string]any) (uint32, error) {
	switch v := fields["event_version"].(type) {
	case float64:
		return uint32(v), nil
	case int:
		return uint32(v), nil
	default:
		return 0, errors.New("missing event_version")
	}
}

func extractTime(fields map[string]any, key string) (time.Time, error) {
	s, _ := fields[key].(string)
	if s == "" {
		return time.Time{}, errors.Errorf("missing or empty %q", key)
	}
	return time.Parse(rfc3339Nano, s)
}

func extractCorrelation(fields map[string]any) (CorrelationID, error) {
	s, _ := fields["correlation_id"].(string)
	if s == "" {
		return CorrelationID{}, errors.New("missing correlation_id")
	}
	return ParseCorrelationID(s)
}

func extractCausation(fields map[string]any) CausationID {
	s, _ := fields["causation_id"].(string)
	if s == "" {
		return CausationID{}
	}
	id, err := ParseCausationID(s)
	if err != nil {
		return CausationID{}
	}
	return id
}
