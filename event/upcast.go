package event

import (
	"fmt"

	"github.com/pkg/errors"
)

// Upcaster transforms one version's schema-free field tree into the next
// version's shape. It must be pure and must not mutate its input; the
// registry always hands it a fresh copy. Upcasters may validate their own
// output by returning an error, but are not required to.
type Upcaster func(fields map[string]any) (map[string]any, error)

// UpcastErrorKind classifies why an upcast failed.
type UpcastErrorKind string

const (
	UpcastUnsupportedVersion UpcastErrorKind = "unsupported_version"
	UpcastTransformFailed    UpcastErrorKind = "transformation_failed"
	UpcastDeserializeFailed  UpcastErrorKind = "deserialization_failed"
	UpcastMissingField       UpcastErrorKind = "missing_field"
	UpcastInvalidFieldValue  UpcastErrorKind = "invalid_field_value"
)

// UpcastError carries enough context to identify the offending record and
// the failing step of its upcast chain.
type UpcastError struct {
	Kind        UpcastErrorKind
	EventID     ID
	EventType   string
	FromVersion uint32
	ToVersion   uint32
	Field       string
	Cause       error
}

func (e *UpcastError) Error() string {
	base := fmt.Sprintf("upcast %s event %s: v%d->v%d: %s", e.EventType, e.EventID, e.FromVersion, e.ToVersion, e.Kind)
	if e.Field != "" {
		base += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *UpcastError) Unwrap() error { return e.Cause }

// UpcasterRegistry holds one upcaster per (event type, from-version) pair
// and composes them into chains on demand. Registration is expected at
// program start; lookups happen on every read of a record whose version is
// behind current.
type UpcasterRegistry struct {
	chains map[string]map[uint32]Upcaster
}

func NewUpcasterRegistry() *UpcasterRegistry {
	return &UpcasterRegistry{chains: make(map[string]map[uint32]Upcaster)}
}

// Register adds the upcaster that turns version fromVersion of eventType
// into version fromVersion+1. Registering the same (type, fromVersion) pair
// twice replaces the previous upcaster.
func (r *UpcasterRegistry) Register(eventType string, fromVersion uint32, up Upcaster) {
	byVersion, ok := r.chains[eventType]
	if !ok {
		byVersion = make(map[uint32]Upcaster)
		r.chains[eventType] = byVersion
	}
	byVersion[fromVersion] = up
}

// UpcastToVersion runs fields (known to be at storedVersion) through the
// registered chain until it reaches targetVersion, returning the
// transformed tree. It never runs backward: storedVersion > targetVersion
// is always an UnsupportedVersion error, and storedVersion == targetVersion
// is a no-op that returns fields unchanged.
func (r *UpcasterRegistry) UpcastToVersion(eventID ID, eventType string, fields map[string]any, storedVersion, targetVersion uint32) (map[string]any, error) {
	if storedVersion == targetVersion {
		return fields, nil
	}
	if storedVersion > targetVersion {
		return nil, &UpcastError{
			Kind: UpcastUnsupportedVersion, EventID: eventID, EventType: eventType,
			FromVersion: storedVersion, ToVersion: targetVersion,
			Cause: errors.New("stored version is newer than target version"),
		}
	}

	byVersion := r.chains[eventType]
	current := cloneFields(fields)
	for v := storedVersion; v < targetVersion; v++ {
		up, ok := byVersion[v]
		if !ok {
			return nil, &UpcastError{
				Kind: UpcastUnsupportedVersion, EventID: eventID, EventType: eventType,
				FromVersion: v, ToVersion: v + 1,
				Cause: errors.Errorf("no upcaster registered for %s v%d->v%d", eventType, v, v+1),
			}
		}
		next, err := up(current)
		if err != nil {
			return nil, &UpcastError{
				Kind: UpcastTransformFailed, EventID: eventID, EventType: eventType,
				FromVersion: v, ToVersion: v + 1, Cause: err,
			}
		}
		current = next
	}
	return current, nil
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// RequireField fetches a required field from a schema-free tree, returning
// a MissingField UpcastError (with the given step context) if absent.
func RequireField(eventID ID, eventType string, fromVersion, toVersion uint32, fields map[string]any, key string) (any, error) {
	v, ok := fields[key]
	if !ok {
		return nil, &UpcastError{
			Kind: UpcastMissingField, EventID: eventID, EventType: eventType,
			FromVersion: fromVersion, ToVersion: toVersion, Field: key,
		}
	}
	return v, nil
}

// InvalidFieldValue builds the standard error for a field whose value does
// not have the shape an upcast step expected.
func InvalidFieldValue(eventID ID, eventType string, fromVersion, toVersion uint32, key string, cause error) error {
	return &UpcastError{
		Kind: UpcastInvalidFieldValue, EventID: eventID, EventType: eventType,
		FromVersion: fromVersion, ToVersion: toVersion, Field: key, Cause: cause,
	}
}
