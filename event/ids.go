package event

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid"
)

// ID is a time-ordered 128-bit identifier used for EventId and AggregateId.
// Monotonicity is a quality, not a hard invariant: it is produced from a
// monotonic entropy source but two IDs minted in the same process within the
// same millisecond are merely very likely, not guaranteed, to sort in mint
// order relative to IDs minted elsewhere.
type ID ulid.ULID

// Zero is the empty ID, used where a reference is absent (e.g. CausationID
// on a root event).
var Zero ID

func (id ID) String() string {
	return ulid.ULID(id).String()
}

func (id ID) IsZero() bool {
	return id == Zero
}

func (id ID) MarshalText() ([]byte, error) {
	return ulid.ULID(id).MarshalText()
}

func (id *ID) UnmarshalText(text []byte) error {
	var u ulid.ULID
	if err := u.UnmarshalText(text); err != nil {
		return err
	}
	*id = ID(u)
	return nil
}

// ParseID parses the canonical string form of an ID.
func ParseID(s string) (ID, error) {
	u, err := ulid.Parse(s)
	if err != nil {
		return Zero, err
	}
	return ID(u), nil
}

// IDSource mints monotonic time-ordered IDs. It is the single sanctioned
// concession to non-determinism in the core: command handlers and apply
// never touch it directly. Only the service layer, after a handler has
// already decided to emit an event, asks the source for an EventID.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates an IDSource seeded from the process's secure RNG.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New mints a new ID for the given timestamp. Callers supply the timestamp
// explicitly (rather than the source reading the clock) so that tests can
// pin both the id and its embedded time.
func (s *IDSource) New(at time.Time) ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := ulid.MustNew(ulid.Timestamp(at), s.entropy)
	return ID(u)
}

// CorrelationID groups every event produced while handling a single
// external intent.
type CorrelationID uuid.UUID

func NewCorrelationID() CorrelationID {
	return CorrelationID(uuid.New())
}

func (c CorrelationID) String() string {
	return uuid.UUID(c).String()
}

func (c CorrelationID) IsZero() bool {
	return c == CorrelationID{}
}

func ParseCorrelationID(s string) (CorrelationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CorrelationID{}, err
	}
	return CorrelationID(u), nil
}

// CausationID identifies the immediate antecedent (command or event) of an
// event. Absent on root events.
type CausationID uuid.UUID

func NewCausationID() CausationID {
	return CausationID(uuid.New())
}

func (c CausationID) String() string {
	return uuid.UUID(c).String()
}

func (c CausationID) IsZero() bool {
	return c == CausationID{}
}

func ParseCausationID(s string) (CausationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CausationID{}, err
	}
	return CausationID(u), nil
}

// CausationFromEventID derives a CausationID that carries the same bytes as
// an EventID, used when the immediate antecedent of an event is itself an
// event rather than a command.
func CausationFromEventID(id ID) CausationID {
	return CausationID(uuid.UUID(ulid.ULID(id)))
}
