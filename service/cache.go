package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"infracore/event"
	"infracore/resource"
)

// cachedState is the JSON shape stored per aggregate. VersionedCache never
// trusts this blob on its own: the service always compares Version
// against the log's get_version before folding only the tail, so a stale
// or evicted entry degrades to a full fold rather than to incorrect state.
type cachedState struct {
	Version uint64         `json:"version"`
	State   resource.State `json:"state"`
}

// VersionedCache fronts the fold-from-log step with a Redis-backed
// (aggregate_id) -> (version, state) cache, matching §4.7's allowance for
// "a version-tagged cache ... if its consistency with the log is
// explicit." It is optional: ResourceService works the same without one,
// just by folding from version 0 every time.
type VersionedCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewVersionedCache(client *redis.Client, keyPrefix string, ttl time.Duration) *VersionedCache {
	return &VersionedCache{client: client, prefix: keyPrefix, ttl: ttl}
}

func (c *VersionedCache) key(aggregateID event.ID) string {
	return c.prefix + ":resource:" + aggregateID.String()
}

// Get returns the cached version and state for aggregateID. ok is false on
// a cache miss or on any decode failure — a corrupt entry is treated as
// absent rather than propagated as an error, since the cache is always
// re-validated against the log.
func (c *VersionedCache) Get(ctx context.Context, aggregateID event.ID) (uint64, resource.State, bool) {
	raw, err := c.client.Get(ctx, c.key(aggregateID)).Bytes()
	if err != nil {
		return 0, resource.State{}, false
	}
	var cached cachedState
	if err := json.Unmarshal(raw, &cached); err != nil {
		return 0, resource.State{}, false
	}
	return cached.Version, cached.State, true
}

// Put stores state at version, to be trusted by a later Get only once the
// caller has confirmed it against the log's current version.
func (c *VersionedCache) Put(ctx context.Context, aggregateID event.ID, version uint64, state resource.State) error {
	raw, err := json.Marshal(cachedState{Version: version, State: state})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(aggregateID), raw, c.ttl).Err()
}
