package cache

import (
	"log"

	"github.com/IvanBrykalov/pecache/policy"
)

// Number is the set of types usable as a logical time / expiry.
// It must be ordered and support addition.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// EvictReason explains why an entry was evicted.
type EvictReason = policy.Reason

const (
	// EvictExpired: the entry's expiry was behind the logical clock.
	EvictExpired = policy.Expired
	// EvictPriority: the coldest entry of the lowest-priority bucket.
	EvictPriority = policy.Priority
)

// RejectReason explains why Set refused an entry.
type RejectReason int

const (
	// RejectExists: the key is already resident.
	RejectExists RejectReason = iota
	// RejectExpired: the expiry is already behind the logical clock.
	RejectExpired
	// RejectNoCapacity: the cache has zero capacity.
	RejectNoCapacity
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Reject(reason RejectReason)
	Size(entries int)
}

// Options configures the cache. Zero values are safe;
// defaults are applied in New():
//   - nil Policy   => expire-first
//   - nil Metrics  => NoopMetrics
//   - nil Logger   => discard
type Options[K comparable, V any, P any, E any] struct {
	// Capacity is the entry count limit. Zero admits nothing.
	Capacity int

	// Policy picks eviction victims; nil => expirefirst.
	Policy policy.Policy[K, E]

	// OnEvict is called after an entry has been evicted by the policy
	// (not for Remove or Clear). The cache is consistent when it runs,
	// but the callback must not call back into the cache.
	OnEvict func(it Item[K, V, P, E], reason EvictReason)

	Metrics Metrics

	// Logger receives construction and capacity messages.
	Logger *log.Logger
}
