// Package cache provides a generic in-memory cache whose eviction combines
// a logical-clock expiry, an explicit per-entry priority, and recency of
// access within a priority.
//
// Design
//
//   - Storage: entries live in priority buckets (internal/bucket). Each
//     bucket is an intrusive MRU↔LRU list; buckets are ordered by priority
//     and an emptied bucket is dropped immediately.
//
//   - Expiry: a key-indexed min-heap (package pqueue) orders (expiry, key)
//     pairs and supports removal of any key in O(log n).
//
//   - Index: map[K]*node gives O(1) access to an entry's bucket position.
//
//   - Eviction: runs only inside Set (one entry, when full) and SetCapacity
//     (one entry per slot over the new limit). The default policy
//     (policy/expirefirst) evicts the soonest-expiring entry if it is behind
//     the clock, otherwise the least recently used entry of the lowest
//     priority. Policies are pluggable via Options.Policy.
//
//   - Time: a logical clock, moved only by AdvanceClock and ResetClock.
//     Get does not check expiry; expired entries are removed lazily.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Reject/Size signals.
//     By default NoopMetrics is used; plug metrics/prom to export them.
//
// Basic usage
//
//	c := cache.New[string, []byte, int, int64](cache.Options[string, []byte, int, int64]{Capacity: 1024})
//	_ = c.Set("report:42", blob, 5, 100) // priority 5, expires at t=100
//	if v, err := c.Get("report:42"); err == nil {
//	    _ = v
//	}
//	c.AdvanceClock(150) // report:42 is now expired and first in line for eviction
//
// Thread-safety
//
// A Cache returned by New is not safe for concurrent use. NewSynchronized
// wraps it with a mutex and adds GetOrLoad with singleflight coalescing.
package cache
