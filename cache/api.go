package cache

import "cmp"

// Cache is an in-memory key/value cache that evicts by expiry, then by
// priority, then by recency within a priority.
//
// Implementations returned by New are NOT safe for concurrent use; wrap
// them with NewSynchronized when sharing across goroutines.
//
// Complexity: Get is O(1); Set, Remove and each eviction are
// O(log n + log p) where p is the number of distinct priorities.
type Cache[K cmp.Ordered, V any, P cmp.Ordered, E Number] interface {
	// Get returns the value for k and marks it most recently used within
	// its priority bucket. Expiry is not checked on read: an expired entry
	// stays readable until an eviction reaches it.
	// Returns an error wrapping ErrNotFound if k is absent.
	Get(k K) (V, error)

	// Peek returns the stored item for k without touching its recency.
	Peek(k K) (Item[K, V, P, E], error)

	// Set inserts a new entry. It fails with ErrExpiredItem if exp is
	// before the logical clock, and with ErrAlreadyExists if k is live
	// (no update is performed). At capacity exactly one entry is evicted
	// first. With zero capacity it fails with ErrNoCapacity.
	Set(k K, v V, priority P, exp E) error

	// Remove deletes k if present and returns true on success.
	// Explicit removal is not reported as an eviction.
	Remove(k K) bool

	// Len returns the number of resident entries.
	Len() int

	// Empty reports whether the cache holds no entries.
	Empty() bool

	// Keys returns the resident keys in no particular order.
	Keys() []K

	// Range calls fn for every resident item, lowest priority first and
	// most recent first within a priority, until fn returns false.
	// fn must not modify the cache.
	Range(fn func(it Item[K, V, P, E]) bool)

	// Capacity returns the entry count limit.
	Capacity() int

	// SetCapacity changes the entry count limit, evicting exactly
	// Len()-n entries first when shrinking below the current size. If the
	// policy stops choosing victims earlier, the limit is set to Len().
	SetCapacity(n int)

	// AdvanceClock moves the logical clock forward by delta.
	AdvanceClock(delta E)

	// ResetClock sets the logical clock back to zero.
	ResetClock()

	// Now returns the current logical time.
	Now() E

	// Clear drops every entry. The clock and capacity are kept.
	Clear()
}
