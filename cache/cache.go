package cache

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/IvanBrykalov/pecache/internal/bucket"
	"github.com/IvanBrykalov/pecache/policy"
	"github.com/IvanBrykalov/pecache/policy/expirefirst"
	"github.com/IvanBrykalov/pecache/pqueue"
)

var (
	// ErrNotFound is returned by Get and Peek for absent keys.
	ErrNotFound = errors.New("cache: not found")
	// ErrAlreadyExists is returned by Set when the key is already resident.
	ErrAlreadyExists = errors.New("cache: already exists")
	// ErrExpiredItem is returned by Set when expiry is before the logical clock.
	ErrExpiredItem = errors.New("cache: item already expired")
	// ErrNoCapacity is returned by Set when the capacity is zero.
	ErrNoCapacity = errors.New("cache: zero capacity")
)

// cache coordinates three structures that always describe the same key set:
//   - index: key -> node of the item inside items (the locator)
//   - items: priority buckets in recency order (owns the Item)
//   - exp:   (expiry, key) min-heap
type cache[K cmp.Ordered, V any, P cmp.Ordered, E Number] struct {
	now      E
	capacity int

	index map[K]*bucket.Node[P, Item[K, V, P, E]]
	items *bucket.Store[P, Item[K, V, P, E]]
	exp   *pqueue.Indexed[K, E]

	pol policy.Policy[K, E]
	opt Options[K, V, P, E]
	log *log.Logger
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Policy  -> expirefirst
//   - nil Metrics -> NoopMetrics
//   - nil Logger  -> discard
func New[K cmp.Ordered, V any, P cmp.Ordered, E Number](opt Options[K, V, P, E]) Cache[K, V, P, E] {
	if opt.Capacity < 0 {
		panic("Capacity must be >= 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = expirefirst.New[K, E]()
	}
	lg := opt.Logger
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}

	c := &cache[K, V, P, E]{
		capacity: opt.Capacity,
		index:    make(map[K]*bucket.Node[P, Item[K, V, P, E]], opt.Capacity),
		items:    bucket.New[P, Item[K, V, P, E]](),
		exp:      pqueue.NewIndexed[K, E](opt.Capacity),
		pol:      opt.Policy,
		opt:      opt,
		log:      lg,
	}
	c.log.Printf("pecache: new cache capacity=%d", opt.Capacity)
	return c
}

// ---- Cache[K,V,P,E] implementation ----

// Get returns the value for k and promotes it within its bucket.
func (c *cache[K, V, P, E]) Get(k K) (V, error) {
	n, ok := c.index[k]
	if !ok {
		c.opt.Metrics.Miss()
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrNotFound, k)
	}
	c.items.Touch(n)
	c.opt.Metrics.Hit()
	return n.Value.Value, nil
}

// Peek returns the item for k without changing recency or metrics.
func (c *cache[K, V, P, E]) Peek(k K) (Item[K, V, P, E], error) {
	n, ok := c.index[k]
	if !ok {
		return Item[K, V, P, E]{}, fmt.Errorf("%w: %v", ErrNotFound, k)
	}
	return n.Value, nil
}

// Set validates, frees one slot if full, then inserts into all three
// structures. Validation happens before any mutation, so a failed Set
// leaves the cache untouched.
func (c *cache[K, V, P, E]) Set(k K, v V, priority P, exp E) error {
	if exp < c.now {
		c.opt.Metrics.Reject(RejectExpired)
		return fmt.Errorf("%w: %v (expiry %v < now %v)", ErrExpiredItem, k, exp, c.now)
	}
	if _, ok := c.index[k]; ok {
		c.opt.Metrics.Reject(RejectExists)
		return fmt.Errorf("%w: %v", ErrAlreadyExists, k)
	}
	if c.capacity == 0 {
		c.opt.Metrics.Reject(RejectNoCapacity)
		return fmt.Errorf("%w: %v", ErrNoCapacity, k)
	}
	if len(c.index) >= c.capacity && !c.evictOne() {
		// Only a custom policy can decline; never grow past capacity.
		c.opt.Metrics.Reject(RejectNoCapacity)
		return fmt.Errorf("%w: %v (no eviction candidate)", ErrNoCapacity, k)
	}

	it := Item[K, V, P, E]{Key: k, Value: v, Priority: priority, Expiry: exp}
	c.index[k] = c.items.InsertFront(priority, it)
	// Cannot fail: the index was checked above and the heap mirrors it.
	_ = c.exp.Push(k, exp)
	c.opt.Metrics.Size(len(c.index))
	return nil
}

// Remove deletes k from all structures.
func (c *cache[K, V, P, E]) Remove(k K) bool {
	n, ok := c.index[k]
	if !ok {
		return false
	}
	c.items.Remove(n)
	c.exp.Remove(k)
	delete(c.index, k)
	c.opt.Metrics.Size(len(c.index))
	return true
}

func (c *cache[K, V, P, E]) Len() int    { return len(c.index) }
func (c *cache[K, V, P, E]) Empty() bool { return len(c.index) == 0 }

func (c *cache[K, V, P, E]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	for k := range c.index {
		keys = append(keys, k)
	}
	return keys
}

func (c *cache[K, V, P, E]) Range(fn func(it Item[K, V, P, E]) bool) {
	c.items.Ascend(func(_ P, it Item[K, V, P, E]) bool { return fn(it) })
}

func (c *cache[K, V, P, E]) Capacity() int { return c.capacity }

// SetCapacity evicts only what exceeds the new limit, then stores it.
// If the policy declines before the limit is reached, the capacity stops
// at the resident count so that Len() <= Capacity() always holds.
func (c *cache[K, V, P, E]) SetCapacity(n int) {
	if n < 0 {
		panic("Capacity must be >= 0")
	}
	if over := len(c.index) - n; over > 0 {
		evicted := 0
		for i := 0; i < over; i++ {
			if !c.evictOne() {
				break
			}
			evicted++
		}
		if len(c.index) > n {
			c.log.Printf("pecache: policy declined, capacity %d -> %d instead of %d", c.capacity, len(c.index), n)
			n = len(c.index)
		} else {
			c.log.Printf("pecache: capacity %d -> %d, evicted %d", c.capacity, n, evicted)
		}
		c.opt.Metrics.Size(len(c.index))
	}
	c.capacity = n
}

// AdvanceClock ignores non-positive deltas so the clock never runs backwards.
func (c *cache[K, V, P, E]) AdvanceClock(delta E) {
	if delta <= 0 {
		return
	}
	c.now += delta
}

func (c *cache[K, V, P, E]) ResetClock() {
	var zero E
	c.now = zero
}

func (c *cache[K, V, P, E]) Now() E { return c.now }

func (c *cache[K, V, P, E]) Clear() {
	clear(c.index)
	c.items.Clear()
	c.exp.Clear()
	c.opt.Metrics.Size(0)
}

// -------------------- eviction --------------------

// evictOne asks the policy for a victim and removes it from all three
// structures. It reports false if nothing was evicted.
func (c *cache[K, V, P, E]) evictOne() bool {
	v, ok := c.pol.Choose(policyHooks[K, V, P, E]{c: c})
	if !ok {
		return false
	}
	n, ok := c.index[v.Key]
	if !ok {
		return false
	}

	switch v.Reason {
	case policy.Expired:
		// The victim is normally the heap root; pop it directly.
		if k, _, err := c.exp.Peek(); err == nil && k == v.Key {
			_, _, _ = c.exp.Pop()
		} else {
			c.exp.Remove(v.Key)
		}
		c.items.Remove(n)
	default:
		if p, ok := c.items.Lowest(); ok && c.items.Tail(p) == n {
			_, _ = c.items.RemoveTail(p)
		} else {
			c.items.Remove(n)
		}
		c.exp.Remove(v.Key)
	}
	delete(c.index, v.Key)

	c.opt.Metrics.Evict(v.Reason)
	if cb := c.opt.OnEvict; cb != nil {
		cb(n.Value, v.Reason)
	}
	return true
}

// -------------------- policy hooks --------------------

// policyHooks adapts the cache's structures to policy.Hooks.
type policyHooks[K cmp.Ordered, V any, P cmp.Ordered, E Number] struct{ c *cache[K, V, P, E] }

func (h policyHooks[K, V, P, E]) Len() int { return len(h.c.index) }

func (h policyHooks[K, V, P, E]) Soonest() (K, E, bool) {
	k, e, err := h.c.exp.Peek()
	return k, e, err == nil
}

func (h policyHooks[K, V, P, E]) Coldest() (K, bool) {
	p, ok := h.c.items.Lowest()
	if !ok {
		var zero K
		return zero, false
	}
	return h.c.items.Tail(p).Value.Key, true
}

func (h policyHooks[K, V, P, E]) Expired(exp E) bool { return exp < h.c.now }
