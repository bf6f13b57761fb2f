// Package pqueue provides an indexed binary min-heap keyed by a logical key.
//
// Unlike container/heap, Indexed can remove an arbitrary entry by key in
// O(log n). It keeps a key→slot map in lockstep with the slot→entry array:
// every exchange of two slots goes through swap, which updates both sides.
//
// Indexed is not safe for concurrent use.
package pqueue

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned by Peek and Pop on an empty heap.
	ErrEmpty = errors.New("pqueue: empty")
	// ErrDuplicateKey is returned by Push when the key is already queued.
	ErrDuplicateKey = errors.New("pqueue: duplicate key")
)

type entry[K, E cmp.Ordered] struct {
	exp E
	key K
}

// less orders by expiry, then by key so equal expiries have a total order.
func (a entry[K, E]) less(b entry[K, E]) bool {
	if c := cmp.Compare(a.exp, b.exp); c != 0 {
		return c < 0
	}
	return cmp.Less(a.key, b.key)
}

// Indexed is a min-heap of (expiry, key) pairs.
// The zero value is not usable; call NewIndexed.
type Indexed[K, E cmp.Ordered] struct {
	items []entry[K, E] // slot -> entry (and therefore slot -> key)
	slot  map[K]int     // key -> slot
}

// NewIndexed returns an empty heap with room for hint entries.
func NewIndexed[K, E cmp.Ordered](hint int) *Indexed[K, E] {
	if hint < 0 {
		hint = 0
	}
	return &Indexed[K, E]{
		items: make([]entry[K, E], 0, hint),
		slot:  make(map[K]int, hint),
	}
}

// Len returns the number of queued entries.
func (h *Indexed[K, E]) Len() int { return len(h.items) }

// Empty reports whether the heap has no entries.
func (h *Indexed[K, E]) Empty() bool { return len(h.items) == 0 }

// Contains reports whether key is queued.
func (h *Indexed[K, E]) Contains(key K) bool {
	_, ok := h.slot[key]
	return ok
}

// Expiry returns the expiry queued for key.
func (h *Indexed[K, E]) Expiry(key K) (E, bool) {
	i, ok := h.slot[key]
	if !ok {
		var zero E
		return zero, false
	}
	return h.items[i].exp, true
}

// Push queues key with the given expiry.
func (h *Indexed[K, E]) Push(key K, exp E) error {
	if _, ok := h.slot[key]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	h.items = append(h.items, entry[K, E]{exp: exp, key: key})
	i := len(h.items) - 1
	h.slot[key] = i
	h.up(i)
	return nil
}

// Peek returns the entry with the smallest expiry without removing it.
func (h *Indexed[K, E]) Peek() (K, E, error) {
	if len(h.items) == 0 {
		var (
			k K
			e E
		)
		return k, e, ErrEmpty
	}
	top := h.items[0]
	return top.key, top.exp, nil
}

// Pop removes and returns the entry with the smallest expiry.
func (h *Indexed[K, E]) Pop() (K, E, error) {
	if len(h.items) == 0 {
		var (
			k K
			e E
		)
		return k, e, ErrEmpty
	}
	top := h.items[0]
	h.removeAt(0)
	return top.key, top.exp, nil
}

// Remove deletes key from the heap. It returns false if key is not queued.
func (h *Indexed[K, E]) Remove(key K) bool {
	i, ok := h.slot[key]
	if !ok {
		return false
	}
	h.removeAt(i)
	return true
}

// Clear drops all entries, keeping allocated capacity.
func (h *Indexed[K, E]) Clear() {
	clear(h.items)
	h.items = h.items[:0]
	clear(h.slot)
}

// removeAt moves slot i to the end, truncates, and restores order at i.
// The element that lands in i may belong either above or below, so both
// directions are tried; at most one of them moves it.
func (h *Indexed[K, E]) removeAt(i int) {
	last := len(h.items) - 1
	gone := h.items[i].key
	if i != last {
		h.swap(i, last)
	}
	var zero entry[K, E]
	h.items[last] = zero
	h.items = h.items[:last]
	delete(h.slot, gone)
	if i < last {
		if !h.up(i) {
			h.down(i)
		}
	}
}

// swap exchanges slots i and j in the array and in the key index.
func (h *Indexed[K, E]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.slot[h.items[i].key] = i
	h.slot[h.items[j].key] = j
}

// up sifts slot i toward the root and reports whether it moved.
func (h *Indexed[K, E]) up(i int) bool {
	start := i
	for i > 0 {
		p := (i - 1) / 2
		if !h.items[i].less(h.items[p]) {
			break
		}
		h.swap(i, p)
		i = p
	}
	return i != start
}

// down sifts slot i toward the leaves.
func (h *Indexed[K, E]) down(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		m := l
		if r := l + 1; r < n && h.items[r].less(h.items[l]) {
			m = r
		}
		if !h.items[m].less(h.items[i]) {
			return
		}
		h.swap(i, m)
		i = m
	}
}
