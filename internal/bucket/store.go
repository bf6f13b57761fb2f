// Package bucket groups values by priority, keeping each group in recency
// order (front = most recently touched, back = least recently touched).
package bucket

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/google/btree"
)

// ErrNotFound is returned by RemoveTail when no bucket exists for a priority.
var ErrNotFound = errors.New("bucket: not found")

// btreeDegree is small on purpose: distinct priorities are few in practice.
const btreeDegree = 8

// bucket is an intrusive doubly linked list of nodes sharing one priority.
type bucket[P cmp.Ordered, T any] struct {
	prio P
	head *Node[P, T] // most recent
	tail *Node[P, T] // least recent
	n    int
}

// Store maps priority -> bucket and keeps the priorities ordered, so the
// lowest bucket is found in O(log #priorities). Empty buckets are dropped
// as soon as their last node leaves.
//
// Store is not safe for concurrent use.
type Store[P cmp.Ordered, T any] struct {
	buckets map[P]*bucket[P, T]
	order   *btree.BTreeG[P]
	n       int
}

// New returns an empty Store.
func New[P cmp.Ordered, T any]() *Store[P, T] {
	return &Store[P, T]{
		buckets: make(map[P]*bucket[P, T]),
		order:   btree.NewG[P](btreeDegree, cmp.Less[P]),
	}
}

// Len returns the number of stored values across all buckets.
func (s *Store[P, T]) Len() int { return s.n }

// Buckets returns the number of non-empty buckets.
func (s *Store[P, T]) Buckets() int { return len(s.buckets) }

// BucketLen returns the size of the bucket for p (0 if absent).
func (s *Store[P, T]) BucketLen(p P) int {
	if b, ok := s.buckets[p]; ok {
		return b.n
	}
	return 0
}

// InsertFront stores v at the front of p's bucket, creating the bucket if
// needed. The returned node stays valid until it is removed.
func (s *Store[P, T]) InsertFront(p P, v T) *Node[P, T] {
	b, ok := s.buckets[p]
	if !ok {
		b = &bucket[P, T]{prio: p}
		s.buckets[p] = b
		s.order.ReplaceOrInsert(p)
	}
	n := &Node[P, T]{Value: v, b: b}
	b.pushFront(n)
	s.n++
	return n
}

// Touch moves n to the front of its own bucket. Detached nodes are ignored.
func (s *Store[P, T]) Touch(n *Node[P, T]) {
	if n == nil || n.b == nil {
		return
	}
	n.b.moveToFront(n)
}

// Lowest returns the smallest priority that has a bucket.
// ok is false when the store is empty.
func (s *Store[P, T]) Lowest() (p P, ok bool) {
	return s.order.Min()
}

// Tail returns the least recent node of p's bucket, or nil.
func (s *Store[P, T]) Tail(p P) *Node[P, T] {
	if b, ok := s.buckets[p]; ok {
		return b.tail
	}
	return nil
}

// RemoveTail removes and returns the least recent value of p's bucket.
func (s *Store[P, T]) RemoveTail(p P) (T, error) {
	b, ok := s.buckets[p]
	if !ok || b.tail == nil {
		var zero T
		return zero, fmt.Errorf("%w: priority %v", ErrNotFound, p)
	}
	n := b.tail
	s.Remove(n)
	return n.Value, nil
}

// Remove detaches n from its bucket and prunes the bucket if it empties.
// It reports false if n was already detached.
func (s *Store[P, T]) Remove(n *Node[P, T]) bool {
	if n == nil || n.b == nil {
		return false
	}
	b := n.b
	b.remove(n)
	s.n--
	if b.n == 0 {
		delete(s.buckets, b.prio)
		s.order.Delete(b.prio)
	}
	return true
}

// Ascend calls fn for every value, buckets in ascending priority and each
// bucket from most to least recent, until fn returns false.
func (s *Store[P, T]) Ascend(fn func(p P, v T) bool) {
	s.order.Ascend(func(p P) bool {
		for n := s.buckets[p].head; n != nil; n = n.next {
			if !fn(p, n.Value) {
				return false
			}
		}
		return true
	})
}

// Clear drops every bucket. Outstanding nodes become detached.
func (s *Store[P, T]) Clear() {
	for _, b := range s.buckets {
		for n := b.head; n != nil; {
			next := n.next
			n.prev, n.next, n.b = nil, nil, nil
			n = next
		}
	}
	clear(s.buckets)
	s.order.Clear(false)
	s.n = 0
}
