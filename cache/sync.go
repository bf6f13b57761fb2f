package cache

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IvanBrykalov/pecache/internal/singleflight"
)

// Loader produces the value, priority and expiry for a missing key.
type Loader[K, V, P, E any] func(ctx context.Context, k K) (v V, priority P, exp E, err error)

// Synchronized serializes every call on an underlying Cache with a mutex.
// Get reorders recency, so reads take the exclusive lock as well.
type Synchronized[K cmp.Ordered, V any, P cmp.Ordered, E Number] struct {
	mu sync.Mutex
	c  Cache[K, V, P, E]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// NewSynchronized wraps c. The caller must not use c directly afterwards.
func NewSynchronized[K cmp.Ordered, V any, P cmp.Ordered, E Number](c Cache[K, V, P, E]) *Synchronized[K, V, P, E] {
	return &Synchronized[K, V, P, E]{c: c}
}

var _ Cache[string, int, int, int] = (*Synchronized[string, int, int, int])(nil)

func (s *Synchronized[K, V, P, E]) Get(k K) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Get(k)
}

func (s *Synchronized[K, V, P, E]) Peek(k K) (Item[K, V, P, E], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Peek(k)
}

func (s *Synchronized[K, V, P, E]) Set(k K, v V, priority P, exp E) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Set(k, v, priority, exp)
}

func (s *Synchronized[K, V, P, E]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Remove(k)
}

func (s *Synchronized[K, V, P, E]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Len()
}

func (s *Synchronized[K, V, P, E]) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Empty()
}

func (s *Synchronized[K, V, P, E]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Keys()
}

// Range holds the lock for the whole walk; fn must not call back into s.
func (s *Synchronized[K, V, P, E]) Range(fn func(it Item[K, V, P, E]) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Range(fn)
}

func (s *Synchronized[K, V, P, E]) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Capacity()
}

func (s *Synchronized[K, V, P, E]) SetCapacity(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.SetCapacity(n)
}

func (s *Synchronized[K, V, P, E]) AdvanceClock(delta E) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.AdvanceClock(delta)
}

func (s *Synchronized[K, V, P, E]) ResetClock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.ResetClock()
}

func (s *Synchronized[K, V, P, E]) Now() E {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Now()
}

func (s *Synchronized[K, V, P, E]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Clear()
}

// GetOrLoad returns the value for k; on miss it calls load, coalescing
// concurrent loads for the same key, and stores the result. The loader
// runs without holding the cache lock.
//
// If the loaded entry cannot be stored (already expired, zero capacity)
// the error from Set is returned together with the zero value.
func (s *Synchronized[K, V, P, E]) GetOrLoad(ctx context.Context, k K, load Loader[K, V, P, E]) (V, error) {
	// fast path
	if v, err := s.Get(k); err == nil {
		return v, nil
	}

	v, _, err := s.sf.Do(ctx, k, func(ctx context.Context) (V, error) {
		// double-check after flight join; Peek keeps the miss counted once
		if it, err := s.Peek(k); err == nil {
			return it.Value, nil
		}
		v, p, exp, err := load(ctx, k)
		if err != nil {
			var zero V
			return zero, fmt.Errorf("cache: load %v: %w", k, err)
		}
		if err := s.Set(k, v, p, exp); err != nil && !errors.Is(err, ErrAlreadyExists) {
			var zero V
			return zero, err
		}
		return v, nil
	})
	return v, err
}
