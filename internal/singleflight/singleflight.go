// Package singleflight coalesces concurrent loads of the same cache key.
package singleflight

import (
	"context"
	"errors"
	"sync"
)

// ErrPanicked is delivered to waiting callers when the leader's fn panics.
var ErrPanicked = errors.New("singleflight: load panicked")

// Group runs fn at most once per key among concurrent callers; the others
// wait for and share the leader's result.
//
// Concurrency notes:
//   - The leader runs fn with its own ctx. A follower whose ctx is
//     cancelled returns ctx.Err() without affecting the leader.
//   - Publishing (val, err) happens-before close(done), so followers that
//     observe done read the final values.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done    chan struct{} // closed when val/err are published
	val     V
	err     error
	waiters int
}

// Do executes fn for key unless a call for key is already in flight, in
// which case it waits for that call. shared reports whether the result was
// delivered to more than one caller.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func(context.Context) (V, error)) (v V, shared bool, err error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		c.waiters++
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.val, true, c.err
		case <-ctx.Done():
			var zero V
			return zero, false, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Clean up even if fn panics, so the key is not stuck in flight.
	normal := false
	defer func() {
		if !normal {
			c.err = ErrPanicked
		}
		g.mu.Lock()
		delete(g.m, key)
		shared = c.waiters > 0
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn(ctx)
	normal = true
	return c.val, false, c.err
}

// InFlight reports whether a call for key is currently running.
func (g *Group[K, V]) InFlight(key K) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.m[key]
	return ok
}
