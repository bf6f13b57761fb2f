package pqueue

import (
	"errors"
	"math/rand"
	"testing"
)

// checkHeap verifies heap order and that both index directions agree.
func checkHeap[K, E interface{ ~int | ~string }](t *testing.T, h *Indexed[K, E]) {
	t.Helper()
	if len(h.slot) != len(h.items) {
		t.Fatalf("index size %d != heap size %d", len(h.slot), len(h.items))
	}
	for i, it := range h.items {
		if got, ok := h.slot[it.key]; !ok || got != i {
			t.Fatalf("slot[%v]=%d ok=%v, want %d", it.key, got, ok, i)
		}
		if i > 0 {
			p := (i - 1) / 2
			if h.items[i].less(h.items[p]) {
				t.Fatalf("heap order broken at %d (parent %d): %v < %v", i, p, h.items[i], h.items[p])
			}
		}
	}
}

func drain[K, E interface{ ~int | ~string }](t *testing.T, h *Indexed[K, E]) []K {
	t.Helper()
	var out []K
	var prev E
	first := true
	for !h.Empty() {
		k, e, err := h.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if !first && e < prev {
			t.Fatalf("Pop out of order: %v after %v", e, prev)
		}
		prev, first = e, false
		out = append(out, k)
		checkHeap(t, h)
	}
	return out
}

func TestIndexed_PushPopOrder(t *testing.T) {
	t.Parallel()

	h := NewIndexed[int, int](0)
	for _, k := range []int{5, 3, 4, 1, 2} {
		if err := h.Push(k, k); err != nil {
			t.Fatalf("Push %d: %v", k, err)
		}
		checkHeap(t, h)
	}
	k, e, err := h.Peek()
	if err != nil || k != 1 || e != 1 {
		t.Fatalf("Peek = (%d,%d,%v), want (1,1,nil)", k, e, err)
	}
	got := drain(t, h)
	for i, k := range got {
		if k != i+1 {
			t.Fatalf("drain order %v", got)
		}
	}
	if h.Len() != 0 || !h.Empty() {
		t.Fatal("heap must be empty after drain")
	}
}

// Equal expiries are reported in key order.
func TestIndexed_TieBreakByKey(t *testing.T) {
	t.Parallel()

	h := NewIndexed[string, int](4)
	for _, k := range []string{"c", "a", "d", "b"} {
		_ = h.Push(k, 7)
	}
	got := drain(t, h)
	want := []string{"a", "b", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIndexed_Errors(t *testing.T) {
	t.Parallel()

	h := NewIndexed[int, int](0)
	if _, _, err := h.Peek(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Peek on empty: %v", err)
	}
	if _, _, err := h.Pop(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Pop on empty: %v", err)
	}
	if h.Remove(42) {
		t.Fatal("Remove of absent key must be false")
	}
	_ = h.Push(1, 10)
	if err := h.Push(1, 20); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("duplicate Push: %v", err)
	}
	if e, ok := h.Expiry(1); !ok || e != 10 {
		t.Fatalf("failed Push must not change the entry, got %d", e)
	}
	checkHeap(t, h)
}

// Removal from root, internal node and leaf, checking bookkeeping each time.
func TestIndexed_RemoveEveryPosition(t *testing.T) {
	t.Parallel()

	build := func() *Indexed[int, int] {
		h := NewIndexed[int, int](15)
		for k := 1; k <= 15; k++ {
			_ = h.Push(k, k*10)
		}
		return h
	}

	for slot := 0; slot < 15; slot++ {
		h := build()
		victim := h.items[slot].key
		if !h.Remove(victim) {
			t.Fatalf("Remove(%d) at slot %d returned false", victim, slot)
		}
		checkHeap(t, h)
		if h.Contains(victim) {
			t.Fatalf("slot %d: %d still present", slot, victim)
		}
		got := drain(t, h)
		if len(got) != 14 {
			t.Fatalf("slot %d: drained %d keys", slot, len(got))
		}
		for _, k := range got {
			if k == victim {
				t.Fatalf("slot %d: removed key %d reappeared", slot, victim)
			}
		}
	}
}

// A removal whose replacement must move up rather than down.
func TestIndexed_RemoveSiftsUp(t *testing.T) {
	t.Parallel()

	h := NewIndexed[string, int](0)
	// Layout: a(1) / b(50) c(2) / d(60) e(70) f(3) g(4)
	// Removing e pulls g(4) under b(50), which must rise.
	for _, p := range []struct {
		k string
		e int
	}{{"a", 1}, {"b", 50}, {"c", 2}, {"d", 60}, {"e", 70}, {"f", 3}, {"g", 4}} {
		_ = h.Push(p.k, p.e)
	}
	checkHeap(t, h)
	if !h.Remove("e") {
		t.Fatal("Remove(e) = false")
	}
	checkHeap(t, h)
	if i := h.slot["g"]; i != 1 {
		t.Fatalf("g must have risen to slot 1, at %d", i)
	}
}

// Any single key removed from a randomly built heap leaves the rest
// poppable in non-decreasing order.
func TestIndexed_RemoveCompleteness(t *testing.T) {
	t.Parallel()

	const n = 64
	r := rand.New(rand.NewSource(7))
	for victim := 1; victim <= n; victim++ {
		h := NewIndexed[int, int](n)
		for _, k := range r.Perm(n) {
			_ = h.Push(k+1, r.Intn(20))
		}
		if !h.Remove(victim) {
			t.Fatalf("Remove(%d) = false", victim)
		}
		got := drain(t, h)
		if len(got) != n-1 {
			t.Fatalf("victim %d: drained %d", victim, len(got))
		}
	}
}

func TestIndexed_Clear(t *testing.T) {
	t.Parallel()

	h := NewIndexed[int, int](0)
	for k := 0; k < 10; k++ {
		_ = h.Push(k, k)
	}
	h.Clear()
	if !h.Empty() || h.Contains(3) {
		t.Fatal("Clear must drop all entries")
	}
	if err := h.Push(3, 1); err != nil {
		t.Fatalf("Push after Clear: %v", err)
	}
	checkHeap(t, h)
}
