package cache

import (
	"math/rand"
	"strconv"
	"testing"
)

// Cyclic priority/expiry vectors used by the fill-and-drain workload.
var (
	benchPrio = []int{5, 15, 1, 5, 5}
	benchExp  = []int{100, 3, 15, 150, 100}
)

// benchmarkFillDrain fills the cache to n entries, then shrinks capacity
// one slot at a time down to zero, so every entry leaves through eviction.
func benchmarkFillDrain(b *testing.B, n int) {
	c := New[string, int, int, int](Options[string, int, int, int]{Capacity: n})
	keys := make([]string, n)
	for i := range keys {
		keys[i] = "k:" + strconv.Itoa(i)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SetCapacity(n)
		for j, k := range keys {
			_ = c.Set(k, j, benchPrio[j%len(benchPrio)], benchExp[j%len(benchExp)])
		}
		for size := c.Len(); size > 0; size-- {
			c.SetCapacity(size - 1)
		}
	}
}

func BenchmarkCache_FillDrain_1k(b *testing.B)  { benchmarkFillDrain(b, 1_000) }
func BenchmarkCache_FillDrain_10k(b *testing.B) { benchmarkFillDrain(b, 10_000) }

// benchmarkMix exercises a read/write mix against a warm, full cache.
// Writes to resident keys fail with ErrAlreadyExists, which is part of the
// measured path.
func benchmarkMix(b *testing.B, readsPct int) {
	const capacity = 50_000
	c := New[int, int, int, int](Options[int, int, int, int]{Capacity: capacity})
	for i := 0; i < capacity; i++ {
		_ = c.Set(i, i, i%8, 1_000_000)
	}

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 17) - 1

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := r.Int() & keyMask
		if r.Intn(100) < readsPct {
			_, _ = c.Get(k)
		} else {
			_ = c.Set(k, i, k%8, 1_000_000)
		}
	}
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }
