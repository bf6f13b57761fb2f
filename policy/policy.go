package policy

// Reason explains why an entry was chosen for eviction.
type Reason int

const (
	// Expired: the entry's expiry is behind the logical clock.
	Expired Reason = iota
	// Priority: least recently touched entry of the lowest-priority bucket.
	Priority
)

func (r Reason) String() string {
	switch r {
	case Expired:
		return "expired"
	case Priority:
		return "priority"
	default:
		return "unknown"
	}
}

// Hooks give a policy read-only access to the cache's ordering structures.
// Implementations are provided by the cache.
//
// Important: hooks never mutate; the cache performs the actual removal.
type Hooks[K, E any] interface {
	// Len returns the number of resident entries.
	Len() int
	// Soonest returns the entry with the smallest expiry (ok=false if empty).
	Soonest() (key K, exp E, ok bool)
	// Coldest returns the tail of the lowest-priority bucket (ok=false if empty).
	Coldest() (key K, ok bool)
	// Expired reports whether exp lies strictly before the logical clock.
	Expired(exp E) bool
}

// Victim names the entry a policy wants evicted and why.
type Victim[K any] struct {
	Key    K
	Reason Reason
}

// Policy decides which single entry to evict when the cache needs a slot.
// Choose is called once per slot; ok=false means nothing can be evicted.
type Policy[K, E any] interface {
	Choose(h Hooks[K, E]) (v Victim[K], ok bool)
}
