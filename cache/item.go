package cache

// Item is a resident cache entry. Identity is Key; Value, Priority and
// Expiry never change while the entry is resident.
type Item[K, V, P, E any] struct {
	Key      K
	Value    V
	Priority P
	Expiry   E
}
