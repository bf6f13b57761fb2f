// Package expirefirst implements the default eviction policy: evict an
// expired entry if one exists, otherwise the least recently touched entry
// of the lowest-priority bucket.
package expirefirst

import "github.com/IvanBrykalov/pecache/policy"

type expireFirst[K, E any] struct{}

// New returns the expire-first policy.
func New[K, E any]() policy.Policy[K, E] { return expireFirst[K, E]{} }

// Choose only needs the minimum-expiry entry to decide whether anything is
// expired: if the soonest entry is still live, every entry is.
func (expireFirst[K, E]) Choose(h policy.Hooks[K, E]) (policy.Victim[K], bool) {
	if h.Len() == 0 {
		return policy.Victim[K]{}, false
	}
	if k, exp, ok := h.Soonest(); ok && h.Expired(exp) {
		return policy.Victim[K]{Key: k, Reason: policy.Expired}, true
	}
	if k, ok := h.Coldest(); ok {
		return policy.Victim[K]{Key: k, Reason: policy.Priority}, true
	}
	return policy.Victim[K]{}, false
}
