package bucket

import "cmp"

// Node is an intrusive list element owned by a Store. A *Node is the
// locator handed out by InsertFront: it stays valid across later inserts
// and removals of other nodes, and is detached (b == nil) once removed.
type Node[P cmp.Ordered, T any] struct {
	Value T

	// Intrusive list links: head is most recent, tail least recent.
	prev *Node[P, T]
	next *Node[P, T]

	// Owning bucket; nil once the node has been removed.
	b *bucket[P, T]
}

// Attached reports whether the node still belongs to a bucket.
func (n *Node[P, T]) Attached() bool { return n.b != nil }

func (b *bucket[P, T]) pushFront(n *Node[P, T]) {
	n.prev = nil
	n.next = b.head
	if b.head != nil {
		b.head.prev = n
	}
	b.head = n
	if b.tail == nil {
		b.tail = n
	}
	b.n++
}

func (b *bucket[P, T]) moveToFront(n *Node[P, T]) {
	if n == b.head {
		return
	}
	// detach
	n.prev.next = n.next
	if n.next != nil {
		n.next.prev = n.prev
	}
	if b.tail == n {
		b.tail = n.prev
	}
	// insert at head
	n.prev = nil
	n.next = b.head
	b.head.prev = n
	b.head = n
}

func (b *bucket[P, T]) remove(n *Node[P, T]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if b.head == n {
		b.head = n.next
	}
	if b.tail == n {
		b.tail = n.prev
	}
	n.prev, n.next, n.b = nil, nil, nil
	b.n--
}
