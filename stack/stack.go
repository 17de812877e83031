// FILE: lixenwraith/asynclog/stack/stack.go
// Package stack provides an intrusive lock-free LIFO for many producers and a
// single consumer that periodically detaches everything queued so far.
package stack

import "sync/atomic"

// Node is one queued value. next points at the next-older node and is fixed
// at push time; prev is only set while a detached chain is being drained.
type Node[T any] struct {
	value T
	next  *Node[T]
	prev  *Node[T]
}

// release drops every reference held by the node
func (n *Node[T]) release() {
	var zero T
	n.value = zero
	n.next = nil
	n.prev = nil
}

// Stack is a Treiber stack. Push is safe from any number of goroutines,
// TakeAll must only be called by a single consumer at a time.
type Stack[T any] struct {
	head atomic.Pointer[Node[T]]
}

// Push queues v. It never blocks; under contention it retries the CAS.
func (s *Stack[T]) Push(v T) {
	n := &Node[T]{value: v}
	for {
		old := s.head.Load()
		n.next = old
		if s.head.CompareAndSwap(old, n) {
			return
		}
	}
}

// TakeAll detaches every queued node and leaves the stack empty.
// The returned chain is never nil.
func (s *Stack[T]) TakeAll() *Chain[T] {
	return &Chain[T]{head: s.head.Swap(nil)}
}

// Empty reports whether nothing is queued at the moment of the call
func (s *Stack[T]) Empty() bool {
	return s.head.Load() == nil
}

// Chain owns the nodes detached by a single TakeAll, newest first
type Chain[T any] struct {
	head *Node[T]
}

// Empty reports whether the chain holds no nodes
func (c *Chain[T]) Empty() bool {
	return c == nil || c.head == nil
}

// Len counts the nodes still owned by the chain
func (c *Chain[T]) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for p := c.head; p != nil; p = p.next {
		n++
	}
	return n
}

// Drain calls fn for every value in push order (oldest first). Each node is
// unlinked and released before fn sees its value, so a value is handed out at
// most once. The chain is empty afterwards and a second Drain is a no-op.
// If fn panics, the chain keeps exactly the values not yet handed out.
// Returns the number of values passed to fn.
func (c *Chain[T]) Drain(fn func(T)) int {
	if c.Empty() {
		return 0
	}

	tail := c.head
	for tail.next != nil {
		tail.next.prev = tail
		tail = tail.next
	}

	count := 0
	for p := tail; p != nil; {
		newer := p.prev
		if newer != nil {
			newer.next = nil
		} else {
			c.head = nil
		}
		v := p.value
		p.release()

		count++
		fn(v)
		p = newer
	}
	return count
}
