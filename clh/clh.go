// Package clh implements the Craig, Landin & Hagersten queue lock: a FIFO,
// starvation-free spinlock where each waiter spins on its predecessor's
// local flag rather than on shared state, giving O(1) memory traffic per
// acquisition regardless of the number of contending goroutines.
//
// CLH's defining trick is that a goroutine "inherits" its predecessor's
// QNode on unlock: the node it just released becomes its new node for the
// next acquisition. Go has no portable thread-local storage, so each
// goroutine keeps its own *Handle across repeated Lock/Unlock calls, and
// Handle is exactly the in-place-replaceable slot a thread-local QNode
// pointer would otherwise provide.
package clh

import "sync/atomic"

// QNode is a single waiter's queue node.
type QNode struct {
	locked atomic.Bool
}

// Handle is per-goroutine storage for a participant in the queue. A
// goroutine must use the same Handle for every Lock/Unlock pair it issues
// against a given Lock.
type Handle struct {
	node *QNode
	pred *QNode
}

// NewHandle creates a Handle with a fresh QNode, ready for a first Lock
// call.
func NewHandle() *Handle {
	return &Handle{node: &QNode{}}
}

// Lock is a CLH queue lock.
type Lock struct {
	tail atomic.Pointer[QNode]
}

// NewLock creates an unlocked Lock, pre-seeded with a released dummy node so
// the first acquirer finds an available predecessor.
func NewLock() *Lock {
	l := &Lock{}
	dummy := &QNode{}
	l.tail.Store(dummy)
	return l
}

// Lock acquires the lock for h's owning goroutine, spinning on the
// predecessor node's locked flag.
func (l *Lock) Lock(h *Handle) {
	h.node.locked.Store(true)
	pred := l.tail.Swap(h.node)
	h.pred = pred
	for pred.locked.Load() {
	}
}

// TryLock attempts to acquire the lock without blocking. It succeeds only
// if the queue is currently empty (the tail's node is already released).
func (l *Lock) TryLock(h *Handle) bool {
	tail := l.tail.Load()
	if tail.locked.Load() {
		return false
	}
	h.node.locked.Store(true)
	if !l.tail.CompareAndSwap(tail, h.node) {
		h.node.locked.Store(false)
		return false
	}
	h.pred = tail
	return true
}

// Unlock releases the lock. h's node is released and h inherits the
// predecessor node for its next acquisition, exactly as the original's
// thread-local storage swap does.
func (l *Lock) Unlock(h *Handle) {
	h.node.locked.Store(false)
	h.node = h.pred
	h.pred = nil
}
