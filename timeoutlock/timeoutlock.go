// Package timeoutlock implements a CLH-derived queue lock whose TryLock can
// give up after a deadline, even for a goroutine buried in the middle of the
// wait queue. Ordinary CLH cannot do this: a waiter only ever watches its
// immediate predecessor, so an abandoning goroutine must publish enough
// information for whoever inherits its spot to skip over it.
//
// Each QNode's pred field is a tri-state pointer:
//   - nil: the node is still waiting for the lock.
//   - &available (a package-level sentinel): the owner released the lock.
//   - anything else: the owner abandoned; chase that pointer instead.
//
// An abandoned node in the middle of the queue stays linked until its
// successor has skipped past it. After that nothing references it, and the
// garbage collector reclaims it.
package timeoutlock

import (
	"sync/atomic"
	"time"
)

// QNode is a single waiter's queue node.
type QNode struct {
	pred atomic.Pointer[QNode]
}

// available is the RELEASED sentinel. Its address, not its contents, is the
// signal — code must never dereference it.
var available = &QNode{}

// Handle is per-goroutine storage, analogous to clh.Handle.
type Handle struct {
	node *QNode
}

// NewHandle creates a Handle ready for a first TryLock call.
func NewHandle() *Handle {
	return &Handle{}
}

// Lock is a timeout-capable CLH queue lock.
type Lock struct {
	tail atomic.Pointer[QNode]
}

// NewLock creates an unlocked Lock.
func NewLock() *Lock { return &Lock{} }

// TryLock attempts to acquire the lock, giving up after timeout elapses. On
// success h is bound to the acquired node for the matching Unlock call. On
// failure the lock has no observable side effect on shared state beyond a
// possibly-abandoned node left in the queue for successors to skip.
func (l *Lock) TryLock(h *Handle, timeout time.Duration) bool {
	start := time.Now()
	qnode := &QNode{}
	h.node = qnode

	myPred := l.tail.Swap(qnode)
	if myPred == nil || myPred.pred.Load() == available {
		return true
	}

	for time.Since(start) < timeout {
		predPred := myPred.pred.Load()
		if predPred == available {
			return true
		}
		if predPred != nil {
			myPred = predPred
		}
	}

	if l.tail.CompareAndSwap(qnode, myPred) {
		return false
	}
	qnode.pred.Store(myPred)
	return false
}

// Unlock releases the lock acquired by the matching TryLock call.
func (l *Lock) Unlock(h *Handle) {
	qnode := h.node
	if !l.tail.CompareAndSwap(qnode, nil) {
		qnode.pred.Store(available)
	}
	h.node = nil
}
