// Package composite implements the CompositeLock: a bounded-space,
// timeout-capable queue lock built from a fixed array of reusable QNodes
// plus an atomic-stamped-pointer tail. Unlike CLH/MCS/TimeoutLock, it never
// allocates per acquisition — every waiter claims one of a pre-allocated
// pool of `size` nodes — at the cost of occasionally backing off when the
// randomly chosen slot is already in use.
package composite

import (
	"sync/atomic"
	"time"

	"github.com/ahrav/golamp/backoff"
	golampatomic "github.com/ahrav/golamp/atomic"
)

type qstate int32

const (
	free qstate = iota
	waiting
	released
	aborted
)

// QNode is one slot in the lock's fixed-size waiting array.
type QNode struct {
	state atomic.Int32
	pred  atomic.Pointer[QNode]
}

func (q *QNode) loadState() qstate { return qstate(q.state.Load()) }
func (q *QNode) storeState(s qstate) { q.state.Store(int32(s)) }
func (q *QNode) casState(from, to qstate) bool {
	return q.state.CompareAndSwap(int32(from), int32(to))
}

// Handle is per-goroutine storage binding a successful TryLock call to the
// QNode it must Unlock.
type Handle struct {
	node *QNode
}

// Lock is the CompositeLock: a fixed pool of size QNodes, one of which a
// caller claims at random (backing off when the chosen node is busy) and
// splices into a queue through a stamped tail pointer.
type Lock struct {
	size     int
	minDelay time.Duration
	maxDelay time.Duration

	waiting []QNode
	tail    *golampatomic.StampedPtr[QNode]
}

// NewLock creates a CompositeLock with the given fixed node-pool size and
// backoff bounds. size must exceed the maximum number of goroutines that
// will ever hold or wait for the lock at once.
func NewLock(size int, minDelay, maxDelay time.Duration) *Lock {
	if size <= 0 {
		panic("composite: size must be positive")
	}
	return &Lock{
		size:     size,
		minDelay: minDelay,
		maxDelay: maxDelay,
		waiting:  make([]QNode, size),
		tail:     golampatomic.NewStampedPtr[QNode](nil, 0),
	}
}

// TryLock attempts to acquire the lock within timeout. On success, h is
// bound to the acquired node and must be passed to the matching Unlock. On
// timeout it returns false with no externally observable effect beyond
// possibly leaving an ABORTED node in the queue for successors to skip.
func (l *Lock) TryLock(h *Handle, timeout time.Duration) bool {
	start := time.Now()

	node, ok := l.acquireQNode(start, timeout)
	if !ok {
		return false
	}

	pred, ok := l.spliceQNode(node, start, timeout)
	if !ok {
		node.storeState(free)
		return false
	}

	if !l.waitForPredecessor(pred, node, start, timeout) {
		return false
	}

	h.node = node
	return true
}

func (l *Lock) acquireQNode(start time.Time, timeout time.Duration) (*QNode, bool) {
	b := backoff.New(l.minDelay, l.maxDelay)
	for {
		idx := backoff.RandIntN(0, l.size-1)
		node := &l.waiting[idx]
		if node.casState(free, waiting) {
			return node, true
		}
		if time.Since(start) > timeout {
			return nil, false
		}
		b.Backoff()
	}
}

func (l *Lock) spliceQNode(node *QNode, start time.Time, timeout time.Duration) (*QNode, bool) {
	for {
		curTail, stamp := l.tail.Load()
		if time.Since(start) > timeout {
			return nil, false
		}
		if l.tail.CompareAndSwap(curTail, stamp, node, stamp+1) {
			return curTail, true
		}
	}
}

func (l *Lock) waitForPredecessor(pred, node *QNode, start time.Time, timeout time.Duration) bool {
	if pred == nil {
		return true
	}

	predState := pred.loadState()
	for predState != released {
		if predState == aborted {
			nextPred := pred.pred.Load()
			pred.storeState(free)
			pred = nextPred
		}

		if time.Since(start) > timeout {
			node.pred.Store(pred)
			node.storeState(aborted)
			return false
		}

		predState = pred.loadState()
	}

	pred.storeState(free)
	return true
}

// Unlock releases the lock acquired by a matching TryLock call.
func (l *Lock) Unlock(h *Handle) {
	if h.node == nil {
		return
	}
	h.node.storeState(released)
	h.node = nil
}
