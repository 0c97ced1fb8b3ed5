// Package filter implements the Filter lock, Peterson's algorithm
// generalized to n participants via n-1 "levels" with a per-level victim
// register. It is starvation-free but O(n) in both memory and the work done
// per lock/unlock pair. Like Peterson, it requires sequentially consistent
// atomics.
package filter

import "sync/atomic"

// Lock is the n-thread Filter lock. Participants are indexed 0..n-1; each
// must call Lock and Unlock with its own, fixed id.
type Lock struct {
	numThreads int
	level      []atomic.Int32
	victim     []atomic.Int32
}

// NewLock creates a Filter lock for n participants.
func NewLock(n int) *Lock {
	if n <= 0 {
		panic("filter: n must be positive")
	}
	return &Lock{
		numThreads: n,
		level:      make([]atomic.Int32, n),
		victim:     make([]atomic.Int32, n),
	}
}

// Lock acquires the lock on behalf of participant me.
func (l *Lock) Lock(me int) {
	for i := 1; i < l.numThreads; i++ {
		l.level[me].Store(int32(i))
		l.victim[i].Store(int32(me))

		for l.conflictAt(i, me) {
		}
	}
}

func (l *Lock) conflictAt(i, me int) bool {
	if int(l.victim[i].Load()) != me {
		return false
	}
	for k := 0; k < l.numThreads; k++ {
		if k != me && int(l.level[k].Load()) >= i {
			return true
		}
	}
	return false
}

// Unlock releases the lock held by participant me.
func (l *Lock) Unlock(me int) {
	l.level[me].Store(0)
}
