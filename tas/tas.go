// Package tas implements the simplest possible mutual-exclusion lock: a
// test-and-set spinlock with no fairness guarantee and no bound on the
// number of goroutines that may starve waiting for it. It exists as the
// baseline the other queue-based locks in this module are measured against.
package tas

import "sync/atomic"

// Lock is a test-and-set spinlock. It is lock-free in the progress sense
// (some goroutine always makes progress) but gives no fairness: under
// contention any given goroutine may be repeatedly passed over.
type Lock struct {
	state atomic.Bool
}

// NewLock creates an unlocked Lock.
func NewLock() *Lock { return &Lock{} }

// Lock spins until it acquires the lock.
func (l *Lock) Lock() {
	for l.state.Swap(true) {
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	return !l.state.Swap(true)
}

// Unlock releases the lock.
func (l *Lock) Unlock() {
	l.state.Store(false)
}
