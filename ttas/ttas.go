// Package ttas implements a test-and-test-and-set spinlock: it spins on a
// plain load until the lock looks free before attempting the
// compare-and-swap that actually claims it. This keeps contending goroutines
// off the cache-coherence bus while the lock is held, trading that for no
// improvement in fairness over tas.Lock.
package ttas

import "sync/atomic"

// Lock is a test-and-test-and-set spinlock.
type Lock struct {
	state atomic.Bool
}

// NewLock creates an unlocked Lock.
func NewLock() *Lock { return &Lock{} }

// Lock spins until it acquires the lock.
func (l *Lock) Lock() {
	for {
		for l.state.Load() {
		}
		if !l.state.Swap(true) {
			return
		}
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	if l.state.Load() {
		return false
	}
	return !l.state.Swap(true)
}

// Unlock releases the lock.
func (l *Lock) Unlock() {
	l.state.Store(false)
}
