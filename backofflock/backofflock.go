// Package backofflock implements a test-and-test-and-set spinlock augmented
// with bounded exponential backoff on compare-and-swap failure, following
// the same recipe as ttas.Lock but inserting a backoff.Backoff between
// retries to reduce contention on the shared cache line further.
package backofflock

import (
	"sync/atomic"
	"time"

	"github.com/ahrav/golamp/backoff"
)

// Lock is a TTAS lock with bounded exponential backoff.
type Lock struct {
	state    atomic.Bool
	minDelay time.Duration
	maxDelay time.Duration
}

// NewLock creates a Lock whose backoff ranges over [minDelay, maxDelay].
func NewLock(minDelay, maxDelay time.Duration) *Lock {
	return &Lock{minDelay: minDelay, maxDelay: maxDelay}
}

// Lock spins until it acquires the lock, backing off between failed
// compare-and-swap attempts.
func (l *Lock) Lock() {
	b := backoff.New(l.minDelay, l.maxDelay)
	for {
		for l.state.Load() {
		}
		if !l.state.Swap(true) {
			return
		}
		b.Backoff()
	}
}

// TryLock attempts to acquire the lock without blocking or backing off.
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
