// Package alock implements the array-based FIFO lock: a shared ring of
// flags where slot 0 starts "go", each goroutine spins on its own
// dedicated slot, and releasing a slot wakes exactly the next one in the
// ring.
//
// Capacity must exceed the number of simultaneous acquirers or two
// goroutines will be assigned the same slot and corrupt each other's
// handoff. Per-goroutine state (which slot a goroutine is waiting on) is
// held in a caller-owned Handle rather than on Lock itself, the same
// explicit-handle convention MCS/CLH/CompositeLock use in place of
// goroutine-local storage.
package alock

import (
	"runtime"
	"sync/atomic"
)

// Lock is the shared array-lock state: a ring of flags and the next-slot
// counter.
type Lock struct {
	flags []uint32
	tail  uint32
	size  uint32
}

// Handle is one goroutine's array-lock state: which slot it is waiting on
// or holds. A goroutine must pass the same *Handle to Lock/Unlock/TryLock
// for the duration of one critical section, and must not share it with
// another concurrently-running goroutine.
type Handle struct {
	slot uint32
}

// NewLock creates an array lock with room for capacity simultaneous
// acquirers.
func NewLock(capacity uint32) *Lock {
	l := &Lock{size: capacity, flags: make([]uint32, capacity)}
	l.flags[0] = 1
	return l
}

// Lock claims the next slot in the ring and blocks until it becomes this
// goroutine's turn.
func (l *Lock) Lock(h *Handle) {
	slot := (atomic.AddUint32(&l.tail, 1) - 1) % l.size
	h.slot = slot

	for atomic.LoadUint32(&l.flags[slot]) == 0 {
		runtime.Gosched()
	}
}

// Unlock releases h's slot and wakes the next slot in the ring.
func (l *Lock) Unlock(h *Handle) {
	slot := h.slot
	atomic.StoreUint32(&l.flags[slot], 0)

	next := (slot + 1) % l.size
	atomic.StoreUint32(&l.flags[next], 1)
}

// TryLock attempts to claim the next slot without blocking, reporting
// whether it succeeded and populating h on success.
func (l *Lock) TryLock(h *Handle) bool {
	tail := atomic.LoadUint32(&l.tail)
	if atomic.LoadUint32(&l.flags[tail%l.size]) == 1 {
		if atomic.CompareAndSwapUint32(&l.tail, tail, tail+1) {
			h.slot = tail % l.size
			return true
		}
	}
	return false
}

// IsFree reports whether the next slot in line is ready to be claimed, for
// tests and debug.
func (l *Lock) IsFree() bool {
	tail := atomic.LoadUint32(&l.tail)
	return atomic.LoadUint32(&l.flags[tail%l.size]) == 1
}
