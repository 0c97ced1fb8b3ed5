// Package ticket implements the FIFO ticket lock:
// next_ticket.fetch_add to draw a ticket, then spin until now_serving equals
// that ticket. Distance-proportional adaptive spinning keeps a goroutine far
// back in the queue from burning CPU on a tight spin loop, falling back to
// sleeping once it is more than 20 tickets behind.
package ticket

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// Lock is the ticket lock: head is the ticket currently being served, tail
// is the most recently issued ticket. The lock is free exactly when
// head == tail+1. Fields are laid out head-then-tail so TryLock can CAS both
// as a single uint64.
type Lock struct {
	head uint32 // Current ticket being served
	tail uint32 // Most recently issued ticket
}

// NewLock creates a new TicketLock.
func NewLock() *Lock { return &Lock{head: 1, tail: 0} }

// TryLock attempts to acquire the lock without blocking, reporting whether
// it succeeded.
func (t *Lock) TryLock() bool {
	me := atomic.LoadUint32(&t.tail)
	free := Lock{head: me + 1, tail: me}      // Expected: head is tail+1, so the lock is free
	taken := Lock{head: me + 1, tail: me + 1} // New: keep head same, increment tail
	return atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(t)),
		*(*uint64)(unsafe.Pointer(&free)),
		*(*uint64)(unsafe.Pointer(&taken)),
	)
}

const (
	ticketBaseWait uint32 = 10
	ticketWaitNext        = 5
)

// Lock draws a ticket and blocks until it is this goroutine's turn.
func (t *Lock) Lock() {
	myTicket := atomic.AddUint32(&t.tail, 1) // Get our ticket

	// Fast path for uncontended case
	cur := atomic.LoadUint32(&t.head)
	if cur == myTicket {
		return // No spinning needed if we get the lock immediately
	}

	wait := ticketBaseWait
	distancePrev := uint32(1)

	// Spin until it's our turn.
	for {
		// Determine who's turn it is.
		cur := atomic.LoadUint32(&t.head)
		if cur == myTicket {
			break // Yay! It's our turn
		}
		distance := subAbs(cur, myTicket) // How many people are in front of us?

		if distance > 1 { // If there are people in front of us, wait
			if distance != distancePrev { // If the distance has changed, reset the wait time
				distancePrev = distance
				wait = ticketBaseWait
			}

			// Spin proportionally to the distance from the head.
			// Further back = more iterations of the empty spin loop.
			for range distance * wait {
				// Empty spin loop.
			}
		} else { // If we're next in line, wait a little bit
			for range ticketWaitNext {
				// Empty spin loop.
			}
		}

		if distance > 20 { // Sleep if we're far back in the queue
			time.Sleep(time.Millisecond)
		}
	}
}

// Unlock releases the lock.
func (t *Lock) Unlock() { atomic.AddUint32(&t.head, 1) }

// IsFree reports whether the lock is currently unheld, for tests and debug.
func (t *Lock) IsFree() bool { return (t.head - t.tail) == 1 }

func subAbs(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
