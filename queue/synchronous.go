package queue

import (
	"sync"

	"github.com/ahrav/golamp/cond"
)

// Synchronous is a zero-capacity rendezvous queue: an Enqueue does not
// return until some Dequeue has taken its item, and vice versa. At most one
// item is ever resident, and at most one enqueuer may be publishing at a
// time — a concurrent second Enqueue blocks behind the enqueuing flag until
// the first has fully handed off.
type Synchronous[T any] struct {
	mu        sync.Mutex
	itemReady *cond.Cond[*sync.Mutex]
	taken     *cond.Cond[*sync.Mutex]
	freeToPub *cond.Cond[*sync.Mutex]

	enqueuing bool
	hasItem   bool
	item      T
}

// NewSynchronous creates an empty rendezvous queue.
func NewSynchronous[T any]() *Synchronous[T] {
	return &Synchronous[T]{
		itemReady: cond.New[*sync.Mutex](),
		taken:     cond.New[*sync.Mutex](),
		freeToPub: cond.New[*sync.Mutex](),
	}
}

// Enqueue publishes value and blocks until a matching Dequeue consumes it.
func (q *Synchronous[T]) Enqueue(value T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.enqueuing {
		q.freeToPub.Wait(&q.mu)
	}
	q.enqueuing = true

	q.item = value
	q.hasItem = true
	q.itemReady.NotifyOne()

	for q.hasItem {
		q.taken.Wait(&q.mu)
	}

	q.enqueuing = false
	q.freeToPub.NotifyOne()
}

// Dequeue blocks until an enqueuer publishes an item, then consumes and
// returns it.
func (q *Synchronous[T]) Dequeue() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.hasItem {
		q.itemReady.Wait(&q.mu)
	}
	value := q.item
	var zero T
	q.item = zero
	q.hasItem = false
	q.taken.NotifyOne()
	return value
}
