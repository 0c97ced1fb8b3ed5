package queue

import (
	"sync"

	"github.com/ahrav/golamp/cond"
)

// Bounded is a capacity-limited FIFO queue. Enqueue blocks while the queue
// is at capacity; Dequeue blocks while it is empty.
//
// notFull and notEmpty are two separate condition variables over the same
// mutex: after an enqueue transitions size 0→1, the NotifyAll to notEmpty
// happens while still holding mu, which is the rule that
// prevents the classic lost wakeup where a dequeuer checks empty, then
// blocks, in the window between the enqueuer's state change and its
// notify. The mirror rule holds for a dequeue transitioning
// capacity→capacity-1 notifying notFull. Every waiter is woken at such a
// transition, because no further transition happens while the queue has
// both items and room, and a single woken waiter would leave the rest
// blocked.
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  *cond.Cond[*sync.Mutex]
	notEmpty *cond.Cond[*sync.Mutex]
	items    []T
	capacity int
}

// NewBounded creates a Bounded queue that holds at most capacity items.
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity <= 0 {
		panic("queue: capacity must be positive")
	}
	return &Bounded[T]{
		notFull:  cond.New[*sync.Mutex](),
		notEmpty: cond.New[*sync.Mutex](),
		capacity: capacity,
	}
}

// Enqueue blocks until there is room, then appends value.
func (q *Bounded[T]) Enqueue(value T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == q.capacity {
		q.notFull.Wait(&q.mu)
	}
	q.items = append(q.items, value)
	if len(q.items) == 1 {
		q.notEmpty.NotifyAll()
	}
}

// Dequeue blocks until an item is available, then removes and returns it.
func (q *Bounded[T]) Dequeue() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.notEmpty.Wait(&q.mu)
	}
	value := q.items[0]
	q.items = q.items[1:]
	if len(q.items) == q.capacity-1 {
		q.notFull.NotifyAll()
	}
	return value
}

// Len reports the number of items currently queued.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
