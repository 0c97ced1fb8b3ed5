// Package stack implements the Treiber lock-free stack and the
// elimination-backoff variant built on top of it.
package stack

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/ahrav/golamp/backoff"
)

// ErrEmpty is returned by Pop when the stack has nothing to return.
var ErrEmpty = errors.New("stack: empty")

const (
	minBackoff = time.Microsecond
	maxBackoff = time.Millisecond
)

type node[T any] struct {
	value T
	next  *node[T]
}

// LockFreeStack is the Treiber stack: a single atomic top pointer, CAS push
// and pop, with exponential backoff on CAS failure to reduce contention
// under heavy concurrent traffic — the same backoff.Backoff this module
// uses for its spin-lock family.
type LockFreeStack[T any] struct {
	top atomic.Pointer[node[T]]
}

// New creates an empty LockFreeStack.
func New[T any]() *LockFreeStack[T] {
	return &LockFreeStack[T]{}
}

// Push adds value to the top of the stack.
func (s *LockFreeStack[T]) Push(value T) {
	n := &node[T]{value: value}
	b := backoff.New(minBackoff, maxBackoff)
	for {
		top := s.top.Load()
		n.next = top
		if s.top.CompareAndSwap(top, n) {
			return
		}
		b.Backoff()
	}
}

// Pop removes and returns the top value, or ErrEmpty if the stack is
// empty.
func (s *LockFreeStack[T]) Pop() (T, error) {
	b := backoff.New(minBackoff, maxBackoff)
	for {
		top := s.top.Load()
		if top == nil {
			var zero T
			return zero, ErrEmpty
		}
		if s.top.CompareAndSwap(top, top.next) {
			return top.value, nil
		}
		b.Backoff()
	}
}

// tryPush attempts a single CAS push with no retry, for use by
// EliminationBackoffStack's combined stack/exchanger loop.
func (s *LockFreeStack[T]) tryPush(value T) bool {
	top := s.top.Load()
	n := &node[T]{value: value, next: top}
	return s.top.CompareAndSwap(top, n)
}

// tryPop attempts a single CAS pop with no retry. ok is false both when the
// stack is empty and when the CAS lost a race.
func (s *LockFreeStack[T]) tryPop() (value T, empty, ok bool) {
	top := s.top.Load()
	if top == nil {
		var zero T
		return zero, true, false
	}
	if s.top.CompareAndSwap(top, top.next) {
		return top.value, false, true
	}
	var zero T
	return zero, false, false
}
