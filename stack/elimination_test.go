package stack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEliminationPushPopBasic(t *testing.T) {
	s := NewEliminationBackoffStack[int](4)
	s.Push(1)
	s.Push(2)

	got, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestEliminationPopEmpty(t *testing.T) {
	s := NewEliminationBackoffStack[int](4)
	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

// TestEliminationConcurrentPushPopPreservesCount exercises the elimination
// path directly: pushers and poppers run concurrently from the start, so
// many operations should pair off in the exchanger array rather than ever
// touching the central stack.
func TestEliminationConcurrentPushPopPreservesCount(t *testing.T) {
	const (
		pushers = 8
		poppers = 8
		perG    = 500
	)
	s := NewEliminationBackoffStack[int](4)
	var pushed sync.WaitGroup
	pushed.Add(pushers)
	for g := 0; g < pushers; g++ {
		go func() {
			defer pushed.Done()
			for i := 0; i < perG; i++ {
				s.Push(i)
			}
		}()
	}

	var count int
	var mu sync.Mutex
	var popped sync.WaitGroup
	stop := make(chan struct{})
	popped.Add(poppers)
	for g := 0; g < poppers; g++ {
		go func() {
			defer popped.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := s.Pop(); err == nil {
					mu.Lock()
					count++
					mu.Unlock()
				}
			}
		}()
	}

	pushed.Wait()
	for {
		mu.Lock()
		c := count
		mu.Unlock()
		if c >= pushers*perG {
			break
		}
	}
	close(stop)
	popped.Wait()

	assert.Equal(t, pushers*perG, count)
}
