package stack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopLIFOOrder(t *testing.T) {
	s := New[int]()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	for _, want := range []int{3, 2, 1} {
		got, err := s.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPopEmpty(t *testing.T) {
	s := New[int]()
	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestConcurrentPushPopPreservesCount(t *testing.T) {
	const (
		goroutines = 8
		perG       = 1000
	)
	s := New[int]()
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				s.Push(i)
			}
		}()
	}
	wg.Wait()

	count := 0
	for {
		if _, err := s.Pop(); err != nil {
			break
		}
		count++
	}
	assert.Equal(t, goroutines*perG, count)
}
