package semaphore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquireRelease(t *testing.T) {
	s := New(2)
	s.Acquire()
	s.Acquire()
	assert.Equal(t, 0, s.Value())

	acquired := make(chan struct{})
	go func() {
		s.Acquire()
		close(acquired)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("acquired before a unit was released")
	default:
	}

	s.Release(1)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("blocked acquirer never woke up")
	}
}

func TestTryAcquire(t *testing.T) {
	s := New(1)
	assert.True(t, s.TryAcquire(1))
	assert.False(t, s.TryAcquire(1))
	s.Release(1)
	assert.True(t, s.TryAcquire(1))
}

func TestTryAcquireMultiUnit(t *testing.T) {
	s := New(3)
	assert.False(t, s.TryAcquire(4))
	assert.True(t, s.TryAcquire(3))
	assert.Equal(t, 0, s.Value())
}

func TestTryAcquireForTimesOut(t *testing.T) {
	s := New(0)
	start := time.Now()
	ok := s.TryAcquireFor(20 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestTryAcquireForSucceedsWhenReleased(t *testing.T) {
	s := New(0)
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Release(1)
	}()

	ok := s.TryAcquireFor(time.Second)
	assert.True(t, ok)
}

// TestSemaphoreCountInvariant checks that, after concurrent acquire/release
// pairs, count equals initial + releases - acquires.
func TestSemaphoreCountInvariant(t *testing.T) {
	const initial = 4
	s := New(initial)
	const goroutines = 8
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				s.Acquire()
				s.Release(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, initial, s.Value())
}

func TestReleaseIgnoresNonPositive(t *testing.T) {
	s := New(1)
	s.Release(0)
	s.Release(-5)
	assert.Equal(t, 1, s.Value())
}
