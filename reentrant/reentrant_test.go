package reentrant

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecursion5Deep recurses 5 deep, taking then releasing the same
// reentrant mutex at each level, and checks that a parallel goroutine's
// Lock does not return until the recursion fully unwinds.
func TestRecursion5Deep(t *testing.T) {
	m := New[int]()
	counter := 0

	var recurse func(depth int)
	recurse = func(depth int) {
		if depth == 0 {
			return
		}
		m.Lock(1)
		counter++
		recurse(depth - 1)
		require.NoError(t, m.Unlock(1))
	}

	otherAcquired := make(chan struct{})
	go func() {
		m.Lock(2)
		counter++
		close(otherAcquired)
		require.NoError(t, m.Unlock(2))
	}()

	// Give the other goroutine a chance to race for the lock while we're
	// mid-recursion; it must not succeed until we've fully unwound.
	m.Lock(1)
	counter++
	recurse(5)
	require.NoError(t, m.Unlock(1))

	select {
	case <-otherAcquired:
	case <-time.After(time.Second):
		t.Fatal("other goroutine never acquired the mutex after recursion unwound")
	}

	assert.Equal(t, 7, counter) // 1 outer + 5 recursive + 1 other goroutine
}

func TestUnlockByNonOwnerIsPrecondition(t *testing.T) {
	m := New[int]()
	m.Lock(1)
	defer m.Unlock(1)

	err := m.Unlock(2)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestUnlockWhenNotHeldIsPrecondition(t *testing.T) {
	m := New[int]()
	err := m.Unlock(1)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestConcurrentOwnersSerialize(t *testing.T) {
	m := New[int]()
	const goroutines = 8
	const iterations = 500
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for id := 0; id < goroutines; id++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				m.Lock(id)
				counter++
				require.NoError(t, m.Unlock(id))
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, goroutines*iterations, counter)
}
