package redmock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockAcquireRelease(t *testing.T) {
	c := New()

	l := c.Lock("k", time.Second)
	require.NoError(t, l.Acquire())
	l.Release()

	// Reusable after release
	require.NoError(t, l.Acquire())
	l.Release()
}

func TestLockExcludesSecondHolder(t *testing.T) {
	c := New()

	first := c.Lock("k", time.Second)
	require.NoError(t, first.Acquire())

	// A second guard on the same key times out while the first holds it
	second := c.Lock("k", 20*time.Millisecond)
	assert.ErrorIs(t, second.Acquire(), ErrLockTimeout)

	first.Release()
	require.NoError(t, second.Acquire())
	second.Release()
}

func TestLockDifferentKeysIndependent(t *testing.T) {
	c := New()

	a := c.Lock("a", time.Second)
	b := c.Lock("b", time.Second)
	require.NoError(t, a.Acquire())
	require.NoError(t, b.Acquire())
	a.Release()
	b.Release()
}

func TestLockNonBlockingAttempt(t *testing.T) {
	c := New()

	holder := c.Lock("k", time.Second)
	require.NoError(t, holder.Acquire())

	// Zero timeout fails immediately instead of waiting
	try := c.Lock("k", 0)
	start := time.Now()
	assert.ErrorIs(t, try.Acquire(), ErrLockTimeout)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	holder.Release()
}

func TestLockDoubleAcquireIsUsageError(t *testing.T) {
	c := New()

	l := c.Lock("k", time.Second)
	require.NoError(t, l.Acquire())

	var usage *UsageError
	assert.ErrorAs(t, l.Acquire(), &usage)
	l.Release()
}

func TestLockReleaseWithoutAcquireIsNoOp(t *testing.T) {
	c := New()

	l := c.Lock("k", time.Second)
	l.Release()

	// The key is still free
	require.NoError(t, l.Acquire())
	l.Release()
}

func TestLockSerializesCriticalSection(t *testing.T) {
	c := New()

	const workers = 8
	const iterations = 25
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				l := c.Lock("counter", 5*time.Second)
				if err := l.Acquire(); err != nil {
					t.Error(err)
					return
				}
				counter++
				l.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
}
