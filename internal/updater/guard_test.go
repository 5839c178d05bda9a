package updater

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveUpdateGuard_TryAcquire(t *testing.T) {
	t.Parallel()

	g := NewActiveUpdateGuard()

	assert.True(t, g.TryAcquire("bundle-a"))
	assert.False(t, g.TryAcquire("bundle-a"), "second acquire for the same bundle must fail")
	assert.True(t, g.TryAcquire("bundle-b"), "a different bundle is unaffected")

	g.Release("bundle-a")
	assert.True(t, g.TryAcquire("bundle-a"), "acquire succeeds again after release")
}

func TestActiveUpdateGuard_ReleaseUnknownIsNoop(t *testing.T) {
	t.Parallel()

	g := NewActiveUpdateGuard()
	g.Release("never-acquired")
	assert.Empty(t, g.Active())
}

func TestActiveUpdateGuard_ConcurrentAcquire(t *testing.T) {
	t.Parallel()

	g := NewActiveUpdateGuard()

	const attempts = 32
	var wg sync.WaitGroup
	acquired := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired <- g.TryAcquire("contended")
		}()
	}
	wg.Wait()
	close(acquired)

	wins := 0
	for ok := range acquired {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent acquire may win")
	assert.Equal(t, []string{"contended"}, g.Active())
}
