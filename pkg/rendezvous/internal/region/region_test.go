package region

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDoRunsInOrder(t *testing.T) {
	r := New()

	const n = 1000

	// Only touched from inside the region.
	var got []int
	for i := range n {
		r.Do(func() { got = append(got, i) })
	}

	require.NoError(t, r.Sync(context.Background()))

	require.Len(t, got, n)
	for i := range n {
		assert.Equal(t, i, got[i])
	}
}

func TestDoIsExclusive(t *testing.T) {
	r := New()

	const (
		producers = 16
		perProd   = 500
	)

	var (
		inside  atomic.Int32
		overlap atomic.Bool
		counter int // only touched from inside the region
	)

	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perProd {
				r.Do(func() {
					if inside.Add(1) != 1 {
						overlap.Store(true)
					}
					counter++
					inside.Add(-1)
				})
			}
		}()
	}
	wg.Wait()

	require.NoError(t, r.Sync(context.Background()))

	assert.False(t, overlap.Load(), "units must never run concurrently")

	var total int
	r.Do(func() { total = counter })
	require.NoError(t, r.Sync(context.Background()))
	assert.Equal(t, producers*perProd, total)
}

func TestPerProducerOrder(t *testing.T) {
	r := New()

	const (
		producers = 8
		perProd   = 200
	)

	seen := make([][]int, producers) // only touched from inside the region

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProd {
				r.Do(func() { seen[p] = append(seen[p], i) })
			}
		}()
	}
	wg.Wait()
	require.NoError(t, r.Sync(context.Background()))

	for p := range producers {
		require.Len(t, seen[p], perProd)
		for i := range perProd {
			assert.Equal(t, i, seen[p][i], "producer %d reordered", p)
		}
	}
}

func TestPanicDoesNotStopRegion(t *testing.T) {
	r := New()

	ran := false
	r.Do(func() { panic("boom") })
	r.Do(func() { ran = true })

	require.NoError(t, r.Sync(context.Background()))
	assert.True(t, ran, "unit after a panicking one must still run")
}

func TestSyncHonorsContext(t *testing.T) {
	r := New()

	release := make(chan struct{})
	r.Do(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Sync(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, r.Sync(context.Background()))
}

func TestIdleRegionOwnsNoGoroutine(t *testing.T) {
	r := New()
	r.Do(func() {})
	require.NoError(t, r.Sync(context.Background()))

	// The drainer exits once the inbox is empty.
	require.Eventually(t, func() bool {
		return r.pending.Load() == 0
	}, time.Second, time.Millisecond)
	goleak.VerifyNone(t)
}
