package taskqueue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func record(log *[]int, n int) Task {
	return func() error {
		*log = append(*log, n)
		return nil
	}
}

func TestASAPTasksRunInEnqueueOrder(t *testing.T) {
	q := New()
	var got []int
	for i := 1; i <= 5; i++ {
		require.NoError(t, q.EnqueueASAP(record(&got, i)))
	}

	assert.Equal(t, 5, q.Drain())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Drain())
}

func TestTasksEnqueuedDuringDrainRunNextDrain(t *testing.T) {
	q := New()
	var got []int
	require.NoError(t, q.EnqueueASAP(func() error {
		got = append(got, 1)
		return q.EnqueueASAP(record(&got, 2))
	}))

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []int{1}, got)

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []int{1, 2}, got)
}

func TestDelayedTaskNeverRunsEarly(t *testing.T) {
	clock := newFakeClock()
	q := New(WithClock(clock.Now))
	var got []int

	require.NoError(t, q.EnqueueAfter(record(&got, 1), 100*time.Millisecond))

	q.Drain()
	assert.Empty(t, got)

	clock.Advance(99 * time.Millisecond)
	q.Drain()
	assert.Empty(t, got)
	assert.Equal(t, 1, q.Len())

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []int{1}, got)
}

func TestMixedReadinessKeepsFIFOAmongReadyTasks(t *testing.T) {
	clock := newFakeClock()
	q := New(WithClock(clock.Now))
	var got []int

	require.NoError(t, q.EnqueueAfter(record(&got, 1), 10*time.Millisecond))
	require.NoError(t, q.EnqueueASAP(record(&got, 2)))
	require.NoError(t, q.EnqueueAfter(record(&got, 3), time.Second))
	require.NoError(t, q.EnqueueAfter(record(&got, 4), 10*time.Millisecond))

	q.Drain()
	assert.Equal(t, []int{2}, got)

	clock.Advance(20 * time.Millisecond)
	q.Drain()
	assert.Equal(t, []int{2, 1, 4}, got)

	clock.Advance(time.Second)
	q.Drain()
	assert.Equal(t, []int{2, 1, 4, 3}, got)
}

func TestNonPositiveDelayIsASAP(t *testing.T) {
	q := New()
	ran := false
	require.NoError(t, q.EnqueueAfter(func() error { ran = true; return nil }, -time.Second))
	q.Drain()
	assert.True(t, ran)
}

func TestFullQueueRejectsWithoutBlocking(t *testing.T) {
	q := New(WithCapacity(2))
	noop := func() error { return nil }

	require.NoError(t, q.EnqueueASAP(noop))
	require.NoError(t, q.EnqueueASAP(noop))
	assert.ErrorIs(t, q.EnqueueASAP(noop), ErrQueueFull)

	q.Drain()
	assert.NoError(t, q.EnqueueASAP(noop))
}

func TestNilTaskRejected(t *testing.T) {
	q := New()
	assert.ErrorIs(t, q.EnqueueASAP(nil), ErrNilTask)
	assert.ErrorIs(t, q.EnqueueAfter(nil, time.Second), ErrNilTask)
}

func TestErrorsAndPanicsReachErrorHandler(t *testing.T) {
	var reported []error
	q := New(WithErrorHandler(func(err error) { reported = append(reported, err) }))
	boom := errors.New("boom")
	var got []int

	require.NoError(t, q.EnqueueASAP(func() error { return boom }))
	require.NoError(t, q.EnqueueASAP(func() error { panic("kaboom") }))
	require.NoError(t, q.EnqueueASAP(record(&got, 3)))

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{3}, got, "failing tasks must not stop later ones")
	require.Len(t, reported, 2)
	assert.ErrorIs(t, reported[0], boom)

	var pe *PanicError
	require.ErrorAs(t, reported[1], &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestNestedDrainIsNoOp(t *testing.T) {
	q := New()
	nested := -1
	require.NoError(t, q.EnqueueASAP(func() error {
		nested = q.Drain()
		return nil
	}))
	q.Drain()
	assert.Equal(t, 0, nested)
}

func TestConcurrentProducers(t *testing.T) {
	q := New(WithCapacity(4000))
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				_ = q.EnqueueASAP(func() error {
					mu.Lock()
					count++
					mu.Unlock()
					return nil
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2000, q.Drain())
	assert.Equal(t, 2000, count)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	q := New(WithCapacity(1), WithRegisterer(reg, "test"), WithErrorHandler(func(error) {}))

	require.NoError(t, q.EnqueueASAP(func() error { return errors.New("x") }))
	assert.ErrorIs(t, q.EnqueueASAP(func() error { return nil }), ErrQueueFull)
	q.Drain()

	assert.Equal(t, 1.0, testutil.ToFloat64(q.metrics.enqueued))
	assert.Equal(t, 1.0, testutil.ToFloat64(q.metrics.rejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(q.metrics.executed))
	assert.Equal(t, 1.0, testutil.ToFloat64(q.metrics.failed))
	assert.Equal(t, 0.0, testutil.ToFloat64(q.metrics.pending))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
