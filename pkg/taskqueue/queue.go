// Package taskqueue runs deferred work on the host's main thread.
//
// Any goroutine, including the host's real-time audio thread, may enqueue a
// task. Enqueueing never blocks: the inbox is a bounded channel and a full
// inbox rejects the task with ErrQueueFull. The queue owns no goroutine.
// The host's main-thread idle callback calls Drain once per tick, which runs
// every task that is due.
//
// Tasks must return quickly. A task that blocks stalls the host's main loop
// for that tick. There is no cancellation: a due task always runs, so task
// bodies re-validate any host handle they captured before using it.
package taskqueue

import (
	"cmp"
	"fmt"
	"runtime/debug"
	"slices"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultCapacity is the inbox size used when none is configured.
const DefaultCapacity = 1000

// Task is a unit of main-thread work. A returned error is reported to the
// queue's error handler.
type Task func() error

// ErrorHandler receives errors returned or panics raised by tasks.
type ErrorHandler func(err error)

type entry struct {
	task Task
	due  time.Time
	seq  uint64
}

func (e entry) readyAt(now time.Time) bool {
	return e.due.IsZero() || !now.Before(e.due)
}

// Queue is a main-thread task queue fed from any goroutine.
type Queue struct {
	inbox   chan entry
	seq     atomic.Uint64
	now     func() time.Time
	logger  *zap.Logger
	onError ErrorHandler
	metrics *metrics

	// Main thread only.
	pending  []entry
	ready    []entry
	draining bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithCapacity sets the inbox size.
func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.inbox = make(chan entry, n)
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// WithLogger sets the logger used by the default error handler.
func WithLogger(l *zap.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithErrorHandler sets the diagnostic sink for failing tasks.
func WithErrorHandler(h ErrorHandler) Option {
	return func(q *Queue) {
		q.onError = h
	}
}

// WithRegisterer registers the queue's metrics with reg.
func WithRegisterer(reg prometheus.Registerer, namespace string) Option {
	return func(q *Queue) {
		q.metrics = newMetrics(reg, namespace)
	}
}

// New creates a queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		inbox:  make(chan entry, DefaultCapacity),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.metrics == nil {
		q.metrics = newMetrics(nil, "")
	}
	return q
}

// EnqueueASAP schedules task for the next Drain. Safe from any goroutine;
// never blocks.
func (q *Queue) EnqueueASAP(task Task) error {
	return q.enqueue(task, time.Time{})
}

// EnqueueAfter schedules task to run on the first Drain at least delay after
// now. Safe from any goroutine; never blocks.
func (q *Queue) EnqueueAfter(task Task, delay time.Duration) error {
	if delay <= 0 {
		return q.enqueue(task, time.Time{})
	}
	return q.enqueue(task, q.now().Add(delay))
}

func (q *Queue) enqueue(task Task, due time.Time) error {
	if task == nil {
		return ErrNilTask
	}
	e := entry{task: task, due: due, seq: q.seq.Add(1)}
	select {
	case q.inbox <- e:
		q.metrics.enqueued.Inc()
		return nil
	default:
		q.metrics.rejected.Inc()
		return ErrQueueFull
	}
}

// Drain runs every due task and returns how many ran. Main thread only.
//
// Tasks run in enqueue order. Tasks enqueued while Drain is running, for
// example by a task body, run on a later Drain at the earliest. Tasks that
// are not yet due stay queued. A Drain called from inside a task returns 0.
func (q *Queue) Drain() int {
	if q.draining {
		return 0
	}
	q.draining = true
	defer func() { q.draining = false }()

	started := time.Now()
	q.collect()

	now := q.now()
	keep := q.pending[:0]
	for _, e := range q.pending {
		if e.readyAt(now) {
			q.ready = append(q.ready, e)
		} else {
			keep = append(keep, e)
		}
	}
	clear(q.pending[len(keep):])
	q.pending = keep

	slices.SortFunc(q.ready, func(a, b entry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	executed := len(q.ready)
	for i, e := range q.ready {
		q.ready[i] = entry{}
		if err := q.run(e.task); err != nil {
			q.report(err)
		}
		q.metrics.executed.Inc()
	}
	q.ready = q.ready[:0]

	q.metrics.pending.Set(float64(len(q.pending)))
	q.metrics.drainSeconds.Observe(time.Since(started).Seconds())
	return executed
}

// collect moves what is currently in the inbox to the pending list. It
// takes at most what was there on entry so that busy producers cannot keep
// Drain from returning.
func (q *Queue) collect() {
	n := len(q.inbox)
	for i := 0; i < n; i++ {
		select {
		case e := <-q.inbox:
			q.pending = append(q.pending, e)
		default:
			return
		}
	}
}

func (q *Queue) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	if err := task(); err != nil {
		return fmt.Errorf("main thread task: %w", err)
	}
	return nil
}

func (q *Queue) report(err error) {
	q.metrics.failed.Inc()
	if q.onError != nil {
		q.onError(err)
		return
	}
	q.logger.Error("main thread task failed", zap.Error(err))
}

// Len returns the number of queued tasks. Main thread only.
func (q *Queue) Len() int {
	return len(q.pending) + len(q.inbox)
}
