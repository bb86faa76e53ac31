// Package region provides an exclusive-access region: a serialized executor
// that runs units of work one at a time, in the order they were scheduled.
//
// A Region behaves like an actor inbox. Scheduling never blocks; the first unit
// scheduled on an idle region starts a drainer goroutine that runs every queued
// unit and exits once the inbox is empty. Units must not block.
package region

import (
	"context"
	"log"
	"runtime"
	"runtime/debug"
	"sync/atomic"
)

type unit struct {
	fn   func()
	next atomic.Pointer[unit]
}

// Region serializes units of work.
type Region struct {
	head    *unit                // consumer side, owned by the drainer
	tail    atomic.Pointer[unit] // producer side
	pending atomic.Int64         // units scheduled but not yet run
}

// New returns an idle region.
func New() *Region {
	r := &Region{head: &unit{}}
	r.tail.Store(r.head)
	return r
}

// Do schedules fn to run with exclusive access to the region.
// Units run in the order their Do calls linked them into the inbox.
func (r *Region) Do(fn func()) {
	u := &unit{fn: fn}
	for {
		tail := r.tail.Load()
		if r.tail.CompareAndSwap(tail, u) {
			tail.next.Store(u)
			break
		}
	}

	if r.pending.Add(1) == 1 {
		go r.drain()
	}
}

// Sync waits until every unit scheduled before the call has run.
func (r *Region) Sync(ctx context.Context) error {
	done := make(chan struct{})
	r.Do(func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Region) drain() {
	for {
		r.run(r.pop())
		if r.pending.Add(-1) == 0 {
			return
		}
	}
}

// pop takes the oldest unit. A unit counted in pending may still be in the
// middle of being linked by Do, in which case pop yields until it shows up.
func (r *Region) pop() *unit {
	for {
		next := r.head.next.Load()
		if next != nil {
			r.head = next
			return next
		}
		runtime.Gosched()
	}
}

func (r *Region) run(u *unit) {
	fn := u.fn
	u.fn = nil

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in region unit: %v\nstack: %s", rec, debug.Stack())
		}
	}()

	fn()
}
