// Package future provides a write-once asynchronous value cell split into a
// Promise, used by the producer to fulfill it, and a Handle, used by any number
// of consumers to wait for it.
//
// The producer side typically looks as follows:
//
//	promise, handle := future.New[T]()
//	go func() {
//		_ = promise.Fulfill(compute())
//	}()
//	return handle
//
// A cell moves from empty to either fulfilled or canceled exactly once.
// Waiting reads the value, it does not consume it: every Wait on a fulfilled
// handle returns the same value.
package future

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	// ErrAlreadyFulfilled is returned when fulfilling or canceling a promise
	// that has already been fulfilled.
	ErrAlreadyFulfilled = errors.New("future: already fulfilled")

	// ErrCanceled is returned by Fulfill on a canceled promise and by Wait on
	// a canceled handle.
	ErrCanceled = errors.New("future: canceled")
)

const (
	stateEmpty int32 = iota
	stateFulfilled
	stateCanceled
)

type cell[T any] struct {
	state atomic.Int32
	value T
	done  chan struct{} // closed once value is final
}

// Promise is the write side of a future.
type Promise[T any] struct {
	c *cell[T]
}

// Handle is the read side of a future.
type Handle[T any] struct {
	c *cell[T]
}

// New returns a linked promise and handle sharing one empty cell.
func New[T any]() (Promise[T], Handle[T]) {
	c := &cell[T]{done: make(chan struct{})}
	return Promise[T]{c: c}, Handle[T]{c: c}
}

// Immediate returns a handle that is already fulfilled with v.
func Immediate[T any](v T) Handle[T] {
	p, h := New[T]()
	_ = p.Fulfill(v)
	return h
}

// Fulfill stores v and wakes every waiter. It fails with ErrAlreadyFulfilled
// if the promise was fulfilled before, leaving the first value in place, and
// with ErrCanceled if the promise was canceled.
func (p Promise[T]) Fulfill(v T) error {
	if !p.c.state.CompareAndSwap(stateEmpty, stateFulfilled) {
		return p.c.settledErr()
	}

	p.c.value = v
	close(p.c.done)
	return nil
}

// Cancel abandons the promise; waiters get ErrCanceled. Canceling a canceled
// promise is a no-op. It fails with ErrAlreadyFulfilled if the value is already set.
func (p Promise[T]) Cancel() error {
	if !p.c.state.CompareAndSwap(stateEmpty, stateCanceled) {
		if p.c.state.Load() == stateCanceled {
			return nil
		}
		return ErrAlreadyFulfilled
	}

	close(p.c.done)
	return nil
}

// Canceled reports whether the promise was canceled.
func (p Promise[T]) Canceled() bool {
	return p.c.state.Load() == stateCanceled
}

func (c *cell[T]) settledErr() error {
	if c.state.Load() == stateCanceled {
		return ErrCanceled
	}
	return ErrAlreadyFulfilled
}

// Wait blocks until the handle is settled or ctx is done.
// It returns the fulfilled value, ErrCanceled, or the context error.
func (h Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.c.done:
		return h.settled()
	default:
	}

	select {
	case <-h.c.done:
		return h.settled()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (h Handle[T]) settled() (T, error) {
	if h.c.state.Load() == stateCanceled {
		var zero T
		return zero, ErrCanceled
	}
	return h.c.value, nil
}

// Done returns a channel that is closed once the handle is settled.
func (h Handle[T]) Done() <-chan struct{} {
	return h.c.done
}

// TryGet returns the value without blocking.
// The second result is false if the handle is not fulfilled.
func (h Handle[T]) TryGet() (T, bool) {
	select {
	case <-h.c.done:
		v, err := h.settled()
		return v, err == nil
	default:
		var zero T
		return zero, false
	}
}

// Fulfilled reports whether a value is available.
func (h Handle[T]) Fulfilled() bool {
	_, ok := h.TryGet()
	return ok
}
