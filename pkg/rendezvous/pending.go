package rendezvous

import "github.com/artem-burashnikov/grpc-rendezvous/pkg/future"

// pendingWriter is a value waiting for a reader. Single use.
type pendingWriter[T any] struct {
	value T
}

func newPendingWriter[T any](v T) *pendingWriter[T] {
	return &pendingWriter[T]{value: v}
}

// take hands the value over and clears the record.
func (w *pendingWriter[T]) take() T {
	v := w.value
	var zero T
	w.value = zero
	return v
}

// pendingReader is a read request waiting for a value. Single use.
type pendingReader[T any] struct {
	promise future.Promise[T]
}

// newPendingReader returns the record to queue and the handle to give back to
// the caller before the record is queued.
func newPendingReader[T any]() (*pendingReader[T], future.Handle[T]) {
	p, h := future.New[T]()
	return &pendingReader[T]{promise: p}, h
}

// resolve delivers v to the waiting caller.
// It fails with future.ErrCanceled if the request was abandoned.
func (r *pendingReader[T]) resolve(v T) error {
	return r.promise.Fulfill(v)
}

func (r *pendingReader[T]) cancel() error {
	return r.promise.Cancel()
}

// abandoned reports whether the request was withdrawn.
func (r *pendingReader[T]) abandoned() bool {
	return r.promise.Canceled()
}
