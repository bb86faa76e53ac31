package rendezvous

import (
	"context"
	"errors"
	"fmt"

	"github.com/artem-burashnikov/grpc-rendezvous/pkg/future"
	"github.com/artem-burashnikov/grpc-rendezvous/pkg/rendezvous/internal/queue"
	"github.com/artem-burashnikov/grpc-rendezvous/pkg/rendezvous/internal/region"
)

// ErrClosed is returned when a channel or hub is used after Close.
var ErrClosed = errors.New("rendezvous is closed")

// Stats describes the queues of a channel.
type Stats struct {
	PendingWriters int
	PendingReaders int
}

// Channel is an unbounded multi-producer multi-consumer rendezvous.
//
// Writers never block. Readers get a handle right away that resolves once a
// value is available. Values are paired with readers in FIFO order on both
// sides, so at any quiescent point at most one of the two queues is non-empty.
type Channel[T any] struct {
	region *region.Region

	// Fields below are only touched from inside the region.
	writers  *queue.Queue[*pendingWriter[T]]
	readers  *queue.Queue[*pendingReader[T]]
	nWriters  int
	nReaders  int // live readers only
	nCanceled int // withdrawn readers still in the queue
	closed    bool
}

// New returns an empty channel.
func New[T any]() *Channel[T] {
	return &Channel[T]{
		region:  region.New(),
		writers: queue.New[*pendingWriter[T]](),
		readers: queue.New[*pendingReader[T]](),
	}
}

// Write sends v. The oldest waiting reader gets it; if there is none, v is
// queued for the next reader. Write never blocks.
func (c *Channel[T]) Write(v T) {
	w := newPendingWriter(v)
	c.region.Do(func() { c.write(w) })
}

func (c *Channel[T]) write(w *pendingWriter[T]) {
	if c.closed {
		return
	}

	for {
		r, ok := c.readers.Remove()
		if !ok {
			c.writers.Add(w)
			c.nWriters++
			return
		}

		err := r.resolve(w.value)
		if err == nil {
			c.nReaders--
			return
		}
		if !errors.Is(err, future.ErrCanceled) {
			panic(fmt.Errorf("rendezvous: resolve pending reader: %w", err))
		}
		// The reader gave up; offer the value to the next one.
		c.nCanceled--
	}
}

// Read requests a value. The returned handle resolves to the oldest queued
// value, or to the value of a later Write if none is queued.
func (c *Channel[T]) Read() future.Handle[T] {
	r, h := newPendingReader[T]()
	c.region.Do(func() { c.read(r) })
	return h
}

func (c *Channel[T]) read(r *pendingReader[T]) {
	if c.closed {
		_ = r.cancel()
		return
	}

	w, ok := c.writers.Remove()
	if !ok {
		c.readers.Add(r)
		c.nReaders++
		return
	}
	c.nWriters--

	// r has just been created by Read and nothing else can settle it yet.
	if err := r.resolve(w.take()); err != nil {
		panic(fmt.Errorf("rendezvous: resolve fresh reader: %w", err))
	}
}

// ReadContext reads a value, waiting until one is delivered or ctx is done.
// When ctx ends first the request is withdrawn, unless a value was delivered
// in the meantime, in which case that value is returned.
// It returns ErrClosed if the channel is closed before a value arrives.
func (c *Channel[T]) ReadContext(ctx context.Context) (T, error) {
	r, h := newPendingReader[T]()
	c.region.Do(func() { c.read(r) })

	v, err := h.Wait(ctx)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, future.ErrCanceled) {
		return v, ErrClosed
	}

	// Withdraw inside the region so the decision cannot race a delivery.
	c.region.Do(func() { c.withdraw(r) })
	<-h.Done()

	if v, ok := h.TryGet(); ok {
		return v, nil
	}
	return v, err
}

func (c *Channel[T]) withdraw(r *pendingReader[T]) {
	// A closed channel has already canceled and dropped every reader.
	if c.closed {
		return
	}
	// Fails when a value was delivered first.
	if err := r.cancel(); err != nil {
		return
	}
	c.nReaders--
	c.nCanceled++

	if c.nCanceled > c.nReaders {
		c.compact()
	}
}

// compact drops withdrawn readers from the queue, keeping live ones in order.
func (c *Channel[T]) compact() {
	for range c.nReaders + c.nCanceled {
		r, ok := c.readers.Remove()
		if !ok {
			break
		}
		if !r.abandoned() {
			c.readers.Add(r)
		}
	}
	c.nCanceled = 0
}

// Stats reports the queue depths as seen by the region once every previously
// scheduled operation has run.
func (c *Channel[T]) Stats(ctx context.Context) (Stats, error) {
	p, h := future.New[Stats]()
	c.region.Do(func() {
		_ = p.Fulfill(Stats{PendingWriters: c.nWriters, PendingReaders: c.nReaders})
	})
	return h.Wait(ctx)
}

// Close cancels every pending reader and discards every pending writer.
// Later writes are dropped and later reads are canceled immediately.
// It returns what was pending at the time of closing; closing twice returns ErrClosed.
func (c *Channel[T]) Close(ctx context.Context) (Stats, error) {
	p, h := future.New[Stats]()
	c.region.Do(func() {
		if c.closed {
			_ = p.Cancel()
			return
		}
		c.closed = true

		dropped := Stats{PendingWriters: c.nWriters, PendingReaders: c.nReaders}
		for {
			r, ok := c.readers.Remove()
			if !ok {
				break
			}
			_ = r.cancel()
		}
		for {
			if _, ok := c.writers.Remove(); !ok {
				break
			}
		}
		c.nWriters, c.nReaders, c.nCanceled = 0, 0, 0

		_ = p.Fulfill(dropped)
	})

	st, err := h.Wait(ctx)
	if errors.Is(err, future.ErrCanceled) {
		return Stats{}, ErrClosed
	}
	return st, err
}
