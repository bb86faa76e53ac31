package rendezvous

import (
	"context"
	"sync"

	"github.com/cespare/xxhash"

	"github.com/artem-burashnikov/grpc-rendezvous/pkg/future"
)

// DefaultShards is used by NewHub when a non-positive shard count is given.
const DefaultShards = 16

// Hub is a set of named channels created on first use.
// Keys are spread over shards so that lookups of unrelated keys do not contend.
type Hub[T any] struct {
	shards []hubShard[T]
}

type hubShard[T any] struct {
	mu       sync.RWMutex
	channels map[string]*Channel[T] // key -> channel
	closed   bool
}

// NewHub returns an empty hub with the given number of shards.
func NewHub[T any](shards int) *Hub[T] {
	if shards <= 0 {
		shards = DefaultShards
	}

	h := &Hub[T]{shards: make([]hubShard[T], shards)}
	for i := range h.shards {
		h.shards[i].channels = make(map[string]*Channel[T])
	}
	return h
}

func (h *Hub[T]) shard(key string) *hubShard[T] {
	return &h.shards[xxhash.Sum64([]byte(key))%uint64(len(h.shards))]
}

// use calls fn with the channel for key, creating the channel if needed.
// fn runs under the shard lock, so Close is ordered after it; fn must not block.
func (h *Hub[T]) use(key string, fn func(*Channel[T])) error {
	s := h.shard(key)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	if ch, ok := s.channels[key]; ok {
		fn(ch)
		s.mu.RUnlock()
		return nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	ch, ok := s.channels[key]
	if !ok {
		ch = New[T]()
		s.channels[key] = ch
	}
	fn(ch)
	return nil
}

// Write sends v on the channel named key.
// A nil error means the value reached the channel before the hub was closed.
func (h *Hub[T]) Write(key string, v T) error {
	return h.use(key, func(ch *Channel[T]) { ch.Write(v) })
}

// Read requests a value from the channel named key.
func (h *Hub[T]) Read(key string) (future.Handle[T], error) {
	var hd future.Handle[T]
	err := h.use(key, func(ch *Channel[T]) { hd = ch.Read() })
	return hd, err
}

// ReadContext reads a value from the channel named key, see Channel.ReadContext.
func (h *Hub[T]) ReadContext(ctx context.Context, key string) (T, error) {
	var ch *Channel[T]
	if err := h.use(key, func(c *Channel[T]) { ch = c }); err != nil {
		var zero T
		return zero, err
	}
	return ch.ReadContext(ctx)
}

// Stats reports the queue depths of the channel named key.
// Unknown keys report empty queues without creating a channel.
func (h *Hub[T]) Stats(ctx context.Context, key string) (Stats, error) {
	s := h.shard(key)

	s.mu.RLock()
	ch, ok := s.channels[key]
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		return Stats{}, ErrClosed
	}
	if !ok {
		return Stats{}, nil
	}
	return ch.Stats(ctx)
}

// Len returns the number of channels in the hub.
func (h *Hub[T]) Len() int {
	n := 0
	for i := range h.shards {
		s := &h.shards[i]
		s.mu.RLock()
		n += len(s.channels)
		s.mu.RUnlock()
	}
	return n
}

// Close closes every channel: pending readers are canceled and pending values
// are dropped. Afterwards every call returns ErrClosed.
// It returns the total of what was pending on all channels.
// May be blocked by channel draining until the context is canceled.
func (h *Hub[T]) Close(ctx context.Context) (Stats, error) {
	var channels []*Channel[T]
	for i := range h.shards {
		s := &h.shards[i]
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return Stats{}, ErrClosed
		}
		s.closed = true
		for _, ch := range s.channels {
			channels = append(channels, ch)
		}
		s.channels = nil
		s.mu.Unlock()
	}

	var dropped Stats
	for _, ch := range channels {
		st, err := ch.Close(ctx)
		if err != nil {
			return dropped, err
		}
		dropped.PendingWriters += st.PendingWriters
		dropped.PendingReaders += st.PendingReaders
	}
	return dropped, nil
}
