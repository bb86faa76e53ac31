package queue

// node is a link of the queue. The tail node is always an empty sentinel:
// it holds no value until Add fills it and appends a fresh sentinel.
type node[T any] struct {
	value T
	next  *node[T]
}

// Queue is an unbounded singly linked FIFO.
// It is not safe for concurrent use; the owner must provide exclusive access.
type Queue[T any] struct {
	head *node[T] // oldest value, or the sentinel when empty
	tail *node[T] // sentinel
}

// New returns an empty queue holding a single sentinel node.
func New[T any]() *Queue[T] {
	sentinel := &node[T]{}
	return &Queue[T]{head: sentinel, tail: sentinel}
}

// Add appends v at the tail.
func (q *Queue[T]) Add(v T) {
	sentinel := &node[T]{}
	q.tail.value = v
	q.tail.next = sentinel
	q.tail = sentinel
}

// Remove pops the oldest value. The second result is false if the queue is empty.
func (q *Queue[T]) Remove() (T, bool) {
	var zero T
	if q.head == q.tail {
		return zero, false
	}

	n := q.head
	q.head = n.next

	v := n.value
	n.value = zero // drop the reference held by the consumed node
	n.next = nil

	return v, true
}
