// Package queue provides a growable FIFO ring buffer.
package queue

// FIFO is a first-in first-out queue backed by a power-of-two ring.
// Value-based storage; the zero value is ready to use.
type FIFO[T any] struct {
	items []T
	head  int
	n     int
}

// New returns a FIFO with room for at least capacity items before growing.
func New[T any](capacity int) *FIFO[T] {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &FIFO[T]{items: make([]T, size)}
}

// Len returns the number of queued items.
func (q *FIFO[T]) Len() int { return q.n }

// Push appends v at the tail.
func (q *FIFO[T]) Push(v T) {
	if q.n == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.n)&(len(q.items)-1)] = v
	q.n++
}

// Pop removes and returns the head item.
func (q *FIFO[T]) Pop() (T, bool) {
	var zero T
	if q.n == 0 {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & (len(q.items) - 1)
	q.n--
	return v, true
}

// Reset empties the queue, keeping its storage.
func (q *FIFO[T]) Reset() {
	clear(q.items)
	q.head, q.n = 0, 0
}

func (q *FIFO[T]) grow() {
	size := max(2*len(q.items), 16)
	items := make([]T, size)
	for i := range q.n {
		items[i] = q.items[(q.head+i)&(len(q.items)-1)]
	}
	q.items = items
	q.head = 0
}
