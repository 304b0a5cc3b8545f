// Package series holds the bounded histories behind sparklines and the price chart.
package series

// DefaultCapacity is used when a ring is created with a non-positive capacity.
const DefaultCapacity = 20

// Ring is a fixed-capacity FIFO. Pushing into a full ring evicts the oldest value.
type Ring[T any] struct {
	data     []T
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// NewRing creates a ring with fixed capacity
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{
		data:     make([]T, capacity),
		capacity: capacity,
	}
}

// Push appends v. When the ring is full the oldest value is returned as evicted.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.size == r.capacity {
		evicted, ok = r.data[r.index], true
	}
	r.data[r.index] = v
	r.index = (r.index + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
	return evicted, ok
}

// Values returns all values in insertion order (oldest to newest)
func (r *Ring[T]) Values() []T {
	return r.Latest(r.size)
}

// Latest returns the n newest values, oldest first
func (r *Ring[T]) Latest(n int) []T {
	if n > r.size {
		n = r.size
	}
	if n <= 0 {
		return []T{}
	}

	out := make([]T, n)
	start := (r.index - n + r.capacity) % r.capacity
	for i := 0; i < n; i++ {
		out[i] = r.data[(start+i)%r.capacity]
	}
	return out
}

// Last returns the newest value.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.data[(r.index-1+r.capacity)%r.capacity], true
}

// LastTwo returns the two newest values.
func (r *Ring[T]) LastTwo() (prev, last T, ok bool) {
	if r.size < 2 {
		return prev, last, false
	}
	last = r.data[(r.index-1+r.capacity)%r.capacity]
	prev = r.data[(r.index-2+r.capacity)%r.capacity]
	return prev, last, true
}

// Len returns current number of elements
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns ring capacity (fixed)
func (r *Ring[T]) Cap() int {
	return r.capacity
}

// IsFull returns whether the ring is full
func (r *Ring[T]) IsFull() bool {
	return r.size == r.capacity
}

// Clear resets the ring
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.index = 0
	r.size = 0
}
