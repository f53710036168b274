package tid

import "iter"

// History is a fixed-capacity most-recent-first sample buffer. Its length
// is set at construction and never changes; Push evicts the oldest sample.
type History[T any] struct {
	buf []T
}

// NewHistory returns a history holding n zero values.
func NewHistory[T any](n int) *History[T] {
	return &History[T]{buf: make([]T, n)}
}

// Push inserts v at the front, dropping the oldest sample off the far end.
func (h *History[T]) Push(v T) {
	if len(h.buf) == 0 {
		return
	}
	copy(h.buf[1:], h.buf)
	h.buf[0] = v
}

// Len is the fixed capacity chosen at construction.
func (h *History[T]) Len() int { return len(h.buf) }

// At returns the i-th most recent sample.
func (h *History[T]) At(i int) T { return h.buf[i] }

// Values yields the samples most recent first.
func (h *History[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range h.buf {
			if !yield(v) {
				return
			}
		}
	}
}
