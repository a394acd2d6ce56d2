package param

import "sync/atomic"

const (
	tripleIndexMask = 0x3
	tripleDirty     = 0x4
)

// TripleBuffer hands values from exactly one writer goroutine to exactly one
// reader goroutine. Both sides are wait-free and never allocate: the writer
// fills a private back slot and swaps it into the middle, and the reader
// swaps the middle into its private front slot when a new value is pending.
//
// The reader always sees a complete value, never a mix of two publishes.
type TripleBuffer[T any] struct {
	slots [3]T

	// state holds the middle slot index and the dirty bit.
	state atomic.Uint32

	back  int // writer only
	front int // reader only
}

// NewTripleBuffer creates a buffer whose reader initially sees initial.
func NewTripleBuffer[T any](initial T) *TripleBuffer[T] {
	tb := &TripleBuffer[T]{back: 0, front: 2}
	for i := range tb.slots {
		tb.slots[i] = initial
	}
	tb.state.Store(1)
	return tb
}

// Publish makes v the latest value. Writer side only.
func (tb *TripleBuffer[T]) Publish(v T) {
	tb.slots[tb.back] = v
	prev := tb.state.Swap(uint32(tb.back) | tripleDirty)
	tb.back = int(prev & tripleIndexMask)
}

// Load returns the latest published value and whether it is new since the
// previous Load. Reader side only.
func (tb *TripleBuffer[T]) Load() (T, bool) {
	if tb.state.Load()&tripleDirty == 0 {
		return tb.slots[tb.front], false
	}
	prev := tb.state.Swap(uint32(tb.front))
	tb.front = int(prev & tripleIndexMask)
	return tb.slots[tb.front], true
}
