package param

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 that can be read and written from different
// goroutines without locks. The zero value reads as 0.
type AtomicFloat struct {
	bits atomic.Uint64
}

// Load returns the current value.
func (f *AtomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Store sets the value.
func (f *AtomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}
