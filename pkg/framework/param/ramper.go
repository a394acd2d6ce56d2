// Package param provides parameter ramping and lock-free parameter hand-off
// between the update and render goroutines.
package param

import (
	"math"
)

// Advance moves current toward target by at most maxStep and returns the
// new value. It never overshoots: once the remaining distance fits in one
// step the result is exactly target. A non-positive maxStep snaps to the
// target immediately. A non-finite target leaves current unchanged.
func Advance(current, target, maxStep float64) float64 {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return current
	}
	if math.IsNaN(current) || math.IsInf(current, 0) || !(maxStep > 0) {
		return target
	}

	delta := target - current
	// Accumulated rounding must not leave a sliver of distance for an
	// extra call.
	eps := 1e-12 * math.Max(1, math.Abs(target))
	if math.Abs(delta) <= maxStep+eps {
		return target
	}
	if delta > 0 {
		return current + maxStep
	}
	return current - maxStep
}

// StepPerSample returns the per-sample slew limit that moves a parameter
// across span in the given time. Zero or negative durations return 0, which
// Ramper treats as "snap".
func StepPerSample(span, seconds, sampleRate float64) float64 {
	if !(span > 0) || !(seconds > 0) || !(sampleRate > 0) {
		return 0
	}
	return span / (seconds * sampleRate)
}

// Ramper slew-limits a single parameter toward its target. It belongs to the
// render goroutine and is advanced once per render call.
type Ramper struct {
	current   float64
	target    float64
	perSample float64
}

// NewRamper creates a ramper resting at initial. perSample is the maximum
// change per audio frame; see StepPerSample.
func NewRamper(initial, perSample float64) *Ramper {
	r := &Ramper{perSample: perSample}
	r.Reset(initial)
	return r
}

// SetTarget sets the value to ramp toward. Non-finite targets are ignored.
func (r *Ramper) SetTarget(target float64) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return
	}
	r.target = target
}

// Target returns the current target.
func (r *Ramper) Target() float64 {
	return r.target
}

// Current returns the ramped value.
func (r *Ramper) Current() float64 {
	return r.current
}

// Advance moves the ramper forward by frames audio frames and returns the
// new current value.
func (r *Ramper) Advance(frames int) float64 {
	if frames <= 0 {
		return r.current
	}
	r.current = Advance(r.current, r.target, r.perSample*float64(frames))
	return r.current
}

// IsRamping returns true while current has not reached target.
func (r *Ramper) IsRamping() bool {
	return r.current != r.target
}

// Reset jumps both current and target to value.
func (r *Ramper) Reset(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	r.current = value
	r.target = value
}
