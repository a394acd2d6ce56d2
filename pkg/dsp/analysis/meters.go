// Package analysis measures rendered audio.
package analysis

import (
	"math"

	"github.com/justyntemme/lidsound/pkg/dsp/gain"
	"github.com/justyntemme/lidsound/pkg/framework/param"
)

// Meter defaults.
const (
	DefaultHoldTime  = 1.5  // seconds
	DefaultDecayRate = 20.0 // dB/second
)

// PeakMeter measures peak and RMS levels of a mono stream. Process runs on
// the render goroutine; the getters may be called from any goroutine.
type PeakMeter struct {
	sampleRate    float64
	holdFrames    int
	decayPerFrame float64

	// Render side.
	peak      float64
	hold      float64
	holdCount int

	peakOut param.AtomicFloat
	holdOut param.AtomicFloat
	rmsOut  param.AtomicFloat
}

// NewPeakMeter creates a peak meter with the default hold and decay.
func NewPeakMeter(sampleRate float64) *PeakMeter {
	pm := &PeakMeter{sampleRate: sampleRate}
	pm.SetHoldTime(DefaultHoldTime)
	pm.SetDecayRate(DefaultDecayRate)
	return pm
}

// SetHoldTime sets the peak hold time in seconds. Call before rendering.
func (pm *PeakMeter) SetHoldTime(seconds float64) {
	pm.holdFrames = int(math.Max(seconds, 0) * pm.sampleRate)
}

// SetDecayRate sets the peak fall-back in dB/second. Call before rendering.
func (pm *PeakMeter) SetDecayRate(dbPerSecond float64) {
	// dB to natural-log units per frame
	pm.decayPerFrame = math.Max(dbPerSecond, 0) / pm.sampleRate / 20.0 * math.Ln10
}

// Process updates the meter with one rendered block.
func (pm *PeakMeter) Process(samples []float32) {
	if len(samples) == 0 {
		return
	}

	blockPeak := 0.0
	sum := 0.0
	for _, s := range samples {
		v := float64(s)
		sum += v * v
		if a := math.Abs(v); a > blockPeak {
			blockPeak = a
		}
	}

	pm.peak *= math.Exp(-pm.decayPerFrame * float64(len(samples)))
	if blockPeak > pm.peak {
		pm.peak = blockPeak
	}

	if blockPeak > pm.hold {
		pm.hold = blockPeak
		pm.holdCount = pm.holdFrames
	} else {
		pm.holdCount -= len(samples)
		if pm.holdCount <= 0 {
			pm.hold = pm.peak
			pm.holdCount = 0
		}
	}

	pm.peakOut.Store(pm.peak)
	pm.holdOut.Store(pm.hold)
	pm.rmsOut.Store(math.Sqrt(sum / float64(len(samples))))
}

// Peak returns the decaying peak level (linear).
func (pm *PeakMeter) Peak() float64 {
	return pm.peakOut.Load()
}

// PeakDB returns the decaying peak level in decibels.
func (pm *PeakMeter) PeakDB() float64 {
	return gain.LinearToDb(pm.Peak())
}

// Hold returns the held peak level (linear).
func (pm *PeakMeter) Hold() float64 {
	return pm.holdOut.Load()
}

// RMS returns the RMS level of the most recent block (linear).
func (pm *PeakMeter) RMS() float64 {
	return pm.rmsOut.Load()
}

// RMSDB returns the most recent block RMS in decibels.
func (pm *PeakMeter) RMSDB() float64 {
	return gain.LinearToDb(pm.RMS())
}

// Reset clears the meter. Render side only.
func (pm *PeakMeter) Reset() {
	pm.peak = 0
	pm.hold = 0
	pm.holdCount = 0
	pm.peakOut.Store(0)
	pm.holdOut.Store(0)
	pm.rmsOut.Store(0)
}
