// Package oscillator provides audio oscillators for synthesis
package oscillator

import "math"

// Oscillator is a phase-accumulator sine source. The phase is continuous
// across frequency changes, so retuning every sample never produces a
// discontinuity in the waveform.
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64 // 0-1
	phaseInc   float64
}

// New creates a new oscillator at 440 Hz.
func New(sampleRate float64) *Oscillator {
	o := &Oscillator{sampleRate: sampleRate}
	o.SetFrequency(440.0)
	return o
}

// SetFrequency sets the oscillator frequency. Negative or non-finite values
// stop the phase from advancing; frequencies above Nyquist are clamped.
func (o *Oscillator) SetFrequency(freq float64) {
	if math.IsNaN(freq) || freq < 0 {
		freq = 0
	}
	if nyquist := o.sampleRate / 2; freq > nyquist {
		freq = nyquist
	}
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// Frequency returns the current frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// Phase returns the current phase (0-1).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0.0
}

func (o *Oscillator) updatePhase() {
	o.phase += o.phaseInc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
}

// Sine generates a sine wave sample
func (o *Oscillator) Sine() float32 {
	sample := float32(math.Sin(2.0 * math.Pi * o.phase))
	o.updatePhase()
	return sample
}

// SineAt retunes to freq and generates the next sample.
func (o *Oscillator) SineAt(freq float64) float32 {
	o.SetFrequency(freq)
	return o.Sine()
}
