// Package filter provides digital signal processing filters
package filter

import "math"

// Biquad implements a mono second-order IIR filter (biquad).
// Direct Form I with float64 state so that high-Q resonators stay stable.
type Biquad struct {
	// Coefficients, normalized so that a0 == 1
	b0, b1, b2 float64
	a1, a2     float64

	// State
	x1, x2 float64
	y1, y2 float64
}

// NewBiquad creates a pass-through biquad.
func NewBiquad() *Biquad {
	return &Biquad{b0: 1}
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// SetCoefficients sets the filter coefficients directly
func (b *Biquad) SetCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	invA0 := 1.0 / a0
	b.b0 = b0 * invA0
	b.b1 = b1 * invA0
	b.b2 = b2 * invA0
	b.a1 = a1 * invA0
	b.a2 = a2 * invA0
}

// Tick filters a single sample.
func (b *Biquad) Tick(x0 float64) float64 {
	y0 := b.b0*x0 + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2, b.x1 = b.x1, x0
	b.y2, b.y1 = b.y1, y0
	return y0
}

// Process applies the filter to a buffer in place - no allocations
func (b *Biquad) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(b.Tick(float64(buffer[i])))
	}
}

// SetLowpass configures as a lowpass filter
func (b *Biquad) SetLowpass(sampleRate, frequency, q float64) {
	_, cosOmega, alpha := design(sampleRate, frequency, q)
	b.SetCoefficients((1.0-cosOmega)/2.0, 1.0-cosOmega, (1.0-cosOmega)/2.0,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

// SetHighpass configures as a highpass filter
func (b *Biquad) SetHighpass(sampleRate, frequency, q float64) {
	_, cosOmega, alpha := design(sampleRate, frequency, q)
	b.SetCoefficients((1.0+cosOmega)/2.0, -(1.0 + cosOmega), (1.0+cosOmega)/2.0,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

// SetBandpass configures as a bandpass filter with 0 dB peak gain
func (b *Biquad) SetBandpass(sampleRate, frequency, q float64) {
	_, cosOmega, alpha := design(sampleRate, frequency, q)
	b.SetCoefficients(alpha, 0.0, -alpha,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

// design returns the RBJ cookbook intermediates. The frequency is kept
// strictly below Nyquist.
func design(sampleRate, frequency, q float64) (sinOmega, cosOmega, alpha float64) {
	nyquist := sampleRate / 2
	if frequency >= nyquist {
		frequency = nyquist * 0.99
	}
	if frequency < 1 {
		frequency = 1
	}
	if q <= 0 {
		q = 0.707
	}
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinOmega = math.Sin(omega)
	cosOmega = math.Cos(omega)
	alpha = sinOmega / (2.0 * q)
	return sinOmega, cosOmega, alpha
}
