// Package gain provides amplitude and gain-related DSP operations.
package gain

import "math"

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// Fade multiplies buffer by a gain that moves linearly from startGain to
// endGain. The first sample gets one step past startGain and the last gets
// endGain, so consecutive blocks chain without repeating a value.
func Fade(buffer []float32, startGain, endGain float32) {
	n := len(buffer)
	if n == 0 {
		return
	}
	step := (endGain - startGain) / float32(n)
	for i := 0; i < n-1; i++ {
		buffer[i] *= startGain + step*float32(i+1)
	}
	buffer[n-1] *= endGain
}

// HardClip applies hard clipping to limit signal amplitude.
func HardClip(input, threshold float32) float32 {
	if input > threshold {
		return threshold
	}
	if input < -threshold {
		return -threshold
	}
	return input
}

// HardClipBuffer applies hard clipping to an entire buffer.
func HardClipBuffer(buffer []float32, threshold float32) {
	for i := range buffer {
		buffer[i] = HardClip(buffer[i], threshold)
	}
}
