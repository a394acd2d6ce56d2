// Package interpolation provides audio interpolation utilities for
// fractional-position playback.
package interpolation

import "math"

// Linear performs linear interpolation between two samples.
// frac is the fractional position between y0 and y1 (0.0 to 1.0).
func Linear(y0, y1, frac float32) float32 {
	return y0 + (y1-y0)*frac
}

// Hermite performs 4-point, 3rd-order Hermite (Catmull-Rom) interpolation.
// frac is the fractional position between y1 and y2 (0.0 to 1.0).
func Hermite(y0, y1, y2, y3, frac float32) float32 {
	c0 := y1
	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5 * (y3 - y0 + 3*(y1-y2))

	return ((c3*frac+c2)*frac+c1)*frac + c0
}

// LoopHermite reads a looped buffer at a fractional position, wrapping the
// neighbouring taps around the loop boundary. pos may be any finite value;
// it is reduced modulo len(buffer). Returns 0 for buffers shorter than 4.
func LoopHermite(buffer []float32, pos float64) float32 {
	n := len(buffer)
	if n < 4 {
		return 0
	}
	pos = math.Mod(pos, float64(n))
	if pos < 0 {
		pos += float64(n)
	}
	i := int(pos)
	if i >= n {
		i = n - 1
	}
	frac := float32(pos - float64(i))

	y0 := buffer[(i-1+n)%n]
	y1 := buffer[i]
	y2 := buffer[(i+1)%n]
	y3 := buffer[(i+2)%n]
	return Hermite(y0, y1, y2, y3, frac)
}
