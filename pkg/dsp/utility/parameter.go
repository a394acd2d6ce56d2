// Package utility provides common DSP utility functions and processors.
package utility

import "math"

// ScaleParameter performs linear scaling of a normalized value (0-1) to a target range.
func ScaleParameter(normalized, min, max float64) float64 {
	return min + normalized*(max-min)
}

// ScaleParameterExp performs exponential scaling of a normalized value (0-1) to a target range.
// This is the natural mapping for frequencies: equal steps of the input give equal musical intervals.
func ScaleParameterExp(normalized, min, max float64) float64 {
	if min <= 0 || max <= 0 {
		// Fall back to linear scaling if min or max is non-positive
		return ScaleParameter(normalized, min, max)
	}
	return min * math.Pow(max/min, normalized)
}

// ClampParameter ensures a value stays within the specified range.
// NaN is mapped to min so that it never propagates into audio parameters.
func ClampParameter(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Smoothstep is the cubic Hermite ease 3t²-2t³ over t clamped to [0, 1].
// It is monotonic and has zero slope at both ends.
func Smoothstep(t float64) float64 {
	t = ClampParameter(t, 0, 1)
	return t * t * (3 - 2*t)
}

// Magnitude returns |v| with NaN mapped to 0. Infinities are preserved so
// that callers can treat them as "beyond every threshold".
func Magnitude(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Abs(v)
}
