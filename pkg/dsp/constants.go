// Package dsp provides digital signal processing utilities and algorithms.
package dsp

// Common audio constants used throughout the DSP packages and engines.
const (
	// Channel counts
	Mono = 1

	// Common sample rates
	SampleRate44k1 = 44100.0
	SampleRate48k  = 48000.0

	// Buffer sizes
	MinBufferSize     = 32
	DefaultBufferSize = 512
	MaxBufferSize     = 8192

	// Phase constants
	TwoPi  = 6.283185307179586
	Pi     = 3.141592653589793
	HalfPi = 1.5707963267948966

	// Small values for comparisons
	Epsilon = 1e-9
)

// Lid geometry and sensor constants.
const (
	// FullTurn is the angular span of the hinge sensor in degrees.
	FullTurn = 360.0

	// HalfTurn bounds the shortest angular path between two readings.
	HalfTurn = 180.0

	// SensorUnitsPerDegree is the resolution of raw sensor readings
	// (hundredths of a degree in a 16-bit word).
	SensorUnitsPerDegree = 100.0
)

// Default timing for the sensor/update side.
const (
	// DefaultPollInterval matches a 60 Hz display timer.
	DefaultPollIntervalMs = 16
)

// EngineType identifies the synthesis variant driven by the lid angle.
type EngineType int

const (
	EngineTypeUnknown EngineType = iota
	EngineTypeCreak
	EngineTypeTheremin
)

// String returns the string representation of an EngineType
func (et EngineType) String() string {
	switch et {
	case EngineTypeCreak:
		return "creak"
	case EngineTypeTheremin:
		return "theremin"
	default:
		return "unknown"
	}
}

// ParseEngineType maps a name to an EngineType. Unknown names return
// EngineTypeUnknown.
func ParseEngineType(name string) EngineType {
	switch name {
	case "creak":
		return EngineTypeCreak
	case "theremin":
		return EngineTypeTheremin
	default:
		return EngineTypeUnknown
	}
}
