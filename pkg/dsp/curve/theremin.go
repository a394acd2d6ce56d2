package curve

import (
	"fmt"
	"math"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/utility"
)

// Theremin defaults.
const (
	DefaultThereminMinFreq   = 110.0 // A2, lid closed
	DefaultThereminMaxFreq   = 440.0 // A4, lid fully open
	DefaultThereminAngleSpan = dsp.FullTurn
	DefaultThereminMaxVolume = 0.6
	DefaultThereminSilent    = 100.0 // degrees/second
)

// Scale selects how the lid angle is spread over the frequency range.
type Scale int

const (
	// ScaleLinear maps equal angle steps to equal steps in Hz.
	ScaleLinear Scale = iota
	// ScaleExponential maps equal angle steps to equal musical intervals.
	ScaleExponential
)

// String returns the string representation of a Scale
func (s Scale) String() string {
	switch s {
	case ScaleExponential:
		return "exponential"
	default:
		return "linear"
	}
}

// ParseScale maps a name to a Scale.
func ParseScale(name string) (Scale, error) {
	switch name {
	case "", "linear":
		return ScaleLinear, nil
	case "exponential", "exp":
		return ScaleExponential, nil
	default:
		return ScaleLinear, fmt.Errorf("unknown frequency scale %q", name)
	}
}

// ThereminTarget is the desired oscillator frequency and volume.
type ThereminTarget struct {
	Frequency float64
	Volume    float64
}

// Theremin describes the angle/velocity-to-tone mapping. Frequency follows
// the angle; volume is loudest at rest and fades to zero at Silent.
type Theremin struct {
	MinFreq   float64 `yaml:"min_freq"`
	MaxFreq   float64 `yaml:"max_freq"`
	AngleSpan float64 `yaml:"angle_span"`
	Scale     Scale   `yaml:"-"`
	MaxVolume float64 `yaml:"max_volume"`
	Silent    float64 `yaml:"silent"`
}

// DefaultTheremin returns the stock theremin mapping.
func DefaultTheremin() Theremin {
	return Theremin{
		MinFreq:   DefaultThereminMinFreq,
		MaxFreq:   DefaultThereminMaxFreq,
		AngleSpan: DefaultThereminAngleSpan,
		Scale:     ScaleLinear,
		MaxVolume: DefaultThereminMaxVolume,
		Silent:    DefaultThereminSilent,
	}
}

// Normalize replaces inconsistent fields with defaults.
func (t Theremin) Normalize() Theremin {
	d := DefaultTheremin()
	if !(t.MinFreq > 0 && t.MinFreq <= t.MaxFreq) || math.IsInf(t.MaxFreq, 0) {
		t.MinFreq, t.MaxFreq = d.MinFreq, d.MaxFreq
	}
	if !(t.AngleSpan > 0) || math.IsInf(t.AngleSpan, 0) {
		t.AngleSpan = d.AngleSpan
	}
	if !(t.MaxVolume >= 0 && t.MaxVolume <= 1) {
		t.MaxVolume = d.MaxVolume
	}
	if !(t.Silent > 0) || math.IsInf(t.Silent, 0) {
		t.Silent = d.Silent
	}
	if t.Scale != ScaleExponential {
		t.Scale = ScaleLinear
	}
	return t
}

// Frequency returns the tone frequency for a lid angle in degrees. Angles
// outside [0, AngleSpan] are clamped; NaN maps to the closed-lid pitch.
func (t Theremin) Frequency(angle float64) float64 {
	pos := utility.ClampParameter(angle/t.AngleSpan, 0, 1)
	if t.Scale == ScaleExponential {
		return utility.ScaleParameterExp(pos, t.MinFreq, t.MaxFreq)
	}
	return utility.ScaleParameter(pos, t.MinFreq, t.MaxFreq)
}

// Volume returns the tone volume for velocity v.
func (t Theremin) Volume(v float64) float64 {
	speed := utility.Magnitude(v)
	if speed >= t.Silent {
		return 0
	}
	return t.MaxVolume * (1 - utility.Smoothstep(speed/t.Silent))
}

// Target returns the frequency and volume for an angle and velocity.
func (t Theremin) Target(angle, v float64) ThereminTarget {
	return ThereminTarget{Frequency: t.Frequency(angle), Volume: t.Volume(v)}
}
