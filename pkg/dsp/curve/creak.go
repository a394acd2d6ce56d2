// Package curve maps lid motion onto audio parameter targets.
//
// The mappings are pure: they hold no state and may be called from any
// goroutine. Every output is finite and clamped to its declared range, even
// for NaN or infinite input.
package curve

import (
	"math"

	"github.com/justyntemme/lidsound/pkg/dsp/utility"
)

// Creak defaults, in degrees/second unless noted.
const (
	DefaultCreakIdle     = 1.0   // below this the creak is silent
	DefaultCreakPeak     = 10.0  // loudest creak
	DefaultCreakSilent   = 100.0 // at and above this the creak is silent again
	DefaultCreakFloor    = 0.5   // gain at the idle threshold
	DefaultCreakMaxGain  = 1.0
	DefaultCreakMinRate  = 0.8
	DefaultCreakMaxRate  = 1.1
	DefaultCreakRateSpan = 100.0 // speed at which the rate reaches MaxRate
)

// CreakTarget is the desired gain and playback rate of the creak loop.
type CreakTarget struct {
	Gain float64
	Rate float64
}

// Creak describes the velocity-to-creak mapping.
//
// Gain follows three bands. Between Idle and Peak it rises from Floor to
// MaxGain; between Peak and Silent it falls back to zero. Both ramps are
// smoothstep shaped on a logarithmic velocity axis, so each decade of speed
// gets the same share of the curve. Rate is independent of the gain envelope
// and rises linearly with speed from MinRate to MaxRate.
type Creak struct {
	Idle    float64 `yaml:"idle"`
	Peak    float64 `yaml:"peak"`
	Silent  float64 `yaml:"silent"`
	Floor   float64 `yaml:"floor"`
	MaxGain float64 `yaml:"max_gain"`

	MinRate  float64 `yaml:"min_rate"`
	MaxRate  float64 `yaml:"max_rate"`
	RateSpan float64 `yaml:"rate_span"`
}

// DefaultCreak returns the stock creak mapping.
func DefaultCreak() Creak {
	return Creak{
		Idle:     DefaultCreakIdle,
		Peak:     DefaultCreakPeak,
		Silent:   DefaultCreakSilent,
		Floor:    DefaultCreakFloor,
		MaxGain:  DefaultCreakMaxGain,
		MinRate:  DefaultCreakMinRate,
		MaxRate:  DefaultCreakMaxRate,
		RateSpan: DefaultCreakRateSpan,
	}
}

// Normalize replaces inconsistent fields with defaults. The band edges must
// satisfy 0 < Idle < Peak < Silent, gains must be finite and non-negative with
// Floor <= MaxGain, and the rate range must be positive and ordered.
func (c Creak) Normalize() Creak {
	d := DefaultCreak()
	if !(c.Idle > 0 && c.Idle < c.Peak && c.Peak < c.Silent) || math.IsInf(c.Silent, 0) {
		c.Idle, c.Peak, c.Silent = d.Idle, d.Peak, d.Silent
	}
	if !(c.MaxGain >= 0) || math.IsInf(c.MaxGain, 0) {
		c.MaxGain = d.MaxGain
	}
	if !(c.Floor >= 0 && c.Floor <= c.MaxGain) {
		c.Floor = math.Min(d.Floor, c.MaxGain)
	}
	if !(c.MinRate > 0 && c.MinRate <= c.MaxRate) || math.IsInf(c.MaxRate, 0) {
		c.MinRate, c.MaxRate = d.MinRate, d.MaxRate
	}
	if !(c.RateSpan > 0) || math.IsInf(c.RateSpan, 0) {
		c.RateSpan = d.RateSpan
	}
	return c
}

// Gain returns the creak gain for velocity v (degrees/second, either sign).
func (c Creak) Gain(v float64) float64 {
	speed := utility.Magnitude(v)
	switch {
	case speed < c.Idle:
		return 0
	case speed < c.Peak:
		t := math.Log(speed/c.Idle) / math.Log(c.Peak/c.Idle)
		return c.Floor + (c.MaxGain-c.Floor)*utility.Smoothstep(t)
	case speed < c.Silent:
		t := math.Log(speed/c.Peak) / math.Log(c.Silent/c.Peak)
		return c.MaxGain * (1 - utility.Smoothstep(t))
	default:
		return 0
	}
}

// Rate returns the playback rate for velocity v.
func (c Creak) Rate(v float64) float64 {
	t := utility.ClampParameter(utility.Magnitude(v)/c.RateSpan, 0, 1)
	return utility.ClampParameter(utility.ScaleParameter(t, c.MinRate, c.MaxRate), c.MinRate, c.MaxRate)
}

// Target returns the gain and rate for velocity v.
func (c Creak) Target(v float64) CreakTarget {
	return CreakTarget{Gain: c.Gain(v), Rate: c.Rate(v)}
}
