// Package velocity turns irregularly sampled hinge angles into a filtered
// angular-velocity signal.
//
// Each sample passes through four stages: wraparound-aware differentiation,
// spike rejection, a short median filter and a one-pole low-pass. A dead zone
// snaps the output to zero while the lid is at rest so that sensor jitter
// never reaches the audio parameters.
package velocity

import (
	"math"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp"
)

// Unavailable is the angle reported by the sensor when a read fails.
const Unavailable = -2.0

// Defaults for Config.
const (
	DefaultMedianWindow = 5
	DefaultAlpha        = 0.3
	DefaultDeadZone     = 0.5    // degrees/second
	DefaultMaxPlausible = 2000.0 // degrees/second

	// MaxMedianWindow is the largest accepted median window.
	MaxMedianWindow = 9
)

// IsUnavailable reports whether angle is the sensor's "no reading" marker.
// Any negative or non-finite value counts.
func IsUnavailable(angle float64) bool {
	return math.IsNaN(angle) || math.IsInf(angle, 0) || angle < 0
}

// WrapDelta returns the signed shortest angular path from one reading to the
// next, in degrees within (-180, 180].
func WrapDelta(from, to float64) float64 {
	d := math.Mod(to-from, dsp.FullTurn)
	if d > dsp.HalfTurn {
		d -= dsp.FullTurn
	} else if d <= -dsp.HalfTurn {
		d += dsp.FullTurn
	}
	return d
}

// Sample is a single timestamped angle reading.
type Sample struct {
	Angle float64 // degrees in [0, 360), or Unavailable
	Time  time.Time
}

// Estimate is the filtered velocity for one sample.
type Estimate struct {
	DegreesPerSecond float64
	Valid            bool
}

// Config holds the filter tunables.
type Config struct {
	// MedianWindow is the number of raw velocities the median spans.
	MedianWindow int `yaml:"median_window"`
	// Alpha is the one-pole smoothing weight of the newest median (0-1].
	// Small values are smoother and slower.
	Alpha float64 `yaml:"alpha"`
	// DeadZone is the speed below which the output is snapped to zero.
	DeadZone float64 `yaml:"dead_zone"`
	// MaxPlausible is the speed above which a raw velocity is treated as
	// sensor noise and ignored.
	MaxPlausible float64 `yaml:"max_plausible"`
}

// DefaultConfig returns the default filter tunables.
func DefaultConfig() Config {
	return Config{
		MedianWindow: DefaultMedianWindow,
		Alpha:        DefaultAlpha,
		DeadZone:     DefaultDeadZone,
		MaxPlausible: DefaultMaxPlausible,
	}
}

// Normalize replaces out-of-range fields with their defaults.
func (c Config) Normalize() Config {
	if c.MedianWindow < 1 || c.MedianWindow > MaxMedianWindow {
		c.MedianWindow = DefaultMedianWindow
	}
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		c.Alpha = DefaultAlpha
	}
	if !(c.DeadZone >= 0) || math.IsInf(c.DeadZone, 0) {
		c.DeadZone = DefaultDeadZone
	}
	if !(c.MaxPlausible > 0) || math.IsInf(c.MaxPlausible, 0) {
		c.MaxPlausible = DefaultMaxPlausible
	}
	return c
}

// Estimator holds the filter state. It is owned by a single goroutine (the
// sensor/update side) and performs no allocation after New.
type Estimator struct {
	cfg    Config
	window *medianWindow

	smoothed float64
	primed   bool

	hasPrev   bool
	prevAngle float64
	prevTime  time.Time
}

// New creates an estimator. Invalid config fields fall back to defaults.
func New(cfg Config) *Estimator {
	cfg = cfg.Normalize()
	return &Estimator{
		cfg:    cfg,
		window: newMedianWindow(cfg.MedianWindow),
	}
}

// Config returns the effective configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Reset returns the estimator to rest: no history and zero velocity.
func (e *Estimator) Reset() {
	e.window.reset()
	e.smoothed = 0
	e.primed = false
	e.hasPrev = false
}

// Estimate consumes one sample and returns the filtered velocity.
//
// An unavailable reading returns the held velocity with Valid=false and
// marks a gap: the next reading re-anchors instead of differentiating across
// the missing interval. Timestamps must not decrease; a sample that goes back
// in time re-anchors as well.
func (e *Estimator) Estimate(s Sample) Estimate {
	if IsUnavailable(s.Angle) {
		e.hasPrev = false
		return Estimate{DegreesPerSecond: e.output(), Valid: false}
	}

	angle := math.Mod(s.Angle, dsp.FullTurn)
	if !e.hasPrev {
		e.anchor(angle, s.Time)
		return Estimate{DegreesPerSecond: e.output(), Valid: true}
	}

	dt := s.Time.Sub(e.prevTime).Seconds()
	switch {
	case dt < 0:
		e.anchor(angle, s.Time)
		return Estimate{DegreesPerSecond: e.output(), Valid: true}
	case dt == 0:
		return Estimate{DegreesPerSecond: e.output(), Valid: true}
	}

	raw := WrapDelta(e.prevAngle, angle) / dt
	e.anchor(angle, s.Time)

	if math.IsNaN(raw) || math.Abs(raw) > e.cfg.MaxPlausible {
		// Spike: hold the previous smoothed value.
		return Estimate{DegreesPerSecond: e.output(), Valid: true}
	}

	e.window.push(raw)
	median := e.window.median()
	if !e.primed {
		e.smoothed = median
		e.primed = true
	} else {
		e.smoothed = e.cfg.Alpha*median + (1-e.cfg.Alpha)*e.smoothed
	}
	if math.Abs(e.smoothed) < dsp.Epsilon {
		e.smoothed = 0
	}

	return Estimate{DegreesPerSecond: e.output(), Valid: true}
}

// Velocity returns the current dead-zoned velocity without consuming a sample.
func (e *Estimator) Velocity() float64 {
	return e.output()
}

func (e *Estimator) anchor(angle float64, t time.Time) {
	e.prevAngle = angle
	e.prevTime = t
	e.hasPrev = true
}

func (e *Estimator) output() float64 {
	if math.Abs(e.smoothed) < e.cfg.DeadZone {
		return 0
	}
	return e.smoothed
}
