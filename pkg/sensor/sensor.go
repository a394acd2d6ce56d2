// Package sensor provides lid-angle sources and the poller that feeds them
// into an engine.
package sensor

import (
	"errors"
	"time"
)

// ErrUnavailable is returned when no current angle reading exists.
var ErrUnavailable = errors.New("sensor: angle unavailable")

// ErrClosed is returned by reads after Close.
var ErrClosed = errors.New("sensor: source closed")

// Source supplies hinge angles in degrees within [0, 360).
type Source interface {
	// ReadAngle returns the most recent angle, or an error wrapping
	// ErrUnavailable when the sensor has nothing current to report.
	ReadAngle() (float64, error)
	Close() error
}

// Updater consumes timestamped angles. engine.Engine satisfies it.
type Updater interface {
	UpdateWithAngle(angle float64, at time.Time)
}
