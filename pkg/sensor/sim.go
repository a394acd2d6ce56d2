package sensor

import (
	"math"
	"sync"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp"
)

// Sim defaults.
const (
	DefaultSimMin    = 10.0
	DefaultSimMax    = 130.0
	DefaultSimPeriod = 4 * time.Second
)

// SimOptions configures a simulated lid.
type SimOptions struct {
	Min, Max float64
	// Period is the time for one open-close cycle.
	Period time.Duration
	// DropEvery makes every Nth read report ErrUnavailable. Zero disables.
	DropEvery int
	Now       func() time.Time
}

// Sim is a deterministic lid that swings between Min and Max degrees. Each
// half cycle eases in and out, and the lid rests briefly at both ends, so a
// single sweep passes through the slow, medium and fast velocity bands.
type Sim struct {
	min, max float64
	period   time.Duration
	drop     int
	now      func() time.Time
	start    time.Time

	mu     sync.Mutex
	reads  int
	closed bool
}

// NewSim creates a simulated source starting at Min.
func NewSim(opts SimOptions) *Sim {
	if !(opts.Min >= 0 && opts.Min < opts.Max && opts.Max < dsp.FullTurn) {
		opts.Min, opts.Max = DefaultSimMin, DefaultSimMax
	}
	if opts.Period <= 0 {
		opts.Period = DefaultSimPeriod
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Sim{
		min:    opts.Min,
		max:    opts.Max,
		period: opts.Period,
		drop:   opts.DropEvery,
		now:    opts.Now,
		start:  opts.Now(),
	}
}

// ReadAngle implements Source.
func (s *Sim) ReadAngle() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	s.reads++
	if s.drop > 0 && s.reads%s.drop == 0 {
		return 0, ErrUnavailable
	}
	return s.AngleAt(s.now().Sub(s.start)), nil
}

// AngleAt returns the simulated angle at elapsed time since start.
func (s *Sim) AngleAt(elapsed time.Duration) float64 {
	phase := math.Mod(elapsed.Seconds()/s.period.Seconds(), 1)
	if phase < 0 {
		phase += 1
	}

	// Each half cycle: rest for 20%, move for 80%.
	half := phase * 2
	opening := half < 1
	if !opening {
		half -= 1
	}
	var pos float64
	if half > 0.2 {
		t := (half - 0.2) / 0.8
		pos = 0.5 - 0.5*math.Cos(dsp.Pi*t)
	}
	if !opening {
		pos = 1 - pos
	}
	return s.min + (s.max-s.min)*pos
}

// Close implements Source.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
