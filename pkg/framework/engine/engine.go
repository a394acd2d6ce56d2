// Package engine drives audio synthesis from lid motion.
//
// Every engine has two sides. The update side (UpdateWithAngle,
// SetAngularVelocity) runs on the sensor goroutine: it owns the velocity
// estimator and publishes parameter targets. The render side (Render) runs
// on the audio goroutine: it owns the ramped parameters and the synthesis
// state. Targets cross between them through a wait-free triple buffer, so
// Render never blocks. Start and Stop may be called from a third goroutine.
package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/utility"
	"github.com/justyntemme/lidsound/pkg/dsp/velocity"
	"github.com/justyntemme/lidsound/pkg/framework/param"
)

// Engine is the capability shared by the creak and theremin engines.
type Engine interface {
	// Start begins producing sound. Idempotent.
	Start()
	// Stop silences the output and returns parameters to rest. Idempotent.
	Stop()
	IsRunning() bool

	// UpdateWithAngle feeds one sensor reading. Update side only; must not
	// be called concurrently with itself or SetAngularVelocity.
	UpdateWithAngle(angle float64, at time.Time)
	// SetAngularVelocity bypasses the estimator and maps v directly.
	// Update side only.
	SetAngularVelocity(v float64)

	// Render fills out with the next block of mono samples. Render side
	// only. Never blocks or allocates.
	Render(out []float32)

	// Velocity returns the most recent velocity estimate in degrees/second.
	Velocity() float64
	// Type identifies the engine variant.
	Type() dsp.EngineType
	// SampleRate returns the render sample rate.
	SampleRate() float64
}

// Options are the settings shared by all engines.
type Options struct {
	SampleRate float64
	Velocity   velocity.Config
	// Level is the linear master level applied after synthesis.
	Level  float64
	Logger *slog.Logger
}

// DefaultOptions returns the shared defaults at sampleRate.
func DefaultOptions(sampleRate float64) Options {
	return Options{
		SampleRate: sampleRate,
		Velocity:   velocity.DefaultConfig(),
		Level:      1,
	}
}

func (o Options) normalize() Options {
	if !(o.SampleRate > 0) || math.IsInf(o.SampleRate, 0) {
		o.SampleRate = dsp.SampleRate48k
	}
	o.Velocity = o.Velocity.Normalize()
	if !(o.Level >= 0) || math.IsInf(o.Level, 0) {
		o.Level = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// stamped tags a published target with the lifecycle generation it was
// computed in. Render drops targets from an earlier run.
type stamped[T any] struct {
	gen    uint64
	target T
}

// core holds the lifecycle and update-side state common to both engines.
type core struct {
	kind   dsp.EngineType
	opts   Options
	logger *slog.Logger
	lc     Lifecycle

	// Update side.
	est       *velocity.Estimator
	updateGen uint64

	// Render side.
	renderGen uint64

	velocity param.AtomicFloat
}

func newCore(kind dsp.EngineType, opts Options) core {
	opts = opts.normalize()
	return core{
		kind:   kind,
		opts:   opts,
		logger: opts.Logger.With("engine", kind.String()),
		est:    velocity.New(opts.Velocity),
	}
}

// Start implements Engine.
func (c *core) Start() {
	if c.lc.Start() {
		c.logger.Info("engine started")
	}
}

// Stop implements Engine.
func (c *core) Stop() {
	if c.lc.Stop() {
		c.velocity.Store(0)
		c.logger.Info("engine stopped")
	}
}

// IsRunning implements Engine.
func (c *core) IsRunning() bool {
	return c.lc.IsRunning()
}

// State returns the lifecycle state.
func (c *core) State() State {
	return c.lc.State()
}

// Velocity implements Engine.
func (c *core) Velocity() float64 {
	return c.velocity.Load()
}

// Type implements Engine.
func (c *core) Type() dsp.EngineType {
	return c.kind
}

// SampleRate implements Engine.
func (c *core) SampleRate() float64 {
	return c.opts.SampleRate
}

// beginUpdate starts an update-side call. It resets the estimator when a
// stop/start happened since the previous update and reports whether the
// engine is running.
func (c *core) beginUpdate() (gen uint64, running bool) {
	state, gen := c.lc.Snapshot()
	if gen != c.updateGen {
		c.updateGen = gen
		c.est.Reset()
	}
	return gen, state == Running
}

// estimate runs the estimator and records the result.
func (c *core) estimate(angle float64, at time.Time) float64 {
	est := c.est.Estimate(velocity.Sample{Angle: angle, Time: at})
	c.velocity.Store(est.DegreesPerSecond)
	return est.DegreesPerSecond
}

// override records a velocity that bypasses the estimator. Infinite speeds
// clamp to the plausibility limit; NaN reads as rest.
func (c *core) override(v float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	max := c.est.Config().MaxPlausible
	v = utility.ClampParameter(v, -max, max)
	c.velocity.Store(v)
	return v
}

// beginRender starts a render-side call. reset is true when the render
// state must return to rest because the lifecycle changed.
func (c *core) beginRender() (gen uint64, running, reset bool) {
	state, gen := c.lc.Snapshot()
	if gen != c.renderGen {
		c.renderGen = gen
		reset = true
	}
	return gen, state == Running, reset
}

// New creates the engine for kind with default settings for that variant.
// Unknown kinds return nil.
func New(kind dsp.EngineType, opts Options) Engine {
	switch kind {
	case dsp.EngineTypeCreak:
		co := DefaultCreakOptions(opts.SampleRate)
		co.Options = opts
		return NewCreak(co)
	case dsp.EngineTypeTheremin:
		to := DefaultThereminOptions(opts.SampleRate)
		to.Options = opts
		return NewTheremin(to)
	default:
		return nil
	}
}
