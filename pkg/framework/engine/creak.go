package engine

import (
	"math"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/curve"
	"github.com/justyntemme/lidsound/pkg/dsp/gain"
	"github.com/justyntemme/lidsound/pkg/dsp/loop"
	"github.com/justyntemme/lidsound/pkg/dsp/utility"
	"github.com/justyntemme/lidsound/pkg/framework/param"
)

// Creak ramp defaults, in seconds for a full-range change.
const (
	DefaultCreakGainTime = 0.05
	DefaultCreakRateTime = 0.08
)

// Quiescent creak parameters.
const (
	restGain = 0.0
	restRate = 1.0
)

// CreakOptions configures a Creak engine.
type CreakOptions struct {
	Options
	Curve    curve.Creak
	Loop     loop.CreakConfig
	GainTime float64
	RateTime float64
}

// DefaultCreakOptions returns the stock creak engine at sampleRate.
func DefaultCreakOptions(sampleRate float64) CreakOptions {
	return CreakOptions{
		Options:  DefaultOptions(sampleRate),
		Curve:    curve.DefaultCreak(),
		Loop:     loop.DefaultCreakConfig(),
		GainTime: DefaultCreakGainTime,
		RateTime: DefaultCreakRateTime,
	}
}

// Creak plays a looped creak whose loudness and speed follow the lid
// velocity: loud for slow motion, fading out as the lid moves faster.
type Creak struct {
	core
	curve   curve.Creak
	targets *param.TripleBuffer[stamped[curve.CreakTarget]]

	// Render side.
	gainRamp *param.Ramper
	rateRamp *param.Ramper
	player   *loop.Player
	dc       *utility.DCBlocker

	gainOut param.AtomicFloat
	rateOut param.AtomicFloat
}

var _ Engine = (*Creak)(nil)

// NewCreak builds a creak engine. The loop is synthesized here, so all
// allocation happens before the first Render.
func NewCreak(opts CreakOptions) *Creak {
	c := &Creak{
		core:  newCore(dsp.EngineTypeCreak, opts.Options),
		curve: opts.Curve.Normalize(),
	}
	sr := c.opts.SampleRate

	gainTime := validTime(opts.GainTime, DefaultCreakGainTime)
	rateTime := validTime(opts.RateTime, DefaultCreakRateTime)
	rateSpan := math.Max(c.curve.MaxRate, restRate) - math.Min(c.curve.MinRate, restRate)

	c.gainRamp = param.NewRamper(restGain, param.StepPerSample(c.curve.MaxGain, gainTime, sr))
	c.rateRamp = param.NewRamper(restRate, param.StepPerSample(rateSpan, rateTime, sr))
	c.player = loop.NewPlayer(loop.GenerateCreak(opts.Loop, sr))
	c.dc = utility.NewDCBlocker(10, sr)
	c.targets = param.NewTripleBuffer(stamped[curve.CreakTarget]{
		target: curve.CreakTarget{Gain: restGain, Rate: restRate},
	})
	c.gainOut.Store(restGain)
	c.rateOut.Store(restRate)

	c.logger.Debug("creak engine created",
		"sample_rate", sr,
		"loop_frames", c.player.Len(),
		"gain_time", gainTime,
		"rate_time", rateTime)
	return c
}

// UpdateWithAngle implements Engine.
func (c *Creak) UpdateWithAngle(angle float64, at time.Time) {
	gen, running := c.beginUpdate()
	if !running {
		return
	}
	v := c.estimate(angle, at)
	c.targets.Publish(stamped[curve.CreakTarget]{gen: gen, target: c.curve.Target(v)})
}

// SetAngularVelocity implements Engine.
func (c *Creak) SetAngularVelocity(v float64) {
	gen, running := c.beginUpdate()
	v = c.override(v)
	if !running {
		return
	}
	c.targets.Publish(stamped[curve.CreakTarget]{gen: gen, target: c.curve.Target(v)})
}

// Render implements Engine.
func (c *Creak) Render(out []float32) {
	gen, running, reset := c.beginRender()
	if reset {
		c.gainRamp.Reset(restGain)
		c.rateRamp.Reset(restRate)
		c.player.Reset()
		c.dc.Reset()
		c.gainOut.Store(restGain)
		c.rateOut.Store(restRate)
	}
	if !running {
		dsp.Clear(out)
		return
	}
	if t, ok := c.targets.Load(); ok && t.gen == gen {
		c.gainRamp.SetTarget(t.target.Gain)
		c.rateRamp.SetTarget(t.target.Rate)
	}
	if len(out) == 0 {
		return
	}

	g0, r0 := c.gainRamp.Current(), c.rateRamp.Current()
	g1, r1 := c.gainRamp.Advance(len(out)), c.rateRamp.Advance(len(out))

	c.player.Process(out, r0, r1)
	c.dc.ProcessBuffer(out)
	level := c.opts.Level
	gain.Fade(out, float32(g0*level), float32(g1*level))
	gain.HardClipBuffer(out, 1)

	c.gainOut.Store(g1)
	c.rateOut.Store(r1)
}

// Gain returns the ramped gain applied by the last Render.
func (c *Creak) Gain() float64 {
	return c.gainOut.Load()
}

// Rate returns the ramped playback rate applied by the last Render.
func (c *Creak) Rate() float64 {
	return c.rateOut.Load()
}

func validTime(seconds, fallback float64) float64 {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fallback
	}
	return seconds
}
