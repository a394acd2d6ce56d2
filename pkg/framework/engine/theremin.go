package engine

import (
	"math"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/curve"
	"github.com/justyntemme/lidsound/pkg/dsp/gain"
	"github.com/justyntemme/lidsound/pkg/dsp/oscillator"
	"github.com/justyntemme/lidsound/pkg/dsp/velocity"
	"github.com/justyntemme/lidsound/pkg/framework/param"
)

// Theremin defaults.
const (
	DefaultThereminFrequencyTime = 0.03
	DefaultThereminVolumeTime    = 0.05
	DefaultVibratoRate           = 5.0  // Hz
	DefaultVibratoDepth          = 0.03 // fraction of the frequency
)

// ThereminOptions configures a Theremin engine.
type ThereminOptions struct {
	Options
	Curve         curve.Theremin
	FrequencyTime float64
	VolumeTime    float64
	VibratoRate   float64
	VibratoDepth  float64
}

// DefaultThereminOptions returns the stock theremin engine at sampleRate.
func DefaultThereminOptions(sampleRate float64) ThereminOptions {
	return ThereminOptions{
		Options:       DefaultOptions(sampleRate),
		Curve:         curve.DefaultTheremin(),
		FrequencyTime: DefaultThereminFrequencyTime,
		VolumeTime:    DefaultThereminVolumeTime,
		VibratoRate:   DefaultVibratoRate,
		VibratoDepth:  DefaultVibratoDepth,
	}
}

// Theremin plays a sine tone whose pitch follows the lid angle and whose
// volume is loudest while the lid moves slowly.
type Theremin struct {
	core
	curve   curve.Theremin
	targets *param.TripleBuffer[stamped[curve.ThereminTarget]]

	// Update side.
	angle float64

	// Render side.
	freqRamp     *param.Ramper
	volRamp      *param.Ramper
	osc          *oscillator.Oscillator
	lfo          *oscillator.Oscillator
	vibratoDepth float64

	freqOut param.AtomicFloat
	volOut  param.AtomicFloat
}

var _ Engine = (*Theremin)(nil)

// NewTheremin builds a theremin engine.
func NewTheremin(opts ThereminOptions) *Theremin {
	t := &Theremin{
		core:  newCore(dsp.EngineTypeTheremin, opts.Options),
		curve: opts.Curve.Normalize(),
	}
	sr := t.opts.SampleRate
	rest := t.rest()

	freqTime := validTime(opts.FrequencyTime, DefaultThereminFrequencyTime)
	volTime := validTime(opts.VolumeTime, DefaultThereminVolumeTime)
	t.freqRamp = param.NewRamper(rest.Frequency,
		param.StepPerSample(t.curve.MaxFreq-t.curve.MinFreq, freqTime, sr))
	t.volRamp = param.NewRamper(rest.Volume,
		param.StepPerSample(t.curve.MaxVolume, volTime, sr))

	t.osc = oscillator.New(sr)
	t.osc.SetFrequency(rest.Frequency)
	t.lfo = oscillator.New(sr)
	t.lfo.SetFrequency(validTime(opts.VibratoRate, DefaultVibratoRate))
	t.vibratoDepth = math.Min(validTime(opts.VibratoDepth, DefaultVibratoDepth), 0.5)

	t.targets = param.NewTripleBuffer(stamped[curve.ThereminTarget]{target: rest})
	t.freqOut.Store(rest.Frequency)
	t.volOut.Store(rest.Volume)

	t.logger.Debug("theremin engine created",
		"sample_rate", sr,
		"min_freq", t.curve.MinFreq,
		"max_freq", t.curve.MaxFreq,
		"scale", t.curve.Scale.String())
	return t
}

// rest returns the quiescent target: closed-lid pitch, silent.
func (t *Theremin) rest() curve.ThereminTarget {
	return curve.ThereminTarget{Frequency: t.curve.MinFreq, Volume: 0}
}

// UpdateWithAngle implements Engine.
func (t *Theremin) UpdateWithAngle(angle float64, at time.Time) {
	gen, running := t.beginUpdate()
	if !running {
		return
	}
	if !velocity.IsUnavailable(angle) {
		t.angle = math.Mod(angle, dsp.FullTurn)
	}
	v := t.estimate(angle, at)
	t.targets.Publish(stamped[curve.ThereminTarget]{gen: gen, target: t.curve.Target(t.angle, v)})
}

// SetAngularVelocity implements Engine. The frequency keeps following the
// last angle passed to UpdateWithAngle.
func (t *Theremin) SetAngularVelocity(v float64) {
	gen, running := t.beginUpdate()
	v = t.override(v)
	if !running {
		return
	}
	t.targets.Publish(stamped[curve.ThereminTarget]{gen: gen, target: t.curve.Target(t.angle, v)})
}

// Render implements Engine.
func (t *Theremin) Render(out []float32) {
	gen, running, reset := t.beginRender()
	if reset {
		rest := t.rest()
		t.freqRamp.Reset(rest.Frequency)
		t.volRamp.Reset(rest.Volume)
		t.osc.Reset()
		t.lfo.Reset()
		t.freqOut.Store(rest.Frequency)
		t.volOut.Store(rest.Volume)
	}
	if !running {
		dsp.Clear(out)
		return
	}
	if p, ok := t.targets.Load(); ok && p.gen == gen {
		t.freqRamp.SetTarget(p.target.Frequency)
		t.volRamp.SetTarget(p.target.Volume)
	}
	if len(out) == 0 {
		return
	}

	n := len(out)
	f0, v0 := t.freqRamp.Current(), t.volRamp.Current()
	f1, v1 := t.freqRamp.Advance(n), t.volRamp.Advance(n)

	step := (f1 - f0) / float64(n)
	f := f0
	for i := range out {
		f += step
		vibrato := 1 + t.vibratoDepth*float64(t.lfo.Sine())
		out[i] = t.osc.SineAt(f * vibrato)
	}
	level := t.opts.Level
	gain.Fade(out, float32(v0*level), float32(v1*level))
	gain.HardClipBuffer(out, 1)

	t.freqOut.Store(f1)
	t.volOut.Store(v1)
}

// Frequency returns the ramped frequency applied by the last Render,
// without vibrato.
func (t *Theremin) Frequency() float64 {
	return t.freqOut.Load()
}

// Volume returns the ramped volume applied by the last Render.
func (t *Theremin) Volume() float64 {
	return t.volOut.Load()
}
