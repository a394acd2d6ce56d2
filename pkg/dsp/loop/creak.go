// Package loop builds and plays back the looped material used by the creak
// engine.
package loop

import (
	"math"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/filter"
	"github.com/justyntemme/lidsound/pkg/dsp/interpolation"
	"github.com/justyntemme/lidsound/pkg/dsp/utility"
)

// Defaults for CreakConfig.
const (
	DefaultSeconds     = 1.5
	DefaultQ           = 12.0
	DefaultImpulseRate = 35.0 // stick-slip events per second
	DefaultCrossfade   = 0.05 // seconds
	DefaultSeed        = 1
	DefaultPeak        = 0.9

	frictionCutoff = 1500.0 // Hz
	toneCutoff     = 6000.0 // Hz
)

// DefaultBands are the resonances of a wooden hinge and door panel.
var DefaultBands = []float64{300, 750, 1400, 2600}

// CreakConfig describes the synthesized creak loop.
type CreakConfig struct {
	Seconds     float64   `yaml:"seconds"`
	Bands       []float64 `yaml:"bands"`
	Q           float64   `yaml:"q"`
	ImpulseRate float64   `yaml:"impulse_rate"`
	Crossfade   float64   `yaml:"crossfade"`
	Seed        int64     `yaml:"seed"`
}

// DefaultCreakConfig returns the stock creak loop.
func DefaultCreakConfig() CreakConfig {
	return CreakConfig{
		Seconds:     DefaultSeconds,
		Bands:       append([]float64(nil), DefaultBands...),
		Q:           DefaultQ,
		ImpulseRate: DefaultImpulseRate,
		Crossfade:   DefaultCrossfade,
		Seed:        DefaultSeed,
	}
}

// Normalize replaces out-of-range fields with defaults.
func (c CreakConfig) Normalize() CreakConfig {
	d := DefaultCreakConfig()
	if !(c.Seconds >= 0.1 && c.Seconds <= 30) {
		c.Seconds = d.Seconds
	}
	bands := make([]float64, 0, len(c.Bands))
	for _, b := range c.Bands {
		if b > 0 && !math.IsInf(b, 0) {
			bands = append(bands, b)
		}
	}
	if len(bands) == 0 {
		bands = d.Bands
	}
	c.Bands = bands
	if !(c.Q > 0) || math.IsInf(c.Q, 0) {
		c.Q = d.Q
	}
	if !(c.ImpulseRate > 0) || math.IsInf(c.ImpulseRate, 0) {
		c.ImpulseRate = d.ImpulseRate
	}
	if !(c.Crossfade >= 0 && c.Crossfade <= c.Seconds/2) {
		c.Crossfade = math.Min(d.Crossfade, c.Seconds/2)
	}
	return c
}

// GenerateCreak synthesizes a seamless creak loop at sampleRate.
//
// A stick-slip impulse train with a little friction noise excites a bank of
// band-pass resonators. The tail of the rendering is crossfaded into its head
// so the loop wraps without a click. The result is normalized to
// DefaultPeak. The same config and sample rate always produce the same loop.
func GenerateCreak(cfg CreakConfig, sampleRate float64) []float32 {
	cfg = cfg.Normalize()
	if !(sampleRate > 0) {
		sampleRate = dsp.SampleRate48k
	}

	n := int(math.Round(cfg.Seconds * sampleRate))
	xf := int(math.Round(cfg.Crossfade * sampleRate))
	if xf >= n {
		xf = n / 2
	}
	raw := make([]float32, n+xf)

	resonators := make([]*filter.Biquad, len(cfg.Bands))
	weights := make([]float64, len(cfg.Bands))
	for i, f := range cfg.Bands {
		resonators[i] = filter.NewBiquad()
		resonators[i].SetBandpass(sampleRate, f, cfg.Q)
		weights[i] = 1 / (1 + 0.5*float64(i))
	}

	// Friction is a scrape, not a rumble; the output lowpass softens the
	// impulse edges.
	hiss := filter.NewBiquad()
	hiss.SetHighpass(sampleRate, math.Min(frictionCutoff, 0.2*sampleRate), 0.707)
	tone := filter.NewBiquad()
	tone.SetLowpass(sampleRate, math.Min(toneCutoff, 0.45*sampleRate), 0.707)

	events := utility.NewNoiseGenerator(utility.WhiteNoise, cfg.Seed)
	friction := utility.NewNoiseGenerator(utility.PinkNoise, cfg.Seed+1)
	p := cfg.ImpulseRate / sampleRate

	for i := range raw {
		t := float64(i) / sampleRate
		// Slow pressure swell so the loop does not sound like a metronome.
		pressure := 0.6 + 0.4*math.Sin(dsp.TwoPi*1.3*t)

		x := 0.05 * pressure * hiss.Tick(float64(friction.Next()))
		if events.Float() < p*pressure {
			amp := 0.5 + 0.5*events.Float()
			if events.Float() < 0.5 {
				amp = -amp
			}
			x += amp
		}

		var y float64
		for j, r := range resonators {
			y += weights[j] * r.Tick(x)
		}
		raw[i] = float32(tone.Tick(y))
	}

	out := raw[:n]
	for i := 0; i < xf; i++ {
		w := float32(i) / float32(xf)
		out[i] = interpolation.Linear(raw[n+i], raw[i], w)
	}

	normalize(out, DefaultPeak)
	return out
}

func normalize(buffer []float32, peak float32) {
	if max := dsp.Peak(buffer); max > 0 {
		dsp.Scale(buffer, peak/max)
	}
}
