package curve

import (
	"math"
	"testing"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func TestCreakGainBands(t *testing.T) {
	c := DefaultCreak()

	tests := []struct {
		name     string
		velocity float64
		check    func(g float64) bool
		desc     string
	}{
		{"Rest", 0, func(g float64) bool { return g == 0 }, "== 0"},
		{"Below idle", 0.99, func(g float64) bool { return g == 0 }, "== 0"},
		{"Idle edge", 1, func(g float64) bool { return math.Abs(g-c.Floor) < 1e-12 }, "== floor"},
		{"Slow creak", 5, func(g float64) bool { return g > 0.8*c.MaxGain && g <= c.MaxGain }, "near max"},
		{"Peak", 10, func(g float64) bool { return math.Abs(g-c.MaxGain) < 1e-12 }, "== max"},
		{"Fading", 50, func(g float64) bool { return g > 0 && g < c.MaxGain }, "strictly between 0 and max"},
		{"Silent edge", 100, func(g float64) bool { return g == 0 }, "== 0"},
		{"Too fast", 150, func(g float64) bool { return g == 0 }, "== 0"},
		{"Negative slow", -5, func(g float64) bool { return g > 0.8*c.MaxGain }, "near max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := c.Gain(tt.velocity)
			if !tt.check(g) {
				t.Errorf("Gain(%f) = %f, want %s", tt.velocity, g, tt.desc)
			}
		})
	}
}

func TestCreakGainShape(t *testing.T) {
	c := DefaultCreak()

	// Rising between idle and peak.
	prev := c.Gain(1)
	for v := 1.5; v <= 10; v += 0.5 {
		g := c.Gain(v)
		if g < prev {
			t.Errorf("gain decreased in rising band at %f: %f < %f", v, g, prev)
		}
		prev = g
	}

	// Strictly falling between peak and silence.
	prev = c.Gain(10)
	for v := 11.0; v < 100; v++ {
		g := c.Gain(v)
		if g >= prev {
			t.Errorf("gain did not decrease at %f: %f >= %f", v, g, prev)
		}
		prev = g
	}
}

func TestCreakRate(t *testing.T) {
	c := DefaultCreak()

	if r := c.Rate(0); r != c.MinRate {
		t.Errorf("Rate(0) = %f, want %f", r, c.MinRate)
	}
	if r := c.Rate(100); math.Abs(r-c.MaxRate) > 1e-12 {
		t.Errorf("Rate(100) = %f, want %f", r, c.MaxRate)
	}
	if r := c.Rate(5000); math.Abs(r-c.MaxRate) > 1e-12 {
		t.Errorf("Rate(5000) = %f, want clamp at %f", r, c.MaxRate)
	}
	if r := c.Rate(-50); math.Abs(r-c.Rate(50)) > 1e-12 {
		t.Errorf("Rate should depend on speed only: %f vs %f", r, c.Rate(50))
	}

	prev := c.Rate(0)
	for v := 1.0; v <= 200; v++ {
		r := c.Rate(v)
		if r < prev {
			t.Errorf("rate decreased at %f", v)
		}
		prev = r
	}
}

func TestCreakInvalidInput(t *testing.T) {
	c := DefaultCreak()
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.MaxFloat64, -math.MaxFloat64} {
		target := c.Target(v)
		if !finite(target.Gain) || !finite(target.Rate) {
			t.Errorf("Target(%v) = %+v, want finite", v, target)
		}
		if target.Gain < 0 || target.Gain > c.MaxGain {
			t.Errorf("Target(%v).Gain = %f out of range", v, target.Gain)
		}
		if target.Rate < c.MinRate || target.Rate > c.MaxRate {
			t.Errorf("Target(%v).Rate = %f out of range", v, target.Rate)
		}
	}
	if g := c.Gain(math.NaN()); g != 0 {
		t.Errorf("Gain(NaN) = %f, want 0", g)
	}
	if g := c.Gain(math.Inf(1)); g != 0 {
		t.Errorf("Gain(+Inf) = %f, want 0", g)
	}
}

func TestCreakNormalize(t *testing.T) {
	bad := Creak{Idle: 10, Peak: 5, Silent: 1, Floor: 3, MaxGain: math.NaN(), MinRate: 2, MaxRate: 1, RateSpan: -1}
	got := bad.Normalize()
	if got != DefaultCreak() {
		t.Errorf("Normalize() = %+v, want defaults", got)
	}

	custom := Creak{Idle: 2, Peak: 20, Silent: 200, Floor: 0.2, MaxGain: 0.8, MinRate: 0.5, MaxRate: 2, RateSpan: 50}
	if got := custom.Normalize(); got != custom {
		t.Errorf("Normalize() changed valid mapping: %+v", got)
	}
}

func TestThereminFrequency(t *testing.T) {
	th := DefaultTheremin()

	if f := th.Frequency(0); f != th.MinFreq {
		t.Errorf("Frequency(0) = %f, want %f", f, th.MinFreq)
	}
	if f := th.Frequency(360); f != th.MaxFreq {
		t.Errorf("Frequency(360) = %f, want %f", f, th.MaxFreq)
	}
	if f := th.Frequency(180); math.Abs(f-275) > 1e-9 {
		t.Errorf("Frequency(180) = %f, want 275", f)
	}

	prev := th.Frequency(0)
	for a := 0.5; a <= 360; a += 0.5 {
		f := th.Frequency(a)
		if f < prev {
			t.Fatalf("frequency decreased at %f: %f < %f", a, f, prev)
		}
		prev = f
	}
}

func TestThereminFrequencyExponential(t *testing.T) {
	th := DefaultTheremin()
	th.Scale = ScaleExponential

	if f := th.Frequency(0); math.Abs(f-th.MinFreq) > 1e-9 {
		t.Errorf("Frequency(0) = %f, want %f", f, th.MinFreq)
	}
	if f := th.Frequency(360); math.Abs(f-th.MaxFreq) > 1e-9 {
		t.Errorf("Frequency(360) = %f, want %f", f, th.MaxFreq)
	}
	// 110 -> 440 is two octaves; the midpoint is one octave up.
	if f := th.Frequency(180); math.Abs(f-220) > 1e-9 {
		t.Errorf("Frequency(180) = %f, want 220", f)
	}
}

func TestThereminVolume(t *testing.T) {
	th := DefaultTheremin()

	if v := th.Volume(0); v != th.MaxVolume {
		t.Errorf("Volume(0) = %f, want %f", v, th.MaxVolume)
	}
	if v := th.Volume(100); v != 0 {
		t.Errorf("Volume(100) = %f, want 0", v)
	}
	if v := th.Volume(250); v != 0 {
		t.Errorf("Volume(250) = %f, want 0", v)
	}

	prev := th.Volume(0)
	for s := 1.0; s < 100; s++ {
		v := th.Volume(s)
		if v > prev {
			t.Errorf("volume increased at %f", s)
		}
		prev = v
	}
	if th.Volume(-30) != th.Volume(30) {
		t.Error("volume should depend on speed only")
	}
}

func TestThereminInvalidInput(t *testing.T) {
	th := DefaultTheremin()
	inputs := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -720, 1e12}
	for _, a := range inputs {
		for _, v := range inputs {
			target := th.Target(a, v)
			if !finite(target.Frequency) || !finite(target.Volume) {
				t.Fatalf("Target(%v, %v) = %+v, want finite", a, v, target)
			}
			if target.Frequency < th.MinFreq || target.Frequency > th.MaxFreq {
				t.Errorf("Target(%v, %v).Frequency = %f out of range", a, v, target.Frequency)
			}
			if target.Volume < 0 || target.Volume > th.MaxVolume {
				t.Errorf("Target(%v, %v).Volume = %f out of range", a, v, target.Volume)
			}
		}
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in      string
		want    Scale
		wantErr bool
	}{
		{"", ScaleLinear, false},
		{"linear", ScaleLinear, false},
		{"exponential", ScaleExponential, false},
		{"exp", ScaleExponential, false},
		{"log", ScaleLinear, true},
	}
	for _, tt := range tests {
		got, err := ParseScale(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScale(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseScale(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if ScaleExponential.String() != "exponential" || ScaleLinear.String() != "linear" {
		t.Error("Scale.String mismatch")
	}
}

func TestThereminNormalize(t *testing.T) {
	bad := Theremin{MinFreq: 500, MaxFreq: 100, AngleSpan: 0, Scale: Scale(7), MaxVolume: 3, Silent: math.Inf(1)}
	if got := bad.Normalize(); got != DefaultTheremin() {
		t.Errorf("Normalize() = %+v, want defaults", got)
	}
}
