package utility

import (
	"math"
	"testing"
)

func TestNoiseGeneratorDeterministic(t *testing.T) {
	for _, typ := range []NoiseType{WhiteNoise, PinkNoise, BrownNoise} {
		a := NewNoiseGenerator(typ, 42)
		b := NewNoiseGenerator(typ, 42)
		for i := 0; i < 1000; i++ {
			if x, y := a.Next(), b.Next(); x != y {
				t.Fatalf("type %d sample %d: %f != %f", typ, i, x, y)
			}
		}
	}
}

func TestNoiseGeneratorReset(t *testing.T) {
	n := NewNoiseGenerator(PinkNoise, 7)
	first := make([]float32, 64)
	for i := range first {
		first[i] = n.Next()
	}

	n.Reset()
	second := make([]float32, 64)
	for i := range second {
		second[i] = n.Next()
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after Reset: %f != %f", i, first[i], second[i])
		}
	}
}

func TestNoiseGeneratorRange(t *testing.T) {
	for _, typ := range []NoiseType{WhiteNoise, PinkNoise, BrownNoise} {
		n := NewNoiseGenerator(typ, 1)
		var sum float64
		for i := 0; i < 48000; i++ {
			v := n.Next()
			if v < -1 || v > 1 || math.IsNaN(float64(v)) {
				t.Fatalf("type %d produced out of range sample %f", typ, v)
			}
			sum += float64(v)
		}
		if mean := sum / 48000; math.Abs(mean) > 0.2 {
			t.Errorf("type %d mean %f too far from zero", typ, mean)
		}
	}
}

func TestDCBlocker(t *testing.T) {
	dc := NewDCBlocker(10, 48000)

	// A constant input must decay towards zero.
	var out float32
	for i := 0; i < 48000; i++ {
		out = dc.Process(0.5)
	}
	if math.Abs(float64(out)) > 0.01 {
		t.Errorf("DC not removed: residual %f", out)
	}

	dc.Reset()
	buf := []float32{1, 1, 1}
	dc.ProcessBuffer(buf)
	if buf[0] != 1 {
		t.Errorf("first sample after reset = %f, want 1", buf[0])
	}
}
