package dsp

import (
	"math"
	"testing"
)

func TestMathConstants(t *testing.T) {
	if math.Abs(Pi-math.Pi) > 1e-12 {
		t.Errorf("Pi = %v, want %v", Pi, math.Pi)
	}
	if math.Abs(TwoPi-2*math.Pi) > 1e-12 {
		t.Errorf("TwoPi = %v, want %v", TwoPi, 2*math.Pi)
	}
	if HalfTurn*2 != FullTurn {
		t.Errorf("HalfTurn*2 = %v, want %v", HalfTurn*2, FullTurn)
	}
}

func TestBufferSizes(t *testing.T) {
	if MinBufferSize >= DefaultBufferSize || DefaultBufferSize >= MaxBufferSize {
		t.Errorf("buffer sizes out of order: %d, %d, %d", MinBufferSize, DefaultBufferSize, MaxBufferSize)
	}
}

func TestEngineType(t *testing.T) {
	tests := []struct {
		name string
		want EngineType
	}{
		{"creak", EngineTypeCreak},
		{"theremin", EngineTypeTheremin},
		{"organ", EngineTypeUnknown},
		{"", EngineTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEngineType(tt.name)
			if got != tt.want {
				t.Errorf("ParseEngineType(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got != EngineTypeUnknown && got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}
