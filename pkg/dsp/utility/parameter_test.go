package utility

import (
	"math"
	"testing"
)

func TestScaleParameter(t *testing.T) {
	tests := []struct {
		name       string
		normalized float64
		min        float64
		max        float64
		expected   float64
	}{
		{"Zero to min", 0.0, 110.0, 880.0, 110.0},
		{"One to max", 1.0, 110.0, 880.0, 880.0},
		{"Half", 0.5, 0.0, 360.0, 180.0},
		{"Quarter", 0.25, 0.0, 100.0, 25.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScaleParameter(tt.normalized, tt.min, tt.max)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ScaleParameter(%f, %f, %f) = %f, want %f",
					tt.normalized, tt.min, tt.max, result, tt.expected)
			}
		})
	}
}

func TestScaleParameterExp(t *testing.T) {
	tests := []struct {
		name       string
		normalized float64
		min        float64
		max        float64
		expected   float64
	}{
		{"Zero to min", 0.0, 110.0, 880.0, 110.0},
		{"One to max", 1.0, 110.0, 880.0, 880.0},
		{"Middle octave", 1.0 / 3.0, 110.0, 880.0, 220.0},
		{"Negative min fallback", 0.5, -10.0, 10.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScaleParameterExp(tt.normalized, tt.min, tt.max)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("ScaleParameterExp(%f, %f, %f) = %f, want %f",
					tt.normalized, tt.min, tt.max, result, tt.expected)
			}
		})
	}
}

func TestClampParameter(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"Within range", 5.0, 5.0},
		{"Below min", -5.0, 0.0},
		{"Above max", 15.0, 10.0},
		{"At max", 10.0, 10.0},
		{"NaN", math.NaN(), 0.0},
		{"+Inf", math.Inf(1), 10.0},
		{"-Inf", math.Inf(-1), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClampParameter(tt.value, 0, 10)
			if result != tt.expected {
				t.Errorf("ClampParameter(%f, 0, 10) = %f, want %f", tt.value, result, tt.expected)
			}
		})
	}
}

func TestSmoothstep(t *testing.T) {
	if Smoothstep(-1) != 0 || Smoothstep(0) != 0 {
		t.Error("Smoothstep should be 0 at and below 0")
	}
	if Smoothstep(1) != 1 || Smoothstep(2) != 1 {
		t.Error("Smoothstep should be 1 at and above 1")
	}
	if math.Abs(Smoothstep(0.5)-0.5) > 1e-12 {
		t.Errorf("Smoothstep(0.5) = %f, want 0.5", Smoothstep(0.5))
	}

	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := Smoothstep(float64(i) / 100)
		if v < prev {
			t.Fatalf("Smoothstep not monotonic at %d: %f < %f", i, v, prev)
		}
		prev = v
	}
}

func TestMagnitude(t *testing.T) {
	if Magnitude(math.NaN()) != 0 {
		t.Error("Magnitude(NaN) should be 0")
	}
	if Magnitude(-4) != 4 {
		t.Error("Magnitude(-4) should be 4")
	}
	if !math.IsInf(Magnitude(math.Inf(-1)), 1) {
		t.Error("Magnitude(-Inf) should be +Inf")
	}
}
