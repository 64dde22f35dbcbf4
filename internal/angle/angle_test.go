package angle

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{720, 0},
		{-90, 270},
		{-360, 0},
		{450, 90},
		{-725, 355},
		{359.5, 359.5},
	}

	for _, tc := range tests {
		result := Normalize(tc.in)
		if math.Abs(result-tc.expected) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, expected %v", tc.in, result, tc.expected)
		}
	}
}

func TestNormalizeIdempotentAndInRange(t *testing.T) {
	for a := -1080.0; a <= 1080.0; a += 7.25 {
		n := Normalize(a)
		if n < 0 || n >= 360 {
			t.Fatalf("Normalize(%v) = %v, out of [0,360)", a, n)
		}
		if Normalize(n) != n {
			t.Fatalf("Normalize not idempotent for %v: %v vs %v", a, n, Normalize(n))
		}
	}

	if n := Normalize(-1e-18); n != 0 {
		t.Errorf("Normalize(-1e-18) = %v, expected 0", n)
	}
}

func TestShortestDelta(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		expected float64
	}{
		{"same angle", 90, 90, 0},
		{"quarter forward", 0, 90, 90},
		{"quarter backward", 90, 0, -90},
		{"wrap forward", 270, 0, 90},
		{"wrap backward", 0, 270, -90},
		{"half turn is positive", 0, 180, 180},
		{"half turn from 270", 270, 90, 180},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ShortestDelta(tc.from, tc.to)
			if result != tc.expected {
				t.Errorf("ShortestDelta(%v, %v) = %v, expected %v", tc.from, tc.to, result, tc.expected)
			}
		})
	}
}

func TestShortestDeltaQuarterTurns(t *testing.T) {
	quads := []float64{0, 90, 180, 270}
	for _, from := range quads {
		for _, to := range quads {
			d := ShortestDelta(from, to)
			if math.Abs(d) > 180 {
				t.Errorf("|ShortestDelta(%v, %v)| = %v > 180", from, to, d)
			}
			if Normalize(from+d) != to {
				t.Errorf("Normalize(%v + %v) = %v, expected %v", from, d, Normalize(from+d), to)
			}
		}
	}
}

func TestSnapToQuadrant(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{0, 0},
		{44, 0},
		{46, 90},
		{89.9, 90},
		{180, 180},
		{-90, 270},
		{-44, 0},
		{315, 0},
		{314, 270},
		{359.9, 0},
		{-180, 180},
		{1000, 270},
	}

	for _, tc := range tests {
		result := SnapToQuadrant(tc.in)
		if result != tc.expected {
			t.Errorf("SnapToQuadrant(%v) = %d, expected %d", tc.in, result, tc.expected)
		}
	}
}

func TestSnapToQuadrantIdempotent(t *testing.T) {
	for a := -1000.0; a < 1000.0; a += 3.3 {
		q := SnapToQuadrant(a)
		if q != 0 && q != 90 && q != 180 && q != 270 {
			t.Fatalf("SnapToQuadrant(%v) = %d, not a quarter turn", a, q)
		}
		if SnapToQuadrant(float64(q)) != q {
			t.Fatalf("SnapToQuadrant not idempotent on %d", q)
		}
	}
}

func TestIsNearZero(t *testing.T) {
	tests := []struct {
		deg      float64
		expected bool
	}{
		{0, true},
		{0.4, true},
		{0.5, false},
		{359.6, true},
		{360, true},
		{-0.3, true},
		{90, false},
		{180, false},
		{720.2, true},
	}

	for _, tc := range tests {
		result := IsNearZero(tc.deg, DefaultEpsilon)
		if result != tc.expected {
			t.Errorf("IsNearZero(%v) = %v, expected %v", tc.deg, result, tc.expected)
		}
	}

	if !Upright(0.1) {
		t.Error("Upright(0.1) should be true")
	}
}

func TestEaseOutCubic(t *testing.T) {
	if EaseOutCubic(0) != 0 {
		t.Errorf("EaseOutCubic(0) = %v, expected 0", EaseOutCubic(0))
	}
	if EaseOutCubic(1) != 1 {
		t.Errorf("EaseOutCubic(1) = %v, expected 1", EaseOutCubic(1))
	}
	if EaseOutCubic(-2) != 0 || EaseOutCubic(3) != 1 {
		t.Error("EaseOutCubic should clamp out-of-range input")
	}

	for _, x := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		expected := 1 - math.Pow(1-x, 3)
		if got := EaseOutCubic(x); math.Abs(got-expected) > 1e-6 {
			t.Errorf("EaseOutCubic(%v) = %v, expected %v", x, got, expected)
		}
	}

	// Monotonic
	prev := 0.0
	for x := 0.0; x <= 1.0; x += 0.01 {
		v := EaseOutCubic(x)
		if v < prev {
			t.Fatalf("EaseOutCubic not monotonic at %v", x)
		}
		prev = v
	}
}
