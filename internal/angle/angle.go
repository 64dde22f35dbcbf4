// Package angle provides the degree arithmetic used by the tile animator:
// normalization, shortest-path deltas, snapping to quarter turns and easing.
// All functions are total and allocation free.
package angle

import (
	"math"

	"github.com/tanema/gween/ease"
)

// DefaultEpsilon is the tolerance used when deciding whether a tile is upright.
const DefaultEpsilon = 0.5

// Quarter is one quarter turn in degrees.
const Quarter = 90

// Normalize maps any angle in degrees to [0, 360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// math.Mod(-1e-18, 360) + 360 rounds to exactly 360
	if d >= 360 {
		d = 0
	}
	return d
}

// ShortestDelta returns the signed delta in (-180, 180] that turns from onto to
// along the shortest arc.
func ShortestDelta(from, to float64) float64 {
	diff := Normalize(to - from)
	if diff > 180 {
		diff -= 360
	}
	return diff
}

// SnapToQuadrant rounds deg to the nearest multiple of 90 and normalizes it.
// The result is always one of 0, 90, 180 or 270.
func SnapToQuadrant(deg float64) int {
	q := int(math.Round(deg/Quarter)) * Quarter
	q %= 360
	if q < 0 {
		q += 360
	}
	return q
}

// IsNearZero reports whether deg is within eps of 0 (or 360).
func IsNearZero(deg, eps float64) bool {
	d := Normalize(deg)
	return d < eps || math.Abs(d-360) < eps
}

// Upright is IsNearZero with DefaultEpsilon.
func Upright(deg float64) bool {
	return IsNearZero(deg, DefaultEpsilon)
}

// EaseOutCubic remaps linear progress t in [0, 1] to 1-(1-t)^3.
// Inputs outside [0, 1] are clamped.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return float64(ease.OutCubic(float32(t), 0, 1, 1))
}
