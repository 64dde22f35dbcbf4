// Package animator owns the per-slot rotation animations of a puzzle.
//
// Every slot has a logical rotation (always a quarter turn) and at most one
// in-flight Animation. Starting a rotation commits the logical target
// immediately and animates the visual angle from wherever the slot currently
// appears to be, so interrupted animations never jump.
package animator

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/angle"
)

// Defaults taken from the game's tuning.
const (
	DefaultDuration = 240 * time.Millisecond
	DefaultBlurTaps = 5
	DefaultPopScale = 0.06

	// GhostAlpha is the opacity of every blur sample except the newest.
	GhostAlpha = 0.12
)

// DefaultBlurWindow is how far back in time the oldest blur tap looks.
const DefaultBlurWindow = DefaultDuration * 8 / 100

// Animation is a single transition of a slot's visual angle.
type Animation struct {
	From     float64       // Normalized start angle in degrees
	To       float64       // Target angle, a quarter turn
	Start    time.Time     // When the animation began
	Duration time.Duration // Zero or negative means already converged
}

// Progress returns linear progress in [0, 1] at now.
func (a *Animation) Progress(now time.Time) float64 {
	if a.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(a.Start)) / float64(a.Duration)
	return math.Max(0, math.Min(1, t))
}

// AngleAt returns the eased, interpolated angle at linear progress t.
func (a *Animation) AngleAt(t float64) float64 {
	e := angle.EaseOutCubic(t)
	return angle.Normalize(a.From + angle.ShortestDelta(a.From, a.To)*e)
}

// Sample is one motion-blur tap: the angle to paint and its opacity.
type Sample struct {
	Angle float64
	Alpha float64
}

// Animator tracks logical rotations and live animations for a fixed number of slots.
type Animator struct {
	rotations  []int
	anims      []*Animation
	duration   time.Duration
	blurWindow time.Duration
}

// New creates an animator for the given initial rotations.
// Each rotation is snapped to a quarter turn.
func New(rotations []int, duration time.Duration) *Animator {
	a := &Animator{
		rotations:  make([]int, len(rotations)),
		anims:      make([]*Animation, len(rotations)),
		duration:   duration,
		blurWindow: time.Duration(float64(duration) * 0.08),
	}
	for i, r := range rotations {
		a.rotations[i] = angle.SnapToQuadrant(float64(r))
	}
	return a
}

// SetBlurWindow overrides the time span covered by the blur trail.
func (a *Animator) SetBlurWindow(d time.Duration) {
	if d < 0 {
		d = 0
	}
	a.blurWindow = d
}

// Duration returns the duration used for new animations.
func (a *Animator) Duration() time.Duration {
	return a.duration
}

// Len returns the number of slots.
func (a *Animator) Len() int {
	return len(a.rotations)
}

// Rotation returns the logical rotation of a slot.
func (a *Animator) Rotation(slot int) int {
	return a.rotations[slot]
}

// Rotations returns a copy of all logical rotations.
func (a *Animator) Rotations() []int {
	out := make([]int, len(a.rotations))
	copy(out, a.rotations)
	return out
}

// Animation returns the live animation for a slot, or nil.
func (a *Animator) Animation(slot int) *Animation {
	return a.anims[slot]
}

// Animating reports whether slot has an in-flight animation.
func (a *Animator) Animating(slot int) bool {
	return a.anims[slot] != nil
}

// AnyAnimating reports whether any slot is animating.
func (a *Animator) AnyAnimating() bool {
	for _, an := range a.anims {
		if an != nil {
			return true
		}
	}
	return false
}

// CurrentAngle returns the angle the slot appears at: the live interpolated
// value while animating, otherwise the settled logical rotation.
func (a *Animator) CurrentAngle(slot int, now time.Time) float64 {
	an := a.anims[slot]
	if an == nil {
		return float64(a.rotations[slot])
	}
	return an.AngleAt(an.Progress(now))
}

// Progress returns the linear progress of the slot's animation and whether one exists.
func (a *Animator) Progress(slot int, now time.Time) (float64, bool) {
	an := a.anims[slot]
	if an == nil {
		return 1, false
	}
	return an.Progress(now), true
}

// StartRotation turns slot by delta degrees. The logical rotation is committed
// at once to the snapped target; the visual animation starts from the live
// angle and replaces any animation already running on the slot.
// Returns the new logical rotation.
func (a *Animator) StartRotation(slot int, delta float64, now time.Time) int {
	current := a.CurrentAngle(slot, now)
	target := angle.SnapToQuadrant(current + delta)

	a.rotations[slot] = target
	a.anims[slot] = &Animation{
		From:     angle.Normalize(current),
		To:       float64(target),
		Start:    now,
		Duration: a.duration,
	}
	return target
}

// PopScale returns the uniform scale applied while a slot turns:
// 1 + pop*sin(pi*eased). Settled slots return 1.
func (a *Animator) PopScale(slot int, now time.Time, pop float64) float64 {
	an := a.anims[slot]
	if an == nil || pop == 0 {
		return 1
	}
	e := angle.EaseOutCubic(an.Progress(now))
	return 1 + pop*math.Sin(math.Pi*e)
}

// SampleBlurTrail returns taps+1 samples ordered oldest first. Tap i is
// evaluated i/(taps+1) of the blur window before now; the newest sample is
// fully opaque and the older ones are faint ghosts. A settled slot yields a
// single opaque sample.
func (a *Animator) SampleBlurTrail(slot int, now time.Time, taps int) []Sample {
	an := a.anims[slot]
	if an == nil || taps <= 0 {
		return []Sample{{Angle: a.CurrentAngle(slot, now), Alpha: 1}}
	}

	samples := make([]Sample, 0, taps+1)
	for i := taps; i >= 0; i-- {
		offset := time.Duration(float64(a.blurWindow) * float64(i) / float64(taps+1))
		at := now.Add(-offset)
		if at.Before(an.Start) {
			at = an.Start
		}
		alpha := GhostAlpha
		if i == 0 {
			alpha = 1
		}
		samples = append(samples, Sample{Angle: an.AngleAt(an.Progress(at)), Alpha: alpha})
	}
	return samples
}

// Done reports whether the slot's animation has reached its end at now.
func (a *Animator) Done(slot int, now time.Time) bool {
	an := a.anims[slot]
	return an != nil && an.Progress(now) >= 1
}

// Settle clears a finished animation and re-snaps the logical rotation.
// Returns true if the slot settled on this call.
func (a *Animator) Settle(slot int, now time.Time) bool {
	if !a.Done(slot, now) {
		return false
	}
	a.anims[slot] = nil
	a.rotations[slot] = angle.SnapToQuadrant(float64(a.rotations[slot]))
	return true
}

// SnapAll forces every logical rotation onto an exact quarter turn.
func (a *Animator) SnapAll() {
	for i, r := range a.rotations {
		a.rotations[i] = angle.SnapToQuadrant(float64(r))
	}
}

// CancelAll drops every in-flight animation. Logical rotations are untouched.
func (a *Animator) CancelAll() {
	for i := range a.anims {
		a.anims[i] = nil
	}
}

// Swap exchanges two slots: rotations and animations move with the pieces.
func (a *Animator) Swap(i, j int) error {
	if i < 0 || j < 0 || i >= len(a.rotations) || j >= len(a.rotations) {
		return fmt.Errorf("animator: swap %d<->%d out of range [0,%d)", i, j, len(a.rotations))
	}
	a.rotations[i], a.rotations[j] = a.rotations[j], a.rotations[i]
	a.anims[i], a.anims[j] = a.anims[j], a.anims[i]
	return nil
}
