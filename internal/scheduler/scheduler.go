// Package scheduler drives the animation frame loop of a puzzle.
//
// The loop is cooperative and owns no clock: the frontend calls Tick with the
// current time once per frame for as long as Tick returns true. The loop only
// runs while at least one slot is animating and stops itself afterwards.
package scheduler

import (
	"time"

	"github.com/vovakirdan/tui-blocka/internal/animator"
)

// Painter repaints one slot for the given instant.
type Painter interface {
	PaintSlot(slot int, now time.Time)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(slot int, now time.Time)

// PaintSlot calls f.
func (f PainterFunc) PaintSlot(slot int, now time.Time) { f(slot, now) }

// Scheduler is the frame loop for one animator.
type Scheduler struct {
	anim      *animator.Animator
	painter   Painter
	onSettled func(now time.Time)

	running bool
	frames  uint64
}

// New creates a stopped scheduler. onAllSettled fires once every time the
// loop stops because no slot is animating any more; it may be nil.
func New(anim *animator.Animator, painter Painter, onAllSettled func(now time.Time)) *Scheduler {
	return &Scheduler{
		anim:      anim,
		painter:   painter,
		onSettled: onAllSettled,
	}
}

// Kick marks the loop as running. It returns true when the loop was stopped,
// meaning the caller must schedule the first Tick. Kicking a running loop
// does nothing.
func (s *Scheduler) Kick() bool {
	if s.running {
		return false
	}
	s.running = true
	return true
}

// Tick runs one frame: every slot is repainted, finished animations are
// settled, and if nothing is animating any more the settled event fires and
// the loop stops. It returns whether another frame should be scheduled.
// A stopped scheduler ignores ticks.
func (s *Scheduler) Tick(now time.Time) bool {
	if !s.running {
		return false
	}
	s.frames++

	n := s.anim.Len()
	for slot := 0; slot < n; slot++ {
		s.painter.PaintSlot(slot, now)
	}
	for slot := 0; slot < n; slot++ {
		s.anim.Settle(slot, now)
	}

	if s.anim.AnyAnimating() {
		return true
	}

	s.running = false
	if s.onSettled != nil {
		s.onSettled(now)
	}
	return false
}

// Running reports whether the loop expects more ticks.
func (s *Scheduler) Running() bool {
	return s.running
}

// Stop halts the loop without firing the settled event. Pending ticks
// become no-ops.
func (s *Scheduler) Stop() {
	s.running = false
}

// Frames returns how many ticks have run.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}
