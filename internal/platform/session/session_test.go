package session

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/config"
	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

type stubLoader struct{ calls int }

func (l *stubLoader) Load(_ context.Context, uri string) (image.Image, error) {
	l.calls++
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 6), B: uint8(len(uri)), A: 255})
		}
	}
	return img, nil
}

type countingCelebrator struct{ calls int }

func (c *countingCelebrator) Celebrate() { c.calls++ }

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, celebrators ...puzzle.Celebrator) *Session {
	t.Helper()
	s, err := New(Env{
		Config:  config.DefaultConfig(),
		Images:  []string{"builtin:a", "builtin:bb"},
		Loader:  &stubLoader{},
		Runtime: core.RuntimeConfig{Seed: 42, Pieces: 4},
	}, 20, 20, celebrators...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

// run loads and installs the setup of e.
func run(t *testing.T, s *Session, e Effect, now time.Time) {
	t.Helper()
	if e.Setup == nil {
		t.Fatalf("expected a setup, announced %q", s.HUD().Message)
	}
	img, err := s.Load(context.Background(), e.Setup)
	if !s.Install(e.Setup, img, err, now) {
		t.Fatalf("Install() refused %v", e.Setup.Kind)
	}
}

// frames runs animation frames until the session stops asking for them.
func frames(s *Session, from time.Time) time.Time {
	now := from
	gen := s.Generation()
	for i := 0; i < 1000; i++ {
		now = now.Add(16 * time.Millisecond)
		if !s.Frame(gen, now) {
			break
		}
	}
	return now
}

// solve turns every piece upright with primary clicks, letting each turn
// settle before the next one.
func solve(t *testing.T, s *Session, now time.Time) time.Time {
	t.Helper()
	return solveUpTo(t, s, s.Game().Instance().Pieces(), now)
}

func solveUpTo(t *testing.T, s *Session, pieces int, now time.Time) time.Time {
	t.Helper()
	in := s.Game().Instance()
	for slot := 0; slot < pieces; slot++ {
		for turns := 0; in.Anim.Rotation(slot) != 0; turns++ {
			if turns == 4 {
				t.Fatalf("slot %d never came upright", slot)
			}
			s.Click(slot, true, now)
			now = frames(s, now)
		}
	}
	return now
}

func TestSessionPreviewIgnoresInput(t *testing.T) {
	s := newTestSession(t)
	if s.Ready() {
		t.Fatal("session should not be ready before the first install")
	}
	run(t, s, s.Preview(), t0)

	if !s.Ready() || s.Game().Status() != puzzle.StatusPreview {
		t.Fatalf("status = %v, want preview", s.Game().Status())
	}
	if !strings.Contains(s.HUD().Message, "Level 1") {
		t.Errorf("message = %q, want the level announced", s.HUD().Message)
	}

	before := s.Game().Instance().Anim.Rotations()
	if e := s.Apply(core.ActionPrimary, t0); e.Frame {
		t.Error("rotation in preview should not schedule frames")
	}
	after := s.Game().Instance().Anim.Rotations()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("preview rotation changed slot %d", i)
		}
	}
}

func TestSessionStartAndSolve(t *testing.T) {
	cel := &countingCelebrator{}
	s := newTestSession(t, cel)
	run(t, s, s.Preview(), t0)
	run(t, s, s.Apply(core.ActionStart, t0), t0)

	if s.Game().Status() != puzzle.StatusRunning || !s.Timed() {
		t.Fatalf("status = %v, want running with a timer", s.Game().Status())
	}

	now := solve(t, s, t0.Add(time.Second))
	if s.Game().Status() != puzzle.StatusWon {
		t.Fatalf("status = %v, want won", s.Game().Status())
	}
	if !s.HUD().NextEnabled {
		t.Error("next should be enabled after solving the first level")
	}
	if cel.calls != 0 {
		t.Errorf("celebrated %d times on the first level", cel.calls)
	}
	if s.Popping() {
		t.Error("win pop should have finished")
	}
	for slot := 0; slot < s.Board().Len(); slot++ {
		if v := s.Board().View(slot); v.Scale != 1 || !v.Filter.Empty() {
			t.Errorf("slot %d after win = scale %v filter %q", slot, v.Scale, v.Filter)
		}
	}

	run(t, s, s.Apply(core.ActionNext, now), now)
	if s.Game().Level() != 1 {
		t.Errorf("level = %d, want 1", s.Game().Level())
	}
}

func TestSessionWinPopIsStaggered(t *testing.T) {
	s := newTestSession(t)
	run(t, s, s.Preview(), t0)
	run(t, s, s.Apply(core.ActionStart, t0), t0)

	in := s.Game().Instance()
	last := in.Pieces() - 1
	now := t0.Add(time.Second)
	if in.Anim.Rotation(last) == 0 {
		// Turn it away first so that the final click wins.
		s.Click(last, true, now)
		now = frames(s, now)
	}
	now = solveUpTo(t, s, last, now)
	for in.Anim.Rotation(last) != 90 {
		s.Click(last, true, now)
		now = frames(s, now)
	}
	s.Click(last, true, now)
	gen := s.Generation()
	for s.Game().Status() != puzzle.StatusWon {
		now = now.Add(16 * time.Millisecond)
		if !s.Frame(gen, now) {
			t.Fatal("frames stopped before the win")
		}
	}
	if !s.Popping() {
		t.Fatal("win should start the pop")
	}

	s.Frame(gen, now.Add(popDuration/2))
	first := s.Board().View(0).Scale
	lastScale := s.Board().View(last).Scale
	if first <= 1 {
		t.Errorf("first slot scale = %v, want a bump", first)
	}
	if lastScale != 1 {
		t.Errorf("last slot scale = %v, should not have started yet", lastScale)
	}
}

func TestSessionCursorWraps(t *testing.T) {
	s := newTestSession(t)
	run(t, s, s.Preview(), t0)

	s.Apply(core.ActionLeft, t0)
	if s.Cursor() != 1 {
		t.Errorf("left from 0 = %d, want 1 on a 2x2 grid", s.Cursor())
	}
	s.Apply(core.ActionDown, t0)
	if s.Cursor() != 3 {
		t.Errorf("down from 1 = %d, want 3", s.Cursor())
	}
	s.Apply(core.ActionDown, t0)
	s.Apply(core.ActionRight, t0)
	if s.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.Cursor())
	}
}

func TestSessionRefusedSetupsAnnounce(t *testing.T) {
	s := newTestSession(t)
	run(t, s, s.Preview(), t0)

	if e := s.Apply(core.ActionRestart, t0); e.Setup != nil {
		t.Error("restart before start should be refused")
	}
	if s.HUD().Message != "Nothing to restart" {
		t.Errorf("message = %q", s.HUD().Message)
	}

	if e := s.Apply(core.ActionNext, t0); e.Setup != nil {
		t.Error("next before solving should be refused")
	}
	if !strings.HasPrefix(s.HUD().Message, "Level 1 not solved") {
		t.Errorf("message = %q", s.HUD().Message)
	}
}

func TestSessionPickOnFixedLevel(t *testing.T) {
	s := newTestSession(t)
	run(t, s, s.Preview(), t0)
	run(t, s, s.Apply(core.ActionStart, t0), t0)

	s.Apply(core.ActionPick, t0)
	if s.Picked() != -1 {
		t.Error("pieces should not be pickable on an unshuffled level")
	}
	if !strings.Contains(s.HUD().Message, "stay in place") {
		t.Errorf("message = %q", s.HUD().Message)
	}
}

func TestSessionFailedLoadKeepsInstance(t *testing.T) {
	s := newTestSession(t)
	run(t, s, s.Preview(), t0)
	gen := s.Generation()

	e := s.Apply(core.ActionStart, t0)
	if s.Install(e.Setup, nil, errors.New("boom"), t0) {
		t.Fatal("Install() should refuse a failed load")
	}
	if s.Generation() != gen || s.Game().Status() != puzzle.StatusPreview {
		t.Error("failed load replaced the instance")
	}
	if !strings.HasPrefix(s.HUD().Message, "Could not load") {
		t.Errorf("message = %q", s.HUD().Message)
	}
}

func TestSessionStaleSetupIgnored(t *testing.T) {
	s := newTestSession(t)
	run(t, s, s.Preview(), t0)

	first := s.Apply(core.ActionStart, t0)
	second := s.Apply(core.ActionNextImage, t0)
	if second.Setup == nil {
		t.Fatal("cycling images in preview should plan a setup")
	}
	img, _ := s.Load(context.Background(), first.Setup)
	if s.Install(first.Setup, img, nil, t0) {
		t.Error("older setup should be dropped once a newer one is planned")
	}
	run(t, s, second, t0)
}

func TestSessionPiecesAction(t *testing.T) {
	s := newTestSession(t)
	run(t, s, s.Preview(), t0)
	run(t, s, s.Apply(core.ActionPieces8, t0), t0)

	if got := s.Board().Len(); got != 8 {
		t.Errorf("board has %d slots, want 8", got)
	}
	if e := s.Apply(core.ActionQuit, t0); !e.Quit {
		t.Error("quit action should ask to quit")
	}
}

func TestEffectMerge(t *testing.T) {
	req := &puzzle.SetupRequest{Kind: puzzle.SetupStart}
	e := Effect{Frame: true}.Merge(Effect{Setup: req})
	if !e.Frame || e.Setup != req || e.Quit {
		t.Errorf("Merge() = %+v", e)
	}
}
