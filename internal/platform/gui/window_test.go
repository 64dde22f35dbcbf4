package gui

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/config"
	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/platform/session"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/render"
)

type gradientLoader struct{}

func (gradientLoader) Load(_ context.Context, _ string) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 6), B: 90, A: 255})
		}
	}
	return img, nil
}

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestWindow(t *testing.T) *Window {
	t.Helper()
	w, err := New(context.Background(), session.Env{
		Config:  config.DefaultConfig(),
		Images:  []string{"builtin:a"},
		Loader:  gradientLoader{},
		Runtime: core.RuntimeConfig{Seed: 9, Pieces: 4},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	w.now = func() time.Time { return t0 }
	waitInstall(t, w)
	return w
}

// waitInstall blocks until every started load was installed.
func waitInstall(t *testing.T, w *Window) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for w.pending > 0 {
		select {
		case l := <-w.loads:
			w.loads <- l
			w.install(t0)
		case <-deadline:
			t.Fatal("load did not finish")
		}
	}
}

func TestComputeLayout(t *testing.T) {
	grid := render.LayoutForPieces(6)
	l := computeLayout(defaultWidth, defaultHeight, 60, 40, grid)
	if !l.fits() {
		t.Fatal("board should fit the default window")
	}
	if len(l.tiles) != 6 {
		t.Fatalf("got %d tiles, want 6", len(l.tiles))
	}
	for i, r := range l.tiles {
		if r.W != l.tileW || r.H != l.tileH {
			t.Errorf("tile %d is %dx%d, want %dx%d", i, r.W, r.H, l.tileW, l.tileH)
		}
		if r.Y < headerHeight || r.Bottom() > defaultHeight-footerHeight {
			t.Errorf("tile %d rows %d..%d overlap the header or footer", i, r.Y, r.Bottom())
		}
		cx, cy := r.Center()
		if got := l.slotAt(cx, cy); got != i {
			t.Errorf("slotAt(centre of %d) = %d", i, got)
		}
	}

	if computeLayout(100, 120, 60, 40, grid).fits() {
		t.Error("board should not fit a 100x120 window")
	}
}

func TestWindowPreviewAndStart(t *testing.T) {
	w := newTestWindow(t)
	if got := w.sess.Game().Status(); got != puzzle.StatusPreview {
		t.Fatalf("status = %v, want preview", got)
	}
	if !w.layout.fits() {
		t.Fatal("layout should fit after the first install")
	}
	tw, th := w.sess.Board().TileSize()
	if tw != w.layout.tileW || th != w.layout.tileH {
		t.Errorf("board tiles %dx%d, layout %dx%d", tw, th, w.layout.tileW, w.layout.tileH)
	}

	w.frame.Set(core.ActionStart)
	w.handleActions(t0)
	if w.pending != 1 {
		t.Fatalf("start should load one setup, pending = %d", w.pending)
	}
	waitInstall(t, w)
	if got := w.sess.Game().Status(); got != puzzle.StatusRunning {
		t.Fatalf("status = %v, want running", got)
	}
}

func TestWindowPointer(t *testing.T) {
	w := newTestWindow(t)
	w.frame.Set(core.ActionStart)
	w.handleActions(t0)
	waitInstall(t, w)

	cx, cy := w.layout.tiles[2].Center()
	w.handlePointer(pointer{x: cx, y: cy, rightPressed: true}, t0)
	if !w.framing {
		t.Error("a right click on a tile should start animating")
	}

	now := t0
	for i := 0; i < 500 && w.framing; i++ {
		now = now.Add(16 * time.Millisecond)
		w.tick(now)
	}
	if w.framing {
		t.Error("animation should settle")
	}

	w.handlePointer(pointer{x: cx, y: cy, leftDown: true}, now)
	if w.drag != 2 {
		t.Fatalf("drag = %d, want 2", w.drag)
	}
	w.handlePointer(pointer{x: 1, y: 1, leftUp: true}, now)
	if w.drag != -1 {
		t.Error("release should end the drag")
	}
}

func TestWindowQuitAndHelp(t *testing.T) {
	w := newTestWindow(t)
	w.frame.Set(core.ActionToggleHelp)
	w.handleActions(t0)
	if w.showHelp {
		t.Error("help should toggle off")
	}
	w.frame.Set(core.ActionQuit)
	w.handleActions(t0)
	if !w.quit {
		t.Error("quit action should end the game")
	}
}

func TestConfetti(t *testing.T) {
	c := newConfetti(60, 1)
	c.Celebrate()
	if !c.pending {
		t.Fatal("Celebrate() should mark pending")
	}
	c.begin(t0, 800)
	if c.pending || !c.active || len(c.flakes) != confettiCount {
		t.Fatal("begin() should start the flakes")
	}
	for i := 1; i <= 120; i++ {
		c.step(t0.Add(time.Duration(i) * 16 * time.Millisecond))
	}
	if c.scale < 0.9 || c.scale > 1.1 {
		t.Errorf("banner scale %.2f after two seconds, want near 1", c.scale)
	}
	c.step(t0.Add(confettiLifetime))
	if c.active {
		t.Error("confetti should stop after its lifetime")
	}
}
