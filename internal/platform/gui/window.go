// Package gui is the desktop frontend of the puzzle, drawn with Ebitengine.
// It shares the session controller with the terminal frontend; loads run on
// goroutines and are installed on the game loop.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/imagebank"
	"github.com/vovakirdan/tui-blocka/internal/platform/session"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

const (
	defaultWidth  = 960
	defaultHeight = 720
	helpLine      = "arrows move  z/x turn  enter pick  drag swap  s start  r restart  n next  [ ] image  4/6/8 pieces  q quit"
)

var (
	backdrop      = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	borderIdle    = color.RGBA{R: 70, G: 70, B: 82, A: 255}
	borderCursor  = color.RGBA{R: 250, G: 210, B: 90, A: 255}
	borderPicked  = color.RGBA{R: 220, G: 110, B: 240, A: 255}
	borderCorrect = color.RGBA{R: 110, G: 210, B: 120, A: 255}
	inkBright     = color.RGBA{R: 235, G: 235, B: 210, A: 255}
	inkDim        = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	inkDanger     = color.RGBA{R: 240, G: 90, B: 80, A: 255}
	inkGold       = color.RGBA{R: 250, G: 210, B: 90, A: 255}
)

var face = text.NewGoXFace(basicfont.Face7x13)

type loaded struct {
	req *puzzle.SetupRequest
	img image.Image
	err error
}

// Window is an ebiten.Game playing one puzzle.
type Window struct {
	ctx    context.Context
	sess   *session.Session
	fx     *confetti
	log    *log.Logger
	now    func() time.Time
	loads  chan loaded
	frame  core.InputFrame
	tiles  []*ebiten.Image
	layout boardLayout

	width, height int
	drag          int
	framing       bool
	timing        bool
	pending       int
	showHelp      bool
	quit          bool
}

// New creates a window over a fresh session. extra celebrators (a chime)
// are told about the final win along with the confetti.
func New(ctx context.Context, env session.Env, extra ...puzzle.Celebrator) (*Window, error) {
	cfg := env.Runtime.Normalize()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	env.Runtime = cfg
	logger := env.Logger
	if logger == nil {
		logger = log.Default()
	}

	fx := newConfetti(ebiten.DefaultTPS, cfg.Seed)
	sess, err := session.New(env, 1, 1, append([]puzzle.Celebrator{fx}, extra...)...)
	if err != nil {
		return nil, err
	}
	w := &Window{
		ctx:      ctx,
		sess:     sess,
		fx:       fx,
		log:      logger,
		now:      time.Now,
		loads:    make(chan loaded, 4),
		width:    defaultWidth,
		height:   defaultHeight,
		drag:     -1,
		showHelp: true,
	}
	w.apply(sess.Preview())
	return w, nil
}

// Session returns the window's puzzle session.
func (w *Window) Session() *session.Session {
	return w.sess
}

// apply starts what an input asked for.
func (w *Window) apply(e session.Effect) {
	if e.Quit {
		w.quit = true
	}
	if e.Frame {
		w.framing = true
	}
	if e.Setup != nil {
		w.pending++
		req := e.Setup
		go func() {
			img, err := w.sess.Load(w.ctx, req)
			select {
			case w.loads <- loaded{req: req, img: img, err: err}:
			case <-w.ctx.Done():
			}
		}()
	}
}

// install takes finished loads off the channel without blocking.
func (w *Window) install(now time.Time) {
	for {
		select {
		case l := <-w.loads:
			w.pending--
			if w.sess.Install(l.req, l.img, l.err, now) {
				w.framing, w.drag = false, -1
				w.timing = w.sess.Timed()
				w.fx.stop()
				w.relayout(now)
			}
		default:
			return
		}
	}
}

func (w *Window) relayout(now time.Time) {
	in := w.sess.Game().Instance()
	if in == nil {
		return
	}
	b := in.Image.Bounds()
	w.layout = computeLayout(w.width, w.height, b.Dx(), b.Dy(), in.Layout)
	if !w.layout.fits() {
		return
	}
	w.sess.Resize(w.layout.tileW, w.layout.tileH, now)
	for _, t := range w.tiles {
		t.Deallocate()
	}
	w.tiles = w.tiles[:0]
}

// handleActions applies the keys of one tick.
func (w *Window) handleActions(now time.Time) {
	for _, a := range w.frame.Actions {
		switch a {
		case core.ActionToggleHelp:
			w.showHelp = !w.showHelp
		default:
			w.apply(w.sess.Apply(a, now))
		}
	}
	w.frame.Clear()
}

// handlePointer turns clicks into rotations and drags into swaps.
func (w *Window) handlePointer(p pointer, now time.Time) {
	slot := w.layout.slotAt(p.x, p.y)
	if p.rightPressed && slot >= 0 {
		w.apply(w.sess.Click(slot, false, now))
	}
	if p.leftDown {
		w.drag = slot
	}
	if p.leftUp {
		from := w.drag
		w.drag = -1
		switch {
		case from < 0 || slot < 0:
		case from == slot:
			w.apply(w.sess.Click(slot, true, now))
		default:
			w.apply(w.sess.Drop(from, slot, now))
		}
	}
}

// tick advances animations, the timer and the effects.
func (w *Window) tick(now time.Time) {
	gen := w.sess.Generation()
	if w.framing {
		w.framing = w.sess.Frame(gen, now)
	}
	if w.timing {
		w.timing = w.sess.TimerTick(gen, now)
	}
	if w.fx.pending {
		w.fx.begin(now, w.width)
	}
	w.fx.step(now)
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	now := w.now()
	w.install(now)
	pollKeys(&w.frame)
	w.handleActions(now)
	w.handlePointer(pollPointer(), now)
	w.tick(now)
	if w.quit || w.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

// Layout implements ebiten.Game. The board follows the window size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.width || outsideHeight != w.height {
		w.width, w.height = outsideWidth, outsideHeight
		w.relayout(w.now())
	}
	return outsideWidth, outsideHeight
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)
	w.drawHeader(screen)
	w.drawBoard(screen)
	w.drawFooter(screen)
	w.fx.draw(screen)
	w.drawBanner(screen)
}

func (w *Window) drawHeader(screen *ebiten.Image) {
	g := w.sess.Game()
	title := "BLOCKA"
	if in := g.Instance(); in != nil {
		title = fmt.Sprintf("BLOCKA   level %d/%d  %s   %s   [%s]",
			in.Level+1, len(g.Levels()), g.Levels()[in.Level].Name, in.Status, imagebank.Label(in.ImageURI))
	}
	drawText(screen, title, margin, 12, 1, inkBright)
}

func (w *Window) drawBoard(screen *ebiten.Image) {
	if w.sess.Game().Instance() == nil {
		drawText(screen, "Loading…", w.width/2-28, w.height/2, 1, inkDim)
		return
	}
	if !w.layout.fits() {
		drawText(screen, "Enlarge the window to play", w.width/2-90, w.height/2, 1, inkDim)
		return
	}

	board := w.sess.Board()
	hud := w.sess.HUD()
	for i, r := range w.layout.tiles {
		surface := board.Surface(i)
		if surface == nil {
			continue
		}
		snap := surface.Snapshot()
		img := w.tile(i, snap.Rect.Dx(), snap.Rect.Dy())
		if img != nil {
			img.WritePixels(snap.Pix)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(r.X), float64(r.Y))
			screen.DrawImage(img, op)
		}

		border := borderIdle
		switch {
		case i == w.sess.Picked(), i == w.drag:
			border = borderPicked
		case i == w.sess.Cursor():
			border = borderCursor
		case hud.IsCorrect(i):
			border = borderCorrect
		}
		vector.StrokeRect(screen, float32(r.X)-1, float32(r.Y)-1, float32(r.W)+2, float32(r.H)+2, borderWidth, border, false)
	}
}

// tile returns the cached ebiten image for slot i, reallocating it when the
// surface size changed.
func (w *Window) tile(i, width, height int) *ebiten.Image {
	if width <= 0 || height <= 0 {
		return nil
	}
	for len(w.tiles) <= i {
		w.tiles = append(w.tiles, nil)
	}
	t := w.tiles[i]
	if t == nil || t.Bounds().Dx() != width || t.Bounds().Dy() != height {
		if t != nil {
			t.Deallocate()
		}
		t = ebiten.NewImage(width, height)
		w.tiles[i] = t
	}
	return t
}

func (w *Window) drawFooter(screen *ebiten.Image) {
	hud := w.sess.HUD()
	y := w.height - footerHeight + 10

	clock := inkBright
	if hud.Timer.Expired || hud.Timer.Danger {
		clock = inkDanger
	}
	status := []string{"time " + hud.Timer.Display, "best " + hud.Record}
	if hud.NextEnabled {
		status = append(status, "n: next level")
	}
	if hud.RestartEnabled {
		status = append(status, "r: restart")
	}
	drawText(screen, strings.Join(status, "    "), margin, y, 1, clock)

	msg := hud.Message
	if w.pending > 0 {
		msg = "Loading image…"
	}
	drawText(screen, msg, margin, y+20, 1, inkBright)
	if w.showHelp {
		drawText(screen, helpLine, margin, y+40, 1, inkDim)
	}
}

func (w *Window) drawBanner(screen *ebiten.Image) {
	if !w.fx.active || w.fx.scale <= 0.01 {
		return
	}
	const banner = "You won! Puzzle solved."
	s := 3 * w.fx.scale
	tw, _ := text.Measure(banner, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(-tw/2, 0)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(w.width)/2, float64(w.height)/3)
	op.ColorScale.ScaleWithColor(inkGold)
	text.Draw(screen, banner, face, op)
}

func drawText(screen *ebiten.Image, s string, x, y int, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

// Run opens the window and plays until it is closed or ctx is done.
func Run(ctx context.Context, env session.Env, extra ...puzzle.Celebrator) error {
	w, err := New(ctx, env, extra...)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(defaultWidth, defaultHeight)
	ebiten.SetWindowTitle("Blocka")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
