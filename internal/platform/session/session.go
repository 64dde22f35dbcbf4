// Package session is the frontend-neutral play controller. It owns a
// puzzle.Game with its board and HUD, turns core actions into game
// operations and tells the frontend what to schedule next. The terminal,
// SSH and window frontends all drive the puzzle through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocka/internal/config"
	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/render"
)

const (
	popStagger  = 70 * time.Millisecond
	popDuration = 260 * time.Millisecond
	popScale    = 0.12
)

// Env is what every frontend needs to build sessions.
type Env struct {
	Config  config.Config
	Images  []string // Expanded image bank URIs
	Loader  puzzle.ImageLoader
	Records puzzle.RecordStore
	Logger  *log.Logger
	Runtime core.RuntimeConfig
}

// Effect tells the frontend what to do after an input.
type Effect struct {
	// Setup must be loaded off the event loop (Load) and handed back to
	// Install.
	Setup *puzzle.SetupRequest
	// Frame asks for an animation frame to be scheduled.
	Frame bool
	Quit  bool
}

// Merge combines two effects; a later setup wins.
func (e Effect) Merge(o Effect) Effect {
	if o.Setup != nil {
		e.Setup = o.Setup
	}
	e.Frame = e.Frame || o.Frame
	e.Quit = e.Quit || o.Quit
	return e
}

// Celebrators fans Celebrate out to several collaborators.
type Celebrators []puzzle.Celebrator

func (cs Celebrators) Celebrate() {
	for _, c := range cs {
		if c != nil {
			c.Celebrate()
		}
	}
}

// Session is one player's puzzle.
type Session struct {
	game  *puzzle.Game
	board *render.Board
	hud   *HUD
	log   *log.Logger

	cursor int
	picked int // Slot picked up for swapping, -1 when none

	popFrom time.Time // Start of the win pop, zero when idle
	popGen  uint64
}

// New builds a session with tiles of tileW x tileH pixels. The celebrators
// are told when the final level is won.
func New(env Env, tileW, tileH int, celebrators ...puzzle.Celebrator) (*Session, error) {
	logger := env.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	opts := puzzle.DefaultOptions()
	if err := env.Config.Apply(&opts); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	rt := env.Runtime
	if rt.Seed != 0 {
		opts.Seed = rt.Seed
	}
	if rt.Pieces != 0 {
		opts.Pieces = rt.Pieces
	}
	opts.Images = env.Images
	opts.Loader = env.Loader
	opts.Records = env.Records
	opts.Logger = logger

	s := &Session{
		board:  render.NewBoard(tileW, tileH),
		hud:    newHUD(),
		log:    logger,
		picked: -1,
	}
	opts.Canvas = s.board
	opts.UI = s.hud
	opts.Celebrator = Celebrators(celebrators)

	game, err := puzzle.New(opts)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.game = game
	return s, nil
}

func (s *Session) Game() *puzzle.Game   { return s.game }
func (s *Session) Board() *render.Board { return s.board }
func (s *Session) HUD() *HUD            { return s.hud }
func (s *Session) Cursor() int          { return s.cursor }
func (s *Session) Picked() int          { return s.picked }

// Generation returns the generation of the current instance.
func (s *Session) Generation() uint64 {
	return s.game.Generation()
}

// Ready reports whether an instance has been installed.
func (s *Session) Ready() bool {
	return s.game.Instance() != nil
}

// Preview plans the initial untimed preview.
func (s *Session) Preview() Effect {
	return s.plan(s.game.NewSetup(puzzle.SetupPreview))
}

// Apply runs one action at now.
func (s *Session) Apply(a core.Action, now time.Time) Effect {
	switch a {
	case core.ActionUp:
		s.moveCursor(0, -1)
	case core.ActionDown:
		s.moveCursor(0, 1)
	case core.ActionLeft:
		s.moveCursor(-1, 0)
	case core.ActionRight:
		s.moveCursor(1, 0)
	case core.ActionPrimary:
		return Effect{Frame: s.game.Primary(s.cursor, now)}
	case core.ActionSecondary:
		return Effect{Frame: s.game.Secondary(s.cursor, now)}
	case core.ActionPick:
		return s.pick(s.cursor, now)
	case core.ActionStart:
		return s.plan(s.game.NewSetup(puzzle.SetupStart))
	case core.ActionRestart:
		return s.plan(s.game.NewSetup(puzzle.SetupRestart))
	case core.ActionNext:
		return s.plan(s.game.NewSetup(puzzle.SetupNext))
	case core.ActionPrevImage:
		return s.plan(s.game.CycleImage(-1))
	case core.ActionNextImage:
		return s.plan(s.game.CycleImage(1))
	case core.ActionPieces4, core.ActionPieces6, core.ActionPieces8:
		return s.plan(s.game.SetPieces(a.PieceCount()))
	case core.ActionQuit:
		return Effect{Quit: true}
	}
	return Effect{}
}

// Click rotates a slot with the primary or secondary button and moves the
// cursor there.
func (s *Session) Click(slot int, primary bool, now time.Time) Effect {
	if slot < 0 || slot >= s.board.Len() {
		return Effect{}
	}
	s.cursor = slot
	if primary {
		return Effect{Frame: s.game.Primary(slot, now)}
	}
	return Effect{Frame: s.game.Secondary(slot, now)}
}

// Drop swaps the pieces of a drag from one slot to another.
func (s *Session) Drop(from, to int, now time.Time) Effect {
	if from == to {
		return Effect{}
	}
	s.picked = -1
	if err := s.game.Swap(from, to, now); err != nil {
		s.hud.Announce(describe(err))
		return Effect{}
	}
	s.cursor = to
	return Effect{Frame: s.game.Status() == puzzle.StatusWon}
}

func (s *Session) pick(slot int, now time.Time) Effect {
	switch {
	case s.picked < 0:
		if s.game.Status() != puzzle.StatusRunning {
			return Effect{}
		}
		if lvl := s.game.Levels()[s.game.Level()]; !lvl.Shuffle {
			s.hud.Announce("Pieces stay in place on this level")
			return Effect{}
		}
		s.picked = slot
		return Effect{}
	case s.picked == slot:
		s.picked = -1
		return Effect{}
	default:
		return s.Drop(s.picked, slot, now)
	}
}

func (s *Session) moveCursor(dx, dy int) {
	layout := s.board.Layout()
	if layout.Pieces() == 0 {
		return
	}
	col, row := layout.Cell(s.cursor)
	col = (col + dx + layout.Cols) % layout.Cols
	row = (row + dy + layout.Rows) % layout.Rows
	s.cursor = row*layout.Cols + col
}

func (s *Session) plan(req *puzzle.SetupRequest, err error) Effect {
	if err != nil {
		s.hud.Announce(describe(err))
		s.log.Debug("setup refused", "error", err)
		return Effect{}
	}
	return Effect{Setup: req}
}

// Load fetches the image of a planned setup. It may run on any goroutine.
func (s *Session) Load(ctx context.Context, req *puzzle.SetupRequest) (image.Image, error) {
	return req.Load(ctx, s.game.Loader())
}

// Install hands a loaded setup back to the game. A load error keeps the
// current instance and is shown in the status line. It reports whether a
// new instance was installed.
func (s *Session) Install(req *puzzle.SetupRequest, img image.Image, loadErr error, now time.Time) bool {
	if loadErr != nil {
		s.log.Error("image load failed", "image", req.ImageURI, "error", loadErr)
		s.hud.Announce("Could not load " + req.ImageURI)
		return false
	}
	in, err := s.game.Install(req, img, now)
	if errors.Is(err, puzzle.ErrStaleSetup) {
		return false
	}
	if err != nil {
		s.log.Error("install failed", "error", err)
		s.hud.Announce(describe(err))
		return false
	}

	s.picked = -1
	s.popFrom = time.Time{}
	s.cursor = min(s.cursor, in.Pieces()-1)
	s.hud.Correct = s.hud.Correct[:0]
	s.game.MarkCorrectness()
	switch req.Kind {
	case puzzle.SetupPreview:
		s.hud.Announce(fmt.Sprintf("Level %d: %s. Press s to start", in.Level+1, s.game.Levels()[in.Level].Name))
	default:
		s.hud.Announce(fmt.Sprintf("Level %d: %s", in.Level+1, s.game.Levels()[in.Level].Name))
	}
	return true
}

// Timed reports whether the current instance has a running timer.
func (s *Session) Timed() bool {
	in := s.game.Instance()
	return in != nil && in.Timer.Running()
}

// Frame runs one animation frame of generation gen, including the win pop.
// It returns whether another frame should be scheduled.
func (s *Session) Frame(gen uint64, now time.Time) bool {
	if gen != s.game.Generation() {
		return false
	}
	more := s.game.Frame(gen, now)
	if s.game.Status() == puzzle.StatusWon && s.popGen != gen {
		s.popGen = gen
		s.popFrom = now
	}
	return s.popFrame(now) || more
}

// TimerTick samples the timer of generation gen. It returns whether the
// timer still runs.
func (s *Session) TimerTick(gen uint64, now time.Time) bool {
	_, running := s.game.TimerTick(gen, now)
	return running
}

// Resize changes the tile size and repaints.
func (s *Session) Resize(tileW, tileH int, now time.Time) {
	s.board.SetTileSize(tileW, tileH)
	s.game.Redraw(now)
	s.popFrame(now)
}

// popFrame bumps every solved slot in turn. It returns whether the pop is
// still running.
func (s *Session) popFrame(now time.Time) bool {
	if s.popFrom.IsZero() {
		return false
	}
	running := false
	for slot := 0; slot < s.board.Len(); slot++ {
		t := now.Sub(s.popFrom) - time.Duration(slot)*popStagger
		v := s.board.View(slot)
		v.Scale = 1
		if t > 0 && t < popDuration {
			p := float64(t) / float64(popDuration)
			v.Scale = 1 + popScale*math.Sin(math.Pi*p)
		}
		if t < popDuration {
			running = true
		}
		s.board.Paint(slot, v)
	}
	if !running {
		s.popFrom = time.Time{}
	}
	return running
}

// Popping reports whether the win pop is running.
func (s *Session) Popping() bool {
	return !s.popFrom.IsZero()
}

// describe turns a refused operation into a status line.
func describe(err error) string {
	switch {
	case errors.Is(err, puzzle.ErrNoImages):
		return "No images configured"
	case errors.Is(err, puzzle.ErrNotRunning):
		return "Start the level first"
	case errors.Is(err, puzzle.ErrLocked):
		return lockedMessage(err)
	default:
		return err.Error()
	}
}

func lockedMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), puzzle.ErrLocked.Error()+": ")
	if msg == "" || msg == puzzle.ErrLocked.Error() {
		return "Not available now"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
