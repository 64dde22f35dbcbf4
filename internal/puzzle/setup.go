package puzzle

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/animator"
	"github.com/vovakirdan/tui-blocka/internal/render"
	"github.com/vovakirdan/tui-blocka/internal/scheduler"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

// SetupKind selects how a new instance is built.
type SetupKind int

const (
	SetupPreview SetupKind = iota // Untimed, input ignored; keeps the level and image
	SetupStart                    // Timed; picks an image different from the last start
	SetupRestart                  // Timed; same level and image
	SetupNext                     // Timed; next level with a different image
)

func (k SetupKind) String() string {
	switch k {
	case SetupPreview:
		return "preview"
	case SetupStart:
		return "start"
	case SetupRestart:
		return "restart"
	case SetupNext:
		return "next"
	default:
		return fmt.Sprintf("setup(%d)", int(k))
	}
}

// SetupRequest is a planned setup. It is created on the game's goroutine,
// its image may be loaded anywhere, and it is installed back on the game's
// goroutine. Only the most recent request can be installed.
type SetupRequest struct {
	Kind     SetupKind
	Level    int
	Pieces   int
	ImageURI string

	seq uint64
}

// Load fetches the request's image.
func (r *SetupRequest) Load(ctx context.Context, loader ImageLoader) (image.Image, error) {
	if loader == nil {
		return nil, errors.New("puzzle: no image loader")
	}
	img, err := loader.Load(ctx, r.ImageURI)
	if err != nil {
		return nil, fmt.Errorf("puzzle: load %s: %w", r.ImageURI, err)
	}
	return img, nil
}

// NewSetup plans a setup of the given kind. Restart needs a started level
// and Next needs the current level to be solved; both fail with ErrLocked
// otherwise.
func (g *Game) NewSetup(kind SetupKind) (*SetupRequest, error) {
	if len(g.images) == 0 {
		return nil, ErrNoImages
	}

	req := &SetupRequest{Kind: kind, Level: g.level, Pieces: g.pieces}
	switch kind {
	case SetupPreview:
		req.ImageURI = g.imageURI
		if req.ImageURI == "" {
			req.ImageURI = g.images[g.rng.Intn(len(g.images))]
		}
	case SetupStart:
		req.ImageURI = g.pickImage(g.lastImage)
	case SetupRestart:
		if !g.restartEnabled || g.imageURI == "" {
			return nil, fmt.Errorf("%w: nothing to restart", ErrLocked)
		}
		req.ImageURI = g.imageURI
	case SetupNext:
		if !g.nextEnabled {
			return nil, fmt.Errorf("%w: level %d not solved", ErrLocked, g.level+1)
		}
		req.Level = min(g.level+1, len(g.levels)-1)
		req.ImageURI = g.pickImage(g.imageURI)
	default:
		return nil, fmt.Errorf("puzzle: unknown setup %v", kind)
	}

	g.setupSeq++
	req.seq = g.setupSeq
	return req, nil
}

// pickImage returns a random bank image other than avoid when the bank has
// more than one.
func (g *Game) pickImage(avoid string) string {
	for {
		uri := g.images[g.rng.Intn(len(g.images))]
		if uri != avoid || len(g.images) == 1 {
			return uri
		}
	}
}

// SetPieces plans a preview rebuild with a new piece count. Unsupported
// counts fall back to the default grid.
func (g *Game) SetPieces(n int) (*SetupRequest, error) {
	req, err := g.NewSetup(SetupPreview)
	if err != nil {
		return nil, err
	}
	req.Pieces = render.LayoutForPieces(n).Pieces()
	return req, nil
}

// CycleImage plans a preview of the bank image step places away from the
// current one. It is refused while a level is being played.
func (g *Game) CycleImage(step int) (*SetupRequest, error) {
	if g.Status() == StatusRunning {
		return nil, fmt.Errorf("%w: level in progress", ErrLocked)
	}
	req, err := g.NewSetup(SetupPreview)
	if err != nil {
		return nil, err
	}
	i := slices.Index(g.images, g.imageURI)
	if i < 0 {
		i = 0
	}
	n := len(g.images)
	req.ImageURI = g.images[((i+step)%n+n)%n]
	return req, nil
}

// Install builds a fresh instance from a loaded request, replacing the
// current one. The previous timer and frame loop are stopped and their
// pending callbacks become stale.
func (g *Game) Install(req *SetupRequest, img image.Image, now time.Time) (*Instance, error) {
	if req == nil || req.seq != g.setupSeq {
		return nil, ErrStaleSetup
	}
	if img == nil {
		return nil, errors.New("puzzle: install without image")
	}

	if old := g.inst; old != nil {
		old.sched.Stop()
		old.Timer.Stop(now)
	}

	level := g.levels[req.Level]
	layout := render.LayoutForPieces(req.Pieces)
	rotations, quadrants := g.opts.Arrange(g.rng, layout.Pieces(), level.Shuffle)

	anim := animator.New(rotations, g.opts.Duration)
	anim.SetBlurWindow(g.opts.BlurWindow)

	g.gen++
	in := &Instance{
		Level:      req.Level,
		Layout:     layout,
		Quadrants:  quadrants,
		Anim:       anim,
		Image:      img,
		ImageURI:   req.ImageURI,
		Status:     StatusPreview,
		Generation: g.gen,
		Timer:      timer.New(level.TimeLimit),
	}
	in.sched = scheduler.New(anim, scheduler.PainterFunc(g.paintSlot), g.onAllSettled)

	g.inst = in
	g.level = req.Level
	g.pieces = layout.Pieces()
	g.imageURI = req.ImageURI
	g.nextEnabled = false
	g.restartEnabled = false

	if req.Kind != SetupPreview {
		g.lastImage = req.ImageURI
		g.restartEnabled = true
		in.Status = StatusRunning
		in.Timer.Start(now)
	}

	g.canvas.Reset(img, layout)
	g.Redraw(now)

	rec, _ := g.Record(req.Level)
	g.ui.SetNextEnabled(false)
	g.ui.SetRestartEnabled(g.restartEnabled)
	g.ui.SetTimer(in.Timer.Read(now))
	g.ui.SetRecord(req.Level, rec)

	g.log.Info("level ready", "level", req.Level+1, "setup", req.Kind, "image", req.ImageURI, "pieces", layout.Pieces())
	return in, nil
}

// Setup plans, loads and installs in one call.
func (g *Game) Setup(ctx context.Context, kind SetupKind, now time.Time) (*Instance, error) {
	req, err := g.NewSetup(kind)
	if err != nil {
		return nil, err
	}
	img, err := req.Load(ctx, g.loader)
	if err != nil {
		g.log.Error("setup failed", "level", req.Level+1, "image", req.ImageURI, "error", err)
		return nil, err
	}
	return g.Install(req, img, now)
}
