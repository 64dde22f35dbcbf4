// Package puzzle owns the rules of the rotation puzzle: level setup, piece
// rotation and reordering, correctness, winning, timing out and best-time
// records. A Game must only be used from one goroutine (the frontend's event
// loop); image loading is the only step meant to run elsewhere.
package puzzle

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocka/internal/angle"
	"github.com/vovakirdan/tui-blocka/internal/animator"
	"github.com/vovakirdan/tui-blocka/internal/render"
	"github.com/vovakirdan/tui-blocka/internal/scheduler"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

var (
	// ErrNoLevels is returned by New when the campaign is empty.
	ErrNoLevels = errors.New("puzzle: no levels")
	// ErrNoImages is returned when a setup needs an image and the bank has none.
	ErrNoImages = errors.New("puzzle: image bank is empty")
	// ErrNotRunning rejects moves outside a running puzzle.
	ErrNotRunning = errors.New("puzzle: not running")
	// ErrLocked rejects a setup or swap the current state does not allow,
	// such as next before the level is solved.
	ErrLocked = errors.New("puzzle: locked")
	// ErrStaleSetup is returned by Install when a newer setup was requested
	// after the one being installed.
	ErrStaleSetup = errors.New("puzzle: stale setup")
)

// Arranger produces the initial rotations and the quadrant shown in each
// slot for a new instance.
type Arranger func(rng *rand.Rand, pieces int, shuffle bool) (rotations, quadrants []int)

// Options configures a Game. Zero-valued collaborators are replaced by no-ops.
type Options struct {
	Levels []Level
	Images []string
	Pieces int

	Duration   time.Duration // Rotation animation length
	BlurWindow time.Duration
	BlurTaps   int
	PopScale   float64

	Seed       int64
	Arrange    Arranger
	Loader     ImageLoader
	Canvas     Canvas
	UI         UI
	Celebrator Celebrator
	Records    RecordStore
	Logger     *log.Logger
}

// DefaultOptions returns the stock animation tuning and campaign.
func DefaultOptions() Options {
	return Options{
		Levels:     DefaultLevels(),
		Pieces:     render.DefaultPieces,
		Duration:   animator.DefaultDuration,
		BlurWindow: animator.DefaultBlurWindow,
		BlurTaps:   animator.DefaultBlurTaps,
		PopScale:   animator.DefaultPopScale,
		Seed:       time.Now().UnixNano(),
	}
}

// Piece is the logical content of one slot.
type Piece struct {
	Rotation int // Quarter turn in degrees
	Quadrant int // Source quadrant drawn in the slot
}

// Instance is one built puzzle. It is replaced wholesale on every setup.
type Instance struct {
	Level      int
	Layout     render.GridLayout
	Quadrants  []int
	Anim       *animator.Animator
	Image      image.Image
	ImageURI   string
	Status     Status
	Revealed   bool // Won and repainted without filters
	Generation uint64
	Timer      *timer.Timer
	Solved     time.Duration

	sched *scheduler.Scheduler
}

// Pieces returns the number of slots.
func (in *Instance) Pieces() int {
	return len(in.Quadrants)
}

// Piece returns the logical state of a slot.
func (in *Instance) Piece(slot int) Piece {
	return Piece{Rotation: in.Anim.Rotation(slot), Quadrant: in.Quadrants[slot]}
}

// Ordered reports whether every slot shows its own quadrant.
func (in *Instance) Ordered() bool {
	for slot, q := range in.Quadrants {
		if q != slot {
			return false
		}
	}
	return true
}

// Game is the puzzle controller.
type Game struct {
	levels   []Level
	images   []string
	opts     Options
	rng      *rand.Rand
	log      *log.Logger
	loader   ImageLoader
	canvas   Canvas
	ui       UI
	confetti Celebrator
	records  RecordStore

	level     int
	pieces    int
	imageURI  string // Image of the current instance
	lastImage string // Image of the last timed start

	nextEnabled    bool
	restartEnabled bool

	setupSeq uint64
	gen      uint64
	inst     *Instance
}

// New creates a Game. No instance exists until the first Install.
func New(opts Options) (*Game, error) {
	if len(opts.Levels) == 0 {
		return nil, ErrNoLevels
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Arrange == nil {
		opts.Arrange = RandomArrangement
	}

	g := &Game{
		levels:   opts.Levels,
		images:   opts.Images,
		opts:     opts,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		log:      opts.Logger,
		loader:   opts.Loader,
		canvas:   opts.Canvas,
		ui:       opts.UI,
		confetti: opts.Celebrator,
		records:  opts.Records,
		pieces:   render.LayoutForPieces(opts.Pieces).Pieces(),
	}
	if g.canvas == nil {
		g.canvas = nopCanvas{}
	}
	if g.ui == nil {
		g.ui = nopUI{}
	}
	return g, nil
}

// RandomArrangement rotates every piece by a random quarter turn, never all
// upright, and on shuffled levels deals the quadrants in a random order that
// is never already solved.
func RandomArrangement(rng *rand.Rand, pieces int, shuffle bool) (rotations, quadrants []int) {
	rotations = make([]int, pieces)
	allZero := true
	for i := range rotations {
		rotations[i] = rng.Intn(4) * angle.Quarter
		if rotations[i] != 0 {
			allZero = false
		}
	}
	if allZero && pieces > 0 {
		rotations[rng.Intn(pieces)] = angle.Quarter
	}

	quadrants = make([]int, pieces)
	for i := range quadrants {
		quadrants[i] = i
	}
	if shuffle && pieces > 1 {
		quadrants = rng.Perm(pieces)
		identity := true
		for i, q := range quadrants {
			if q != i {
				identity = false
				break
			}
		}
		if identity {
			quadrants[0], quadrants[1] = quadrants[1], quadrants[0]
		}
	}
	return rotations, quadrants
}

// Instance returns the current puzzle, nil before the first setup.
func (g *Game) Instance() *Instance { return g.inst }

// Level returns the selected level index.
func (g *Game) Level() int { return g.level }

// Levels returns the campaign.
func (g *Game) Levels() []Level { return g.levels }

// Pieces returns the selected piece count.
func (g *Game) Pieces() int { return g.pieces }

// Images returns the image bank.
func (g *Game) Images() []string { return g.images }

// ImageURI returns the image of the current or last requested setup.
func (g *Game) ImageURI() string { return g.imageURI }

// Loader returns the loader setups fetch their image with.
func (g *Game) Loader() ImageLoader { return g.loader }

// NextEnabled reports whether the next level can be started.
func (g *Game) NextEnabled() bool { return g.nextEnabled }

// RestartEnabled reports whether the level can be restarted.
func (g *Game) RestartEnabled() bool { return g.restartEnabled }

// Status returns the state of the current instance, StatusPreview if none.
func (g *Game) Status() Status {
	if g.inst == nil {
		return StatusPreview
	}
	return g.inst.Status
}

// Generation identifies the current instance. Frame and timer callbacks
// carry it so that callbacks scheduled for a replaced instance are dropped.
func (g *Game) Generation() uint64 {
	if g.inst == nil {
		return 0
	}
	return g.inst.Generation
}

// Rotate turns a slot by delta degrees. It does nothing unless the puzzle is
// running. It returns true when the frame loop was stopped and the caller
// must schedule a Frame.
func (g *Game) Rotate(slot int, delta float64, now time.Time) bool {
	in := g.inst
	if in == nil || in.Status != StatusRunning || slot < 0 || slot >= in.Pieces() {
		return false
	}
	if g.expired(now) {
		return false
	}
	target := in.Anim.StartRotation(slot, delta, now)
	g.log.Debug("rotate", "slot", slot, "delta", delta, "target", target)
	return in.sched.Kick()
}

// Primary rotates a slot a quarter turn counterclockwise.
func (g *Game) Primary(slot int, now time.Time) bool {
	return g.Rotate(slot, -angle.Quarter, now)
}

// Secondary rotates a slot a quarter turn clockwise.
func (g *Game) Secondary(slot int, now time.Time) bool {
	return g.Rotate(slot, angle.Quarter, now)
}

// Swap exchanges the pieces in two slots on a shuffled level. Rotation and
// any running animation travel with the piece.
func (g *Game) Swap(a, b int, now time.Time) error {
	in := g.inst
	if in == nil || in.Status != StatusRunning || g.expired(now) {
		return ErrNotRunning
	}
	if !g.levels[in.Level].Shuffle {
		return fmt.Errorf("%w: level %d keeps pieces in place", ErrLocked, in.Level+1)
	}
	if a == b {
		return nil
	}
	if err := in.Anim.Swap(a, b); err != nil {
		return fmt.Errorf("puzzle: %w", err)
	}
	in.Quadrants[a], in.Quadrants[b] = in.Quadrants[b], in.Quadrants[a]
	g.log.Debug("swap", "slot", a, "with", b)

	g.paintSlot(a, now)
	g.paintSlot(b, now)
	g.MarkCorrectness()
	if !in.Anim.AnyAnimating() {
		g.CheckWin(now)
	}
	return nil
}

// Frame runs one animation frame for the instance of generation gen.
// It returns whether another frame should be scheduled.
func (g *Game) Frame(gen uint64, now time.Time) bool {
	in := g.inst
	if in == nil || in.Generation != gen {
		return false
	}
	return in.sched.Tick(now)
}

// Animating reports whether the frame loop of the current instance runs.
func (g *Game) Animating() bool {
	return g.inst != nil && g.inst.sched.Running()
}

func (g *Game) onAllSettled(now time.Time) {
	g.MarkCorrectness()
	g.CheckWin(now)
}

func (g *Game) correct(slot int) bool {
	in := g.inst
	if !angle.IsNearZero(float64(in.Anim.Rotation(slot)), angle.DefaultEpsilon) {
		return false
	}
	return !g.levels[in.Level].Shuffle || in.Quadrants[slot] == slot
}

// MarkCorrectness flags every slot whose piece is upright and, on shuffled
// levels, in its own place. It only drives highlighting.
func (g *Game) MarkCorrectness() []bool {
	if g.inst == nil {
		return nil
	}
	out := make([]bool, g.inst.Pieces())
	for slot := range out {
		out[slot] = g.correct(slot)
		g.ui.SetCorrect(slot, out[slot])
	}
	return out
}

// CheckWin reports whether the current puzzle is won. The transition into
// the won state happens at most once per instance: the timer stops, every
// slot is repainted without filters, the record is saved, and either the
// next level unlocks or, on the final level, the celebration plays.
// It never wins while a slot is animating.
func (g *Game) CheckWin(now time.Time) bool {
	in := g.inst
	if in == nil {
		return false
	}
	if in.Status == StatusWon {
		return true
	}
	if g.expired(now) {
		return false
	}
	if in.Status != StatusRunning || in.Anim.AnyAnimating() {
		return false
	}

	for slot := 0; slot < in.Pieces(); slot++ {
		if !angle.IsNearZero(float64(in.Anim.Rotation(slot)), angle.DefaultEpsilon) {
			return false
		}
	}
	if g.levels[in.Level].Shuffle && !in.Ordered() {
		return false
	}

	in.Anim.SnapAll()
	in.Timer.Stop(now)
	in.Solved = in.Timer.Elapsed(now)
	in.Status = StatusWon
	in.Revealed = true
	in.sched.Stop()
	g.Redraw(now)

	final := in.Level >= len(g.levels)-1
	g.nextEnabled = !final
	g.restartEnabled = true
	g.ui.SetTimer(in.Timer.Read(now))
	g.ui.SetNextEnabled(g.nextEnabled)
	g.ui.SetRestartEnabled(true)

	g.log.Info("level solved", "level", in.Level+1, "elapsed", timer.Format(in.Solved), "image", in.ImageURI)
	if saved, err := g.TrySaveRecord(in.Level, in.Solved); err != nil {
		g.log.Warn("record not saved", "level", in.Level+1, "error", err)
	} else if saved {
		g.ui.SetRecord(in.Level, timer.Format(in.Solved))
	}
	g.logSolve(in, now)

	if final {
		g.ui.Announce("You won! Puzzle solved.")
		if g.confetti != nil {
			g.confetti.Celebrate()
		}
	} else {
		g.ui.Announce(fmt.Sprintf("Level %d solved in %s", in.Level+1, timer.Format(in.Solved)))
	}
	return true
}

// TimerTick samples the timer of the instance of generation gen, pushes the
// reading to the UI and handles the timeout. The bool reports whether the
// timer is still counting and another tick should be scheduled.
func (g *Game) TimerTick(gen uint64, now time.Time) (timer.Reading, bool) {
	in := g.inst
	if in == nil || in.Generation != gen {
		return timer.Reading{}, false
	}

	r := in.Timer.Read(now)
	if r.Expired && in.Status == StatusRunning {
		g.timeout(now)
		r = in.Timer.Read(now)
	}
	g.ui.SetTimer(r)
	return r, in.Timer.Running()
}

// expired applies the timeout when a running countdown has reached zero,
// whether or not a TimerTick has seen it yet.
func (g *Game) expired(now time.Time) bool {
	in := g.inst
	if in == nil || in.Status != StatusRunning || !in.Timer.Read(now).Expired {
		return false
	}
	g.timeout(now)
	g.ui.SetTimer(in.Timer.Read(now))
	return true
}

func (g *Game) timeout(now time.Time) {
	in := g.inst
	in.Timer.Stop(now)
	in.Status = StatusLost
	g.nextEnabled = false
	g.restartEnabled = true
	g.ui.SetNextEnabled(false)
	g.ui.SetRestartEnabled(true)
	g.ui.Announce("Time's up!")
	g.log.Info("level timed out", "level", in.Level+1, "image", in.ImageURI)
}

// Redraw repaints every slot, e.g. after the surfaces were resized.
func (g *Game) Redraw(now time.Time) {
	if g.inst == nil {
		return
	}
	for slot := 0; slot < g.inst.Pieces(); slot++ {
		g.paintSlot(slot, now)
	}
	g.MarkCorrectness()
}

func (g *Game) paintSlot(slot int, now time.Time) {
	in := g.inst
	view := render.SlotView{
		Quadrant: in.Quadrants[slot],
		Samples:  in.Anim.SampleBlurTrail(slot, now, g.opts.BlurTaps),
		Scale:    in.Anim.PopScale(slot, now, g.opts.PopScale),
		Correct:  g.correct(slot),
	}
	if !in.Revealed {
		view.Filter = g.levels[in.Level].FilterFor(slot)
	}
	g.canvas.Paint(slot, view)
}
