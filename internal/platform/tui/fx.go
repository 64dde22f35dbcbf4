package tui

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

const (
	confettiCount    = 90
	confettiLifetime = 3500 * time.Millisecond
	confettiGravity  = 18.0 // cells per second squared
	bannerText       = " ★  You won! Puzzle solved.  ★ "
)

var confettiGlyphs = []rune{'*', '•', '✦', '▪', '◆', '+'}

type particle struct {
	x, y   float64
	vx, vy float64
	col    color.RGBA
	glyph  rune
}

// Celebration draws confetti and a banner that springs into place. It is a
// puzzle.Celebrator; Celebrate only marks it pending and the model starts
// it on the next update, when the screen size is known.
type Celebration struct {
	rng     *rand.Rand
	spring  harmonica.Spring
	pending bool
	active  bool

	start     time.Time
	last      time.Time
	particles []particle
	bannerY   float64
	bannerVel float64
	bannerTo  float64
}

// NewCelebration creates the effects for an fps frame rate.
func NewCelebration(fps int, seed int64) *Celebration {
	if fps <= 0 {
		fps = 60
	}
	return &Celebration{
		rng:    rand.New(rand.NewSource(seed)),
		spring: harmonica.NewSpring(harmonica.FPS(fps), 7.0, 0.35),
	}
}

// Celebrate implements puzzle.Celebrator.
func (c *Celebration) Celebrate() {
	c.pending = true
}

// Pending reports whether Celebrate was called and Begin has not run yet.
func (c *Celebration) Pending() bool { return c.pending }

// Active reports whether effects are on screen.
func (c *Celebration) Active() bool { return c.active }

// Begin launches the effects on a width x height screen.
func (c *Celebration) Begin(now time.Time, width, height int) {
	c.pending = false
	c.active = true
	c.start, c.last = now, now
	c.bannerY, c.bannerVel = -1, 0
	c.bannerTo = float64(height) / 3

	c.particles = c.particles[:0]
	for i := 0; i < confettiCount; i++ {
		hue := c.rng.Float64() * 360
		r, g, b := colorful.Hsv(hue, 0.75, 1).Clamped().RGB255()
		c.particles = append(c.particles, particle{
			x:     c.rng.Float64() * float64(width),
			y:     -c.rng.Float64() * float64(height) / 2,
			vx:    (c.rng.Float64() - 0.5) * 12,
			vy:    c.rng.Float64() * 6,
			col:   color.RGBA{R: r, G: g, B: b, A: 255},
			glyph: confettiGlyphs[c.rng.Intn(len(confettiGlyphs))],
		})
	}
}

// Step advances the effects to now. It returns whether they are still
// running.
func (c *Celebration) Step(now time.Time) bool {
	if !c.active {
		return false
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt > 0 {
		for i := range c.particles {
			p := &c.particles[i]
			p.vy += confettiGravity * dt
			p.x += p.vx * dt
			p.y += p.vy * dt
		}
	}
	c.bannerY, c.bannerVel = c.spring.Update(c.bannerY, c.bannerVel, c.bannerTo)

	if now.Sub(c.start) >= confettiLifetime {
		c.Stop()
	}
	return c.active
}

// Stop removes the effects.
func (c *Celebration) Stop() {
	c.active = false
	c.pending = false
	c.particles = c.particles[:0]
}

// Draw paints the effects over s.
func (c *Celebration) Draw(s *core.Screen) {
	if !c.active {
		return
	}
	for _, p := range c.particles {
		x, y := int(p.x), int(p.y)
		if p.y < 0 {
			continue
		}
		old := s.Get(x, y)
		s.Set(x, y, core.Cell{Rune: p.glyph, FG: p.col, BG: old.BG})
	}

	y := int(c.bannerY + 0.5)
	if y < 0 || y >= s.Height() {
		return
	}
	gold := color.RGBA{R: 250, G: 210, B: 90, A: 255}
	ink := color.RGBA{R: 30, G: 20, B: 10, A: 255}
	x := (s.Width() - len([]rune(bannerText))) / 2
	i := 0
	for _, r := range bannerText {
		s.Set(x+i, y, core.Cell{Rune: r, FG: ink, BG: gold})
		i++
	}
}

var _ puzzle.Celebrator = (*Celebration)(nil)
