package gui

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	confettiCount    = 160
	confettiLifetime = 3500 * time.Millisecond
	confettiGravity  = 420.0 // px/s²
)

type flake struct {
	x, y, vx, vy float32
	size         float32
	col          color.RGBA
}

// confetti rains coloured flakes over the window while the banner scales
// in on a spring. Celebrate may be called from inside a session update;
// the window starts it on its next tick.
type confetti struct {
	rng     *rand.Rand
	spring  harmonica.Spring
	pending bool
	active  bool
	start   time.Time
	last    time.Time
	flakes  []flake
	scale   float64
	vel     float64
}

func newConfetti(tps int, seed int64) *confetti {
	return &confetti{
		rng:    rand.New(rand.NewSource(seed)),
		spring: harmonica.NewSpring(harmonica.FPS(tps), 6.0, 0.3),
	}
}

// Celebrate implements puzzle.Celebrator.
func (c *confetti) Celebrate() { c.pending = true }

func (c *confetti) begin(now time.Time, width int) {
	c.pending, c.active = false, true
	c.start, c.last = now, now
	c.scale, c.vel = 0, 0
	c.flakes = c.flakes[:0]
	for i := 0; i < confettiCount; i++ {
		r, g, b := colorful.Hsv(c.rng.Float64()*360, 0.7, 1).Clamped().RGB255()
		c.flakes = append(c.flakes, flake{
			x:    c.rng.Float32() * float32(width),
			y:    -c.rng.Float32() * 300,
			vx:   (c.rng.Float32() - 0.5) * 160,
			vy:   c.rng.Float32() * 120,
			size: 3 + c.rng.Float32()*5,
			col:  color.RGBA{R: r, G: g, B: b, A: 255},
		})
	}
}

func (c *confetti) step(now time.Time) {
	if !c.active {
		return
	}
	dt := float32(now.Sub(c.last).Seconds())
	c.last = now
	for i := range c.flakes {
		f := &c.flakes[i]
		f.vy += confettiGravity * dt
		f.x += f.vx * dt
		f.y += f.vy * dt
	}
	c.scale, c.vel = c.spring.Update(c.scale, c.vel, 1)
	if now.Sub(c.start) >= confettiLifetime {
		c.stop()
	}
}

func (c *confetti) stop() {
	c.active, c.pending = false, false
	c.flakes = c.flakes[:0]
}

func (c *confetti) draw(screen *ebiten.Image) {
	if !c.active {
		return
	}
	for _, f := range c.flakes {
		vector.DrawFilledRect(screen, f.x, f.y, f.size, f.size, f.col, false)
	}
}
