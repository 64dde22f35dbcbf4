// Package render draws puzzle pieces: it slices the source image into grid
// quadrants, applies colour filters, and composites each quadrant rotated,
// scaled and faded onto a slot surface.
package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/vovakirdan/tui-blocka/internal/animator"
)

// Background is the colour a surface is cleared to before painting.
var Background = color.RGBA{R: 16, G: 16, B: 20, A: 255}

type quadKey struct {
	quadrant int
	layout   GridLayout
	filter   string
}

// Compositor paints quadrants of a source image onto surfaces.
// Filtered quadrants are cached until the source image changes.
type Compositor struct {
	mu     sync.Mutex
	source image.Image
	cache  map[quadKey]*image.RGBA
	interp draw.Interpolator
}

// NewCompositor creates a compositor using bilinear sampling.
func NewCompositor() *Compositor {
	return &Compositor{
		cache:  make(map[quadKey]*image.RGBA),
		interp: draw.ApproxBiLinear,
	}
}

// filtered returns the quadrant of src with the chain applied, keeping
// source coordinates so the returned image's bounds equal the sub-rect.
func (c *Compositor) filtered(src image.Image, layout GridLayout, quadrant int, chain FilterChain) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source != src {
		c.source = src
		c.cache = make(map[quadKey]*image.RGBA)
	}

	key := quadKey{quadrant: quadrant, layout: layout, filter: chain.String()}
	if img, ok := c.cache[key]; ok {
		return img
	}

	sr := layout.SourceRect(src.Bounds(), quadrant)
	img := image.NewRGBA(sr)
	for y := sr.Min.Y; y < sr.Max.Y; y++ {
		for x := sr.Min.X; x < sr.Max.X; x++ {
			px := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			img.Set(x, y, chain.Apply(px))
		}
	}
	c.cache[key] = img
	return img
}

// PaintSlot fits the surface to its layout size, clears it, and draws the
// quadrant of img rotated by angleDeg about the surface centre, scaled by
// scale and stretched to fill the surface. Calling it again with the same
// inputs yields the same pixels.
func (c *Compositor) PaintSlot(dst *Surface, img image.Image, layout GridLayout, quadrant int, angleDeg float64, chain FilterChain, scale float64) {
	c.PaintTrail(dst, img, layout, quadrant, []animator.Sample{{Angle: angleDeg, Alpha: 1}}, chain, scale)
}

// PaintTrail is PaintSlot for a motion-blur trail: the surface is cleared
// once and each sample is composited in order with its alpha, so the last
// (sharp) sample ends up on top.
func (c *Compositor) PaintTrail(dst *Surface, img image.Image, layout GridLayout, quadrant int, samples []animator.Sample, chain FilterChain, scale float64) {
	if img == nil || layout.Cols <= 0 || layout.Rows <= 0 {
		dst.With(clearSurface)
		return
	}
	quad := c.filtered(img, layout, quadrant, chain)

	dst.With(func(out *image.RGBA) {
		clearSurface(out)
		if quad.Rect.Empty() {
			return
		}
		for _, s := range samples {
			c.composite(out, quad, s.Angle, scale, s.Alpha)
		}
	})
}

func clearSurface(out *image.RGBA) {
	draw.Draw(out, out.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
}

// composite draws quad onto out through the transform
// T(centre) * R(angle) * S(scale) * T(-centre) * fill(quad -> out).
func (c *Compositor) composite(out *image.RGBA, quad *image.RGBA, angleDeg, scale, alpha float64) {
	if alpha <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}

	w, h := float64(out.Rect.Dx()), float64(out.Rect.Dy())
	sr := quad.Rect
	kx := w / float64(sr.Dx())
	ky := h / float64(sr.Dy())
	cx, cy := w/2, h/2
	sx, sy := float64(sr.Min.X), float64(sr.Min.Y)

	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	// Snap quarter turns to exact values so settled tiles are pixel perfect.
	cos, sin = snapUnit(cos), snapUnit(sin)

	// local = (kx*(x-sx) - cx, ky*(y-sy) - cy); dst = centre + scale*R*local
	m := f64.Aff3{
		scale * cos * kx, -scale * sin * ky, cx + scale*(cos*(-kx*sx-cx)-sin*(-ky*sy-cy)),
		scale * sin * kx, scale * cos * ky, cy + scale*(sin*(-kx*sx-cx)+cos*(-ky*sy-cy)),
	}

	var opts *draw.Options
	if alpha < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(alpha * 0xffff)})}
	}
	c.interp.Transform(out, m, quad, sr, draw.Over, opts)
}

func snapUnit(v float64) float64 {
	for _, s := range []float64{-1, 0, 1} {
		if math.Abs(v-s) < 1e-12 {
			return s
		}
	}
	return v
}
