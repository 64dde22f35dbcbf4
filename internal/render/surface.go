package render

import (
	"image"
	"image/color"
	"sync"
)

// Surface is a slot's drawing target. Its layout size may be changed from
// any goroutine (a window or terminal resize notification); the backing
// image is only reallocated by Fit, which runs at the start of every paint.
type Surface struct {
	mu     sync.Mutex
	img    *image.RGBA
	layout image.Point
}

// NewSurface creates a surface with the given layout size in pixels.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.SetLayoutSize(w, h)
	s.Fit()
	return s
}

// SetLayoutSize records the size the surface should have on the next paint.
// Safe for concurrent use and idempotent.
func (s *Surface) SetLayoutSize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s.mu.Lock()
	s.layout = image.Pt(w, h)
	s.mu.Unlock()
}

// LayoutSize returns the requested size.
func (s *Surface) LayoutSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.X, s.layout.Y
}

// Fit reallocates the backing image when the layout size changed.
// Returns the current image.
func (s *Surface) Fit() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fitLocked()
}

func (s *Surface) fitLocked() *image.RGBA {
	if s.img == nil || s.img.Rect.Dx() != s.layout.X || s.img.Rect.Dy() != s.layout.Y {
		s.img = image.NewRGBA(image.Rect(0, 0, s.layout.X, s.layout.Y))
	}
	return s.img
}

// With runs fn with exclusive access to the fitted backing image.
func (s *Surface) With(fn func(img *image.RGBA)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.fitLocked())
}

// Size returns the size of the backing image.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return 0, 0
	}
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// At returns the pixel at (x, y) of the backing image.
func (s *Surface) At(x, y int) color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return color.RGBA{}
	}
	return s.img.RGBAAt(x, y)
}

// Snapshot returns a copy of the backing image.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}
