package render

import (
	"image"
	"sync"

	"github.com/vovakirdan/tui-blocka/internal/animator"
)

// SlotView is everything needed to paint one slot for one frame.
type SlotView struct {
	Quadrant int
	Samples  []animator.Sample // Oldest first; the last one is the sharp frame
	Scale    float64
	Filter   FilterChain
	Correct  bool // Informational highlight state
}

// Board holds one surface per slot for the active puzzle and paints them
// through a shared compositor.
type Board struct {
	comp *Compositor

	mu       sync.RWMutex
	img      image.Image
	layout   GridLayout
	surfaces []*Surface
	views    []SlotView
	tileW    int
	tileH    int
}

// NewBoard creates an empty board whose tiles are tileW x tileH pixels.
func NewBoard(tileW, tileH int) *Board {
	return &Board{
		comp:   NewCompositor(),
		layout: LayoutForPieces(DefaultPieces),
		tileW:  tileW,
		tileH:  tileH,
	}
}

// Reset installs a new source image and layout, replacing all surfaces.
func (b *Board) Reset(img image.Image, layout GridLayout) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.img = img
	b.layout = layout
	b.surfaces = make([]*Surface, layout.Pieces())
	b.views = make([]SlotView, layout.Pieces())
	for i := range b.surfaces {
		b.surfaces[i] = NewSurface(b.tileW, b.tileH)
	}
}

// SetTileSize changes the layout size of every surface. The surfaces are
// resized on their next paint. Safe to call from any goroutine.
func (b *Board) SetTileSize(w, h int) {
	b.mu.Lock()
	b.tileW, b.tileH = w, h
	surfaces := b.surfaces
	b.mu.Unlock()

	for _, s := range surfaces {
		s.SetLayoutSize(w, h)
	}
}

// TileSize returns the current tile size in pixels.
func (b *Board) TileSize() (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tileW, b.tileH
}

// Paint draws a slot. Out-of-range slots are ignored.
func (b *Board) Paint(slot int, v SlotView) {
	b.mu.Lock()
	if slot < 0 || slot >= len(b.surfaces) {
		b.mu.Unlock()
		return
	}
	b.views[slot] = v
	surface := b.surfaces[slot]
	img, layout := b.img, b.layout
	b.mu.Unlock()

	b.comp.PaintTrail(surface, img, layout, v.Quadrant, v.Samples, v.Filter, v.Scale)
}

// Len returns the number of slots.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.surfaces)
}

// Layout returns the active grid layout.
func (b *Board) Layout() GridLayout {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.layout
}

// Surface returns the surface of a slot, or nil.
func (b *Board) Surface(slot int) *Surface {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if slot < 0 || slot >= len(b.surfaces) {
		return nil
	}
	return b.surfaces[slot]
}

// View returns the last view painted into a slot.
func (b *Board) View(slot int) SlotView {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if slot < 0 || slot >= len(b.views) {
		return SlotView{}
	}
	return b.views[slot]
}
