// Package core provides the frontend-neutral types shared by the terminal
// and window frontends: a cell screen, rectangles for hit testing, input
// actions and runtime configuration. It has no UI library dependencies.
package core

// Rect is an axis-aligned box in cells or pixels.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Fit returns the largest w x h size with the aspect ratio of srcW x srcH
// that fits inside boxW x boxH. Degenerate inputs give a zero size.
func Fit(srcW, srcH, boxW, boxH int) (w, h int) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	if boxW*srcH <= boxH*srcW {
		return boxW, max(boxW*srcH/srcW, 1)
	}
	return max(boxH*srcW/srcH, 1), boxH
}

// Grid splits r into cols x rows cells separated by gap and returns them in
// row-major order. Leftover space goes to the last column and row.
func Grid(r Rect, cols, rows, gap int) []Rect {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cw := (r.W - gap*(cols-1)) / cols
	ch := (r.H - gap*(rows-1)) / rows
	out := make([]Rect, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := Rect{X: r.X + col*(cw+gap), Y: r.Y + row*(ch+gap), W: cw, H: ch}
			if col == cols-1 {
				c.W = r.Right() - c.X
			}
			if row == rows-1 {
				c.H = r.Bottom() - c.Y
			}
			c.W, c.H = max(c.W, 0), max(c.H, 0)
			out = append(out, c)
		}
	}
	return out
}

// HitTest returns the index of the first rectangle containing (x, y), or -1.
func HitTest(rects []Rect, x, y int) int {
	for i, r := range rects {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
