package render

import "image"

// GridLayout is the column/row split of the source image.
type GridLayout struct {
	Cols int
	Rows int
}

// Supported piece counts and their grids.
var gridPresets = map[int]GridLayout{
	4: {Cols: 2, Rows: 2},
	6: {Cols: 3, Rows: 2},
	8: {Cols: 4, Rows: 2},
}

// DefaultPieces is the piece count used when none (or an unknown one) is chosen.
const DefaultPieces = 4

// PieceCounts lists the selectable piece counts in ascending order.
func PieceCounts() []int {
	return []int{4, 6, 8}
}

// LayoutForPieces returns the grid for a piece count.
// Unknown counts fall back to the 2x2 grid.
func LayoutForPieces(n int) GridLayout {
	if l, ok := gridPresets[n]; ok {
		return l
	}
	return gridPresets[DefaultPieces]
}

// ValidPieces reports whether n is one of the supported piece counts.
func ValidPieces(n int) bool {
	_, ok := gridPresets[n]
	return ok
}

// Pieces returns the number of slots in the layout.
func (l GridLayout) Pieces() int {
	return l.Cols * l.Rows
}

// Cell returns the column and row of a slot or quadrant index.
func (l GridLayout) Cell(index int) (col, row int) {
	return index % l.Cols, index / l.Cols
}

// SourceRect returns the sub-rectangle of bounds that holds quadrant.
// The bounds are divided evenly by columns and rows.
func (l GridLayout) SourceRect(bounds image.Rectangle, quadrant int) image.Rectangle {
	col, row := l.Cell(quadrant)
	w, h := bounds.Dx(), bounds.Dy()
	x0 := bounds.Min.X + w*col/l.Cols
	x1 := bounds.Min.X + w*(col+1)/l.Cols
	y0 := bounds.Min.Y + h*row/l.Rows
	y1 := bounds.Min.Y + h*(row+1)/l.Rows
	return image.Rect(x0, y0, x1, y1)
}
