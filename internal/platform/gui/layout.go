package gui

import (
	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/render"
)

// Window areas in pixels.
const (
	headerHeight = 36
	footerHeight = 72
	margin       = 16
	tileGap      = 6
	borderWidth  = 3
)

// boardLayout places the tiles of a grid in the window.
type boardLayout struct {
	tiles []core.Rect // Tile image areas; borders are drawn outside them
	tileW int
	tileH int
}

func (l boardLayout) fits() bool {
	return len(l.tiles) > 0
}

func (l boardLayout) slotAt(x, y int) int {
	return core.HitTest(l.tiles, x, y)
}

// computeLayout fits an imgW x imgH picture split into grid into a
// width x height window, keeping its aspect ratio. Every tile gets the same
// size.
func computeLayout(width, height, imgW, imgH int, grid render.GridLayout) boardLayout {
	if grid.Cols <= 0 || grid.Rows <= 0 {
		return boardLayout{}
	}
	area := core.NewRect(margin, headerHeight, width-2*margin, height-headerHeight-footerHeight)
	availW := area.W - (grid.Cols-1)*tileGap
	availH := area.H - (grid.Rows-1)*tileGap
	pw, ph := core.Fit(imgW, imgH, availW, availH)

	tw, th := pw/grid.Cols, ph/grid.Rows
	if tw < 8 || th < 8 {
		return boardLayout{}
	}

	boardW := tw*grid.Cols + (grid.Cols-1)*tileGap
	boardH := th*grid.Rows + (grid.Rows-1)*tileGap
	bx, by := area.Center()
	board := core.NewRect(bx-boardW/2, by-boardH/2, boardW, boardH)
	return boardLayout{
		tiles: core.Grid(board, grid.Cols, grid.Rows, tileGap),
		tileW: tw,
		tileH: th,
	}
}
