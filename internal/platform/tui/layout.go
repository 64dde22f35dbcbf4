package tui

import (
	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/render"
)

// Screen rows around the board.
const (
	headerRows = 1
	footerRows = 3 // timer line, status line, help
	tileGap    = 1 // blank columns between tiles
	minTilePx  = 4
)

// boardLayout places the tiles of a grid on the terminal. Tiles are boxed,
// and every cell inside a box shows two vertically stacked pixels.
type boardLayout struct {
	tiles []core.Rect // Outer rectangles including the border, in cells
	tileW int         // Tile size in pixels
	tileH int
}

// fits reports whether the terminal was large enough for a board.
func (l boardLayout) fits() bool {
	return len(l.tiles) > 0
}

// inner returns the image area of tile i in cells.
func (l boardLayout) inner(i int) core.Rect {
	return l.tiles[i].Inset(1)
}

// computeLayout fits an imgW x imgH picture split into grid into a
// width x height terminal, keeping the picture's aspect ratio.
func computeLayout(width, height, imgW, imgH int, grid render.GridLayout) boardLayout {
	if grid.Cols <= 0 || grid.Rows <= 0 {
		return boardLayout{}
	}
	availW := width - grid.Cols*2 - (grid.Cols-1)*tileGap
	availH := height - headerRows - footerRows - grid.Rows*2
	pw, ph := core.Fit(imgW, imgH, availW, availH*2)

	tw := pw / grid.Cols
	th := ph / grid.Rows
	th -= th % 2
	if tw < minTilePx || th < minTilePx {
		return boardLayout{}
	}

	boxW, boxH := tw+2, th/2+2
	totalW := grid.Cols*boxW + (grid.Cols-1)*tileGap
	totalH := grid.Rows * boxH
	x0 := max((width-totalW)/2, 0)
	y0 := headerRows + max((height-headerRows-footerRows-totalH)/2, 0)

	l := boardLayout{tileW: tw, tileH: th}
	for i := 0; i < grid.Pieces(); i++ {
		col, row := grid.Cell(i)
		l.tiles = append(l.tiles, core.NewRect(x0+col*(boxW+tileGap), y0+row*boxH, boxW, boxH))
	}
	return l
}

// slotAt returns the tile under cell (x, y), or -1.
func (l boardLayout) slotAt(x, y int) int {
	return core.HitTest(l.tiles, x, y)
}
