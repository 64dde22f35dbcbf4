package core

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"
)

// Cell is one terminal character with its colours.
// A colour with zero alpha means the terminal default.
type Cell struct {
	Rune rune
	FG   color.RGBA
	BG   color.RGBA
}

// Blank is an empty cell in default colours.
var Blank = Cell{Rune: ' '}

// HalfBlock is the glyph used to draw two pixels per cell: the foreground
// colour is the upper pixel and the background the lower one.
const HalfBlock = '▀'

// Screen is a 2D cell buffer for rendering the board and HUD.
// It decouples drawing from the terminal: the frontend draws images and
// text into cells and the platform turns colour runs into escape codes.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(width, 0),
		height: max(height, 0),
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	for y := 0; y < min(oldH, height); y++ {
		copy(s.cells[y], oldCells[y][:min(oldW, width)])
	}
}

// Clear fills the entire screen with blank cells.
func (s *Screen) Clear() {
	s.Fill(Blank)
}

// Fill fills the entire screen with the given cell.
func (s *Screen) Fill(c Cell) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = c
		}
	}
}

// Set places a cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, c Cell) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = c
}

// Get returns the cell at the given position, Blank when out of bounds.
func (s *Screen) Get(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Blank
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y) in fg over the
// default background. Characters beyond the screen are clipped.
func (s *Screen) DrawText(x, y int, text string, fg color.RGBA) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, Cell{Rune: r, FG: fg})
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string, fg color.RGBA) {
	x := (s.width - utf8.RuneCountInString(text)) / 2
	s.DrawText(x, y, text, fg)
}

// DrawRect fills a rectangular area with the given cell.
func (s *Screen) DrawRect(r Rect, fill Cell) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.Set(x, y, fill)
		}
	}
}

// DrawBox draws a box outline using box-drawing characters. The interior
// is left untouched.
func (s *Screen) DrawBox(r Rect, fg color.RGBA) {
	if r.W < 2 || r.H < 2 {
		return
	}
	at := func(x, y int, ch rune) { s.Set(x, y, Cell{Rune: ch, FG: fg}) }

	at(r.X, r.Y, '┌')
	at(r.Right()-1, r.Y, '┐')
	at(r.X, r.Bottom()-1, '└')
	at(r.Right()-1, r.Bottom()-1, '┘')

	for x := r.X + 1; x < r.Right()-1; x++ {
		at(x, r.Y, '─')
		at(x, r.Bottom()-1, '─')
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		at(r.X, y, '│')
		at(r.Right()-1, y, '│')
	}
}

// DrawImage draws img with its top-left pixel at cell (x, y), two pixel
// rows per cell row. An odd last pixel row is drawn over the default
// background.
func (s *Screen) DrawImage(x, y int, img *image.RGBA) {
	if img == nil {
		return
	}
	b := img.Rect
	for py := 0; py < b.Dy(); py += 2 {
		for px := 0; px < b.Dx(); px++ {
			c := Cell{Rune: HalfBlock, FG: img.RGBAAt(b.Min.X+px, b.Min.Y+py)}
			if py+1 < b.Dy() {
				c.BG = img.RGBAAt(b.Min.X+px, b.Min.Y+py+1)
			}
			s.Set(x+px, y+py/2, c)
		}
	}
}

// Run is a horizontal stretch of cells sharing colours.
type Run struct {
	Text string
	FG   color.RGBA
	BG   color.RGBA
}

// Runs splits row y into colour runs, left to right.
func (s *Screen) Runs(y int) []Run {
	if y < 0 || y >= s.height || s.width == 0 {
		return nil
	}
	var (
		runs []Run
		sb   strings.Builder
	)
	row := s.cells[y]
	cur := row[0]
	for _, c := range row {
		if c.FG != cur.FG || c.BG != cur.BG {
			runs = append(runs, Run{Text: sb.String(), FG: cur.FG, BG: cur.BG})
			sb.Reset()
			cur = c
		}
		sb.WriteRune(c.Rune)
	}
	return append(runs, Run{Text: sb.String(), FG: cur.FG, BG: cur.BG})
}

// String converts the screen buffer to plain text without colours.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(s.Row(y))
	}
	return sb.String()
}

// Row returns the runes of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	rs := make([]rune, s.width)
	for x, c := range s.cells[y] {
		rs[x] = c.Rune
	}
	return string(rs)
}
