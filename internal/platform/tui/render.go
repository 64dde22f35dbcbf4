package tui

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-blocka/internal/core"
)

type runKey struct{ fg, bg color.RGBA }

// ScreenRenderer converts Screen buffers to styled strings, caching one
// lipgloss style per colour pair.
type ScreenRenderer struct {
	r      *lipgloss.Renderer
	styles map[runKey]lipgloss.Style
}

// NewScreenRenderer creates a renderer. A nil lipgloss renderer uses the
// default one.
func NewScreenRenderer(r *lipgloss.Renderer) *ScreenRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &ScreenRenderer{r: r, styles: make(map[runKey]lipgloss.Style)}
}

func (sr *ScreenRenderer) style(k runKey) lipgloss.Style {
	if st, ok := sr.styles[k]; ok {
		return st
	}
	st := sr.r.NewStyle()
	if k.fg.A > 0 {
		st = st.Foreground(hexColor(k.fg))
	}
	if k.bg.A > 0 {
		st = st.Background(hexColor(k.bg))
	}
	sr.styles[k] = st
	return st
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func (sr *ScreenRenderer) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*8 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, run := range s.Runs(y) {
			sb.WriteString(sr.style(runKey{run.FG, run.BG}).Render(run.Text))
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	col, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return lipgloss.Color(col.Hex())
}
