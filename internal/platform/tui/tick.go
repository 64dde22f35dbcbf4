// Package tui provides the Bubble Tea frontend of the puzzle, played locally
// or over SSH. It handles the terminal UI loop, input mapping, board layout
// and the win effects.
package tui

import (
	"context"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blocka/internal/platform/session"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

// FrameMsg drives one animation frame of the instance of generation Gen.
type FrameMsg struct {
	Gen uint64
	At  time.Time
}

// TimerMsg samples the level timer of the instance of generation Gen.
type TimerMsg struct {
	Gen uint64
	At  time.Time
}

// FxMsg advances the celebration effects.
type FxMsg time.Time

// SetupMsg carries a loaded (or failed) setup back to the event loop.
type SetupMsg struct {
	Req *puzzle.SetupRequest
	Img image.Image
	Err error
}

func interval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

func frameCmd(gen uint64, fps int) tea.Cmd {
	return tea.Tick(interval(fps), func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, At: t}
	})
}

// timerCmd ticks at most 20 times a second; the display only needs to look
// continuous.
func timerCmd(gen uint64, fps int) tea.Cmd {
	d := max(interval(fps), 50*time.Millisecond)
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TimerMsg{Gen: gen, At: t}
	})
}

func fxCmd(fps int) tea.Cmd {
	return tea.Tick(interval(fps), func(t time.Time) tea.Msg {
		return FxMsg(t)
	})
}

// loadCmd loads the image of req off the event loop.
func loadCmd(ctx context.Context, s *session.Session, req *puzzle.SetupRequest) tea.Cmd {
	return func() tea.Msg {
		img, err := s.Load(ctx, req)
		return SetupMsg{Req: req, Img: img, Err: err}
	}
}
