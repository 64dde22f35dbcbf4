package puzzle

import (
	"context"
	"image"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/render"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

// Canvas receives the pixels of every slot.
// render.Board is the production implementation.
type Canvas interface {
	Reset(img image.Image, layout render.GridLayout)
	Paint(slot int, view render.SlotView)
}

// UI is the status surface around the board.
type UI interface {
	SetCorrect(slot int, correct bool)
	SetNextEnabled(enabled bool)
	SetRestartEnabled(enabled bool)
	SetTimer(r timer.Reading)
	SetRecord(level int, record string)
	Announce(msg string)
}

// Celebrator plays the completion effects after the final level is won.
type Celebrator interface {
	Celebrate()
}

// RecordStore persists best times, formatted as "MM:SS.mmm".
type RecordStore interface {
	Record(key string) (value string, ok bool, err error)
	SetRecord(key, value string) error
}

// Solve is one finished level.
type Solve struct {
	Level   int // 0-based
	Name    string
	Pieces  int
	Image   string
	Elapsed time.Duration
	At      time.Time
}

// SolveLogger is implemented by record stores that keep a solve history.
type SolveLogger interface {
	LogSolve(s Solve) error
}

// ImageLoader fetches and decodes the image behind a URI.
type ImageLoader interface {
	Load(ctx context.Context, uri string) (image.Image, error)
}

type nopUI struct{}

func (nopUI) SetCorrect(int, bool)   {}
func (nopUI) SetNextEnabled(bool)    {}
func (nopUI) SetRestartEnabled(bool) {}
func (nopUI) SetTimer(timer.Reading) {}
func (nopUI) SetRecord(int, string)  {}
func (nopUI) Announce(string)        {}

type nopCanvas struct{}

func (nopCanvas) Reset(image.Image, render.GridLayout) {}
func (nopCanvas) Paint(int, render.SlotView)           {}
