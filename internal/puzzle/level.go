package puzzle

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/render"
)

// Level describes one stage of the campaign.
type Level struct {
	Name      string
	Shuffle   bool                 // Pieces start out of order and must be swapped back
	Filters   []render.FilterChain // Per-slot colour filters, see render.FilterForSlot
	TimeLimit time.Duration        // Zero counts up with no limit
}

// FilterFor returns the chain slot is drawn with while unsolved.
func (l Level) FilterFor(slot int) render.FilterChain {
	return render.FilterForSlot(l.Filters, slot)
}

// Countdown reports whether the level has a time limit.
func (l Level) Countdown() bool {
	return l.TimeLimit > 0
}

// DefaultLevels is the built-in three-level campaign.
func DefaultLevels() []Level {
	return []Level{
		{
			Name:    "Grayscale",
			Filters: []render.FilterChain{render.MustParseFilterChain("grayscale(1)")},
		},
		{
			Name:    "Dim",
			Shuffle: true,
			Filters: []render.FilterChain{
				render.MustParseFilterChain("brightness(0.3)"),
				render.MustParseFilterChain("brightness(0.3)"),
			},
			TimeLimit: 20 * time.Second,
		},
		{
			Name:    "Negative",
			Shuffle: true,
			Filters: []render.FilterChain{
				render.MustParseFilterChain("invert(1)"),
				render.MustParseFilterChain("grayscale(1)"),
				render.MustParseFilterChain("brightness(0.3)"),
			},
			TimeLimit: 15 * time.Second,
		},
	}
}

// RecordKey is the record store key of a level index (0-based).
func RecordKey(level int) string {
	return "record_lvl_" + strconv.Itoa(level+1)
}

// Status is the lifecycle state of a puzzle instance.
type Status int

const (
	StatusPreview Status = iota // Shown but not timed, input ignored
	StatusRunning
	StatusWon
	StatusLost // Timed out, input frozen
)

func (s Status) String() string {
	switch s {
	case StatusPreview:
		return "preview"
	case StatusRunning:
		return "running"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
