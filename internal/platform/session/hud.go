package session

import (
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

// HUD is the status surface both frontends draw around the board.
// It is only touched from the frontend's event loop.
type HUD struct {
	Correct        []bool
	NextEnabled    bool
	RestartEnabled bool
	Timer          timer.Reading
	Level          int // 0-based
	Record         string
	Message        string
	Messages       int // Bumped on every Announce
}

func newHUD() *HUD {
	return &HUD{Record: puzzle.NoRecord}
}

func (h *HUD) SetCorrect(slot int, correct bool) {
	if slot < 0 {
		return
	}
	for len(h.Correct) <= slot {
		h.Correct = append(h.Correct, false)
	}
	h.Correct[slot] = correct
}

func (h *HUD) SetNextEnabled(enabled bool)    { h.NextEnabled = enabled }
func (h *HUD) SetRestartEnabled(enabled bool) { h.RestartEnabled = enabled }
func (h *HUD) SetTimer(r timer.Reading)       { h.Timer = r }

func (h *HUD) SetRecord(level int, record string) {
	h.Level = level
	h.Record = record
}

// Announce replaces the status line.
func (h *HUD) Announce(msg string) {
	h.Message = msg
	h.Messages++
}

// IsCorrect reports the highlight state of a slot.
func (h *HUD) IsCorrect(slot int) bool {
	return slot >= 0 && slot < len(h.Correct) && h.Correct[slot]
}

var _ puzzle.UI = (*HUD)(nil)
