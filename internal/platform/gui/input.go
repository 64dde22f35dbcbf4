package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-blocka/internal/core"
)

// keyBindings maps keys to puzzle actions, first match wins.
var keyBindings = []struct {
	key    ebiten.Key
	action core.Action
}{
	{ebiten.KeyArrowUp, core.ActionUp},
	{ebiten.KeyK, core.ActionUp},
	{ebiten.KeyArrowDown, core.ActionDown},
	{ebiten.KeyJ, core.ActionDown},
	{ebiten.KeyArrowLeft, core.ActionLeft},
	{ebiten.KeyH, core.ActionLeft},
	{ebiten.KeyArrowRight, core.ActionRight},
	{ebiten.KeyL, core.ActionRight},
	{ebiten.KeyZ, core.ActionPrimary},
	{ebiten.KeySpace, core.ActionPrimary},
	{ebiten.KeyX, core.ActionSecondary},
	{ebiten.KeyEnter, core.ActionPick},
	{ebiten.KeyS, core.ActionStart},
	{ebiten.KeyR, core.ActionRestart},
	{ebiten.KeyN, core.ActionNext},
	{ebiten.KeyBracketLeft, core.ActionPrevImage},
	{ebiten.KeyBracketRight, core.ActionNextImage},
	{ebiten.KeyDigit4, core.ActionPieces4},
	{ebiten.KeyDigit6, core.ActionPieces6},
	{ebiten.KeyDigit8, core.ActionPieces8},
	{ebiten.KeySlash, core.ActionToggleHelp},
	{ebiten.KeyQ, core.ActionQuit},
	{ebiten.KeyEscape, core.ActionQuit},
}

// pollKeys collects the actions of keys pressed this tick.
func pollKeys(frame *core.InputFrame) {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			frame.Set(b.action)
		}
	}
}

// pointer is the mouse state the window reacts to in one tick.
type pointer struct {
	x, y         int
	leftDown     bool
	leftUp       bool
	rightPressed bool
}

func pollPointer() pointer {
	x, y := ebiten.CursorPosition()
	return pointer{
		x:            x,
		y:            y,
		leftDown:     inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		leftUp:       inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		rightPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
	}
}
