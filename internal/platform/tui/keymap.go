package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blocka/internal/core"
)

// KeyMap defines the key bindings of the puzzle screen.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Primary   key.Binding
	Secondary key.Binding
	Pick      key.Binding
	Start     key.Binding
	Restart   key.Binding
	Next      key.Binding
	PrevImage key.Binding
	NextImage key.Binding
	Pieces4   key.Binding
	Pieces6   key.Binding
	Pieces8   key.Binding
	Records   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Primary, k.Secondary, k.Pick, k.Start, k.Next, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Primary, k.Secondary, k.Pick},
		{k.Start, k.Restart, k.Next},
		{k.PrevImage, k.NextImage, k.Pieces4, k.Pieces6, k.Pieces8},
		{k.Records, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Primary: key.NewBinding(
			key.WithKeys("z", " "),
			key.WithHelp("z/space", "turn left"),
		),
		Secondary: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "turn right"),
		),
		Pick: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "pick/drop"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next level"),
		),
		PrevImage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev image"),
		),
		NextImage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next image"),
		),
		Pieces4: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "2x2"),
		),
		Pieces6: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "3x2"),
		),
		Pieces8: key.NewBinding(
			key.WithKeys("8"),
			key.WithHelp("8", "4x2"),
		),
		Records: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "records"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to puzzle actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	Keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{Keys: DefaultKeyMap()}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.Keys
	bindings := []struct {
		binding key.Binding
		action  core.Action
	}{
		{k.Quit, core.ActionQuit},
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.Primary, core.ActionPrimary},
		{k.Secondary, core.ActionSecondary},
		{k.Pick, core.ActionPick},
		{k.Start, core.ActionStart},
		{k.Restart, core.ActionRestart},
		{k.Next, core.ActionNext},
		{k.PrevImage, core.ActionPrevImage},
		{k.NextImage, core.ActionNextImage},
		{k.Pieces4, core.ActionPieces4},
		{k.Pieces6, core.ActionPieces6},
		{k.Pieces8, core.ActionPieces8},
		{k.Help, core.ActionToggleHelp},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.action, b.action == core.ActionQuit
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	frame.Set(action)
	return isQuit
}
