package core

// Action represents a semantic puzzle action, abstracted from physical key
// presses and mouse buttons.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // Move the cursor up
	ActionDown              // Move the cursor down
	ActionLeft              // Move the cursor left
	ActionRight             // Move the cursor right
	ActionPrimary           // Rotate the slot under the cursor -90°
	ActionSecondary         // Rotate the slot under the cursor +90°
	ActionPick              // Pick up or drop a piece for swapping
	ActionStart             // Start a timed run
	ActionRestart           // Restart the current level
	ActionNext              // Advance to the next level
	ActionPrevImage         // Preview the previous bank image
	ActionNextImage         // Preview the next bank image
	ActionPieces4           // Switch to a 2x2 grid
	ActionPieces6           // Switch to a 3x2 grid
	ActionPieces8           // Switch to a 4x2 grid
	ActionToggleHelp        // Show or hide the full help
	ActionQuit              // Exit
)

var actionNames = map[Action]string{
	ActionNone:       "None",
	ActionUp:         "Up",
	ActionDown:       "Down",
	ActionLeft:       "Left",
	ActionRight:      "Right",
	ActionPrimary:    "Primary",
	ActionSecondary:  "Secondary",
	ActionPick:       "Pick",
	ActionStart:      "Start",
	ActionRestart:    "Restart",
	ActionNext:       "Next",
	ActionPrevImage:  "PrevImage",
	ActionNextImage:  "NextImage",
	ActionPieces4:    "Pieces4",
	ActionPieces6:    "Pieces6",
	ActionPieces8:    "Pieces8",
	ActionToggleHelp: "ToggleHelp",
	ActionQuit:       "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// PieceCount returns the grid size selected by a pieces action, or 0.
func (a Action) PieceCount() int {
	switch a {
	case ActionPieces4:
		return 4
	case ActionPieces6:
		return 6
	case ActionPieces8:
		return 8
	default:
		return 0
	}
}

// InputFrame collects the actions triggered during one frontend update.
type InputFrame struct {
	// Actions keeps the order in which actions arrived.
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set records an action for this frame. Repeats are kept so that two quick
// clicks rotate twice.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.Actions {
		if got == a {
			return true
		}
	}
	return false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{Actions: append([]Action(nil), f.Actions...)}
}
