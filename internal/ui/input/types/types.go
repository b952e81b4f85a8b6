package types

import tea "github.com/charmbracelet/bubbletea"

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeRoot
	ModeFilter
	ModeConfirm
)

// Pane identifies which list has the cursor in normal mode
type Pane int

const (
	PaneBranches Pane = iota
	PaneLeaves
)

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	Focus() Pane
	Loading() bool
	Unavailable() bool
	HasRoots() bool
	HasRoot() bool
	CanCommit() bool
	Dirty() bool
	ConfirmDiscard() bool
	FilterQuery() string
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
