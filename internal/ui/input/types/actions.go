package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

type SwitchPaneAction struct{}

func (a SwitchPaneAction) Type() string { return "switch_pane" }

// ExpandAction expands the branch under the cursor, or collapses it if open
type ExpandAction struct{}

func (a ExpandAction) Type() string { return "expand" }

type CollapseAction struct{}

func (a CollapseAction) Type() string { return "collapse" }

// Selection actions
type ToggleLeafAction struct{}

func (a ToggleLeafAction) Type() string { return "toggle_leaf" }

type ToggleSelectAllAction struct{}

func (a ToggleSelectAllAction) Type() string { return "toggle_select_all" }

type ToggleWildcardAction struct{}

func (a ToggleWildcardAction) Type() string { return "toggle_wildcard" }

// Root picker actions
type NavigateRootAction struct {
	Direction string
}

func (a NavigateRootAction) Type() string { return "navigate_root" }

type ChooseRootAction struct{}

func (a ChooseRootAction) Type() string { return "choose_root" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Command actions
type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

type SaveAction struct{}

func (a SaveAction) Type() string { return "save" }

// DiscardAction cancels the session without saving
type DiscardAction struct{}

func (a DiscardAction) Type() string { return "discard" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C
}

func (a QuitAction) Type() string { return "quit" }
