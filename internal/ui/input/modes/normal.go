package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"geopick/internal/ui/input/types"
)

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, k.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, k.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, k.Top):
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case key.Matches(msg, k.Bottom):
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case key.Matches(msg, k.Pane):
		return []types.Action{types.SwitchPaneAction{}}, true

	case key.Matches(msg, k.Expand):
		// Enter on a leaf toggles it; arrows only navigate
		if ctx.Focus() == types.PaneLeaves {
			if msg.String() == "enter" {
				return []types.Action{types.ToggleLeafAction{}}, true
			}
			return nil, true
		}
		return []types.Action{types.ExpandAction{}}, true

	case key.Matches(msg, k.Collapse):
		return []types.Action{types.CollapseAction{}}, true

	case key.Matches(msg, k.Toggle):
		if ctx.Focus() == types.PaneLeaves {
			return []types.Action{types.ToggleLeafAction{}}, true
		}
		return []types.Action{types.ToggleSelectAllAction{}}, true

	case key.Matches(msg, k.SelectAll):
		return []types.Action{types.ToggleSelectAllAction{}}, true

	case key.Matches(msg, k.Wildcard):
		return []types.Action{types.ToggleWildcardAction{}}, true

	case key.Matches(msg, k.Root):
		if ctx.HasRoots() && !ctx.Loading() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeRoot}}, true
		}
		return nil, true

	case key.Matches(msg, k.Filter):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true

	case key.Matches(msg, k.Retry):
		if ctx.Unavailable() {
			return []types.Action{types.RetryAction{}}, true
		}
		return nil, true

	case key.Matches(msg, k.Save):
		if ctx.CanCommit() && !ctx.Loading() {
			return []types.Action{types.SaveAction{}}, true
		}
		return nil, true // Consume the key even if no action

	case key.Matches(msg, k.Cancel):
		if msg.String() == "esc" && ctx.FilterQuery() != "" {
			return []types.Action{types.CancelTextAction{}}, true
		}
		if ctx.Dirty() && ctx.ConfirmDiscard() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeConfirm}}, true
		}
		return []types.Action{types.DiscardAction{}}, true

	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	return nil, false
}
