package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"geopick/internal/ui/input/types"
)

// ConfirmMode asks before discarding unsaved changes
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "discard-confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		return []types.Action{
			types.ChangeModeAction{Mode: types.ModeNormal},
			types.DiscardAction{},
		}, true
	case "s", "S":
		if ctx.CanCommit() {
			return []types.Action{
				types.ChangeModeAction{Mode: types.ModeNormal},
				types.SaveAction{},
			}, true
		}
		return nil, true
	case "n", "N", "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}

	return nil, false
}
