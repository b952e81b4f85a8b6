package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"geopick/internal/ui/input/types"
)

// RootMode lets the user pick the country that scopes the picker
type RootMode struct {
	keys types.KeyMap
}

func NewRootMode(keys types.KeyMap) *RootMode {
	return &RootMode{keys: keys}
}

func (m *RootMode) Name() string {
	return "root"
}

func (m *RootMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *RootMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *RootMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, k.Up):
		return []types.Action{types.NavigateRootAction{Direction: "up"}}, true
	case key.Matches(msg, k.Down):
		return []types.Action{types.NavigateRootAction{Direction: "down"}}, true
	case key.Matches(msg, k.Top):
		return []types.Action{types.NavigateRootAction{Direction: "home"}}, true
	case key.Matches(msg, k.Bottom):
		return []types.Action{types.NavigateRootAction{Direction: "end"}}, true
	case msg.String() == "enter", msg.String() == " ":
		return []types.Action{
			types.ChooseRootAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case msg.String() == "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case msg.String() == "q":
		// q still cancels the whole picker from here
		return []types.Action{
			types.ChangeModeAction{Mode: types.ModeNormal},
			types.DiscardAction{},
		}, true
	}
	return nil, true
}
