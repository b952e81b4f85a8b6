package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"geopick/internal/ui/input/types"
)

// FilterMode narrows the leaf pane by substring
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}

// Enter moves the cursor to the leaf pane so matches are visible
func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	actions := m.TextInputMode.Enter(ctx)
	if ctx.Focus() != types.PaneLeaves {
		actions = append(actions, types.SwitchPaneAction{})
	}
	return actions
}
