package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"geopick/internal/config"
	"geopick/internal/domain"
	"geopick/internal/eventbus"
	"geopick/internal/hierarchy"
	"geopick/internal/session"
	"geopick/internal/ui/input"
	inputtypes "geopick/internal/ui/input/types"
	uilogic "geopick/internal/ui/logic"
	"geopick/internal/ui/views"
)

// Outcome is how the picker was closed
type Outcome struct {
	Committed bool
	Values    []string
}

// Model represents the UI state of one picker session
type Model struct {
	ctx     context.Context
	config  *config.Config
	session *session.Session

	width   int
	height  int
	help    help.Model
	keys    inputtypes.KeyMap
	spinner spinner.Model

	pane          inputtypes.Pane
	branchCursor  int
	leafCursor    int
	rootCursor    int
	filterQuery   string
	showHelp      bool
	statusMessage string
	inPagerMode   bool
	outcome       Outcome

	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	helpOps      *HelpOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model for sess
func NewModel(ctx context.Context, cfg *config.Config, sess *session.Session) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	keys := inputtypes.DefaultKeyMap()
	return &Model{
		ctx:          ctx,
		config:       cfg,
		session:      sess,
		help:         help.New(),
		keys:         keys,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(keys),
		inputHandler: input.New(keys),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Outcome returns how the session ended
func (m *Model) Outcome() Outcome {
	return m.outcome
}

// Init opens the session and starts the spinner
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.session.Open))
}

func (m *Model) loadCmd(load func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: load(m.ctx)}
	}
}

func (m *Model) inputContext() *input.SessionContext {
	return &input.SessionContext{
		Session:        m.session,
		Pane:           m.pane,
		Filter:         m.filterQuery,
		ConfirmOnClose: m.config.UISettings.ConfirmDiscard,
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.showHelp = false
			case "ctrl+c":
				return m, m.processAction(inputtypes.QuitAction{Force: true})
			}
			return m, nil
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.buildViewState())
}

func (m *Model) buildViewState() views.ViewState {
	st := m.session.State()
	status := m.session.Status()
	variant := m.session.Variant()

	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Field:         m.session.Field(),
		WildcardLabel: m.session.WildcardLabel(),
		Wildcard:      st.Wildcard,
		ShowWildcard:  !variant.HasRoot() || st.ActiveRoot != "" || st.Wildcard,
		HasRoot:       variant.HasRoot(),
		ActiveRoot:    st.ActiveRoot,
		Roots:         m.session.Roots(),
		RootCursor:    m.rootCursor,
		ChoosingRoot:  m.inputHandler.CurrentMode() == inputtypes.ModeRoot,
		BranchCursor:  m.branchCursor,
		LeafCursor:    m.leafCursor,
		LeavesFocused: m.pane == inputtypes.PaneLeaves,
		Loading:       status == session.StatusLoading,
		Spinner:       m.spinner.View(),
		Unavailable:   status == session.StatusUnavailable,
		FilterQuery:   m.filterQuery,
		Confirm:       m.inputHandler.CurrentMode() == inputtypes.ModeConfirm,
		StatusMessage: m.statusMessage,
		Result:        m.session.Result(),
		CanCommit:     m.session.CanCommit(),
		Dirty:         m.session.Dirty(),
		ShowCounts:    m.config.UISettings.ShowCounts,
		ShowHelp:      m.showHelp,
	}
	if err := m.session.Err(); err != nil {
		vs.ErrorMessage = unwrapMessage(err)
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.InputPrompt = m.inputHandler.Prompt()
		vs.TextInput = ti.View()
	}
	if m.showHelp {
		vs.HelpContent = m.helpRenderer.RenderHelpContent()
	} else {
		vs.ShortHelp = m.help.View(m.keys)
	}

	h := m.session.Hierarchy()
	for _, key := range h.BranchKeys() {
		node, _ := h.Node(key)
		vs.Branches = append(vs.Branches, views.BranchRow{
			Key:      key,
			Coverage: m.session.Coverage(key).String(),
			Selected: m.session.SelectedInBranch(key),
			Total:    len(node.Leaves),
			Expanded: key == st.ExpandedBranch,
		})
	}
	for _, leaf := range m.visibleLeaves() {
		label := leaf
		if variant.HasRoot() && m.filterQuery == "" {
			label = domain.CityOfLeaf(leaf)
		}
		vs.Leaves = append(vs.Leaves, views.LeafRow{
			Key:      leaf,
			Label:    label,
			Selected: st.IsSelected(leaf),
		})
	}
	return vs
}

// visibleLeaves lists the leaf pane: filter matches across every branch, or
// the leaves of the expanded branch
func (m *Model) visibleLeaves() []string {
	h := m.session.Hierarchy()
	if m.filterQuery != "" {
		return uilogic.NewSearchFilter(h).Leaves(m.filterQuery)
	}
	expanded := m.session.State().ExpandedBranch
	if expanded == "" {
		return nil
	}
	node, ok := h.Node(expanded)
	if !ok {
		return nil
	}
	return node.Leaves
}

func (m *Model) currentBranch() string {
	keys := m.session.Hierarchy().BranchKeys()
	if m.branchCursor < 0 || m.branchCursor >= len(keys) {
		return ""
	}
	return keys[m.branchCursor]
}

func (m *Model) currentLeaf() string {
	leaves := m.visibleLeaves()
	if m.leafCursor < 0 || m.leafCursor >= len(leaves) {
		return ""
	}
	return leaves[m.leafCursor]
}

// targetBranch is the branch "select all" applies to
func (m *Model) targetBranch() string {
	if m.pane == inputtypes.PaneBranches {
		return m.currentBranch()
	}
	if m.filterQuery != "" {
		branch, _ := m.session.Hierarchy().BranchOf(m.currentLeaf())
		return branch
	}
	return m.session.State().ExpandedBranch
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	log.Printf("processAction: %T", action)
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		if m.pane == inputtypes.PaneLeaves {
			m.leafCursor = uilogic.MoveCursor(m.leafCursor, len(m.visibleLeaves()), a.Direction)
		} else {
			m.branchCursor = uilogic.MoveCursor(m.branchCursor, len(m.session.Hierarchy().Nodes), a.Direction)
		}

	case inputtypes.SwitchPaneAction:
		if m.pane == inputtypes.PaneLeaves {
			m.pane = inputtypes.PaneBranches
		} else if len(m.visibleLeaves()) > 0 || m.inputHandler.CurrentMode() == inputtypes.ModeFilter {
			m.pane = inputtypes.PaneLeaves
			m.leafCursor = uilogic.ClampCursor(m.leafCursor, len(m.visibleLeaves()))
		}

	case inputtypes.ExpandAction:
		branch := m.currentBranch()
		if branch == "" {
			return nil
		}
		if m.session.ToggleBranch(branch) && m.session.State().ExpandedBranch == branch {
			m.leafCursor = 0
			m.pane = inputtypes.PaneLeaves
		}

	case inputtypes.CollapseAction:
		if m.pane == inputtypes.PaneLeaves {
			m.pane = inputtypes.PaneBranches
			return nil
		}
		if expanded := m.session.State().ExpandedBranch; expanded != "" {
			m.session.ToggleBranch(expanded)
		}

	case inputtypes.ToggleLeafAction:
		if leaf := m.currentLeaf(); leaf != "" {
			m.session.ToggleLeaf(leaf)
		}

	case inputtypes.ToggleSelectAllAction:
		if branch := m.targetBranch(); branch != "" {
			m.session.ToggleSelectAll(branch)
		}

	case inputtypes.ToggleWildcardAction:
		if !m.session.ToggleWildcard() && m.session.Variant().HasRoot() && m.session.State().ActiveRoot == "" {
			return m.setStatus("Choose a country first")
		}

	case inputtypes.NavigateRootAction:
		m.rootCursor = uilogic.MoveCursor(m.rootCursor, len(m.session.Roots()), a.Direction)

	case inputtypes.ChooseRootAction:
		roots := m.session.Roots()
		if m.rootCursor < 0 || m.rootCursor >= len(roots) {
			return nil
		}
		if !m.session.SelectRoot(roots[m.rootCursor]) {
			return nil
		}
		m.branchCursor, m.leafCursor = 0, 0
		m.pane = inputtypes.PaneBranches
		m.filterQuery = ""
		return m.loadCmd(m.session.Load)

	case inputtypes.UpdateTextAction:
		m.filterQuery = a.Text
		m.leafCursor = 0

	case inputtypes.SubmitTextAction:
		m.filterQuery = a.Text
		m.leafCursor = uilogic.ClampCursor(m.leafCursor, len(m.visibleLeaves()))
		if m.filterQuery == "" && len(m.visibleLeaves()) == 0 {
			m.pane = inputtypes.PaneBranches
		}

	case inputtypes.CancelTextAction:
		m.filterQuery = ""
		m.leafCursor = 0
		if len(m.visibleLeaves()) == 0 {
			m.pane = inputtypes.PaneBranches
		}

	case inputtypes.RetryAction:
		m.statusMessage = ""
		return m.loadCmd(m.session.Retry)

	case inputtypes.SaveAction:
		values, err := m.session.Commit()
		if errors.Is(err, session.ErrNothingSelected) {
			return m.setStatus("Select at least one location to save")
		}
		if err != nil {
			return m.setStatus(fmt.Sprintf("Save failed: %v", err))
		}
		m.outcome = Outcome{Committed: true, Values: values}
		return tea.Quit

	case inputtypes.DiscardAction:
		m.session.Cancel()
		m.outcome = Outcome{}
		return tea.Quit

	case inputtypes.ToggleHelpAction:
		if m.program != nil {
			return m.fetchHelpPager(m.helpRenderer.RenderHelpContent())
		}
		m.showHelp = !m.showHelp

	case inputtypes.QuitAction:
		m.session.Cancel()
		m.outcome = Outcome{}
		return tea.Quit
	}

	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m, m.afterLoad(msg.err)

	case EventMsg:
		switch e := msg.Event.(type) {
		case eventbus.ConfigSavedEvent:
			return m, m.setStatus(fmt.Sprintf("Saved to %s", e.Path))
		case eventbus.ErrorEvent:
			return m, m.setStatus(e.Message)
		}
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed, fall back to the popup
			log.Printf("Help pager failed: %v", msg.err)
			m.showHelp = true
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spinner.Tick

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}
	return m, nil
}

// afterLoad settles cursors and modes once hierarchy data has arrived
func (m *Model) afterLoad(err error) tea.Cmd {
	m.branchCursor = uilogic.ClampCursor(m.branchCursor, len(m.session.Hierarchy().Nodes))
	m.leafCursor = uilogic.ClampCursor(m.leafCursor, len(m.visibleLeaves()))

	if err != nil {
		log.Printf("Hierarchy load failed: %v", err)
		return nil
	}

	if expanded := m.session.State().ExpandedBranch; expanded == "" {
		// Open on the first branch holding a selected leaf
		for i, key := range m.session.Hierarchy().BranchKeys() {
			if m.session.SelectedInBranch(key) > 0 {
				m.branchCursor = i
				break
			}
		}
	}

	st := m.session.State()
	if m.session.Variant().HasRoot() {
		roots := m.session.Roots()
		for i, r := range roots {
			if r == st.ActiveRoot {
				m.rootCursor = i
			}
		}
		if st.ActiveRoot == "" && len(roots) > 0 {
			m.inputHandler.ChangeMode(inputtypes.ModeRoot, m.inputContext())
		}
	}
	return nil
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.statusMessage = text
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// unwrapMessage drops the provider sentinel prefix for display
func unwrapMessage(err error) string {
	var ue *hierarchy.UnavailableError
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}
