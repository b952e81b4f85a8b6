package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BranchRow is one line of the branch pane
type BranchRow struct {
	Key      string
	Coverage string // "none", "partial" or "all"
	Selected int
	Total    int
	Expanded bool
}

// LeafRow is one line of the leaf pane
type LeafRow struct {
	Key      string
	Label    string
	Selected bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Field         string
	WildcardLabel string
	Wildcard      bool
	ShowWildcard  bool

	HasRoot      bool // country variant
	ActiveRoot   string
	Roots        []string
	RootCursor   int
	ChoosingRoot bool

	Branches      []BranchRow
	BranchCursor  int
	Leaves        []LeafRow
	LeafCursor    int
	LeavesFocused bool

	Loading      bool
	Spinner      string
	Unavailable  bool
	ErrorMessage string

	FilterQuery   string
	InputPrompt   string
	TextInput     string
	Confirm       bool
	StatusMessage string

	Result     []string
	CanCommit  bool
	Dirty      bool
	ShowCounts bool

	ShowHelp    bool
	HelpContent string
	ShortHelp   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	if state.ShowWildcard {
		content.WriteString(r.renderWildcard(state))
		content.WriteString("\n")
	}
	if state.HasRoot {
		content.WriteString(r.renderRootLine(state))
		content.WriteString("\n")
	}

	switch {
	case state.Confirm:
		content.WriteString(r.styles.Confirm.Render("Discard unsaved changes? (y/n, s to save): "))
		content.WriteString("\n")
	case state.InputPrompt != "":
		content.WriteString(r.styles.Filter.Render(state.InputPrompt))
		content.WriteString(state.TextInput)
		content.WriteString("\n")
	}

	switch {
	case state.ChoosingRoot:
		content.WriteString(r.renderRootList(state))
	case state.Loading:
		content.WriteString(r.styles.StatusLoading.Render(fmt.Sprintf("%s Loading locations...", state.Spinner)))
	case state.Unavailable:
		msg := "Locations are unavailable."
		if state.ErrorMessage != "" {
			msg = fmt.Sprintf("Locations are unavailable: %s", state.ErrorMessage)
		}
		content.WriteString(r.styles.StatusError.Render(msg))
		content.WriteString("\n")
		content.WriteString(r.styles.Dim.Render("Press r to retry."))
	case state.HasRoot && state.ActiveRoot == "":
		content.WriteString(r.styles.Dim.Render("Choose a country first (press c)."))
	case len(state.Branches) == 0:
		content.WriteString(r.styles.Dim.Render("Nothing to browse."))
	default:
		content.WriteString(r.renderPanes(state))
	}
	content.WriteString("\n")

	content.WriteString(r.renderStatus(state))

	if state.ShortHelp != "" && !state.ShowHelp {
		current := strings.Count(content.String(), "\n") + 1
		// Main style pads one line top and bottom
		available := state.Height - 2
		if padding := available - current - 1; padding > 0 {
			content.WriteString(strings.Repeat("\n", padding))
		}
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.ShortHelp))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if state.ShowHelp && state.HelpContent != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.HelpContent, state.Height, state.Width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("geopick")
	if state.Field != "" {
		logo = fmt.Sprintf("%s %s", logo, r.styles.Dim.Render(state.Field))
	}

	var right []string
	if state.Loading {
		right = append(right, r.styles.Dim.Render(state.Spinner+" Loading"))
	}
	if state.Dirty {
		right = append(right, r.styles.StatusWarning.Render("● modified"))
	}
	if state.FilterQuery != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.FilterQuery)))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	// Account for main container padding
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderWildcard(state ViewState) string {
	marker := "( )"
	label := state.WildcardLabel
	if state.Wildcard {
		marker = r.styles.Checked.Render("(•)")
		label = r.styles.Wildcard.Render(label)
	}
	return fmt.Sprintf("%s %s", marker, label)
}

func (r *Renderer) renderRootLine(state ViewState) string {
	if state.ActiveRoot == "" {
		return r.styles.Dim.Render("Country: none")
	}
	return fmt.Sprintf("Country: %s", r.styles.PaneTitle.Render(state.ActiveRoot))
}

func (r *Renderer) renderRootList(state ViewState) string {
	if len(state.Roots) == 0 {
		return r.styles.Dim.Render("No countries available.")
	}
	height := r.listHeight(state)
	start, end := window(len(state.Roots), state.RootCursor, height)

	var lines []string
	lines = append(lines, r.styles.PaneTitle.Render("Choose a country"))
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render("↑ more"))
	}
	for i := start; i < end; i++ {
		root := state.Roots[i]
		line := "  " + root
		if root == state.ActiveRoot {
			line = "• " + root
		}
		if i == state.RootCursor {
			line = r.styles.HighlightBg.Render(line)
		}
		lines = append(lines, line)
	}
	if end < len(state.Roots) {
		lines = append(lines, r.styles.Scroll.Render("↓ more"))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderPanes(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}
	// Two bordered panes inside the padded container
	paneWidth := (width - 4 - 4*2) / 2
	if paneWidth < 16 {
		paneWidth = 16
	}
	height := r.listHeight(state)

	left := r.renderBranches(state, paneWidth, height)
	right := r.renderLeaves(state, paneWidth, height)

	leftStyle, rightStyle := r.styles.PaneFocused, r.styles.Pane
	if state.LeavesFocused {
		leftStyle, rightStyle = r.styles.Pane, r.styles.PaneFocused
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Width(paneWidth).Render(left),
		" ",
		rightStyle.Width(paneWidth).Render(right),
	)
}

func (r *Renderer) renderBranches(state ViewState, width, height int) string {
	lines := []string{r.styles.PaneTitle.Render(branchTitle(state))}
	start, end := window(len(state.Branches), state.BranchCursor, height)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render("↑ more"))
	}
	for i := start; i < end; i++ {
		b := state.Branches[i]
		arrow := "▶"
		if b.Expanded {
			arrow = "▼"
		}
		line := fmt.Sprintf("%s %s %s", r.styles.CoverageMarker(b.Coverage), arrow, b.Key)
		if state.ShowCounts && b.Total > 0 {
			line = fmt.Sprintf("%s %s", line, r.styles.Dim.Render(fmt.Sprintf("%d/%d", b.Selected, b.Total)))
		}
		if i == state.BranchCursor && !state.LeavesFocused {
			line = r.highlightLine(line, width)
		}
		lines = append(lines, line)
	}
	if end < len(state.Branches) {
		lines = append(lines, r.styles.Scroll.Render("↓ more"))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderLeaves(state ViewState, width, height int) string {
	lines := []string{r.styles.PaneTitle.Render(leafTitle(state))}
	if len(state.Leaves) == 0 {
		hint := "Expand a branch to see its locations."
		if state.FilterQuery != "" {
			hint = "No matches."
		}
		lines = append(lines, r.styles.Dim.Render(hint))
		return strings.Join(lines, "\n")
	}

	start, end := window(len(state.Leaves), state.LeafCursor, height)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render("↑ more"))
	}
	for i := start; i < end; i++ {
		leaf := state.Leaves[i]
		marker := "[ ]"
		if leaf.Selected {
			marker = r.styles.Checked.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", marker, r.highlightMatch(leaf.Label, state.FilterQuery))
		if i == state.LeafCursor && state.LeavesFocused {
			line = r.highlightLine(line, width)
		}
		lines = append(lines, line)
	}
	if end < len(state.Leaves) {
		lines = append(lines, r.styles.Scroll.Render("↓ more"))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderStatus(state ViewState) string {
	var line string
	switch {
	case state.StatusMessage != "":
		line = state.StatusMessage
	case len(state.Result) == 0:
		line = "Nothing selected"
	default:
		line = "Selected: " + strings.Join(state.Result, "; ")
	}
	if !state.CanCommit {
		line += r.styles.Dim.Render("  (save disabled)")
	}
	return r.styles.Status.Render(line)
}

// highlightLine pads line to width and paints the cursor background
func (r *Renderer) highlightLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return r.styles.HighlightBg.Render(line)
}

// highlightMatch emphasises the first case-insensitive match of query
func (r *Renderer) highlightMatch(text, query string) string {
	if query == "" {
		return text
	}
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx < 0 {
		return text
	}
	end := idx + len(query)
	if end > len(text) {
		return text
	}
	return text[:idx] + r.styles.Highlight.Render(text[idx:end]) + text[end:]
}

// listHeight is the number of rows a list may use below the header lines
func (r *Renderer) listHeight(state ViewState) int {
	// title, blank, wildcard, root, prompt, pane borders and title, status, help
	h := state.Height - 14
	if h < 3 {
		h = 3
	}
	return h
}

func branchTitle(state ViewState) string {
	if state.HasRoot {
		return "Provinces"
	}
	return "Regions"
}

func leafTitle(state ViewState) string {
	for _, b := range state.Branches {
		if b.Expanded {
			return b.Key
		}
	}
	if state.HasRoot {
		return "Cities"
	}
	return "Countries"
}

// window returns the [start, end) slice of n rows that keeps cursor visible
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > n {
		end = n
		start = end - height
	}
	return start, end
}
