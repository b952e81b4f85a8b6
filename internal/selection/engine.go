// Package selection implements the location picker's selection rules as pure
// transitions over State. The wildcard choice ("Worldwide" or
// "Anywhere in <root>") and explicit leaves are mutually exclusive, and in the
// country variant every selected leaf belongs to the active root.
package selection

import (
	"geopick/internal/domain"
)

// Engine applies picker transitions for one variant
type Engine struct {
	variant domain.Variant
}

// NewEngine creates an engine for the given variant.
// Unknown variants fall back to the region picker.
func NewEngine(variant domain.Variant) *Engine {
	if !variant.Valid() {
		variant = domain.VariantRegion
	}
	return &Engine{variant: variant}
}

// Variant returns the picker variant
func (e *Engine) Variant() domain.Variant {
	return e.variant
}

// ToggleWildcard switches the whole-scope choice on or off.
// The country variant cannot turn it on until a root has been chosen, but a
// stored "Worldwide" can always be turned off.
func (e *Engine) ToggleWildcard(s State) State {
	if e.variant.HasRoot() && s.ActiveRoot == "" && !s.Wildcard {
		return s
	}
	out := s.Clone()
	out.Wildcard = !s.Wildcard
	out.Selected = nil
	return out
}

// ToggleLeaf adds or removes a single leaf. While the wildcard is active,
// picking a leaf replaces the wildcard with exactly that leaf.
func (e *Engine) ToggleLeaf(s State, h domain.Hierarchy, leaf string) State {
	// Removing is always safe, even if the leaf has since left the hierarchy
	if !s.Wildcard && s.IsSelected(leaf) {
		out := s.Clone()
		out.Selected = withoutLeaves(s.Selected, leaf)
		return out
	}

	if !e.selectable(s, h, leaf) {
		return s
	}

	out := s.Clone()
	if s.Wildcard {
		out.Wildcard = false
		out.Selected = []string{leaf}
		return out
	}
	out.Selected = withLeaf(s.Selected, leaf)
	return out
}

// ToggleSelectAllInBranch selects every leaf of branch, or deselects them all
// when the branch is already fully covered. A branch with no selectable leaf
// leaves the state untouched, wildcard included.
func (e *Engine) ToggleSelectAllInBranch(s State, h domain.Hierarchy, branch string) State {
	if e.variant.HasRoot() && s.ActiveRoot == "" {
		return s
	}
	node, ok := h.Node(branch)
	if !ok {
		return s
	}

	out := s.Clone()
	if e.Coverage(s, h, branch) == CoverageAll {
		out.Selected = withoutLeaves(s.Selected, node.Leaves...)
		return out
	}

	var add []string
	for _, leaf := range node.Leaves {
		if e.inRoot(s, leaf) && (s.Wildcard || !s.IsSelected(leaf)) {
			add = append(add, leaf)
		}
	}
	// Nothing to pick, same as toggling no leaves at all
	if len(add) == 0 {
		return s
	}

	selected := s.Selected
	if s.Wildcard {
		selected = nil
	}
	for _, leaf := range add {
		selected = withLeaf(selected, leaf)
	}
	out.Selected = selected
	out.Wildcard = false
	return out
}

// SetActiveRoot switches the browsed country. Selections never span roots, so
// changing the root starts from an empty state. Choosing the active root
// again is a no-op and keeps the current selection.
func (e *Engine) SetActiveRoot(s State, root string) State {
	if !e.variant.HasRoot() || root == s.ActiveRoot {
		return s
	}
	return State{ActiveRoot: root}
}

// SetExpandedBranch expands branch, or collapses it when it is already open
func (e *Engine) SetExpandedBranch(s State, branch string) State {
	out := s.Clone()
	if branch == s.ExpandedBranch {
		out.ExpandedBranch = ""
	} else {
		out.ExpandedBranch = branch
	}
	return out
}

// Result returns the list handed to the caller on save
func (e *Engine) Result(s State) []string {
	if s.Wildcard {
		return []string{e.variant.WildcardLabel(s.ActiveRoot)}
	}
	if len(s.Selected) == 0 {
		return []string{}
	}
	return append([]string(nil), s.Selected...)
}

// CanCommit reports whether saving would produce a non-empty result
func (e *Engine) CanCommit(s State) bool {
	return s.Wildcard || len(s.Selected) > 0
}

// Coverage reports how many of branch's leaves are selected
func (e *Engine) Coverage(s State, h domain.Hierarchy, branch string) Coverage {
	node, ok := h.Node(branch)
	if !ok || len(node.Leaves) == 0 {
		return CoverageNone
	}
	hit := 0
	for _, leaf := range node.Leaves {
		if s.IsSelected(leaf) {
			hit++
		}
	}
	switch hit {
	case 0:
		return CoverageNone
	case len(node.Leaves):
		return CoverageAll
	default:
		return CoveragePartial
	}
}

// SelectedInBranch counts selected leaves under branch
func (e *Engine) SelectedInBranch(s State, h domain.Hierarchy, branch string) int {
	node, ok := h.Node(branch)
	if !ok {
		return 0
	}
	n := 0
	for _, leaf := range node.Leaves {
		if s.IsSelected(leaf) {
			n++
		}
	}
	return n
}

func (e *Engine) selectable(s State, h domain.Hierarchy, leaf string) bool {
	if e.variant.HasRoot() && s.ActiveRoot == "" {
		return false
	}
	return h.Contains(leaf) && e.inRoot(s, leaf)
}

func (e *Engine) inRoot(s State, leaf string) bool {
	if !e.variant.HasRoot() {
		return true
	}
	root, ok := domain.RootOfLeaf(leaf)
	return ok && root == s.ActiveRoot
}
