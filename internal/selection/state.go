package selection

// State is the working selection of one picker session.
//
// Values are treated as immutable: every Engine operation returns a new State
// and leaves its input untouched.
type State struct {
	Wildcard       bool
	Selected       []string // insertion order, no duplicates
	ActiveRoot     string   // country variant only, "" when none
	ExpandedBranch string   // navigation only, "" when collapsed
}

// Coverage describes how much of a branch is selected
type Coverage int

const (
	CoverageNone Coverage = iota
	CoveragePartial
	CoverageAll
)

func (c Coverage) String() string {
	switch c {
	case CoverageAll:
		return "all"
	case CoveragePartial:
		return "partial"
	default:
		return "none"
	}
}

// Clone returns a deep copy
func (s State) Clone() State {
	out := s
	if s.Selected != nil {
		out.Selected = append([]string(nil), s.Selected...)
	}
	return out
}

// IsSelected reports whether leaf is explicitly chosen
func (s State) IsSelected(leaf string) bool {
	return indexOf(s.Selected, leaf) >= 0
}

// Count returns the number of explicitly selected leaves
func (s State) Count() int {
	return len(s.Selected)
}

// Equivalent compares the committed parts of two states: wildcard, root and
// the selected set (order-insensitive). ExpandedBranch is ignored.
func (s State) Equivalent(other State) bool {
	if s.Wildcard != other.Wildcard || s.ActiveRoot != other.ActiveRoot {
		return false
	}
	if len(s.Selected) != len(other.Selected) {
		return false
	}
	for _, leaf := range s.Selected {
		if !other.IsSelected(leaf) {
			return false
		}
	}
	return true
}

func indexOf(list []string, v string) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}

// withLeaf appends leaf if missing, always returning a fresh slice
func withLeaf(list []string, leaf string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	if indexOf(out, leaf) < 0 {
		out = append(out, leaf)
	}
	return out
}

// withoutLeaves drops every leaf in drop, preserving order
func withoutLeaves(list []string, drop ...string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if indexOf(drop, item) < 0 {
			out = append(out, item)
		}
	}
	return out
}

// dedupe keeps the first occurrence of every value
func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
