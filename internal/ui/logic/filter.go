package logic

import (
	"strings"

	"geopick/internal/domain"
)

// branchPrefix narrows a filter to leaves of matching branches
const branchPrefix = "in:"

// SearchFilter handles filtering of hierarchy leaves
type SearchFilter struct {
	hierarchy domain.Hierarchy
}

// NewSearchFilter creates a new search filter
func NewSearchFilter(h domain.Hierarchy) *SearchFilter {
	return &SearchFilter{
		hierarchy: h,
	}
}

// MatchesFilter checks if a leaf matches the given filter query
func (sf *SearchFilter) MatchesFilter(leaf, branch, filterQuery string) bool {
	if filterQuery == "" {
		return true
	}

	query := strings.ToLower(strings.TrimSpace(filterQuery))

	// Check if it's a branch filter
	if strings.HasPrefix(query, branchPrefix) {
		return sf.MatchesBranchFilter(branch, strings.TrimPrefix(query, branchPrefix))
	}

	return strings.Contains(strings.ToLower(leaf), query)
}

// MatchesBranchFilter checks if a branch name matches the filter
func (sf *SearchFilter) MatchesBranchFilter(branch, filterQuery string) bool {
	query := strings.ToLower(strings.TrimSpace(filterQuery))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(branch), query)
}

// Leaves returns every leaf matching filterQuery in hierarchy order
func (sf *SearchFilter) Leaves(filterQuery string) []string {
	var out []string
	for _, node := range sf.hierarchy.Nodes {
		for _, leaf := range node.Leaves {
			if sf.MatchesFilter(leaf, node.Key, filterQuery) {
				out = append(out, leaf)
			}
		}
	}
	return out
}
