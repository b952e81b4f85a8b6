package domain

import "strings"

// Variant identifies which flavour of location picker a field uses
type Variant string

const (
	// VariantRegion browses region -> country and offers "Worldwide"
	VariantRegion Variant = "region"
	// VariantCountry requires a root country, then browses province -> city
	VariantCountry Variant = "country"
)

// Wildcard result strings
const (
	WorldwideLabel = "Worldwide"
	AnywherePrefix = "Anywhere in "
)

// Valid reports whether v is a known variant
func (v Variant) Valid() bool {
	return v == VariantRegion || v == VariantCountry
}

// HasRoot reports whether a root must be chosen before browsing
func (v Variant) HasRoot() bool {
	return v == VariantCountry
}

// WildcardLabel returns the result string for the wildcard choice.
// Without a root every variant falls back to "Worldwide".
func (v Variant) WildcardLabel(root string) string {
	if v.HasRoot() && root != "" {
		return AnywherePrefix + root
	}
	return WorldwideLabel
}

// HierarchyNode is a second-level branch (region or province) and its leaves
type HierarchyNode struct {
	Key    string   `toml:"key"`
	Leaves []string `toml:"leaves"`
}

// Hierarchy is the ordered set of branches available in one picker session
type Hierarchy struct {
	Nodes []HierarchyNode
}

// NewHierarchy builds a hierarchy from the given nodes
func NewHierarchy(nodes ...HierarchyNode) Hierarchy {
	return Hierarchy{Nodes: nodes}
}

// IsEmpty returns true if there is nothing to browse
func (h Hierarchy) IsEmpty() bool {
	return len(h.Nodes) == 0
}

// BranchKeys returns branch keys in display order
func (h Hierarchy) BranchKeys() []string {
	keys := make([]string, 0, len(h.Nodes))
	for _, n := range h.Nodes {
		keys = append(keys, n.Key)
	}
	return keys
}

// Node finds a branch by key
func (h Hierarchy) Node(key string) (HierarchyNode, bool) {
	for _, n := range h.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return HierarchyNode{}, false
}

// BranchOf returns the key of the branch containing leaf
func (h Hierarchy) BranchOf(leaf string) (string, bool) {
	for _, n := range h.Nodes {
		for _, l := range n.Leaves {
			if l == leaf {
				return n.Key, true
			}
		}
	}
	return "", false
}

// Contains reports whether leaf exists anywhere in the hierarchy
func (h Hierarchy) Contains(leaf string) bool {
	_, ok := h.BranchOf(leaf)
	return ok
}

// LeafCount returns the total number of leaves
func (h Hierarchy) LeafCount() int {
	total := 0
	for _, n := range h.Nodes {
		total += len(n.Leaves)
	}
	return total
}

// CityKey builds the leaf key used by the country variant
func CityKey(city, province, country string) string {
	return city + ", " + province + ", " + country
}

// RootOfLeaf extracts the country segment of a "City, Province, Country" key.
// Keys without a comma have no root segment.
func RootOfLeaf(leaf string) (string, bool) {
	idx := strings.LastIndex(leaf, ",")
	if idx < 0 {
		return "", false
	}
	root := strings.TrimSpace(leaf[idx+1:])
	if root == "" {
		return "", false
	}
	return root, true
}

// CityOfLeaf returns the first segment of a leaf key, for compact display
func CityOfLeaf(leaf string) string {
	if idx := strings.Index(leaf, ","); idx >= 0 {
		return strings.TrimSpace(leaf[:idx])
	}
	return leaf
}
