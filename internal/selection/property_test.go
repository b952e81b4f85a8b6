package selection

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geopick/internal/domain"
)

// world maps a root to its branches; the region variant uses the "" root
type world map[string]domain.Hierarchy

func (w world) roots() []string {
	roots := make([]string, 0, len(w))
	for r := range w {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	return roots
}

func regionWorld() world {
	return world{"": regionHierarchy()}
}

func countryWorld() world {
	return world{
		"Canada": canadaHierarchy(),
		"France": domain.NewHierarchy(
			domain.HierarchyNode{Key: "Île-de-France", Leaves: []string{
				"Paris, Île-de-France, France",
				"Versailles, Île-de-France, France",
			}},
			domain.HierarchyNode{Key: "Occitanie", Leaves: []string{
				"Toulouse, Occitanie, France",
			}},
		),
		"Japan": domain.NewHierarchy(),
	}
}

type step func(s State) State

// randomStep picks one public transition, sometimes with stale arguments
func randomStep(r *rand.Rand, e *Engine, w world) step {
	pickBranch := func(h domain.Hierarchy) string {
		keys := append(h.BranchKeys(), "Atlantis")
		return keys[r.Intn(len(keys))]
	}
	pickLeaf := func(h domain.Hierarchy) string {
		var leaves []string
		for _, n := range h.Nodes {
			leaves = append(leaves, n.Leaves...)
		}
		leaves = append(leaves, "Atlantis", "Toronto, Ontario, Canada")
		return leaves[r.Intn(len(leaves))]
	}

	switch r.Intn(5) {
	case 0:
		return e.ToggleWildcard
	case 1:
		return func(s State) State {
			h := w[s.ActiveRoot]
			return e.ToggleLeaf(s, h, pickLeaf(h))
		}
	case 2:
		return func(s State) State {
			h := w[s.ActiveRoot]
			return e.ToggleSelectAllInBranch(s, h, pickBranch(h))
		}
	case 3:
		return func(s State) State {
			roots := w.roots()
			return e.SetActiveRoot(s, roots[r.Intn(len(roots))])
		}
	default:
		return func(s State) State {
			return e.SetExpandedBranch(s, pickBranch(w[s.ActiveRoot]))
		}
	}
}

// storedLists are saved results a picker may be reopened with
func storedLists(variant domain.Variant) [][]string {
	if variant.HasRoot() {
		return [][]string{
			nil,
			{"Worldwide"},
			{"Anywhere in Canada"},
			{"Anywhere in Japan"},
			{"Toronto, Ontario, Canada", "Montreal, Quebec, Canada"},
			{"Paris, Île-de-France, France", "Toronto, Ontario, Canada"},
		}
	}
	return [][]string{
		nil,
		{"Worldwide"},
		{"Anywhere in Canada"},
		{"Japan", "France"},
		{"Atlantis"},
	}
}

// reachableStates walks random transitions from every stored list and
// collects each visited state
func reachableStates(t *testing.T, variant domain.Variant, w world) []State {
	t.Helper()
	r := rand.New(rand.NewSource(42))
	e := NewEngine(variant)
	starts := storedLists(variant)

	var states []State
	for walk := 0; walk < 200; walk++ {
		s := e.Seed(starts[walk%len(starts)])
		states = append(states, s)
		for i := 0; i < 30; i++ {
			s = randomStep(r, e, w)(s)
			states = append(states, s)
		}
	}
	return states
}

func forEachVariant(t *testing.T, fn func(t *testing.T, e *Engine, w world, states []State)) {
	cases := []struct {
		variant domain.Variant
		world   world
	}{
		{domain.VariantRegion, regionWorld()},
		{domain.VariantCountry, countryWorld()},
	}
	for _, c := range cases {
		t.Run(string(c.variant), func(t *testing.T) {
			fn(t, NewEngine(c.variant), c.world, reachableStates(t, c.variant, c.world))
		})
	}
}

func TestPropertyMutualExclusion(t *testing.T) {
	forEachVariant(t, func(t *testing.T, e *Engine, w world, states []State) {
		for _, s := range states {
			require.False(t, s.Wildcard && len(s.Selected) > 0, "wildcard with leaves: %+v", s)
		}
	})
}

func TestPropertyRootScoping(t *testing.T) {
	e := NewEngine(domain.VariantCountry)
	for _, s := range reachableStates(t, domain.VariantCountry, countryWorld()) {
		for _, leaf := range s.Selected {
			root, ok := domain.RootOfLeaf(leaf)
			require.True(t, ok)
			require.Equal(t, s.ActiveRoot, root, "leaf %q outside root in %+v", leaf, s)
		}
		// Only a stored "Worldwide" can hold the wildcard without a root
		if s.Wildcard && s.ActiveRoot == "" {
			require.Equal(t, []string{"Worldwide"}, e.Result(s))
		}
	}
}

func TestPropertyNoDuplicates(t *testing.T) {
	forEachVariant(t, func(t *testing.T, e *Engine, w world, states []State) {
		for _, s := range states {
			require.Equal(t, len(dedupe(s.Selected)), len(s.Selected), "%+v", s)
		}
	})
}

func TestPropertyExpandIsReversible(t *testing.T) {
	forEachVariant(t, func(t *testing.T, e *Engine, w world, states []State) {
		for _, s := range states {
			for _, b := range w[s.ActiveRoot].BranchKeys() {
				// Reversible from a collapsed pane or from b itself
				if s.ExpandedBranch != "" && s.ExpandedBranch != b {
					continue
				}
				twice := e.SetExpandedBranch(e.SetExpandedBranch(s, b), b)
				require.Equal(t, s, twice)
			}
			for _, b := range w[s.ActiveRoot].BranchKeys() {
				once := e.SetExpandedBranch(s, b)
				require.Equal(t, s.Selected, once.Selected)
				require.Equal(t, s.Wildcard, once.Wildcard)
			}
		}
	})
}

func TestPropertySelectAllSymmetry(t *testing.T) {
	forEachVariant(t, func(t *testing.T, e *Engine, w world, states []State) {
		for _, s := range states {
			h := w[s.ActiveRoot]
			for _, b := range h.BranchKeys() {
				cov := e.Coverage(s, h, b)
				if cov == CoveragePartial {
					continue
				}
				twice := e.ToggleSelectAllInBranch(e.ToggleSelectAllInBranch(s, h, b), h, b)
				node, _ := h.Node(b)
				for _, leaf := range node.Leaves {
					require.Equal(t, s.IsSelected(leaf), twice.IsSelected(leaf), "branch %s leaf %s from %+v", b, leaf, s)
				}
			}
		}
	})
}

func TestPropertyRoundTrip(t *testing.T) {
	forEachVariant(t, func(t *testing.T, e *Engine, w world, states []State) {
		for _, s := range states {
			seeded := e.Seed(e.Result(s))
			if e.CanCommit(s) {
				require.True(t, seeded.Equivalent(s), "round trip of %+v gave %+v", s, seeded)
				require.Equal(t, e.Result(s), e.Result(seeded))
			} else {
				// Nothing to persist, so only the empty state comes back
				require.Equal(t, State{}, seeded)
			}
		}
	})
}

func TestPropertyCommitGuard(t *testing.T) {
	forEachVariant(t, func(t *testing.T, e *Engine, w world, states []State) {
		for _, s := range states {
			assert.Equal(t, len(e.Result(s)) > 0, e.CanCommit(s))
		}
	})
}
