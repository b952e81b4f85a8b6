package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geopick/internal/domain"
)

func regionHierarchy() domain.Hierarchy {
	return domain.NewHierarchy(
		domain.HierarchyNode{Key: "Europe", Leaves: []string{"France", "Germany", "Spain", "Italy"}},
		domain.HierarchyNode{Key: "Asia", Leaves: []string{"Japan", "India"}},
		domain.HierarchyNode{Key: "Oceania", Leaves: []string{}},
	)
}

func canadaHierarchy() domain.Hierarchy {
	return domain.NewHierarchy(
		domain.HierarchyNode{Key: "Ontario", Leaves: []string{
			"Toronto, Ontario, Canada",
			"Ottawa, Ontario, Canada",
		}},
		domain.HierarchyNode{Key: "Quebec", Leaves: []string{
			"Montreal, Quebec, Canada",
		}},
	)
}

func TestScenarioWildcardOn(t *testing.T) {
	e := NewEngine(domain.VariantRegion)

	s := e.ToggleWildcard(State{})

	assert.Equal(t, []string{"Worldwide"}, e.Result(s))
	assert.True(t, e.CanCommit(s))
}

func TestScenarioLeafReplacesWildcard(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	h := regionHierarchy()

	s := e.ToggleWildcard(State{})
	s = e.ToggleLeaf(s, h, "France")

	assert.False(t, s.Wildcard)
	assert.Equal(t, []string{"France"}, e.Result(s))
}

func TestScenarioSelectAllKeepsExistingOrder(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	h := regionHierarchy()

	s := e.Seed([]string{"Germany", "France"})
	s = e.ToggleSelectAllInBranch(s, h, "Europe")

	assert.False(t, s.Wildcard)
	assert.Equal(t, []string{"Germany", "France", "Spain", "Italy"}, e.Result(s))
	assert.Equal(t, CoverageAll, e.Coverage(s, h, "Europe"))
}

func TestScenarioAnywhereInCanada(t *testing.T) {
	e := NewEngine(domain.VariantCountry)
	h := canadaHierarchy()

	s := e.Seed([]string{"Anywhere in Canada"})
	require.Equal(t, "Canada", s.ActiveRoot)
	require.True(t, s.Wildcard)

	s = e.ToggleLeaf(s, h, "Toronto, Ontario, Canada")

	assert.False(t, s.Wildcard)
	assert.Equal(t, []string{"Toronto, Ontario, Canada"}, s.Selected)
}

func TestScenarioRootChangeClearsSelection(t *testing.T) {
	e := NewEngine(domain.VariantCountry)

	s := State{
		Selected:       []string{"Paris, Île-de-France, France"},
		ActiveRoot:     "Germany",
		ExpandedBranch: "Bavaria",
	}
	s = e.SetActiveRoot(s, "Japan")

	assert.Empty(t, s.Selected)
	assert.False(t, s.Wildcard)
	assert.Equal(t, "Japan", s.ActiveRoot)
	assert.Equal(t, "", s.ExpandedBranch)
}

func TestToggleWildcard(t *testing.T) {
	t.Run("turning on clears leaves", func(t *testing.T) {
		e := NewEngine(domain.VariantRegion)
		s := e.ToggleWildcard(State{Selected: []string{"France"}})
		assert.True(t, s.Wildcard)
		assert.Empty(t, s.Selected)
	})

	t.Run("turning off leaves selection empty", func(t *testing.T) {
		e := NewEngine(domain.VariantRegion)
		s := e.ToggleWildcard(State{Wildcard: true})
		assert.False(t, s.Wildcard)
		assert.Empty(t, s.Selected)
		assert.False(t, e.CanCommit(s))
	})

	t.Run("country variant needs a root", func(t *testing.T) {
		e := NewEngine(domain.VariantCountry)
		s := e.ToggleWildcard(State{})
		assert.False(t, s.Wildcard)

		s = e.ToggleWildcard(State{ActiveRoot: "Canada"})
		assert.True(t, s.Wildcard)
		assert.Equal(t, []string{"Anywhere in Canada"}, e.Result(s))
	})
}

func TestToggleLeaf(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	h := regionHierarchy()

	s := e.ToggleLeaf(State{}, h, "Japan")
	s = e.ToggleLeaf(s, h, "France")
	assert.Equal(t, []string{"Japan", "France"}, s.Selected)

	s = e.ToggleLeaf(s, h, "Japan")
	assert.Equal(t, []string{"France"}, s.Selected)

	t.Run("unknown leaf is ignored", func(t *testing.T) {
		next := e.ToggleLeaf(s, h, "Atlantis")
		assert.Equal(t, s, next)
	})

	t.Run("stale selected leaf can still be removed", func(t *testing.T) {
		seeded := e.Seed([]string{"Atlantis", "France"})
		next := e.ToggleLeaf(seeded, h, "Atlantis")
		assert.Equal(t, []string{"France"}, next.Selected)
	})

	t.Run("input state is not mutated", func(t *testing.T) {
		before := State{Selected: []string{"France"}}
		_ = e.ToggleLeaf(before, h, "Spain")
		_ = e.ToggleLeaf(before, h, "France")
		assert.Equal(t, []string{"France"}, before.Selected)
	})
}

func TestToggleLeafCountryScope(t *testing.T) {
	e := NewEngine(domain.VariantCountry)
	h := canadaHierarchy()

	t.Run("no root means no selection", func(t *testing.T) {
		s := e.ToggleLeaf(State{}, h, "Toronto, Ontario, Canada")
		assert.Empty(t, s.Selected)
	})

	t.Run("leaf from another root is ignored", func(t *testing.T) {
		s := e.ToggleLeaf(State{ActiveRoot: "France"}, h, "Toronto, Ontario, Canada")
		assert.Empty(t, s.Selected)
	})
}

func TestToggleSelectAllInBranch(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	h := regionHierarchy()

	t.Run("select all from wildcard", func(t *testing.T) {
		s := e.ToggleSelectAllInBranch(State{Wildcard: true}, h, "Asia")
		assert.False(t, s.Wildcard)
		assert.Equal(t, []string{"Japan", "India"}, s.Selected)
	})

	t.Run("deselect all keeps other branches", func(t *testing.T) {
		s := State{Selected: []string{"Japan", "France", "India"}}
		s = e.ToggleSelectAllInBranch(s, h, "Asia")
		assert.Equal(t, []string{"France"}, s.Selected)
	})

	t.Run("unknown branch is ignored", func(t *testing.T) {
		s := State{Selected: []string{"France"}}
		assert.Equal(t, s, e.ToggleSelectAllInBranch(s, h, "Antarctica"))
	})

	t.Run("empty branch is a no-op", func(t *testing.T) {
		s := State{Selected: []string{"France"}}
		assert.Equal(t, s, e.ToggleSelectAllInBranch(s, h, "Oceania"))

		wild := State{Wildcard: true}
		got := e.ToggleSelectAllInBranch(wild, h, "Oceania")
		assert.True(t, got.Wildcard, "an empty branch must not drop the wildcard")
		assert.Equal(t, wild, got)
		assert.True(t, e.CanCommit(got))
	})

	t.Run("branch outside the root is a no-op", func(t *testing.T) {
		ce := NewEngine(domain.VariantCountry)
		s := State{Wildcard: true, ActiveRoot: "France"}
		assert.Equal(t, s, ce.ToggleSelectAllInBranch(s, canadaHierarchy(), "Ontario"))
	})

	t.Run("matches repeated toggleLeaf", func(t *testing.T) {
		start := State{Selected: []string{"Italy"}}
		batch := e.ToggleSelectAllInBranch(start, h, "Europe")

		single := start
		for _, leaf := range []string{"France", "Germany", "Spain"} {
			single = e.ToggleLeaf(single, h, leaf)
		}
		assert.True(t, batch.Equivalent(single))
	})
}

func TestCountryStoredWorldwide(t *testing.T) {
	e := NewEngine(domain.VariantCountry)
	s := e.Seed([]string{"Worldwide"})

	assert.Equal(t, []string{"Worldwide"}, e.Result(s))
	assert.True(t, e.CanCommit(s))
	assert.True(t, e.Seed(e.Result(s)).Equivalent(s))

	// No country chosen yet, but the stored wildcard can still be cleared
	off := e.ToggleWildcard(s)
	assert.False(t, off.Wildcard)
	assert.False(t, e.CanCommit(off))
	assert.Equal(t, off, e.ToggleWildcard(off), "turning it back on needs a country")

	picked := e.SetActiveRoot(s, "Canada")
	assert.Equal(t, State{ActiveRoot: "Canada"}, picked)
}

func TestSetActiveRootSameRootIsIdempotent(t *testing.T) {
	e := NewEngine(domain.VariantCountry)
	s := State{ActiveRoot: "Canada", Selected: []string{"Toronto, Ontario, Canada"}, ExpandedBranch: "Ontario"}

	assert.Equal(t, s, e.SetActiveRoot(s, "Canada"))
}

func TestSetActiveRootIgnoredForRegionVariant(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	s := State{Selected: []string{"France"}}

	assert.Equal(t, s, e.SetActiveRoot(s, "Canada"))
}

func TestSetExpandedBranch(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	s := State{Selected: []string{"France"}}

	s = e.SetExpandedBranch(s, "Europe")
	assert.Equal(t, "Europe", s.ExpandedBranch)

	s = e.SetExpandedBranch(s, "Asia")
	assert.Equal(t, "Asia", s.ExpandedBranch)

	s = e.SetExpandedBranch(s, "Asia")
	assert.Equal(t, "", s.ExpandedBranch)
	assert.Equal(t, []string{"France"}, s.Selected)
}

func TestCoverage(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	h := regionHierarchy()

	assert.Equal(t, CoverageNone, e.Coverage(State{}, h, "Asia"))
	assert.Equal(t, CoveragePartial, e.Coverage(State{Selected: []string{"Japan"}}, h, "Asia"))
	assert.Equal(t, CoverageAll, e.Coverage(State{Selected: []string{"India", "Japan"}}, h, "Asia"))
	assert.Equal(t, CoverageNone, e.Coverage(State{}, h, "Oceania"))
	assert.Equal(t, 1, e.SelectedInBranch(State{Selected: []string{"Japan", "France"}}, h, "Asia"))
	assert.Equal(t, "partial", CoveragePartial.String())
}

func TestCoverageAfterHierarchyGrows(t *testing.T) {
	e := NewEngine(domain.VariantRegion)
	s := State{Selected: []string{"Japan", "India"}}

	before := regionHierarchy()
	require.Equal(t, CoverageAll, e.Coverage(s, before, "Asia"))

	after := domain.NewHierarchy(
		domain.HierarchyNode{Key: "Asia", Leaves: []string{"Japan", "India", "Vietnam"}},
	)
	assert.Equal(t, CoveragePartial, e.Coverage(s, after, "Asia"))

	s = e.ToggleSelectAllInBranch(s, after, "Asia")
	assert.Equal(t, []string{"Japan", "India", "Vietnam"}, s.Selected)
}

func TestNewEngineDefaultsToRegion(t *testing.T) {
	assert.Equal(t, domain.VariantRegion, NewEngine("bogus").Variant())
}
