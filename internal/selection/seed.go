package selection

import (
	"strings"

	"geopick/internal/domain"
)

// Seed rebuilds a State from a previously saved result list.
//
// ["Worldwide"] and any "Anywhere in <X>" entry restore the wildcard. Other
// entries become selected leaves in their original order; strings that match
// no known pattern are kept as literal leaves. The country variant takes its
// root from the first "City, Province, Country" entry and drops entries that
// name a different country.
func (e *Engine) Seed(list []string) State {
	if len(list) == 0 {
		return State{}
	}

	if len(list) == 1 && list[0] == domain.WorldwideLabel {
		return State{Wildcard: true}
	}

	for _, entry := range list {
		if root, ok := parseAnywhere(entry); ok {
			s := State{Wildcard: true}
			if e.variant.HasRoot() {
				s.ActiveRoot = root
			}
			return s
		}
	}

	leaves := dedupe(list)
	if !e.variant.HasRoot() {
		return State{Selected: leaves}
	}

	root := ""
	for _, leaf := range leaves {
		if r, ok := domain.RootOfLeaf(leaf); ok {
			root = r
			break
		}
	}

	kept := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		if r, ok := domain.RootOfLeaf(leaf); ok && r != root {
			continue
		}
		kept = append(kept, leaf)
	}
	return State{Selected: kept, ActiveRoot: root}
}

func parseAnywhere(entry string) (string, bool) {
	if !strings.HasPrefix(entry, domain.AnywherePrefix) {
		return "", false
	}
	root := strings.TrimSpace(strings.TrimPrefix(entry, domain.AnywherePrefix))
	if root == "" {
		return "", false
	}
	return root, true
}
