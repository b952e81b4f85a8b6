// Package session owns one open/close cycle of a location picker: it seeds the
// selection from a stored field value, loads hierarchy data from a provider,
// applies user transitions and hands back the committed list.
package session

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"geopick/internal/domain"
	"geopick/internal/eventbus"
	"geopick/internal/hierarchy"
	"geopick/internal/selection"
)

// ErrNothingSelected is returned by Commit when the result would be empty
var ErrNothingSelected = errors.New("nothing selected")

// ErrClosed is returned when a committed or cancelled session is used again
var ErrClosed = errors.New("session closed")

// Status describes whether hierarchy data is available
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Options configures a new session
type Options struct {
	Field    string
	Variant  domain.Variant
	Seed     []string
	Provider hierarchy.Source
	Bus      eventbus.EventBus
}

// Session is safe for use from the UI goroutine and a loader goroutine
type Session struct {
	mu sync.RWMutex

	id       string
	field    string
	seedList []string
	engine   *selection.Engine
	provider hierarchy.Source
	bus      eventbus.EventBus

	seed      selection.State
	state     selection.State
	hierarchy domain.Hierarchy
	roots     []string
	status    Status
	err       error
	closed    bool
}

// New creates a session seeded from opts.Seed. It starts in StatusLoading
// until Load completes.
func New(opts Options) *Session {
	bus := opts.Bus
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	engine := selection.NewEngine(opts.Variant)
	seed := engine.Seed(opts.Seed)
	return &Session{
		id:       uuid.NewString(),
		field:    opts.Field,
		seedList: append([]string(nil), opts.Seed...),
		engine:   engine,
		provider: opts.Provider,
		bus:      bus,
		seed:     seed,
		state:    seed.Clone(),
		status:   StatusLoading,
	}
}

// Open announces the session and performs the initial load
func (s *Session) Open(ctx context.Context) error {
	s.bus.Publish(domain.SessionOpenedEvent{
		SessionID: s.id,
		Field:     s.field,
		Variant:   s.engine.Variant(),
		Seed:      append([]string(nil), s.seedList...),
	})
	return s.Load(ctx)
}

// Load fetches hierarchy data for the current state. On failure the session
// stays usable with an empty hierarchy and StatusUnavailable.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.status = StatusLoading
	s.err = nil
	root := s.state.ActiveRoot
	needRoots := s.roots == nil
	s.mu.Unlock()

	h, roots, err := s.fetch(ctx, root, needRoots)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ActiveRoot != root {
		// root changed underneath us; the newer load wins
		return nil
	}
	if roots != nil {
		s.roots = roots
	}
	if err != nil {
		s.status = StatusUnavailable
		s.err = err
		s.hierarchy = domain.Hierarchy{}
		log.Printf("session %s: hierarchy unavailable: %v", s.id, err)
		s.bus.Publish(domain.ProviderUnavailableEvent{SessionID: s.id, Root: root, Err: err})
		return err
	}
	s.status = StatusReady
	s.hierarchy = h
	s.bus.Publish(domain.HierarchyLoadedEvent{
		SessionID: s.id,
		Root:      root,
		Branches:  len(h.Nodes),
		Leaves:    h.LeafCount(),
	})
	return nil
}

// Retry re-runs Load after a provider failure
func (s *Session) Retry(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Session) fetch(ctx context.Context, root string, needRoots bool) (domain.Hierarchy, []string, error) {
	if s.provider == nil {
		return domain.Hierarchy{}, nil, hierarchy.Unavailable("fetch", errors.New("no provider configured"))
	}
	if !s.engine.Variant().HasRoot() {
		s.bus.Publish(domain.HierarchyRequestedEvent{SessionID: s.id})
		h, err := s.provider.FetchHierarchy(ctx)
		return h, nil, err
	}

	var roots []string
	if needRoots {
		s.bus.Publish(domain.HierarchyRequestedEvent{SessionID: s.id})
		r, err := s.provider.FetchRoots(ctx)
		if err != nil {
			return domain.Hierarchy{}, nil, err
		}
		roots = r
		if roots == nil {
			roots = []string{}
		}
	}
	if root == "" {
		return domain.Hierarchy{}, roots, nil
	}
	s.bus.Publish(domain.HierarchyRequestedEvent{SessionID: s.id, Root: root})
	h, err := s.provider.FetchBranches(ctx, root)
	return h, roots, err
}

// apply runs a transition unless the session is loading or closed, and
// publishes SelectionChanged when the result list moved
func (s *Session) apply(fn func(st selection.State) selection.State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.status == StatusLoading {
		return false
	}
	next := fn(s.state)
	if sameState(next, s.state) {
		return false
	}
	before := s.engine.Result(s.state)
	s.state = next
	after := s.engine.Result(next)
	if !sameValues(before, after) {
		s.bus.Publish(domain.SelectionChangedEvent{SessionID: s.id, Values: after})
	}
	return true
}

// ToggleWildcard flips "Worldwide" / "Anywhere in <root>"
func (s *Session) ToggleWildcard() bool {
	return s.apply(s.engine.ToggleWildcard)
}

// ToggleLeaf flips one leaf of the loaded hierarchy
func (s *Session) ToggleLeaf(leaf string) bool {
	return s.apply(func(st selection.State) selection.State {
		return s.engine.ToggleLeaf(st, s.hierarchy, leaf)
	})
}

// ToggleSelectAll selects or clears every leaf of branch
func (s *Session) ToggleSelectAll(branch string) bool {
	return s.apply(func(st selection.State) selection.State {
		return s.engine.ToggleSelectAllInBranch(st, s.hierarchy, branch)
	})
}

// ToggleBranch expands or collapses branch
func (s *Session) ToggleBranch(branch string) bool {
	return s.apply(func(st selection.State) selection.State {
		return s.engine.SetExpandedBranch(st, branch)
	})
}

// SelectRoot switches the active country. A real change clears the
// selection and hierarchy and leaves the session loading until Load runs.
func (s *Session) SelectRoot(root string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.status == StatusLoading {
		return false
	}
	next := s.engine.SetActiveRoot(s.state, root)
	if sameState(next, s.state) {
		return false
	}
	hadValues := s.engine.CanCommit(s.state)
	s.state = next
	s.hierarchy = domain.Hierarchy{}
	s.status = StatusLoading
	if hadValues {
		s.bus.Publish(domain.SelectionChangedEvent{SessionID: s.id, Values: s.engine.Result(next)})
	}
	return true
}

// Commit closes the session and returns the list to persist
func (s *Session) Commit() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if !s.engine.CanCommit(s.state) {
		return nil, ErrNothingSelected
	}
	s.closed = true
	values := s.engine.Result(s.state)
	s.bus.Publish(domain.SelectionCommittedEvent{
		SessionID: s.id,
		Field:     s.field,
		Variant:   s.engine.Variant(),
		Values:    append([]string(nil), values...),
	})
	return values, nil
}

// Cancel discards the working state and closes the session
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.state = s.seed.Clone()
	s.bus.Publish(domain.SelectionCancelledEvent{SessionID: s.id, Field: s.field})
}

// Dirty reports whether the working result differs from the seeded one
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !sameValues(s.engine.Result(s.state), s.engine.Result(s.seed))
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Field returns the form field being edited
func (s *Session) Field() string { return s.field }

// Variant returns the picker variant
func (s *Session) Variant() domain.Variant { return s.engine.Variant() }

// Status returns the load status
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the last provider error, if any
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Closed reports whether Commit or Cancel has run
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// State returns a copy of the working state
func (s *Session) State() selection.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Hierarchy returns the loaded branches
func (s *Session) Hierarchy() domain.Hierarchy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hierarchy
}

// Roots returns the available countries (country variant only)
func (s *Session) Roots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.roots...)
}

// Result returns what Commit would return now
func (s *Session) Result() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Result(s.state)
}

// CanCommit reports whether Commit would succeed
func (s *Session) CanCommit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && s.engine.CanCommit(s.state)
}

// Coverage reports selection coverage of branch
func (s *Session) Coverage(branch string) selection.Coverage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Coverage(s.state, s.hierarchy, branch)
}

// SelectedInBranch counts selected leaves under branch
func (s *Session) SelectedInBranch(branch string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.SelectedInBranch(s.state, s.hierarchy, branch)
}

// WildcardLabel returns the label shown for the wildcard line
func (s *Session) WildcardLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Variant().WildcardLabel(s.state.ActiveRoot)
}

func sameState(a, b selection.State) bool {
	if a.Wildcard != b.Wildcard || a.ActiveRoot != b.ActiveRoot || a.ExpandedBranch != b.ExpandedBranch {
		return false
	}
	if len(a.Selected) != len(b.Selected) {
		return false
	}
	for i := range a.Selected {
		if a.Selected[i] != b.Selected[i] {
			return false
		}
	}
	return true
}

func sameValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
