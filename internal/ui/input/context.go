package input

import (
	"geopick/internal/session"
	"geopick/internal/ui/input/types"
)

// SessionContext implements the Context interface for the input handler
type SessionContext struct {
	Session        *session.Session
	Pane           types.Pane
	Filter         string
	ConfirmOnClose bool
}

// Focus returns the pane holding the cursor
func (c *SessionContext) Focus() types.Pane {
	return c.Pane
}

// Loading reports whether hierarchy data is in flight
func (c *SessionContext) Loading() bool {
	return c.Session.Status() == session.StatusLoading
}

// Unavailable reports whether the last load failed
func (c *SessionContext) Unavailable() bool {
	return c.Session.Status() == session.StatusUnavailable
}

// HasRoots reports whether a root can be chosen
func (c *SessionContext) HasRoots() bool {
	return c.Session.Variant().HasRoot() && len(c.Session.Roots()) > 0
}

// HasRoot reports whether a root is active
func (c *SessionContext) HasRoot() bool {
	return c.Session.State().ActiveRoot != ""
}

func (c *SessionContext) CanCommit() bool {
	return c.Session.CanCommit()
}

func (c *SessionContext) Dirty() bool {
	return c.Session.Dirty()
}

func (c *SessionContext) ConfirmDiscard() bool {
	return c.ConfirmOnClose
}

func (c *SessionContext) FilterQuery() string {
	return c.Filter
}
