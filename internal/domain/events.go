package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSessionOpened       EventType = "SessionOpened"
	EventHierarchyRequested  EventType = "HierarchyRequested"
	EventHierarchyLoaded     EventType = "HierarchyLoaded"
	EventProviderUnavailable EventType = "ProviderUnavailable"
	EventSelectionChanged    EventType = "SelectionChanged"
	EventSelectionCommitted  EventType = "SelectionCommitted"
	EventSelectionCancelled  EventType = "SelectionCancelled"
	EventError               EventType = "Error"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SessionOpenedEvent is emitted when a picker session starts
type SessionOpenedEvent struct {
	SessionID string
	Field     string
	Variant   Variant
	Seed      []string
}

func (e SessionOpenedEvent) Type() EventType { return EventSessionOpened }

// HierarchyRequestedEvent is emitted before a provider fetch
type HierarchyRequestedEvent struct {
	SessionID string
	Root      string // empty for the region variant or the roots list
}

func (e HierarchyRequestedEvent) Type() EventType { return EventHierarchyRequested }

// HierarchyLoadedEvent is emitted when provider data arrives
type HierarchyLoadedEvent struct {
	SessionID string
	Root      string
	Branches  int
	Leaves    int
}

func (e HierarchyLoadedEvent) Type() EventType { return EventHierarchyLoaded }

// ProviderUnavailableEvent is emitted when a fetch fails
type ProviderUnavailableEvent struct {
	SessionID string
	Root      string
	Err       error
}

func (e ProviderUnavailableEvent) Type() EventType { return EventProviderUnavailable }

// SelectionChangedEvent is emitted after every accepted transition
type SelectionChangedEvent struct {
	SessionID string
	Values    []string
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// SelectionCommittedEvent is emitted when the user saves a selection
type SelectionCommittedEvent struct {
	SessionID string
	Field     string
	Variant   Variant
	Values    []string
}

func (e SelectionCommittedEvent) Type() EventType { return EventSelectionCommitted }

// SelectionCancelledEvent is emitted when a session is discarded
type SelectionCancelledEvent struct {
	SessionID string
	Field     string
}

func (e SelectionCancelledEvent) Type() EventType { return EventSelectionCancelled }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	Fields int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
