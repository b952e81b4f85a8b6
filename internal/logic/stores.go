package logic

import (
	"sync"

	"geopick/internal/domain"
	"geopick/internal/eventbus"
)

// FieldValue is the stored list of one location field
type FieldValue struct {
	Name    string
	Variant domain.Variant
	Values  []string
}

// FieldStore provides access to stored field values
type FieldStore interface {
	GetField(name string) (FieldValue, bool)
	SetField(field FieldValue)
}

// MemoryFieldStore is an in-memory implementation of FieldStore
type MemoryFieldStore struct {
	mu     sync.RWMutex
	fields map[string]FieldValue
}

// NewMemoryFieldStore creates a new memory-based field store
func NewMemoryFieldStore() *MemoryFieldStore {
	return &MemoryFieldStore{
		fields: make(map[string]FieldValue),
	}
}

func (s *MemoryFieldStore) GetField(name string) (FieldValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fields[name]
	if !ok {
		return FieldValue{}, false
	}
	return copyField(f), true
}

func (s *MemoryFieldStore) SetField(field FieldValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[field.Name] = copyField(field)
}

// RecordCommits keeps store in step with committed sessions. onCommit, when
// set, runs after the store has been updated. The returned func unsubscribes.
func RecordCommits(bus eventbus.EventBus, store FieldStore, onCommit func(FieldValue)) func() {
	return bus.Subscribe(eventbus.EventSelectionCommitted, func(e eventbus.DomainEvent) {
		event, ok := e.(eventbus.SelectionCommittedEvent)
		if !ok {
			return
		}
		field := FieldValue{Name: event.Field, Variant: event.Variant, Values: event.Values}
		store.SetField(field)
		if onCommit != nil {
			onCommit(copyField(field))
		}
	})
}

func copyField(f FieldValue) FieldValue {
	f.Values = append([]string(nil), f.Values...)
	return f
}
