package store

import (
	"sync"

	"workflow-engine/internal/events"
)

// EventStore keeps the most recent trigger events up to a fixed capacity,
// evicting oldest-first.
type EventStore struct {
	mu     sync.RWMutex
	events []*events.TriggerEvent
	cap    int
}

// NewEventStore creates an event store with the given capacity.
func NewEventStore(capacity int) *EventStore {
	return &EventStore{cap: capacity}
}

// Add stores an event, evicting the oldest once over capacity.
func (s *EventStore) Add(event *events.TriggerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.cap {
		s.events = s.events[1:]
	}
}

// All returns the stored events, oldest first.
func (s *EventStore) All() []*events.TriggerEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*events.TriggerEvent, len(s.events))
	copy(all, s.events)
	return all
}

// CountByKind returns how many stored events have the given kind.
func (s *EventStore) CountByKind(kind events.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, event := range s.events {
		if event.Kind == kind {
			count++
		}
	}
	return count
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
