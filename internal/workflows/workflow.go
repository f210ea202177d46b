// Package workflows holds user-declared workflows and the intent
// classification that turns a free-text query into one. A workflow binds a
// trigger kind to an instruction and a delivery preference; the store owns
// workflow lifetime and preserves insertion order for matching.
package workflows

import (
	"sync"
	"time"

	"workflow-engine/internal/delivery"
	"workflow-engine/internal/events"
)

// Status is the lifecycle state of a workflow.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Workflow is a user-declared binding of a trigger kind to a free-text
// instruction and a delivery preference. It is never mutated mid-flight by
// the orchestrator; deletion flips the status and removes it from the store.
type Workflow struct {
	ID               int                    `json:"id"`
	Query            string                 `json:"query"`
	TriggerType      events.Kind            `json:"trigger_type"`
	Conditions       map[string]interface{} `json:"conditions,omitempty"`
	Condition        string                 `json:"condition,omitempty"`
	Actions          []string               `json:"actions"`
	OutputPreference delivery.Method        `json:"output_preference"`
	Confidence       float64                `json:"confidence,omitempty"`
	SmartCreated     bool                   `json:"smart_created"`
	Status           Status                 `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Store is the ordered collection of workflows. IDs increase monotonically
// for the life of the process.
type Store struct {
	mu        sync.RWMutex
	workflows []*Workflow
	nextID    int
}

// NewStore creates an empty workflow store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add assigns the next ID, marks the workflow active, and appends it.
func (s *Store) Add(workflow *Workflow) *Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()

	workflow.ID = s.nextID
	s.nextID++
	workflow.Status = StatusActive
	workflow.CreatedAt = time.Now()
	s.workflows = append(s.workflows, workflow)
	return workflow
}

// All returns the workflows in insertion order.
func (s *Store) All() []*Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*Workflow, len(s.workflows))
	copy(all, s.workflows)
	return all
}

// Remove deletes a workflow by ID. The status is flipped to deleted before
// removal so any goroutine still holding a reference observes the change.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, workflow := range s.workflows {
		if workflow.ID == id {
			workflow.Status = StatusDeleted
			s.workflows = append(s.workflows[:i], s.workflows[i+1:]...)
			return true
		}
	}
	return false
}

// ActiveCount returns the number of active workflows.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, workflow := range s.workflows {
		if workflow.Status == StatusActive {
			count++
		}
	}
	return count
}

// Match returns the first active workflow, in insertion order, whose trigger
// type equals the event's kind and whose condition (if any) accepts the
// event payload. Only one match is taken even when several qualify.
func (s *Store) Match(event *events.TriggerEvent) *Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, workflow := range s.workflows {
		if workflow.Status != StatusActive {
			continue
		}
		if workflow.TriggerType != event.Kind {
			continue
		}
		if workflow.Condition != "" {
			ok, err := EvaluateCondition(workflow.Condition, event.Payload)
			if err != nil || !ok {
				continue
			}
		}
		return workflow
	}
	return nil
}
