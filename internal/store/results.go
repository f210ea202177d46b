// Package store holds the process-lifetime state of the engine: the bounded
// event and result stores and the workflow store. Nothing here survives a
// restart; persistence is intentionally out of scope.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"workflow-engine/internal/events"
)

// Result is what one matched event ultimately produced.
type Result struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Title     string      `json:"title"`
	Success   bool        `json:"success"`
	CreatedAt time.Time   `json:"created_at"`
	EventType events.Kind `json:"event_type"`
}

// ResultStore keeps the most recent results up to a fixed capacity. Once the
// capacity is exceeded the oldest result by creation time is evicted.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]*Result
	order   []string
	cap     int
}

// NewResultStore creates a result store with the given capacity.
func NewResultStore(capacity int) *ResultStore {
	return &ResultStore{
		results: make(map[string]*Result),
		cap:     capacity,
	}
}

// Add stores a result, assigning an ID and creation time when absent, and
// evicts the oldest entry if the store is over capacity. It returns the
// stored result's ID.
func (s *ResultStore) Add(result *Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	s.results[result.ID] = result
	s.order = append(s.order, result.ID)

	if len(s.order) > s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.results, oldest)
	}

	return result.ID
}

// Get returns a result by ID.
func (s *ResultStore) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	return result, ok
}

// All returns the stored results, oldest first.
func (s *ResultStore) All() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*Result, 0, len(s.order))
	for _, id := range s.order {
		if result, ok := s.results[id]; ok {
			all = append(all, result)
		}
	}
	return all
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
