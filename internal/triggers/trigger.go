// Package triggers defines the trigger abstraction and the registry that
// owns live trigger instances. A trigger watches for one class of real-world
// occurrences and fires events through its registered callbacks.
package triggers

import (
	"context"
	"sync"

	"workflow-engine/internal/events"
)

// Handler is invoked synchronously for every event a trigger fires.
type Handler func(event *events.TriggerEvent)

// Trigger is the contract all trigger variants implement.
type Trigger interface {
	// Kind reports which trigger variant this is.
	Kind() events.TriggerKind

	// RegisterCallback appends a handler to the callback list. Callbacks run
	// synchronously, in registration order, for every fired event.
	RegisterCallback(handler Handler)

	// Start begins monitoring. Starting an already running trigger fails
	// fast with ErrTriggerAlreadyRunning; it never creates a second monitor.
	// If the underlying watch cannot be established, Start returns the error
	// synchronously rather than degrading to a non-functioning watcher.
	Start(ctx context.Context) error

	// Stop halts monitoring and releases any OS-level watch handle. Events
	// already dispatched keep processing; Stop only prevents new ones.
	Stop() error

	// IsRunning reports whether the trigger is currently monitoring.
	IsRunning() bool
}

// Config describes a trigger to be constructed by the registry.
type Config struct {
	Type     string                 `json:"type"`
	Enabled  bool                   `json:"enabled"`
	Settings map[string]interface{} `json:"settings,omitempty"`
}

// StringSetting reads a string value from the config settings.
func (c Config) StringSetting(key, fallback string) string {
	if v, ok := c.Settings[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Base carries the state shared by all trigger variants: the enabled flag,
// the ordered callback list, and the running flag. Variants embed it and
// call Fire when they detect an occurrence.
type Base struct {
	kind      events.TriggerKind
	enabled   bool
	mu        sync.RWMutex
	callbacks []Handler
	running   bool
}

// NewBase creates trigger base state for the given variant.
func NewBase(kind events.TriggerKind, enabled bool) Base {
	return Base{kind: kind, enabled: enabled}
}

// Kind reports the trigger variant.
func (b *Base) Kind() events.TriggerKind {
	return b.kind
}

// RegisterCallback appends a handler to the callback list.
func (b *Base) RegisterCallback(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, handler)
}

// Fire builds an event from the payload and invokes every registered
// callback in registration order. It is a no-op when the trigger is
// disabled.
func (b *Base) Fire(payload map[string]interface{}) {
	b.mu.RLock()
	enabled := b.enabled
	callbacks := make([]Handler, len(b.callbacks))
	copy(callbacks, b.callbacks)
	b.mu.RUnlock()

	if !enabled {
		return
	}

	event := events.New(b.kind, payload)
	for _, callback := range callbacks {
		callback(event)
	}
}

// IsRunning reports whether the trigger is monitoring.
func (b *Base) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

// setRunning flips the running flag; it returns false when the flag already
// had the requested value, which callers translate into the already-running
// or not-running errors.
func (b *Base) setRunning(running bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running == running {
		return false
	}
	b.running = running
	return true
}

// MarkStarted transitions to running, failing if already running.
func (b *Base) MarkStarted() error {
	if !b.setRunning(true) {
		return ErrTriggerAlreadyRunning
	}
	return nil
}

// MarkStopped transitions to stopped, failing if not running.
func (b *Base) MarkStopped() error {
	if !b.setRunning(false) {
		return ErrTriggerNotRunning
	}
	return nil
}
