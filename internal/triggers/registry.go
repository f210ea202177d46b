package triggers

import (
	"context"
	"sync"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
)

// Factory constructs a trigger variant from its config.
type Factory func(config Config) (Trigger, error)

// Registry holds the live trigger set. It enforces the
// single-instance-per-kind invariant: at most one active trigger exists per
// trigger kind, so one physical occurrence never fires twice.
type Registry struct {
	factories map[string]Factory
	live      map[events.TriggerKind]Trigger
	handler   Handler
	mu        sync.RWMutex
	ctx       context.Context
	logger    logging.Logger
}

// NewRegistry creates a registry with no factories registered.
func NewRegistry(ctx context.Context, logger logging.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		live:      make(map[events.TriggerKind]Trigger),
		ctx:       ctx,
		logger:    logger.WithFields(logging.Field{Key: "component", Value: "trigger_registry"}),
	}
}

// RegisterFactory makes a trigger type constructible via AddTrigger.
func (r *Registry) RegisterFactory(triggerType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[triggerType] = factory
}

// AddTrigger validates the config type against the known variant set,
// constructs the variant, and adds it to the live set. When a trigger of the
// same kind already exists, the existing instance is returned instead of
// constructing a duplicate.
func (r *Registry) AddTrigger(config Config) (Trigger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	factory, known := r.factories[config.Type]
	if !known {
		return nil, ErrUnknownTriggerType
	}

	kind := events.TriggerKind(config.Type)
	if existing, ok := r.live[kind]; ok {
		r.logger.Debug("Trigger already registered for kind",
			logging.Field{Key: "kind", Value: string(kind)},
		)
		return existing, nil
	}

	trigger, err := factory(config)
	if err != nil {
		return nil, err
	}

	if r.handler != nil {
		trigger.RegisterCallback(r.handler)
	}
	r.live[kind] = trigger
	r.logger.Info("Trigger added",
		logging.Field{Key: "kind", Value: string(kind)},
	)
	return trigger, nil
}

// Get returns the live trigger for a kind, if any.
func (r *Registry) Get(kind events.TriggerKind) (Trigger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trigger, ok := r.live[kind]
	return trigger, ok
}

// All returns a snapshot of the live trigger set.
func (r *Registry) All() []Trigger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Trigger, 0, len(r.live))
	for _, trigger := range r.live {
		all = append(all, trigger)
	}
	return all
}

// OnTriggerEvent attaches a callback to every currently registered trigger
// and records it so triggers constructed later receive it too.
func (r *Registry) OnTriggerEvent(handler Handler) {
	r.mu.Lock()
	r.handler = handler
	r.mu.Unlock()

	for _, trigger := range r.All() {
		trigger.RegisterCallback(handler)
	}
}

// StartAll starts every registered trigger. Individual start failures are
// logged and do not abort the remaining starts.
func (r *Registry) StartAll() {
	for _, trigger := range r.All() {
		if trigger.IsRunning() {
			continue
		}
		if err := trigger.Start(r.ctx); err != nil {
			r.logger.Error("Failed to start trigger", err,
				logging.Field{Key: "kind", Value: string(trigger.Kind())},
			)
		}
	}
}

// StopAll stops every running trigger, logging individual failures.
func (r *Registry) StopAll() {
	for _, trigger := range r.All() {
		if !trigger.IsRunning() {
			continue
		}
		if err := trigger.Stop(); err != nil {
			r.logger.Error("Failed to stop trigger", err,
				logging.Field{Key: "kind", Value: string(trigger.Kind())},
			)
		}
	}
}
