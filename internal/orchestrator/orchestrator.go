// Package orchestrator drives an event from ingestion to delivery: dedup,
// workflow matching, action execution, result persistence, and delivery.
// Each event is processed on its own goroutine; results are persisted before
// delivery so a delivery failure never loses the result.
package orchestrator

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/delivery"
	"workflow-engine/internal/events"
	"workflow-engine/internal/executor"
	"workflow-engine/internal/store"
	"workflow-engine/internal/workflows"
)

// Disposition is the terminal state of one event's pass through the engine.
type Disposition string

const (
	// DispositionDuplicate means the event was dropped by the dedup gate.
	DispositionDuplicate Disposition = "duplicate"
	// DispositionNoMatch means no active workflow matched the event.
	DispositionNoMatch Disposition = "no_match"
	// DispositionProcessed means a workflow ran and delivery was attempted.
	DispositionProcessed Disposition = "processed"
)

// Orchestrator wires the engine's stages together.
type Orchestrator struct {
	dedup      *gocache.Cache
	dedupTTL   time.Duration
	workflows  *workflows.Store
	executor   *executor.Executor
	dispatcher *delivery.Dispatcher
	events     *store.EventStore
	results    *store.ResultStore
	timeout    time.Duration
	logger     logging.Logger
}

// New creates an orchestrator. The dedup window and processing timeout come
// from configuration.
func New(
	workflowStore *workflows.Store,
	exec *executor.Executor,
	dispatcher *delivery.Dispatcher,
	eventStore *store.EventStore,
	resultStore *store.ResultStore,
	dedupTTL time.Duration,
	timeout time.Duration,
	logger logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		dedup:      gocache.New(dedupTTL, 2*dedupTTL),
		dedupTTL:   dedupTTL,
		workflows:  workflowStore,
		executor:   exec,
		dispatcher: dispatcher,
		events:     eventStore,
		results:    resultStore,
		timeout:    timeout,
		logger:     logger.WithFields(logging.Field{Key: "component", Value: "orchestrator"}),
	}
}

// HandleEvent is the callback registered on every trigger. It records the
// event, applies the dedup gate, and processes matches on a fresh goroutine
// so trigger loops are never blocked by execution or delivery.
func (o *Orchestrator) HandleEvent(event *events.TriggerEvent) {
	o.events.Add(event)

	if !o.admit(event) {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()
		o.process(ctx, event)
	}()
}

// ProcessEvent runs the full pipeline synchronously and reports where the
// event ended up. Used by the ingestion endpoint, which answers with the
// delivery outcome.
func (o *Orchestrator) ProcessEvent(ctx context.Context, event *events.TriggerEvent) (Disposition, *delivery.Outcome) {
	o.events.Add(event)

	if !o.admit(event) {
		return DispositionDuplicate, nil
	}
	return o.process(ctx, event)
}

// admit applies the dedup gate. Add is an atomic check-and-insert, so two
// concurrent reports of the same occurrence admit exactly one.
func (o *Orchestrator) admit(event *events.TriggerEvent) bool {
	key := event.DedupKey()
	if err := o.dedup.Add(key, struct{}{}, o.dedupTTL); err != nil {
		o.logger.Debug("Duplicate event dropped",
			logging.Field{Key: "event_id", Value: event.ID},
			logging.Field{Key: "dedup_key", Value: key},
		)
		return false
	}
	return true
}

func (o *Orchestrator) process(ctx context.Context, event *events.TriggerEvent) (Disposition, *delivery.Outcome) {
	workflow := o.workflows.Match(event)
	if workflow == nil {
		o.logger.Debug("No workflow matched",
			logging.Field{Key: "event_id", Value: event.ID},
			logging.Field{Key: "event_type", Value: event.Kind},
		)
		return DispositionNoMatch, nil
	}

	o.logger.Info("Workflow matched",
		logging.Field{Key: "workflow_id", Value: workflow.ID},
		logging.Field{Key: "event_id", Value: event.ID},
		logging.Field{Key: "event_type", Value: event.Kind},
	)

	executions := o.executor.Execute(ctx, workflow, event)

	results := make([]*store.Result, 0, len(executions))
	for _, execution := range executions {
		title := execution.Action
		if title == "" {
			title = workflow.Query
		}
		result := &store.Result{
			Title:     title,
			Content:   execution.Output,
			Success:   execution.Success,
			EventType: event.Kind,
		}
		o.results.Add(result)
		results = append(results, result)
	}

	outcome := o.dispatcher.Deliver(ctx, results, workflow.OutputPreference, event)

	o.logger.Info("Event processed",
		logging.Field{Key: "event_id", Value: event.ID},
		logging.Field{Key: "workflow_id", Value: workflow.ID},
		logging.Field{Key: "delivery_method", Value: string(outcome.Method)},
		logging.Field{Key: "delivery_status", Value: string(outcome.Status)},
	)
	return DispositionProcessed, outcome
}
