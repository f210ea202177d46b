package executor

import (
	"context"
	"fmt"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
	"workflow-engine/internal/workflows"
)

// Execution is the outcome of running one workflow action.
type Execution struct {
	Action  string `json:"action"`
	Output  string `json:"output"`
	Success bool   `json:"success"`
}

// Executor runs a workflow's actions against the content extracted from a
// trigger event.
type Executor struct {
	extractor *Extractor
	processor Processor
	logger    logging.Logger
}

// New creates an executor.
func New(extractor *Extractor, processor Processor, logger logging.Logger) *Executor {
	return &Executor{
		extractor: extractor,
		processor: processor,
		logger:    logger.WithFields(logging.Field{Key: "component", Value: "executor"}),
	}
}

// Execute extracts content from the event and runs each action through the
// processor. Every action yields an execution; failures are carried in the
// execution rather than returned, so a workflow always produces results.
func (e *Executor) Execute(ctx context.Context, workflow *workflows.Workflow, event *events.TriggerEvent) (executions []Execution) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Execution panicked", fmt.Errorf("%v", r),
				logging.Field{Key: "workflow_id", Value: workflow.ID},
				logging.Field{Key: "event_id", Value: event.ID},
			)
			executions = []Execution{{
				Output:  fmt.Sprintf("Processing failed: %v", r),
				Success: false,
			}}
		}
	}()

	content := e.extractor.Extract(event)
	if content == "" {
		e.logger.Warn("No extractable content",
			logging.Field{Key: "event_id", Value: event.ID},
			logging.Field{Key: "event_type", Value: event.Kind},
		)
		return []Execution{{
			Output:  "No content available to process",
			Success: false,
		}}
	}

	for _, action := range workflow.Actions {
		output, err := e.processor.Process(ctx, action, content)
		if err != nil {
			e.logger.Error("Action failed", err,
				logging.Field{Key: "workflow_id", Value: workflow.ID},
				logging.Field{Key: "action", Value: action},
			)
			executions = append(executions, Execution{
				Action:  action,
				Output:  fmt.Sprintf("Processing failed: %v", err),
				Success: false,
			})
			continue
		}
		executions = append(executions, Execution{
			Action:  action,
			Output:  output,
			Success: true,
		})
	}
	return executions
}
