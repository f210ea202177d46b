package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/delivery"
	"workflow-engine/internal/events"
	"workflow-engine/internal/triggers"
	"workflow-engine/internal/workflows"
)

type createWorkflowRequest struct {
	Query            string   `json:"query" validate:"required"`
	UseSmart         bool     `json:"use_smart"`
	TriggerType      string   `json:"trigger_type"`
	Actions          []string `json:"actions"`
	OutputPreference string   `json:"output_preference"`
	Condition        string   `json:"condition"`
}

// CreateWorkflow classifies the query into an intent, stores the workflow,
// and makes sure the trigger for its kind exists and is running. Explicit
// request fields override the classified intent.
func (h *Handlers) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	classifier := h.classifier
	if !req.UseSmart {
		classifier = workflows.KeywordClassifier{}
	}
	intent, err := classifier.Classify(r.Context(), req.Query)
	if err != nil {
		respondError(w, http.StatusOK, "failed to classify query: "+err.Error())
		return
	}

	if req.TriggerType != "" {
		intent.TriggerType = events.Kind(req.TriggerType)
	}
	if len(req.Actions) > 0 {
		intent.Actions = req.Actions
	}
	if req.OutputPreference != "" {
		intent.OutputMethod = delivery.Method(req.OutputPreference)
	}

	if req.Condition != "" {
		if err := workflows.CompileCondition(req.Condition); err != nil {
			respondError(w, http.StatusBadRequest, "invalid condition: "+err.Error())
			return
		}
	}

	workflow := h.workflows.Add(&workflows.Workflow{
		Query:            req.Query,
		TriggerType:      intent.TriggerType,
		Condition:        req.Condition,
		Actions:          intent.Actions,
		OutputPreference: intent.OutputMethod,
		Confidence:       intent.Confidence,
		SmartCreated:     req.UseSmart,
	})

	h.ensureTrigger(workflow.TriggerType)

	h.logger.Info("Workflow created",
		logging.Field{Key: "workflow_id", Value: workflow.ID},
		logging.Field{Key: "trigger_type", Value: string(workflow.TriggerType)},
		logging.Field{Key: "smart", Value: workflow.SmartCreated},
	)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "created",
		"workflow": workflow,
	})
}

// ensureTrigger registers and starts the trigger variant serving the given
// event kind. Registration is idempotent; failures are logged, never
// surfaced, since the workflow itself was stored.
func (h *Handlers) ensureTrigger(kind events.Kind) {
	var cfg triggers.Config
	switch kind {
	case events.KindFileDownload:
		cfg = triggers.Config{
			Type:    string(events.TriggerFileWatcher),
			Enabled: true,
			Settings: map[string]interface{}{
				"folder_path": h.config.WatchDir,
				"file_filter": h.config.FileFilter,
			},
		}
	case events.KindEmailCompose, events.KindArticleRead:
		cfg = triggers.Config{
			Type:    string(events.TriggerBrowserEvent),
			Enabled: true,
			Settings: map[string]interface{}{
				"event": string(kind),
			},
		}
	default:
		return
	}

	if _, err := h.registry.AddTrigger(cfg); err != nil {
		h.logger.Error("Failed to add trigger", err,
			logging.Field{Key: "trigger_type", Value: cfg.Type},
		)
		return
	}
	h.registry.StartAll()
}

// GetWorkflows lists all workflows in insertion order.
func (h *Handlers) GetWorkflows(w http.ResponseWriter, r *http.Request) {
	all := h.workflows.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"workflows": all,
		"count":     len(all),
	})
}

// DeleteWorkflow removes a workflow by ID.
func (h *Handlers) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid workflow ID")
		return
	}

	if !h.workflows.Remove(id) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "not_found"})
		return
	}

	h.logger.Info("Workflow deleted",
		logging.Field{Key: "workflow_id", Value: id},
	)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type analyzeQueryRequest struct {
	Query string `json:"query" validate:"required"`
}

// AnalyzeQuery classifies a query without creating a workflow and returns
// recommendations for improving it.
func (h *Handlers) AnalyzeQuery(w http.ResponseWriter, r *http.Request) {
	var req analyzeQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	analysis, err := workflows.Analyze(r.Context(), h.classifier, req.Query)
	if err != nil {
		respondError(w, http.StatusOK, "failed to analyze query: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}
