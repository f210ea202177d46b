// Package handlers implements the HTTP surface of the engine: event
// ingestion, workflow CRUD, stored events and results, stats, ad-hoc email
// delivery, and query analysis.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/config"
	"workflow-engine/internal/delivery"
	"workflow-engine/internal/orchestrator"
	"workflow-engine/internal/store"
	"workflow-engine/internal/triggers"
	"workflow-engine/internal/workflows"
)

type Handlers struct {
	config       *config.Config
	orchestrator *orchestrator.Orchestrator
	registry     *triggers.Registry
	workflows    *workflows.Store
	events       *store.EventStore
	results      *store.ResultStore
	dispatcher   *delivery.Dispatcher
	classifier   workflows.Classifier
	limiter      *rate.Limiter
	validate     *validator.Validate
	logger       logging.Logger
}

func New(
	cfg *config.Config,
	orch *orchestrator.Orchestrator,
	registry *triggers.Registry,
	workflowStore *workflows.Store,
	eventStore *store.EventStore,
	resultStore *store.ResultStore,
	dispatcher *delivery.Dispatcher,
	classifier workflows.Classifier,
	logger logging.Logger,
) *Handlers {
	burst := int(cfg.EventRateLimit)
	if burst < 1 {
		burst = 1
	}
	return &Handlers{
		config:       cfg,
		orchestrator: orch,
		registry:     registry,
		workflows:    workflowStore,
		events:       eventStore,
		results:      resultStore,
		dispatcher:   dispatcher,
		classifier:   classifier,
		limiter:      rate.NewLimiter(rate.Limit(cfg.EventRateLimit), burst),
		validate:     validator.New(),
		logger:       logger.WithFields(logging.Field{Key: "component", Value: "handlers"}),
	}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError reports a handled failure. Validation problems use a 4xx
// status; everything else reports 200 with an error status so callers can
// always decode the same shape.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
