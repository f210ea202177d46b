package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"workflow-engine/internal/middleware"
)

// Router builds the full route table.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/event", h.IngestEvent).Methods(http.MethodPost)
	r.HandleFunc("/events", h.GetEvents).Methods(http.MethodGet)
	r.HandleFunc("/results", h.GetResults).Methods(http.MethodGet)

	r.HandleFunc("/workflows", h.GetWorkflows).Methods(http.MethodGet)
	r.HandleFunc("/workflow", h.CreateWorkflow).Methods(http.MethodPost)
	r.HandleFunc("/workflow/{id}", h.DeleteWorkflow).Methods(http.MethodDelete)

	r.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	r.HandleFunc("/send-email", h.SendEmail).Methods(http.MethodPost)
	r.HandleFunc("/analyze-query", h.AnalyzeQuery).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return r
}
