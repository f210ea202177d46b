package handlers

import (
	"encoding/json"
	"net/http"

	"workflow-engine/internal/delivery"
	"workflow-engine/internal/events"
	"workflow-engine/internal/store"
)

// GetResults returns the stored results, oldest first.
func (h *Handlers) GetResults(w http.ResponseWriter, r *http.Request) {
	all := h.results.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": all,
		"count":   len(all),
	})
}

type sendEmailRequest struct {
	Content   string `json:"content" validate:"required"`
	Title     string `json:"title"`
	Recipient string `json:"recipient"`
}

// SendEmail delivers one ad-hoc result over email, outside any workflow.
func (h *Handlers) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	result := &store.Result{
		Title:   req.Title,
		Content: req.Content,
		Success: true,
	}

	var event *events.TriggerEvent
	if req.Recipient != "" {
		event = &events.TriggerEvent{
			Payload: map[string]interface{}{"user_email": req.Recipient},
		}
	}

	outcome := h.dispatcher.Deliver(r.Context(), []*store.Result{result}, delivery.MethodEmail, event)
	respondJSON(w, http.StatusOK, outcome)
}
