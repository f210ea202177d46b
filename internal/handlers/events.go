package handlers

import (
	"encoding/json"
	"net/http"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
	"workflow-engine/internal/triggers/browser"
)

// IngestEvent accepts a pushed browser event. Processing is asynchronous;
// the response only acknowledges receipt. When a browser trigger is
// registered the payload goes through it so its running state is honored.
func (h *Handlers) IngestEvent(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}

	if trigger, ok := h.registry.Get(events.TriggerBrowserEvent); ok {
		if bt, ok := trigger.(*browser.Trigger); ok {
			if !bt.IsRunning() {
				respondJSON(w, http.StatusOK, map[string]string{
					"status": "ignored",
					"reason": "browser trigger is not running",
				})
				return
			}
			bt.Ingest(payload)
			respondJSON(w, http.StatusOK, map[string]string{"status": "received"})
			return
		}
	}

	// No trigger registered yet; ingest directly so early events are still
	// recorded and matched.
	event := events.New(events.TriggerBrowserEvent, payload)
	h.logger.Debug("Ingesting event without a registered browser trigger",
		logging.Field{Key: "event_id", Value: event.ID},
	)
	h.orchestrator.HandleEvent(event)

	respondJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// GetEvents returns the stored events, oldest first.
func (h *Handlers) GetEvents(w http.ResponseWriter, r *http.Request) {
	all := h.events.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": all,
		"count":  len(all),
	})
}
