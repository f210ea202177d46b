package handlers

import (
	"net/http"

	"workflow-engine/internal/events"
)

// GetStats returns aggregate engine counters.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	running := 0
	for _, trigger := range h.registry.All() {
		if trigger.IsRunning() {
			running++
		}
	}

	smartCount := 0
	confidenceSum := 0.0
	for _, workflow := range h.workflows.All() {
		if workflow.SmartCreated {
			smartCount++
			confidenceSum += workflow.Confidence
		}
	}
	averageConfidence := 0.0
	if smartCount > 0 {
		averageConfidence = confidenceSum / float64(smartCount)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_events":     h.events.Len(),
		"total_results":    h.results.Len(),
		"active_workflows": h.workflows.ActiveCount(),
		"triggers_running": running,
		"events_by_type": map[string]int{
			string(events.KindFileDownload): h.events.CountByKind(events.KindFileDownload),
			string(events.KindEmailCompose): h.events.CountByKind(events.KindEmailCompose),
			string(events.KindArticleRead):  h.events.CountByKind(events.KindArticleRead),
			string(events.KindUnknown):      h.events.CountByKind(events.KindUnknown),
		},
		"average_confidence": averageConfidence,
	})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
