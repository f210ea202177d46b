// Package browser implements the browser-event trigger. It has no monitor
// of its own: occurrences are pushed from outside (the extension posts to
// the /event endpoint) and re-emitted verbatim, tagged with the event name
// the trigger was configured for.
package browser

import (
	"context"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
	"workflow-engine/internal/triggers"
)

// Trigger is the ingestion point for externally pushed browser events.
type Trigger struct {
	triggers.Base

	config Config
	logger logging.Logger
}

// Config holds the browser trigger settings.
type Config struct {
	// Event is the browser event name this trigger listens for, e.g.
	// "email_compose" or "article_read".
	Event string
	// Domains restricts which sites the extension reports from. The list is
	// informational here; filtering happens in the extension.
	Domains []string
	// Enabled gates event firing.
	Enabled bool
}

// New creates a browser trigger for the given event name.
func New(config Config) *Trigger {
	return &Trigger{
		Base:   triggers.NewBase(events.TriggerBrowserEvent, config.Enabled),
		config: config,
		logger: logging.GetGlobalLogger().WithFields(
			logging.Field{Key: "component", Value: "browser_trigger"},
			logging.Field{Key: "event", Value: config.Event},
		),
	}
}

// Factory constructs a browser trigger from a registry config.
func Factory(config triggers.Config) (triggers.Trigger, error) {
	var domains []string
	if raw, ok := config.Settings["domains"].([]string); ok {
		domains = raw
	}
	return New(Config{
		Event:   config.StringSetting("event", ""),
		Domains: domains,
		Enabled: config.Enabled,
	}), nil
}

// Start marks the trigger as accepting pushed events. There is no OS
// resource to establish, so Start cannot fail beyond the double-start check.
func (t *Trigger) Start(ctx context.Context) error {
	if err := t.MarkStarted(); err != nil {
		return err
	}
	t.logger.Info("Browser trigger started")
	return nil
}

// Stop makes subsequent Ingest calls drop their payloads.
func (t *Trigger) Stop() error {
	if err := t.MarkStopped(); err != nil {
		return err
	}
	t.logger.Info("Browser trigger stopped")
	return nil
}

// Ingest accepts an externally pushed payload and re-emits it through the
// trigger's callbacks. Payloads arriving while stopped are dropped.
func (t *Trigger) Ingest(payload map[string]interface{}) {
	if !t.IsRunning() {
		t.logger.Debug("Dropping payload, trigger not running")
		return
	}

	if _, ok := payload["event_type"]; !ok && t.config.Event != "" {
		payload["event_type"] = t.config.Event
	}

	t.Fire(payload)
}
