// Package delivery routes finished results to the user over one of three
// channels: email, popup, or a file in the output directory. Channel
// failures are reported in the returned outcome, never raised; the caller
// has already persisted the result by the time delivery runs.
package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/config"
	"workflow-engine/internal/events"
	"workflow-engine/internal/store"
)

// Method is the channel used to hand a result to the user.
type Method string

const (
	MethodEmail    Method = "email"
	MethodPopup    Method = "popup"
	MethodSaveFile Method = "save_file"
)

// Status classifies the outcome of one delivery attempt.
type Status string

const (
	StatusSent          Status = "sent"
	StatusFailed        Status = "failed"
	StatusReadyForPopup Status = "ready_for_popup"
	StatusSaved         Status = "saved"
	StatusUnknownMethod Status = "unknown_method"
)

// Outcome reports what happened to one delivery request.
type Outcome struct {
	Method    Method          `json:"method"`
	Status    Status          `json:"status"`
	Recipient string          `json:"recipient,omitempty"`
	FilePath  string          `json:"filepath,omitempty"`
	Error     string          `json:"error,omitempty"`
	Results   []*store.Result `json:"results,omitempty"`
}

// Dispatcher routes results to the configured channels.
type Dispatcher struct {
	config *config.Config
	send   SendFunc
	logger logging.Logger
}

// NewDispatcher creates a dispatcher. A nil send function defaults to
// net/smtp with STARTTLS.
func NewDispatcher(cfg *config.Config, send SendFunc, logger logging.Logger) *Dispatcher {
	if send == nil {
		send = smtpSend
	}
	return &Dispatcher{
		config: cfg,
		send:   send,
		logger: logger.WithFields(logging.Field{Key: "component", Value: "delivery"}),
	}
}

// Deliver routes the results to the requested method. The results slice
// allows future multi-result workflows; today it carries one entry.
func (d *Dispatcher) Deliver(ctx context.Context, results []*store.Result, method Method, event *events.TriggerEvent) *Outcome {
	switch method {
	case MethodEmail:
		return d.sendEmail(ctx, results, event)
	case MethodPopup:
		return d.showPopup(results)
	case MethodSaveFile:
		return d.saveFile(results, event)
	default:
		return &Outcome{Method: method, Status: StatusUnknownMethod}
	}
}

// showPopup performs no I/O; the caller is responsible for actual display.
func (d *Dispatcher) showPopup(results []*store.Result) *Outcome {
	return &Outcome{
		Method:  MethodPopup,
		Status:  StatusReadyForPopup,
		Results: results,
	}
}

// saveFile writes one Action/Result pair per result into a file named from
// the event timestamp, so repeated deliveries of the same event overwrite
// rather than accumulate.
func (d *Dispatcher) saveFile(results []*store.Result, event *events.TriggerEvent) *Outcome {
	stamp := "output"
	if event != nil && !event.Timestamp.IsZero() {
		stamp = event.Timestamp.Format("20060102_150405")
	}
	path := filepath.Join(d.config.OutputDir, fmt.Sprintf("workflow_result_%s.txt", stamp))

	var body string
	for _, result := range results {
		body += fmt.Sprintf("Action: %s\n", result.Title)
		body += fmt.Sprintf("Result: %s\n\n", result.Content)
	}

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		d.logger.Error("File delivery failed", err,
			logging.Field{Key: "path", Value: path},
		)
		return &Outcome{Method: MethodSaveFile, Status: StatusFailed, Error: err.Error()}
	}

	d.logger.Info("Results saved",
		logging.Field{Key: "path", Value: path},
	)
	return &Outcome{Method: MethodSaveFile, Status: StatusSaved, FilePath: path}
}
