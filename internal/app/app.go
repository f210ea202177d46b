// Package app wires the engine together: configuration, logging, stores,
// triggers, classification, execution, delivery, orchestration, and the
// HTTP server. All dependencies are constructed here and passed down
// explicitly.
package app

import (
	"context"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/config"
	"workflow-engine/internal/delivery"
	"workflow-engine/internal/events"
	"workflow-engine/internal/executor"
	"workflow-engine/internal/handlers"
	"workflow-engine/internal/orchestrator"
	"workflow-engine/internal/server"
	"workflow-engine/internal/store"
	"workflow-engine/internal/triggers"
	"workflow-engine/internal/triggers/browser"
	"workflow-engine/internal/triggers/file"
	"workflow-engine/internal/workflows"
)

// App holds all the application dependencies
type App struct {
	Config       *config.Config
	Events       *store.EventStore
	Results      *store.ResultStore
	Workflows    *workflows.Store
	Registry     *triggers.Registry
	Orchestrator *orchestrator.Orchestrator
	Handlers     *handlers.Handlers
	Logger       logging.Logger

	cancel context.CancelFunc
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	logger := logging.GetGlobalLogger()

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		Config:    cfg,
		Events:    store.NewEventStore(cfg.EventStoreCap),
		Results:   store.NewResultStore(cfg.ResultStoreCap),
		Workflows: workflows.NewStore(),
		Logger:    logger.WithFields(logging.Field{Key: "component", Value: "app"}),
		cancel:    cancel,
	}

	app.Registry = triggers.NewRegistry(ctx, logger)
	app.Registry.RegisterFactory(string(events.TriggerFileWatcher), file.Factory)
	app.Registry.RegisterFactory(string(events.TriggerBrowserEvent), browser.Factory)

	dispatcher := delivery.NewDispatcher(cfg, nil, logger)

	extractor := executor.NewExtractor(nil, logger)
	var processor executor.Processor = executor.LocalProcessor{}
	if cfg.ProcessorURL != "" {
		processor = &executor.FallbackProcessor{
			Primary:   executor.NewHTTPProcessor(cfg.ProcessorURL, cfg.ProcessTimeout),
			Secondary: executor.LocalProcessor{},
		}
	}
	exec := executor.New(extractor, processor, logger)

	app.Orchestrator = orchestrator.New(
		app.Workflows, exec, dispatcher,
		app.Events, app.Results,
		cfg.DedupTTL, cfg.ProcessTimeout,
		logger,
	)
	app.Registry.OnTriggerEvent(app.Orchestrator.HandleEvent)

	var classifier workflows.Classifier = &workflows.FallbackClassifier{
		Secondary: workflows.KeywordClassifier{},
	}
	if cfg.ClassifierURL != "" {
		classifier = &workflows.FallbackClassifier{
			Primary:   workflows.NewRemoteClassifier(cfg.ClassifierURL, cfg.ProcessTimeout),
			Secondary: workflows.KeywordClassifier{},
		}
	}

	app.Handlers = handlers.New(
		cfg, app.Orchestrator, app.Registry,
		app.Workflows, app.Events, app.Results,
		dispatcher, classifier, logger,
	)

	return app, nil
}

// RunServer builds the HTTP server over the full route table.
func (app *App) RunServer() *server.Server {
	return server.New(app.Handlers.Router(), app.Config.Port)
}

// Shutdown stops the triggers and cancels their shared context. In-flight
// event processing is not cancelled; it finishes on its own timeout.
func (app *App) Shutdown(ctx context.Context) error {
	app.Registry.StopAll()
	app.cancel()
	return nil
}
