// Package file implements the folder-watching trigger. It monitors a
// directory for file creation using fsnotify and fires an event for every
// new file that matches the configured glob filter.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
	"workflow-engine/internal/triggers"
)

// Trigger watches a directory for created files.
type Trigger struct {
	triggers.Base

	config  Config
	logger  logging.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Config holds the file watcher settings.
type Config struct {
	// FolderPath is the directory to monitor.
	FolderPath string
	// FileFilter is a glob matched against the created file's base name.
	FileFilter string
	// Enabled gates event firing; a disabled trigger swallows occurrences.
	Enabled bool
}

// New creates a file trigger for the given directory and filter.
func New(config Config) *Trigger {
	if config.FileFilter == "" {
		config.FileFilter = "*"
	}
	return &Trigger{
		Base:   triggers.NewBase(events.TriggerFileWatcher, config.Enabled),
		config: config,
		logger: logging.GetGlobalLogger().WithFields(
			logging.Field{Key: "component", Value: "file_trigger"},
			logging.Field{Key: "folder", Value: config.FolderPath},
		),
	}
}

// Factory constructs a file trigger from a registry config.
func Factory(config triggers.Config) (triggers.Trigger, error) {
	folder := config.StringSetting("folder_path", "")
	if folder == "" {
		return nil, fmt.Errorf("%w: folder_path is required", triggers.ErrInvalidTriggerConfig)
	}
	return New(Config{
		FolderPath: folder,
		FileFilter: config.StringSetting("file_filter", "*"),
		Enabled:    config.Enabled,
	}), nil
}

// Start establishes the OS watch on the configured directory. A watch that
// cannot be established is reported synchronously; the trigger is left
// stopped in that case.
func (t *Trigger) Start(ctx context.Context) error {
	if err := t.MarkStarted(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = t.MarkStopped()
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	if err := watcher.Add(t.config.FolderPath); err != nil {
		watcher.Close()
		_ = t.MarkStopped()
		return fmt.Errorf("watching directory %s: %w", t.config.FolderPath, err)
	}

	t.watcher = watcher
	t.done = make(chan struct{})

	go t.loop(ctx)

	t.logger.Info("File trigger started",
		logging.Field{Key: "filter", Value: t.config.FileFilter},
	)
	return nil
}

// Stop halts monitoring and closes the OS watch handle. In-flight events
// already dispatched to callbacks are unaffected.
func (t *Trigger) Stop() error {
	if err := t.MarkStopped(); err != nil {
		return err
	}
	close(t.done)
	err := t.watcher.Close()
	t.logger.Info("File trigger stopped")
	return err
}

func (t *Trigger) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			t.handleCreate(event.Name)

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Warn("Watcher error",
				logging.Field{Key: "error", Value: err.Error()},
			)

		case <-t.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (t *Trigger) handleCreate(path string) {
	name := filepath.Base(path)

	matched, err := filepath.Match(t.config.FileFilter, name)
	if err != nil || !matched {
		return
	}

	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		if info.IsDir() {
			return
		}
		size = info.Size()
	}

	t.logger.Debug("File created",
		logging.Field{Key: "file", Value: name},
		logging.Field{Key: "size", Value: size},
	)

	t.Fire(map[string]interface{}{
		"file_name": name,
		"file_path": path,
		"size":      size,
	})
}
