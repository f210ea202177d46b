package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine/internal/events"
	"workflow-engine/internal/triggers"
)

type recorder struct {
	mu     sync.Mutex
	events []*events.TriggerEvent
}

func (r *recorder) record(e *events.TriggerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) first() *events.TriggerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[0]
}

func TestFactoryRequiresFolderPath(t *testing.T) {
	_, err := Factory(triggers.Config{Type: string(events.TriggerFileWatcher)})
	assert.ErrorIs(t, err, triggers.ErrInvalidTriggerConfig)
}

func TestStartFailsOnMissingDirectory(t *testing.T) {
	trigger := New(Config{FolderPath: "/nonexistent/path/for/test", Enabled: true})

	err := trigger.Start(context.Background())
	require.Error(t, err)
	assert.False(t, trigger.IsRunning())
}

func TestDoubleStartFails(t *testing.T) {
	trigger := New(Config{FolderPath: t.TempDir(), Enabled: true})

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop()

	assert.ErrorIs(t, trigger.Start(context.Background()), triggers.ErrTriggerAlreadyRunning)
}

func TestFiresOnMatchingFile(t *testing.T) {
	dir := t.TempDir()
	trigger := New(Config{FolderPath: dir, FileFilter: "*.pdf", Enabled: true})

	rec := &recorder{}
	trigger.RegisterCallback(rec.record)

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("data"), 0o644))

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	event := rec.first()
	assert.Equal(t, events.KindFileDownload, event.Kind)
	assert.Equal(t, "report.pdf", event.Payload["file_name"])
	assert.Equal(t, filepath.Join(dir, "report.pdf"), event.Payload["file_path"])
}

func TestIgnoresNonMatchingFile(t *testing.T) {
	dir := t.TempDir()
	trigger := New(Config{FolderPath: dir, FileFilter: "*.pdf", Enabled: true})

	rec := &recorder{}
	trigger.RegisterCallback(rec.record)

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("data"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, rec.count())
}

func TestStopPreventsFurtherEvents(t *testing.T) {
	dir := t.TempDir()
	trigger := New(Config{FolderPath: dir, Enabled: true})

	rec := &recorder{}
	trigger.RegisterCallback(rec.record)

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Stop())
	assert.False(t, trigger.IsRunning())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.txt"), []byte("data"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, rec.count())
}
