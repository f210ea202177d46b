package triggers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
)

type stubTrigger struct {
	Base
	started bool
}

func newStubTrigger(kind events.TriggerKind) *stubTrigger {
	return &stubTrigger{Base: NewBase(kind, true)}
}

func (s *stubTrigger) Start(ctx context.Context) error {
	if err := s.MarkStarted(); err != nil {
		return err
	}
	s.started = true
	return nil
}

func (s *stubTrigger) Stop() error {
	return s.MarkStopped()
}

func stubFactory(kind events.TriggerKind) Factory {
	return func(config Config) (Trigger, error) {
		return newStubTrigger(kind), nil
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(context.Background(), logging.GetGlobalLogger())
}

func TestAddTriggerUnknownType(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.AddTrigger(Config{Type: "carrier_pigeon"})
	assert.ErrorIs(t, err, ErrUnknownTriggerType)
}

func TestAddTriggerSingleInstancePerKind(t *testing.T) {
	registry := newTestRegistry(t)
	registry.RegisterFactory(string(events.TriggerFileWatcher), stubFactory(events.TriggerFileWatcher))

	first, err := registry.AddTrigger(Config{Type: string(events.TriggerFileWatcher)})
	require.NoError(t, err)

	second, err := registry.AddTrigger(Config{Type: string(events.TriggerFileWatcher)})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, registry.All(), 1)
}

func TestOnTriggerEventCoversLateTriggers(t *testing.T) {
	registry := newTestRegistry(t)
	registry.RegisterFactory(string(events.TriggerBrowserEvent), stubFactory(events.TriggerBrowserEvent))

	fired := 0
	registry.OnTriggerEvent(func(e *events.TriggerEvent) { fired++ })

	trigger, err := registry.AddTrigger(Config{Type: string(events.TriggerBrowserEvent), Enabled: true})
	require.NoError(t, err)

	trigger.(*stubTrigger).Fire(map[string]interface{}{"file_name": "late.txt"})
	assert.Equal(t, 1, fired)
}

func TestStartAllAndStopAll(t *testing.T) {
	registry := newTestRegistry(t)
	registry.RegisterFactory(string(events.TriggerFileWatcher), stubFactory(events.TriggerFileWatcher))
	registry.RegisterFactory(string(events.TriggerBrowserEvent), stubFactory(events.TriggerBrowserEvent))

	_, err := registry.AddTrigger(Config{Type: string(events.TriggerFileWatcher)})
	require.NoError(t, err)
	_, err = registry.AddTrigger(Config{Type: string(events.TriggerBrowserEvent)})
	require.NoError(t, err)

	registry.StartAll()
	for _, trigger := range registry.All() {
		assert.True(t, trigger.IsRunning())
	}

	// Idempotent: running triggers are skipped, not restarted.
	registry.StartAll()

	registry.StopAll()
	for _, trigger := range registry.All() {
		assert.False(t, trigger.IsRunning())
	}
}
