package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine/internal/events"
)

func TestIngestWhileStoppedDrops(t *testing.T) {
	trigger := New(Config{Event: "article_read", Enabled: true})

	fired := 0
	trigger.RegisterCallback(func(e *events.TriggerEvent) { fired++ })

	trigger.Ingest(map[string]interface{}{"title": "Go", "content": "text"})
	assert.Zero(t, fired)
}

func TestIngestInjectsEventType(t *testing.T) {
	trigger := New(Config{Event: "article_read", Enabled: true})
	require.NoError(t, trigger.Start(context.Background()))

	var got *events.TriggerEvent
	trigger.RegisterCallback(func(e *events.TriggerEvent) { got = e })

	trigger.Ingest(map[string]interface{}{"title": "Go", "content": "text"})

	require.NotNil(t, got)
	assert.Equal(t, "article_read", got.Payload["event_type"])
	assert.Equal(t, events.KindArticleRead, got.Kind)
}

func TestIngestKeepsDeclaredEventType(t *testing.T) {
	trigger := New(Config{Event: "article_read", Enabled: true})
	require.NoError(t, trigger.Start(context.Background()))

	var got *events.TriggerEvent
	trigger.RegisterCallback(func(e *events.TriggerEvent) { got = e })

	trigger.Ingest(map[string]interface{}{"event_type": "email_compose", "email_subject": "hi"})

	require.NotNil(t, got)
	assert.Equal(t, "email_compose", got.Payload["event_type"])
}

func TestStartStopLifecycle(t *testing.T) {
	trigger := New(Config{Event: "email_compose", Enabled: true})

	require.NoError(t, trigger.Start(context.Background()))
	assert.True(t, trigger.IsRunning())
	assert.Error(t, trigger.Start(context.Background()))

	require.NoError(t, trigger.Stop())
	assert.False(t, trigger.IsRunning())
	assert.Error(t, trigger.Stop())
}
