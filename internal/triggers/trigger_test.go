package triggers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine/internal/events"
)

func TestBaseFiresCallbacksInOrder(t *testing.T) {
	base := NewBase(events.TriggerBrowserEvent, true)

	var order []int
	base.RegisterCallback(func(e *events.TriggerEvent) { order = append(order, 1) })
	base.RegisterCallback(func(e *events.TriggerEvent) { order = append(order, 2) })
	base.RegisterCallback(func(e *events.TriggerEvent) { order = append(order, 3) })

	base.Fire(map[string]interface{}{"file_name": "a.txt"})

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestBaseFireDisabledIsNoop(t *testing.T) {
	base := NewBase(events.TriggerBrowserEvent, false)

	fired := false
	base.RegisterCallback(func(e *events.TriggerEvent) { fired = true })
	base.Fire(map[string]interface{}{"file_name": "a.txt"})

	assert.False(t, fired)
}

func TestMarkStartedTwiceFails(t *testing.T) {
	base := NewBase(events.TriggerFileWatcher, true)

	require.NoError(t, base.MarkStarted())
	assert.ErrorIs(t, base.MarkStarted(), ErrTriggerAlreadyRunning)

	require.NoError(t, base.MarkStopped())
	assert.ErrorIs(t, base.MarkStopped(), ErrTriggerNotRunning)
}
