package delivery

import (
	"context"
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/config"
	"workflow-engine/internal/events"
	"workflow-engine/internal/store"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func recordingSender(record *sentMail, fail error) SendFunc {
	return func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		if fail != nil {
			return fail
		}
		*record = sentMail{addr: addr, from: from, to: to, msg: msg}
		return nil
	}
}

func testConfig(outputDir string) *config.Config {
	return &config.Config{
		OutputDir:        outputDir,
		SMTPEnabled:      true,
		SMTPHost:         "smtp.example.com",
		SMTPPort:         "587",
		SMTPUsername:     "engine@example.com",
		SMTPPassword:     "secret",
		SMTPFromName:     "Workflow Engine",
		DefaultRecipient: "fallback@example.com",
	}
}

func TestDeliverPopup(t *testing.T) {
	d := NewDispatcher(testConfig(t.TempDir()), nil, logging.GetGlobalLogger())
	results := []*store.Result{{Content: "summary", Title: "summarize"}}

	outcome := d.Deliver(context.Background(), results, MethodPopup, nil)

	assert.Equal(t, StatusReadyForPopup, outcome.Status)
	assert.Equal(t, results, outcome.Results)
}

func TestDeliverUnknownMethod(t *testing.T) {
	d := NewDispatcher(testConfig(t.TempDir()), nil, logging.GetGlobalLogger())

	outcome := d.Deliver(context.Background(), nil, Method("carrier_pigeon"), nil)

	assert.Equal(t, StatusUnknownMethod, outcome.Status)
	assert.Empty(t, outcome.Error)
}

func TestDeliverSaveFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDispatcher(testConfig(dir), nil, logging.GetGlobalLogger())

	event := events.New(events.TriggerFileWatcher, map[string]interface{}{"file_name": "a.txt"})
	event.Timestamp = time.Date(2026, 8, 29, 10, 30, 45, 0, time.UTC)

	results := []*store.Result{
		{Title: "summarize", Content: "the summary"},
		{Title: "analyze_tone", Content: "neutral"},
	}

	outcome := d.Deliver(context.Background(), results, MethodSaveFile, event)

	require.Equal(t, StatusSaved, outcome.Status)
	assert.Equal(t, filepath.Join(dir, "workflow_result_20260829_103045.txt"), outcome.FilePath)

	data, err := os.ReadFile(outcome.FilePath)
	require.NoError(t, err)
	assert.Equal(t,
		"Action: summarize\nResult: the summary\n\nAction: analyze_tone\nResult: neutral\n\n",
		string(data))
}

func TestDeliverSaveFileFailure(t *testing.T) {
	cfg := testConfig("/nonexistent/output/dir")
	d := NewDispatcher(cfg, nil, logging.GetGlobalLogger())

	outcome := d.Deliver(context.Background(), []*store.Result{{Content: "x"}}, MethodSaveFile, nil)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.NotEmpty(t, outcome.Error)
}

func TestDeliverEmail(t *testing.T) {
	t.Run("uses event recipient", func(t *testing.T) {
		var sent sentMail
		d := NewDispatcher(testConfig(t.TempDir()), recordingSender(&sent, nil), logging.GetGlobalLogger())

		event := events.New(events.TriggerBrowserEvent, map[string]interface{}{"user_email": "user@example.com"})
		outcome := d.Deliver(context.Background(),
			[]*store.Result{{Content: "line one\n\nline two"}}, MethodEmail, event)

		require.Equal(t, StatusSent, outcome.Status)
		assert.Equal(t, "user@example.com", outcome.Recipient)
		assert.Equal(t, []string{"user@example.com"}, sent.to)
		assert.Equal(t, "smtp.example.com:587", sent.addr)
		assert.Contains(t, string(sent.msg), "</p><p>")
	})

	t.Run("falls back to default recipient", func(t *testing.T) {
		var sent sentMail
		d := NewDispatcher(testConfig(t.TempDir()), recordingSender(&sent, nil), logging.GetGlobalLogger())

		outcome := d.Deliver(context.Background(), []*store.Result{{Content: "x"}}, MethodEmail, nil)

		require.Equal(t, StatusSent, outcome.Status)
		assert.Equal(t, "fallback@example.com", outcome.Recipient)
	})

	t.Run("send failure reported in outcome", func(t *testing.T) {
		d := NewDispatcher(testConfig(t.TempDir()),
			recordingSender(&sentMail{}, errors.New("connection refused")), logging.GetGlobalLogger())

		outcome := d.Deliver(context.Background(), []*store.Result{{Content: "x"}}, MethodEmail, nil)

		assert.Equal(t, StatusFailed, outcome.Status)
		assert.Contains(t, outcome.Error, "connection refused")
	})

	t.Run("disabled SMTP fails fast", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		cfg.SMTPEnabled = false
		d := NewDispatcher(cfg, nil, logging.GetGlobalLogger())

		outcome := d.Deliver(context.Background(), []*store.Result{{Content: "x"}}, MethodEmail, nil)

		assert.Equal(t, StatusFailed, outcome.Status)
	})

	t.Run("no recipient anywhere fails", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		cfg.DefaultRecipient = ""
		d := NewDispatcher(cfg, nil, logging.GetGlobalLogger())

		outcome := d.Deliver(context.Background(), []*store.Result{{Content: "x"}}, MethodEmail, nil)

		assert.Equal(t, StatusFailed, outcome.Status)
	})
}

func TestFormatEmailBody(t *testing.T) {
	body := formatEmailBody([]*store.Result{{Content: "a\nb"}, {Content: ""}})

	assert.True(t, strings.HasPrefix(body, "<html>"))
	assert.Contains(t, body, "a<br>b")
	assert.Contains(t, body, "No content available")
}
