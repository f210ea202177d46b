// Package events defines the event model shared by triggers, the
// orchestrator, and the action executor. Raw trigger payloads are classified
// once at the ingestion boundary into a closed set of event kinds; downstream
// components dispatch on the typed kind instead of probing the payload map.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TriggerKind identifies which trigger variant produced an event.
type TriggerKind string

const (
	TriggerFileWatcher  TriggerKind = "file_watcher"
	TriggerBrowserEvent TriggerKind = "browser_event"
)

// Kind is the detected event kind used for workflow matching.
type Kind string

const (
	KindFileDownload Kind = "file_download"
	KindEmailCompose Kind = "email_compose"
	KindArticleRead  Kind = "article_read"
	KindUnknown      Kind = "unknown"
)

// TriggerEvent is one concrete occurrence detected by a trigger. It is
// immutable once fired; the orchestrator and executor only read it.
type TriggerEvent struct {
	ID          string                 `json:"id"`
	TriggerKind TriggerKind            `json:"trigger_kind"`
	Kind        Kind                   `json:"event_type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Timestamp   time.Time              `json:"timestamp"`
	Payload     map[string]interface{} `json:"payload"`
}

// New builds a classified TriggerEvent from a raw trigger payload.
func New(trigger TriggerKind, payload map[string]interface{}) *TriggerEvent {
	event := &TriggerEvent{
		ID:          uuid.NewString(),
		TriggerKind: trigger,
		Timestamp:   time.Now(),
		Payload:     payload,
	}
	event.Kind, event.Title, event.Description = classify(payload)
	return event
}

// classify determines the event kind from the payload shape. The rules mirror
// how each trigger reports its occurrences: file watchers attach file_name,
// the Gmail content script attaches email_subject, and the article script
// attaches title/content.
func classify(payload map[string]interface{}) (Kind, string, string) {
	if name, ok := stringValue(payload, "file_name"); ok {
		return KindFileDownload, name, fmt.Sprintf("Downloaded: %s", name)
	}

	if subject, ok := stringValue(payload, "email_subject"); ok {
		return KindEmailCompose, subject, fmt.Sprintf("Email: %s", subject)
	}

	declared, _ := stringValue(payload, "event_type")
	title, hasTitle := stringValue(payload, "title")
	_, hasContent := payload["content"]
	if declared == string(KindArticleRead) || (hasTitle && hasContent) {
		if !hasTitle {
			title = "Article"
		}
		return KindArticleRead, title, fmt.Sprintf("Article: %s", title)
	}

	return KindUnknown, "Unknown Event", "Unknown event type"
}

// DedupKey is a composite of the event kind, its stable identifying field,
// and the timestamp truncated to the second. Two events with the same key are
// the same physical occurrence reported twice.
func (e *TriggerEvent) DedupKey() string {
	identity := e.Title
	if name, ok := stringValue(e.Payload, "file_name"); ok {
		identity = name
	} else if subject, ok := stringValue(e.Payload, "email_subject"); ok {
		identity = subject
	}
	return fmt.Sprintf("%s|%s|%d", e.Kind, identity, e.Timestamp.Truncate(time.Second).Unix())
}

// Detail is the typed view of an event payload used for content extraction.
// Exactly one concrete type applies per event, chosen by payload shape in
// priority order: file with path, file name only, email, article.
type Detail interface {
	detail()
}

// FileDetail describes a file event. Path may be empty when only the file
// name was reported.
type FileDetail struct {
	Name string
	Path string
	Size int64
}

// EmailDetail describes a composed email.
type EmailDetail struct {
	Subject string
	Body    string
}

// ArticleDetail describes a read article.
type ArticleDetail struct {
	Title   string
	Content string
}

// NoDetail means the payload carried nothing extractable.
type NoDetail struct{}

func (FileDetail) detail()    {}
func (EmailDetail) detail()   {}
func (ArticleDetail) detail() {}
func (NoDetail) detail()      {}

// Detail returns the typed extraction view of the event payload.
func (e *TriggerEvent) Detail() Detail {
	payload := e.Payload

	if path, ok := stringValue(payload, "file_path"); ok {
		name, _ := stringValue(payload, "file_name")
		return FileDetail{Name: name, Path: path, Size: int64Value(payload, "size")}
	}

	if name, ok := stringValue(payload, "file_name"); ok {
		return FileDetail{Name: name, Size: int64Value(payload, "size")}
	}

	subject, hasSubject := stringValue(payload, "email_subject")
	body, hasBody := stringValue(payload, "email_body")
	if hasSubject || hasBody {
		return EmailDetail{Subject: subject, Body: body}
	}

	title, hasTitle := stringValue(payload, "title")
	content, hasContent := stringValue(payload, "content")
	if hasTitle && hasContent {
		return ArticleDetail{Title: title, Content: content}
	}

	return NoDetail{}
}

// UserEmail returns the recipient address carried by the event, if any.
func (e *TriggerEvent) UserEmail() string {
	email, _ := stringValue(e.Payload, "user_email")
	return email
}

func stringValue(payload map[string]interface{}, key string) (string, bool) {
	value, ok := payload[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func int64Value(payload map[string]interface{}, key string) int64 {
	switch v := payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
