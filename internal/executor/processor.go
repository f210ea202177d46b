package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"workflow-engine/internal/common/errors"
)

// Processor applies one named action to extracted content and returns the
// produced text.
type Processor interface {
	Process(ctx context.Context, action, content string) (string, error)
}

// FallbackProcessor tries a primary processor and, on any failure, falls
// back to a secondary one. The local processor is the usual secondary so a
// remote outage degrades quality rather than failing the workflow.
type FallbackProcessor struct {
	Primary   Processor
	Secondary Processor
}

func (f *FallbackProcessor) Process(ctx context.Context, action, content string) (string, error) {
	if f.Primary != nil {
		if output, err := f.Primary.Process(ctx, action, content); err == nil {
			return output, nil
		}
	}
	return f.Secondary.Process(ctx, action, content)
}

// HTTPProcessor calls an external content processing service. Calls go
// through a circuit breaker so a struggling service is not hammered with
// doomed requests.
type HTTPProcessor struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPProcessor creates a processor for the given endpoint.
func NewHTTPProcessor(url string, timeout time.Duration) *HTTPProcessor {
	settings := gobreaker.Settings{
		Name:    "content-processor",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &HTTPProcessor{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (p *HTTPProcessor) Process(ctx context.Context, action, content string) (string, error) {
	if p.url == "" {
		return "", errors.ConfigError("processor URL is not configured")
	}

	output, err := p.breaker.Execute(func() (interface{}, error) {
		return p.call(ctx, action, content)
	})
	if err != nil {
		return "", err
	}
	return output.(string), nil
}

func (p *HTTPProcessor) call(ctx context.Context, action, content string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"action":  action,
		"content": content,
	})
	if err != nil {
		return "", errors.InternalError("failed to encode process request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.InternalError("failed to build process request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", errors.ProcessingError("processor request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.ProcessingError(
			fmt.Sprintf("processor returned status %d", resp.StatusCode), nil)
	}

	var decoded struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.ProcessingError("failed to decode processor response", err)
	}
	return decoded.Result, nil
}

// EchoProcessor returns the content unchanged, tagged with the action. It
// exists for tests and local development against a known-good processor.
type EchoProcessor struct{}

func (EchoProcessor) Process(ctx context.Context, action, content string) (string, error) {
	return fmt.Sprintf("[%s] %s", action, content), nil
}

// LocalProcessor handles actions with simple deterministic heuristics. It
// never fails, which makes it the terminal fallback.
type LocalProcessor struct{}

func (LocalProcessor) Process(ctx context.Context, action, content string) (string, error) {
	switch action {
	case "summarize":
		return summarize(content), nil
	case "analyze_tone":
		return analyzeTone(content), nil
	case "notify_file":
		return notify(content), nil
	default:
		return fmt.Sprintf("Processed with %s:\n%s", action, content), nil
	}
}

// summarize keeps the first few sentences, capped to a readable length.
func summarize(content string) string {
	const maxSentences = 3
	const maxLength = 400

	sentences := strings.SplitAfter(content, ". ")
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	summary := strings.TrimSpace(strings.Join(sentences, ""))
	if len(summary) > maxLength {
		summary = summary[:maxLength] + "..."
	}
	return fmt.Sprintf("Summary: %s", summary)
}

var (
	positiveWords = []string{"great", "good", "excellent", "happy", "success", "thanks", "love"}
	negativeWords = []string{"bad", "poor", "fail", "angry", "urgent", "problem", "issue"}
)

// analyzeTone counts sentiment-bearing words and reports the dominant tone.
func analyzeTone(content string) string {
	lower := strings.ToLower(content)
	positive, negative := 0, 0
	for _, word := range positiveWords {
		positive += strings.Count(lower, word)
	}
	for _, word := range negativeWords {
		negative += strings.Count(lower, word)
	}

	tone := "neutral"
	switch {
	case positive > negative:
		tone = "positive"
	case negative > positive:
		tone = "negative"
	}
	return fmt.Sprintf("Tone analysis: %s (positive signals: %d, negative signals: %d)", tone, positive, negative)
}

// notify produces a short notification line from the content's first line.
func notify(content string) string {
	first := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		first = content[:idx]
	}
	return fmt.Sprintf("Notification: %s", strings.TrimSpace(first))
}
