package workflows

import (
	"context"
	"strings"

	"workflow-engine/internal/delivery"
	"workflow-engine/internal/events"
)

// Intent is a classifier's reading of a free-text workflow query.
type Intent struct {
	TriggerType  events.Kind     `json:"trigger_type"`
	Actions      []string        `json:"actions"`
	OutputMethod delivery.Method `json:"output_method"`
	Confidence   float64         `json:"confidence"`
}

// Classifier turns a natural-language query into a workflow intent. The
// implementation may be remote and fallible; callers treat it as a
// network-bound service with a bounded timeout.
type Classifier interface {
	Classify(ctx context.Context, query string) (*Intent, error)
}

// FallbackClassifier tries a primary classifier and, on any failure, falls
// back to a secondary one. The secondary is expected to be deterministic
// and local so the chain as a whole cannot fail.
type FallbackClassifier struct {
	Primary   Classifier
	Secondary Classifier
}

// Classify returns the primary's intent when it succeeds, otherwise the
// secondary's.
func (f *FallbackClassifier) Classify(ctx context.Context, query string) (*Intent, error) {
	if f.Primary != nil {
		if intent, err := f.Primary.Classify(ctx, query); err == nil {
			return intent, nil
		}
	}
	return f.Secondary.Classify(ctx, query)
}

// KeywordClassifier is the deterministic fallback: a fixed keyword table
// mapping query words to trigger types, actions, and delivery preferences.
type KeywordClassifier struct{}

// Classify never fails; queries matching no trigger keywords come back as
// unknown with low confidence.
func (KeywordClassifier) Classify(ctx context.Context, query string) (*Intent, error) {
	q := strings.ToLower(query)

	triggerType := events.KindUnknown
	confidence := 0.3
	switch {
	case containsAny(q, "download", "file", "pdf"):
		triggerType = events.KindFileDownload
		confidence = 0.7
	case containsAny(q, "email", "compose", "write"):
		triggerType = events.KindEmailCompose
		confidence = 0.7
	case containsAny(q, "article", "medium", "read"):
		triggerType = events.KindArticleRead
		confidence = 0.7
	}

	var actions []string
	if containsAny(q, "summarize", "summary") {
		actions = append(actions, "summarize")
	}
	if containsAny(q, "analyze", "tone") {
		actions = append(actions, "analyze_tone")
	}
	if containsAny(q, "notify", "alert") {
		actions = append(actions, "notify_file")
	}
	if len(actions) == 0 {
		if triggerType == events.KindArticleRead {
			actions = []string{"summarize"}
		} else {
			actions = []string{"notify_file"}
		}
	}

	output := delivery.MethodPopup
	switch {
	case strings.Contains(q, "email me") || strings.Contains(q, "send email") || strings.Contains(q, "mail it"):
		output = delivery.MethodEmail
	case containsAny(q, "save"):
		output = delivery.MethodSaveFile
	}

	return &Intent{
		TriggerType:  triggerType,
		Actions:      actions,
		OutputMethod: output,
		Confidence:   confidence,
	}, nil
}

func containsAny(s string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

// Analysis carries recommendations for improving a workflow query.
type Analysis struct {
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
	Improvements    []string `json:"suggested_improvements"`
}

// Analyze classifies a query and derives recommendations from the intent:
// weak confidence, missing or overloaded action lists, and delivery choices
// the query does not actually ask for.
func Analyze(ctx context.Context, classifier Classifier, query string) (*Analysis, error) {
	intent, err := classifier.Classify(ctx, query)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Confidence: intent.Confidence}

	if intent.Confidence < 0.8 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Consider being more specific about when the trigger should activate")
	}
	switch {
	case len(intent.Actions) == 0:
		analysis.Recommendations = append(analysis.Recommendations,
			"Specify what action should be performed")
	case len(intent.Actions) > 2:
		analysis.Recommendations = append(analysis.Recommendations,
			"Consider splitting into multiple simpler workflows")
	}
	if intent.OutputMethod == delivery.MethodEmail && !strings.Contains(strings.ToLower(query), "email") {
		analysis.Recommendations = append(analysis.Recommendations,
			"Email delivery detected but not explicitly requested")
	}

	switch intent.TriggerType {
	case events.KindEmailCompose, events.KindArticleRead:
		analysis.Improvements = append(analysis.Improvements,
			"Specify which websites or domains to monitor")
	case events.KindFileDownload:
		analysis.Improvements = append(analysis.Improvements,
			"Add file type filters (e.g., 'PDF files only')")
	}

	return analysis, nil
}
