package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine/internal/delivery"
	"workflow-engine/internal/events"
)

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantTrigger events.Kind
		wantActions []string
		wantOutput  delivery.Method
	}{
		{
			name:        "pdf download with summary",
			query:       "When I download a PDF, summarize it",
			wantTrigger: events.KindFileDownload,
			wantActions: []string{"summarize"},
			wantOutput:  delivery.MethodPopup,
		},
		{
			name:        "email tone analysis",
			query:       "analyze the tone of emails I compose",
			wantTrigger: events.KindEmailCompose,
			wantActions: []string{"analyze_tone"},
			wantOutput:  delivery.MethodPopup,
		},
		{
			name:        "article default action",
			query:       "when I read an article on medium",
			wantTrigger: events.KindArticleRead,
			wantActions: []string{"summarize"},
			wantOutput:  delivery.MethodPopup,
		},
		{
			name:        "file default action",
			query:       "alert me about new downloads",
			wantTrigger: events.KindFileDownload,
			wantActions: []string{"notify_file"},
			wantOutput:  delivery.MethodPopup,
		},
		{
			name:        "email delivery request",
			query:       "summarize new downloads and email me the result",
			wantTrigger: events.KindFileDownload,
			wantActions: []string{"summarize"},
			wantOutput:  delivery.MethodEmail,
		},
		{
			name:        "unmatched query",
			query:       "do something clever",
			wantTrigger: events.KindUnknown,
			wantActions: []string{"notify_file"},
			wantOutput:  delivery.MethodPopup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := KeywordClassifier{}.Classify(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrigger, intent.TriggerType)
			assert.Equal(t, tt.wantActions, intent.Actions)
			assert.Equal(t, tt.wantOutput, intent.OutputMethod)
		})
	}
}

type failingClassifier struct{}

func (failingClassifier) Classify(ctx context.Context, query string) (*Intent, error) {
	return nil, errors.New("service unavailable")
}

type fixedClassifier struct{ intent *Intent }

func (f fixedClassifier) Classify(ctx context.Context, query string) (*Intent, error) {
	return f.intent, nil
}

func TestFallbackClassifier(t *testing.T) {
	t.Run("primary wins when healthy", func(t *testing.T) {
		primary := fixedClassifier{intent: &Intent{TriggerType: events.KindArticleRead, Confidence: 0.95}}
		chain := &FallbackClassifier{Primary: primary, Secondary: KeywordClassifier{}}

		intent, err := chain.Classify(context.Background(), "whatever")
		require.NoError(t, err)
		assert.Equal(t, 0.95, intent.Confidence)
	})

	t.Run("falls back on failure", func(t *testing.T) {
		chain := &FallbackClassifier{Primary: failingClassifier{}, Secondary: KeywordClassifier{}}

		intent, err := chain.Classify(context.Background(), "summarize downloads")
		require.NoError(t, err)
		assert.Equal(t, events.KindFileDownload, intent.TriggerType)
	})

	t.Run("nil primary goes straight to secondary", func(t *testing.T) {
		chain := &FallbackClassifier{Secondary: KeywordClassifier{}}

		intent, err := chain.Classify(context.Background(), "summarize downloads")
		require.NoError(t, err)
		assert.NotNil(t, intent)
	})
}

func TestAnalyzeRecommendations(t *testing.T) {
	t.Run("low confidence", func(t *testing.T) {
		analysis, err := Analyze(context.Background(), KeywordClassifier{}, "do something clever")
		require.NoError(t, err)
		assert.Contains(t, analysis.Recommendations,
			"Consider being more specific about when the trigger should activate")
	})

	t.Run("too many actions", func(t *testing.T) {
		classifier := fixedClassifier{intent: &Intent{
			TriggerType: events.KindFileDownload,
			Actions:     []string{"summarize", "analyze_tone", "notify_file"},
			Confidence:  0.9,
		}}
		analysis, err := Analyze(context.Background(), classifier, "everything at once")
		require.NoError(t, err)
		assert.Contains(t, analysis.Recommendations,
			"Consider splitting into multiple simpler workflows")
	})

	t.Run("no actions", func(t *testing.T) {
		classifier := fixedClassifier{intent: &Intent{
			TriggerType: events.KindFileDownload,
			Confidence:  0.9,
		}}
		analysis, err := Analyze(context.Background(), classifier, "watch downloads")
		require.NoError(t, err)
		assert.Contains(t, analysis.Recommendations, "Specify what action should be performed")
	})

	t.Run("unrequested email delivery", func(t *testing.T) {
		classifier := fixedClassifier{intent: &Intent{
			TriggerType:  events.KindArticleRead,
			Actions:      []string{"summarize"},
			OutputMethod: delivery.MethodEmail,
			Confidence:   0.9,
		}}
		analysis, err := Analyze(context.Background(), classifier, "summarize articles I read")
		require.NoError(t, err)
		assert.Contains(t, analysis.Recommendations,
			"Email delivery detected but not explicitly requested")
	})

	t.Run("file trigger improvement", func(t *testing.T) {
		analysis, err := Analyze(context.Background(), KeywordClassifier{}, "summarize my downloads")
		require.NoError(t, err)
		assert.Contains(t, analysis.Improvements, "Add file type filters (e.g., 'PDF files only')")
	})
}
