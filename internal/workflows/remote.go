package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"workflow-engine/internal/common/errors"
)

// RemoteClassifier calls an external intent classification service over
// HTTP. It is intended to be wrapped in a FallbackClassifier so a service
// outage degrades to keyword classification instead of failing workflow
// creation.
type RemoteClassifier struct {
	url    string
	client *http.Client
}

// NewRemoteClassifier creates a classifier for the given endpoint.
func NewRemoteClassifier(url string, timeout time.Duration) *RemoteClassifier {
	return &RemoteClassifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Classify posts the query and decodes the returned intent.
func (r *RemoteClassifier) Classify(ctx context.Context, query string) (*Intent, error) {
	if r.url == "" {
		return nil, errors.ConfigError("classifier URL is not configured")
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, errors.InternalError("failed to encode classify request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.InternalError("failed to build classify request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.ProcessingError("classifier request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.ProcessingError(
			fmt.Sprintf("classifier returned status %d", resp.StatusCode), nil)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, errors.ProcessingError("failed to decode classifier response", err)
	}
	return &intent, nil
}
