package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultCaptureTimeout = 5 * time.Second

// PostHogProvider sends capture events to a PostHog instance.
type PostHogProvider struct {
	apiKey     string
	host       string
	httpClient *http.Client
}

func NewPostHog(apiKey, host string) *PostHogProvider {
	return &PostHogProvider{
		apiKey:     apiKey,
		host:       strings.TrimRight(host, "/"),
		httpClient: &http.Client{Timeout: defaultCaptureTimeout},
	}
}

func (p *PostHogProvider) Capture(ctx context.Context, event, distinctID string, properties map[string]any) error {
	body := map[string]any{
		"api_key":     p.apiKey,
		"event":       event,
		"distinct_id": distinctID,
		"properties":  properties,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/capture/", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("posthog capture returned status %d", resp.StatusCode)
	}
	return nil
}
