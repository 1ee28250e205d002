package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// N8NProvider triggers workflows through the n8n webhook API.
type N8NProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewN8N(baseURL, apiKey string) *N8NProvider {
	return &N8NProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (p *N8NProvider) TriggerWorkflow(ctx context.Context, workflowID string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/webhook/%s", p.baseURL, workflowID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-N8N-API-KEY", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("n8n workflow %s returned status %d", workflowID, resp.StatusCode)
	}
	return nil
}

// ComposioProvider executes app actions through the Composio API.
type ComposioProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewComposio(baseURL, apiKey string) *ComposioProvider {
	return &ComposioProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (p *ComposioProvider) ExecuteAction(ctx context.Context, app, action string, params map[string]any) error {
	body, err := json.Marshal(map[string]any{
		"appName": app,
		"input":   params,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v2/actions/%s/execute", p.baseURL, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("composio action %s returned status %d", action, resp.StatusCode)
	}
	return nil
}
