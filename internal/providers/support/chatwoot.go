package support

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// ChatwootProvider creates contacts and conversations through the Chatwoot
// application API.
type ChatwootProvider struct {
	baseURL    string
	apiToken   string
	accountID  string
	inboxID    string
	httpClient *http.Client
}

func NewChatwoot(baseURL, apiToken, accountID, inboxID string) *ChatwootProvider {
	return &ChatwootProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
		accountID:  accountID,
		inboxID:    inboxID,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (p *ChatwootProvider) OpenConversation(ctx context.Context, email, name, message string) error {
	contactID, err := p.ensureContact(ctx, email, name)
	if err != nil {
		return err
	}

	body := map[string]any{
		"inbox_id":   p.inboxID,
		"contact_id": contactID,
		"status":     "open",
		"message": map[string]any{
			"content": message,
		},
	}
	return p.post(ctx, fmt.Sprintf("/api/v1/accounts/%s/conversations", p.accountID), body, nil)
}

func (p *ChatwootProvider) ensureContact(ctx context.Context, email, name string) (int64, error) {
	var created struct {
		Payload struct {
			Contact struct {
				ID int64 `json:"id"`
			} `json:"contact"`
		} `json:"payload"`
	}

	body := map[string]any{
		"inbox_id": p.inboxID,
		"email":    email,
		"name":     name,
	}
	err := p.post(ctx, fmt.Sprintf("/api/v1/accounts/%s/contacts", p.accountID), body, &created)
	if err != nil {
		return 0, err
	}
	return created.Payload.Contact.ID, nil
}

func (p *ChatwootProvider) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_access_token", p.apiToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chatwoot %s returned status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
