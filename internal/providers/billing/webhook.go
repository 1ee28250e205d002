package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// WebhookEvent is the subset of a Stripe event the pipeline reacts to.
type WebhookEvent struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Customer string `json:"-"`
	Reason   string `json:"-"`
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type stripeSubscription struct {
	Customer           string `json:"customer"`
	CancellationReason string `json:"cancellation_reason"`
	Metadata           struct {
		Reason string `json:"reason"`
	} `json:"metadata"`
}

// VerifyWebhook checks the Stripe-Signature header against the shared secret.
// An empty secret never verifies: without a configured key there is nothing to
// authenticate against.
func VerifyWebhook(payload []byte, headers http.Header, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return ErrInvalidSignature
	}

	sigHeader := strings.TrimSpace(headers.Get("Stripe-Signature"))
	if sigHeader == "" {
		return ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return ErrInvalidSignature
}

// ParseWebhook decodes the payload into the events the pipeline handles,
// returning ErrEventIgnored for everything else.
func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, ErrInvalidPayload
	}

	switch strings.TrimSpace(event.Type) {
	case "customer.subscription.deleted":
		var sub stripeSubscription
		if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
			return nil, ErrInvalidPayload
		}
		reason := strings.TrimSpace(sub.CancellationReason)
		if reason == "" {
			reason = strings.TrimSpace(sub.Metadata.Reason)
		}
		return &WebhookEvent{
			ID:       event.ID,
			Type:     event.Type,
			Customer: strings.TrimSpace(sub.Customer),
			Reason:   reason,
		}, nil
	default:
		return nil, ErrEventIgnored
	}
}

func parseSignatureHeader(header string) (string, []string, error) {
	var timestamp string
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			if _, err := strconv.ParseInt(pair[1], 10, 64); err != nil {
				return "", nil, err
			}
			timestamp = pair[1]
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return "", nil, ErrInvalidSignature
	}
	return timestamp, signatures, nil
}
