package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signedHeaders(payload []byte, secret string) http.Header {
	timestamp := "1756723200"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "." + string(payload)))
	signature := hex.EncodeToString(mac.Sum(nil))

	headers := http.Header{}
	headers.Set("Stripe-Signature", fmt.Sprintf("t=%s,v1=%s", timestamp, signature))
	return headers
}

func TestVerifyWebhookAcceptsValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.deleted"}`)
	assert.NoError(t, VerifyWebhook(payload, signedHeaders(payload, testSecret), testSecret))
}

func TestVerifyWebhookRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	err := VerifyWebhook(payload, signedHeaders(payload, "whsec_other"), testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	headers := signedHeaders(payload, testSecret)
	err := VerifyWebhook([]byte(`{"id":"evt_2"}`), headers, testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookRejectsEmptySecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.deleted"}`)
	err := VerifyWebhook(payload, signedHeaders(payload, ""), "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookRejectsMissingHeader(t *testing.T) {
	err := VerifyWebhook([]byte(`{}`), http.Header{}, testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseWebhookSubscriptionDeleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "customer.subscription.deleted",
		"data": {"object": {"customer": "cus_123", "cancellation_reason": "too_expensive"}}
	}`)

	event, err := ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "cus_123", event.Customer)
	assert.Equal(t, "too_expensive", event.Reason)
}

func TestParseWebhookMetadataReasonFallback(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"type": "customer.subscription.deleted",
		"data": {"object": {"customer": "cus_456", "metadata": {"reason": "switching"}}}
	}`)

	event, err := ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, "switching", event.Reason)
}

func TestParseWebhookIgnoresOtherEvents(t *testing.T) {
	payload := []byte(`{"id":"evt_3","type":"invoice.paid","data":{"object":{}}}`)

	_, err := ParseWebhook(payload)
	assert.ErrorIs(t, err, ErrEventIgnored)
}

func TestParseWebhookRejectsGarbage(t *testing.T) {
	_, err := ParseWebhook([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParseWebhook([]byte(`{"type":"customer.subscription.deleted"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
