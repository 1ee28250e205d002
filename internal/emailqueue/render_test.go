package emailqueue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRetentionEmail(t *testing.T) {
	job := NewJob("1", "dana@example.com", TemplateRetention, map[string]any{
		"name":             "Dana",
		"offer_code":       "RETAINAB12CD34",
		"description":      "Here's 50% off your next month.",
		"discount_percent": 50,
	})

	subject, body, err := Render(job, "https://app.example.com", "https://app.example.com/track/email/42.gif")
	require.NoError(t, err)

	assert.Equal(t, "A little something before you go", subject)
	assert.Contains(t, body, "Dana")
	assert.Contains(t, body, "RETAINAB12CD34")
	assert.Contains(t, body, "50% off")
	assert.Contains(t, body, "https://app.example.com/track/email/42.gif")
}

func TestRenderDefaultsMissingName(t *testing.T) {
	job := NewJob("1", "x@example.com", TemplateWelcome, nil)

	_, body, err := Render(job, "https://app.example.com", "")
	require.NoError(t, err)
	assert.Contains(t, body, "Hey there,")
	assert.False(t, strings.Contains(body, "track/email"))
}

func TestRenderSubjectOverride(t *testing.T) {
	job := NewJob("1", "x@example.com", TemplateOnboarding, nil)
	job.Subject = "Custom subject"

	subject, _, err := Render(job, "https://app.example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Custom subject", subject)
}

func TestRenderUnknownTemplate(t *testing.T) {
	job := NewJob("1", "x@example.com", Template("promo"), nil)

	_, _, err := Render(job, "https://app.example.com", "")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRenderEscapesUserContent(t *testing.T) {
	job := NewJob("1", "x@example.com", TemplateWelcome, map[string]any{
		"name": `<script>alert("hi")</script>`,
	})

	_, body, err := Render(job, "https://app.example.com", "")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
