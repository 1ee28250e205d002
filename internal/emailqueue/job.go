package emailqueue

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Template enumerates the supported outbound email templates. Dispatch is an
// exhaustive switch; an unrecognized value is a delivery error, not a drop.
type Template string

const (
	TemplateWelcome         Template = "welcome"
	TemplateOnboarding      Template = "onboarding"
	TemplateRetention       Template = "retention"
	TemplateChurnPrevention Template = "churn_prevention"
)

var ErrUnknownTemplate = errors.New("unknown_template")

func (t Template) Valid() bool {
	switch t {
	case TemplateWelcome, TemplateOnboarding, TemplateRetention, TemplateChurnPrevention:
		return true
	default:
		return false
	}
}

// Job is one queued outbound email. It lives only inside the queue broker;
// delivery is recorded separately in email_logs.
type Job struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id,omitempty"`
	To         string         `json:"to"`
	Subject    string         `json:"subject,omitempty"`
	Template   Template       `json:"template"`
	Data       map[string]any `json:"data,omitempty"`
	Attempts   int            `json:"attempts"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// NewJob stamps identity and enqueue time onto a job payload.
func NewJob(userID, to string, template Template, data map[string]any) Job {
	return Job{
		ID:         uuid.NewString(),
		UserID:     userID,
		To:         to,
		Template:   template,
		Data:       data,
		EnqueuedAt: time.Now().UTC(),
	}
}
