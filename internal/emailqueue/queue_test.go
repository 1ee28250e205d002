package emailqueue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAddBulkEmptyIsNoop(t *testing.T) {
	q := NewQueue(nil, Config{}, zap.NewNop())

	assert.NoError(t, q.AddBulk(context.Background(), nil))
	assert.NoError(t, q.AddBulk(context.Background(), []Job{}))
}

func TestAddBulkRejectsUnencodablePayload(t *testing.T) {
	q := NewQueue(nil, Config{}, zap.NewNop())

	jobs := []Job{
		NewJob("42", "dana@example.com", TemplateWelcome, nil),
		NewJob("42", "dana@example.com", TemplateOnboarding, map[string]any{
			"bad": func() {},
		}),
	}
	assert.Error(t, q.AddBulk(context.Background(), jobs))
}
