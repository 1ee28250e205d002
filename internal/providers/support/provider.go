package support

import "context"

// Provider opens support conversations for retention follow-up.
type Provider interface {
	OpenConversation(ctx context.Context, email, name, message string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) OpenConversation(ctx context.Context, email, name, message string) error {
	return nil
}
