package analytics

import "context"

type Provider interface {
	Capture(ctx context.Context, event, distinctID string, properties map[string]any) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Capture(ctx context.Context, event, distinctID string, properties map[string]any) error {
	return nil
}
