package automation

import "context"

// WorkflowProvider executes hosted automation workflows by ID (n8n-style).
type WorkflowProvider interface {
	TriggerWorkflow(ctx context.Context, workflowID string, payload map[string]any) error
}

// ActionProvider executes a single app action (Composio-style).
type ActionProvider interface {
	ExecuteAction(ctx context.Context, app, action string, params map[string]any) error
}

type NoOpWorkflowProvider struct{}

func (p *NoOpWorkflowProvider) TriggerWorkflow(ctx context.Context, workflowID string, payload map[string]any) error {
	return nil
}

type NoOpActionProvider struct{}

func (p *NoOpActionProvider) ExecuteAction(ctx context.Context, app, action string, params map[string]any) error {
	return nil
}
