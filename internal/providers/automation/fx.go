package automation

import (
	"github.com/retainflow/retainflow/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.automation",
	fx.Provide(NewWorkflowFromConfig),
	fx.Provide(NewActionFromConfig),
)

func NewWorkflowFromConfig(cfg config.Config, log *zap.Logger) WorkflowProvider {
	if cfg.Automation.N8NBaseURL == "" {
		log.Warn("n8n not configured, workflow triggers disabled")
		return &NoOpWorkflowProvider{}
	}
	return NewN8N(cfg.Automation.N8NBaseURL, cfg.Automation.N8NAPIKey)
}

func NewActionFromConfig(cfg config.Config, log *zap.Logger) ActionProvider {
	if cfg.Automation.ComposioAPIKey == "" {
		log.Warn("composio api key not configured, action execution disabled")
		return &NoOpActionProvider{}
	}
	return NewComposio(cfg.Automation.ComposioBaseURL, cfg.Automation.ComposioAPIKey)
}
