package slack

import (
	"github.com/retainflow/retainflow/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.slack",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.SlackWebhookURL == "" {
		log.Warn("slack webhook not configured, chat notifications disabled")
		return &NoOpProvider{}
	}
	return NewWebhook(cfg.SlackWebhookURL)
}
