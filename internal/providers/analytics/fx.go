package analytics

import (
	"github.com/retainflow/retainflow/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.analytics",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.Analytics.PostHogAPIKey == "" {
		log.Warn("posthog api key not configured, analytics capture disabled")
		return &NoOpProvider{}
	}
	return NewPostHog(cfg.Analytics.PostHogAPIKey, cfg.Analytics.PostHogHost)
}
