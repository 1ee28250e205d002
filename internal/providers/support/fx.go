package support

import (
	"github.com/retainflow/retainflow/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.support",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	sup := cfg.Support
	if sup.ChatwootBaseURL == "" || sup.ChatwootAPIToken == "" {
		log.Warn("chatwoot not configured, support conversations disabled")
		return &NoOpProvider{}
	}
	return NewChatwoot(sup.ChatwootBaseURL, sup.ChatwootAPIToken, sup.ChatwootAccountID, sup.ChatwootInboxID)
}
