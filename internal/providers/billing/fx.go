package billing

import (
	"github.com/retainflow/retainflow/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.billing",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.Billing.StripeSecretKey == "" {
		log.Warn("stripe secret key not configured, coupon creation disabled")
		return &NoOpProvider{}
	}
	return NewStripe(cfg.Billing.StripeSecretKey, cfg.Billing.StripeAPIBaseURL)
}
