package providers

import (
	"github.com/retainflow/retainflow/internal/providers/analytics"
	"github.com/retainflow/retainflow/internal/providers/automation"
	"github.com/retainflow/retainflow/internal/providers/billing"
	"github.com/retainflow/retainflow/internal/providers/email"
	"github.com/retainflow/retainflow/internal/providers/slack"
	"github.com/retainflow/retainflow/internal/providers/support"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	slack.Module,
	billing.Module,
	analytics.Module,
	support.Module,
	automation.Module,
)
