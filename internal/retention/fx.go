package retention

import (
	"github.com/retainflow/retainflow/internal/emailqueue"
	"go.uber.org/fx"
)

var Module = fx.Module("retention.service",
	fx.Provide(func(q *emailqueue.Queue) EmailEnqueuer { return q }),
	fx.Provide(New),
)
