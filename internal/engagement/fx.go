package engagement

import (
	"github.com/retainflow/retainflow/internal/engagement/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("engagement",
	fx.Provide(repository.Provide),
)
