package churn

import (
	"github.com/retainflow/retainflow/internal/churn/repository"
	"github.com/retainflow/retainflow/internal/churn/service"
	"go.uber.org/fx"
)

var Module = fx.Module("churn.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
