package integration

import (
	"github.com/retainflow/retainflow/internal/integration/repository"
	"github.com/retainflow/retainflow/internal/integration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("integration.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
