package offer

import (
	"github.com/retainflow/retainflow/internal/offer/repository"
	"github.com/retainflow/retainflow/internal/offer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("offer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
