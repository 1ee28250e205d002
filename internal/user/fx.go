package user

import (
	"github.com/retainflow/retainflow/internal/user/repository"
	"github.com/retainflow/retainflow/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
