package emailqueue

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/retainflow/retainflow/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("emailqueue",
	fx.Provide(DefaultConfig),
	fx.Provide(NewRedisClient),
	fx.Provide(NewQueue),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func NewRedisClient(cfg config.Config, lc fx.Lifecycle) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.RedisAddr),
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

func runWorker(lc fx.Lifecycle, worker *Worker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			runCtx, cancel := context.WithCancel(context.Background())

			go worker.Run(runCtx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
