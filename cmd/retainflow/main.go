package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/churn"
	"github.com/retainflow/retainflow/internal/clock"
	"github.com/retainflow/retainflow/internal/config"
	"github.com/retainflow/retainflow/internal/emailqueue"
	"github.com/retainflow/retainflow/internal/engagement"
	"github.com/retainflow/retainflow/internal/integration"
	"github.com/retainflow/retainflow/internal/logger"
	"github.com/retainflow/retainflow/internal/migration"
	obsmetrics "github.com/retainflow/retainflow/internal/observability/metrics"
	"github.com/retainflow/retainflow/internal/offer"
	"github.com/retainflow/retainflow/internal/providers"
	"github.com/retainflow/retainflow/internal/retention"
	"github.com/retainflow/retainflow/internal/scheduler"
	"github.com/retainflow/retainflow/internal/server"
	"github.com/retainflow/retainflow/internal/user"
	"github.com/retainflow/retainflow/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		obsmetrics.Module,
		migration.Module,

		// External providers
		providers.Module,

		// Functional domains
		user.Module,
		engagement.Module,
		churn.Module,
		offer.Module,
		integration.Module,
		emailqueue.Module,
		retention.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
