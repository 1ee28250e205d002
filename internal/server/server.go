package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	churndomain "github.com/retainflow/retainflow/internal/churn/domain"
	"github.com/retainflow/retainflow/internal/clock"
	"github.com/retainflow/retainflow/internal/config"
	integrationdomain "github.com/retainflow/retainflow/internal/integration/domain"
	obsmetrics "github.com/retainflow/retainflow/internal/observability/metrics"
	offerdomain "github.com/retainflow/retainflow/internal/offer/domain"
	"github.com/retainflow/retainflow/internal/retention"
	userdomain "github.com/retainflow/retainflow/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	log            *zap.Logger
	clock          clock.Clock
	userSvc        userdomain.Service
	userRepo       userdomain.Repository
	churnSvc       churndomain.Service
	offerSvc       offerdomain.Service
	integrationSvc integrationdomain.Service
	triggers       retention.Triggers
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	Log            *zap.Logger
	Clock          clock.Clock
	UserSvc        userdomain.Service
	UserRepo       userdomain.Repository
	ChurnSvc       churndomain.Service
	OfferSvc       offerdomain.Service
	IntegrationSvc integrationdomain.Service
	Triggers       retention.Triggers
	ObsMetrics     *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		log:            p.Log.Named("http"),
		clock:          p.Clock,
		userSvc:        p.UserSvc,
		userRepo:       p.UserRepo,
		churnSvc:       p.ChurnSvc,
		offerSvc:       p.OfferSvc,
		integrationSvc: p.IntegrationSvc,
		triggers:       p.Triggers,
		obsMetrics:     p.ObsMetrics,
	}
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
	s.RegisterWebhookRoutes()
	s.RegisterTrackingRoutes()
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/users", s.CreateUser)
	v1.GET("/users/:id", s.GetUserByID)
	v1.POST("/users/:id/activity", s.RecordUserActivity)

	v1.POST("/users/:id/churn-score", s.ScoreUser)
	v1.GET("/users/:id/churn-score", s.GetLatestChurnScore)

	v1.POST("/users/:id/offers", s.GenerateOffer)
	v1.GET("/users/:id/offers", s.ListOffers)
	v1.POST("/offers/:code/apply", s.ApplyOffer)

	v1.POST("/users/:id/integrations", s.ConnectIntegration)
	v1.GET("/users/:id/integrations", s.ListIntegrations)
	v1.DELETE("/integrations/:id", s.DisconnectIntegration)
}

func (s *Server) RegisterWebhookRoutes() {
	if s.cfg.Billing.StripeWebhookSecret == "" {
		s.log.Warn("billing webhook secret not configured, all webhook deliveries will be rejected")
	}
	s.engine.POST("/webhooks/billing", s.HandleBillingWebhook)
}

func (s *Server) RegisterTrackingRoutes() {
	s.engine.GET("/track/email/:id", s.TrackEmailOpen)
}

// detachedContext returns a context independent of the request lifecycle
// for trigger fan-outs that must survive the HTTP response.
func detachedContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
