package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	churndomain "github.com/retainflow/retainflow/internal/churn/domain"
	obsmetrics "github.com/retainflow/retainflow/internal/observability/metrics"
	"github.com/retainflow/retainflow/internal/retention"
	userdomain "github.com/retainflow/retainflow/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config   Config
	DB       *gorm.DB
	Users    userdomain.Repository
	Churn    churndomain.Service
	Triggers retention.Triggers
	Log      *zap.Logger
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

// Sweeper re-scores every active user on a fixed interval and fires the
// churn-risk trigger for users that come back high risk. A failure on one
// user never stops the sweep.
type Sweeper struct {
	cfg      Config
	db       *gorm.DB
	users    userdomain.Repository
	churn    churndomain.Service
	triggers retention.Triggers
	log      *zap.Logger
	metrics  *obsmetrics.Metrics
}

func New(p Params) *Sweeper {
	return &Sweeper{
		cfg:      p.Config.withDefaults(),
		db:       p.DB,
		users:    p.Users,
		churn:    p.Churn,
		triggers: p.Triggers,
		log:      p.Log.Named("scheduler"),
		metrics:  p.Metrics,
	}
}

// RunOnce walks all active users in insertion order and scores each one.
// Users are processed in batches: every user in a batch gets its own
// goroutine, the batch is waited on, then the sweep pauses before the
// next batch so a large user base does not hammer the database.
func (s *Sweeper) RunOnce(ctx context.Context) {
	started := time.Now()
	scored := 0
	flagged := 0

	var cursor snowflake.ID
	for {
		users, err := s.users.ListActive(ctx, s.db, cursor, s.cfg.FetchLimit)
		if err != nil {
			s.log.Error("list active users", zap.Error(err))
			return
		}
		if len(users) == 0 {
			break
		}
		cursor = users[len(users)-1].ID

		for start := 0; start < len(users); start += s.cfg.BatchSize {
			end := start + s.cfg.BatchSize
			if end > len(users) {
				end = len(users)
			}

			var wg sync.WaitGroup
			var mu sync.Mutex
			for _, u := range users[start:end] {
				wg.Add(1)
				go func(u *userdomain.User) {
					defer wg.Done()
					high := s.sweepUser(ctx, u)
					mu.Lock()
					scored++
					if high {
						flagged++
					}
					mu.Unlock()
				}(u)
			}
			wg.Wait()

			if end < len(users) && s.cfg.BatchDelay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.cfg.BatchDelay):
				}
			}
		}

		if len(users) < s.cfg.FetchLimit {
			break
		}
	}

	s.log.Info("churn sweep completed",
		zap.Int("scored", scored),
		zap.Int("flagged", flagged),
		zap.Duration("took", time.Since(started)))
}

func (s *Sweeper) sweepUser(ctx context.Context, u *userdomain.User) bool {
	if s.metrics != nil {
		s.metrics.SweepUsersTotal.Inc()
	}

	result, err := s.churn.Score(ctx, churndomain.ScoreRequest{UserID: u.ID.String()})
	if err != nil {
		s.log.Warn("sweep score failed",
			zap.String("user_id", u.ID.String()),
			zap.Error(err))
		return false
	}

	if result.Prediction.RiskLevel != churndomain.RiskHigh {
		return false
	}

	s.triggers.TriggerHighChurnRisk(ctx, u.ID.String(), u.Email, result.Prediction.Score)
	return true
}

// RunForever blocks until ctx is cancelled, running a sweep immediately
// and then once per SweepInterval.
func (s *Sweeper) RunForever(ctx context.Context) {
	s.runBounded(ctx)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runBounded(ctx)
		}
	}
}

func (s *Sweeper) runBounded(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()
	s.RunOnce(runCtx)
}
