package retention

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	churndomain "github.com/retainflow/retainflow/internal/churn/domain"
	"github.com/retainflow/retainflow/internal/emailqueue"
	engagementdomain "github.com/retainflow/retainflow/internal/engagement/domain"
	obsmetrics "github.com/retainflow/retainflow/internal/observability/metrics"
	offerdomain "github.com/retainflow/retainflow/internal/offer/domain"
	"github.com/retainflow/retainflow/internal/providers/analytics"
	"github.com/retainflow/retainflow/internal/providers/automation"
	"github.com/retainflow/retainflow/internal/providers/slack"
	"github.com/retainflow/retainflow/internal/providers/support"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Workflow IDs of the hosted automation flows each trigger feeds.
const (
	workflowSignup    = "user-signup"
	workflowCancelled = "subscription-cancelled"
	workflowChurnRisk = "churn-risk"
)

// EmailEnqueuer is the queue surface the triggers need.
type EmailEnqueuer interface {
	Add(ctx context.Context, job emailqueue.Job) error
	AddBulk(ctx context.Context, jobs []emailqueue.Job) error
}

// Triggers are the event-specific orchestrators. They never return errors:
// every failure is logged and the remaining side effects still run, so a
// batch caller keeps going no matter what happens to one user.
type Triggers interface {
	TriggerSignup(ctx context.Context, userID, email, name string)
	TriggerSubscriptionCancelled(ctx context.Context, userID, email, reason string)
	TriggerHighChurnRisk(ctx context.Context, userID, email string, score float64)
}

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Queue          EmailEnqueuer
	OfferSvc       offerdomain.Service
	ChurnSvc       churndomain.Service
	EngagementRepo engagementdomain.Repository
	Analytics      analytics.Provider
	Support        support.Provider
	Workflow       automation.WorkflowProvider
	Action         automation.ActionProvider
	Slack          slack.Provider
	Metrics        *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	queue          EmailEnqueuer
	offerSvc       offerdomain.Service
	churnSvc       churndomain.Service
	engagementRepo engagementdomain.Repository
	analytics      analytics.Provider
	support        support.Provider
	workflow       automation.WorkflowProvider
	action         automation.ActionProvider
	slack          slack.Provider
	metrics        *obsmetrics.Metrics
}

func New(p Params) Triggers {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("retention.service"),
		genID:          p.GenID,
		queue:          p.Queue,
		offerSvc:       p.OfferSvc,
		churnSvc:       p.ChurnSvc,
		engagementRepo: p.EngagementRepo,
		analytics:      p.Analytics,
		support:        p.Support,
		workflow:       p.Workflow,
		action:         p.Action,
		slack:          p.Slack,
		metrics:        p.Metrics,
	}
}

func (s *Service) TriggerSignup(ctx context.Context, userID, email, name string) {
	log := s.log.With(zap.String("event", "signup"), zap.String("user_id", userID))

	jobs := []emailqueue.Job{
		emailqueue.NewJob(userID, email, emailqueue.TemplateWelcome, map[string]any{
			"name": name,
		}),
		emailqueue.NewJob(userID, email, emailqueue.TemplateOnboarding, map[string]any{
			"name": name,
		}),
	}
	if err := s.queue.AddBulk(ctx, jobs); err != nil {
		log.Error("failed to enqueue signup emails", zap.Error(err))
	}

	if err := s.analytics.Capture(ctx, "user_signed_up", userID, map[string]any{
		"email": email,
	}); err != nil {
		log.Warn("analytics capture failed", zap.Error(err))
	}

	if err := s.workflow.TriggerWorkflow(ctx, workflowSignup, map[string]any{
		"user_id": userID,
		"email":   email,
		"name":    name,
	}); err != nil {
		log.Warn("automation workflow failed", zap.Error(err))
	}

	if err := s.support.OpenConversation(ctx, email, name, "New member just joined — say hi and point them at onboarding."); err != nil {
		log.Warn("support conversation failed", zap.Error(err))
	}

	s.settle(ctx, log,
		Action{Name: "slack", Run: func(ctx context.Context) error {
			return s.slack.PostMessage(ctx, fmt.Sprintf(":tada: New member: %s (%s)", name, email))
		}},
		Action{Name: "composio", Run: func(ctx context.Context) error {
			return s.action.ExecuteAction(ctx, "notion", "NOTION_ADD_PAGE_CONTENT", map[string]any{
				"user_id": userID,
				"email":   email,
				"event":   "signup",
			})
		}},
	)

	s.count("signup")
}

func (s *Service) TriggerSubscriptionCancelled(ctx context.Context, userID, email, reason string) {
	log := s.log.With(zap.String("event", "subscription_cancelled"), zap.String("user_id", userID))

	s.recordCancelAttempt(ctx, log, userID, reason)

	// A cancellation is always treated as a save-at-all-costs moment, so the
	// offer is generated from the freshest score available.
	score := 0.0
	if result, err := s.churnSvc.Score(ctx, churndomain.ScoreRequest{UserID: userID}); err != nil {
		log.Warn("churn scoring failed, assuming highest risk", zap.Error(err))
	} else {
		score = result.Prediction.Score
	}

	data := map[string]any{"reason": reason}
	if offer, err := s.offerSvc.Generate(ctx, offerdomain.GenerateOfferRequest{
		UserID:     userID,
		Reason:     "subscription_cancelled",
		ChurnScore: score,
	}); err != nil {
		log.Error("failed to generate retention offer", zap.Error(err))
	} else {
		data["offer_code"] = offer.OfferCode
		data["description"] = offer.Description
		if offer.DiscountPercent > 0 {
			data["discount_percent"] = offer.DiscountPercent
		}
		s.countOffer(offer)
	}

	job := emailqueue.NewJob(userID, email, emailqueue.TemplateRetention, data)
	if err := s.queue.Add(ctx, job); err != nil {
		log.Error("failed to enqueue retention email", zap.Error(err))
	}

	if err := s.analytics.Capture(ctx, "subscription_cancelled", userID, map[string]any{
		"reason": reason,
	}); err != nil {
		log.Warn("analytics capture failed", zap.Error(err))
	}

	if err := s.workflow.TriggerWorkflow(ctx, workflowCancelled, map[string]any{
		"user_id": userID,
		"email":   email,
		"reason":  reason,
	}); err != nil {
		log.Warn("automation workflow failed", zap.Error(err))
	}

	if err := s.support.OpenConversation(ctx, email, "", fmt.Sprintf("Member cancelled (%s). A retention offer was sent — follow up personally.", reason)); err != nil {
		log.Warn("support conversation failed", zap.Error(err))
	}

	s.settle(ctx, log,
		Action{Name: "slack", Run: func(ctx context.Context) error {
			return s.slack.PostMessage(ctx, fmt.Sprintf(":rotating_light: Cancellation: %s (%s)", email, reason))
		}},
		Action{Name: "composio", Run: func(ctx context.Context) error {
			return s.action.ExecuteAction(ctx, "notion", "NOTION_ADD_PAGE_CONTENT", map[string]any{
				"user_id": userID,
				"email":   email,
				"event":   "cancellation",
				"reason":  reason,
			})
		}},
	)

	s.count("subscription_cancelled")
}

func (s *Service) TriggerHighChurnRisk(ctx context.Context, userID, email string, score float64) {
	log := s.log.With(zap.String("event", "high_churn_risk"), zap.String("user_id", userID))

	data := map[string]any{}
	if offer, err := s.offerSvc.Generate(ctx, offerdomain.GenerateOfferRequest{
		UserID:     userID,
		Reason:     "high_churn_risk",
		ChurnScore: score,
	}); err != nil {
		log.Error("failed to generate retention offer", zap.Error(err))
	} else {
		data["offer_code"] = offer.OfferCode
		data["description"] = offer.Description
		if offer.DiscountPercent > 0 {
			data["discount_percent"] = offer.DiscountPercent
		}
		s.countOffer(offer)
	}

	job := emailqueue.NewJob(userID, email, emailqueue.TemplateChurnPrevention, data)
	if err := s.queue.Add(ctx, job); err != nil {
		log.Error("failed to enqueue churn prevention email", zap.Error(err))
	}

	if err := s.analytics.Capture(ctx, "churn_risk_detected", userID, map[string]any{
		"score": score,
	}); err != nil {
		log.Warn("analytics capture failed", zap.Error(err))
	}

	if err := s.workflow.TriggerWorkflow(ctx, workflowChurnRisk, map[string]any{
		"user_id": userID,
		"email":   email,
		"score":   score,
	}); err != nil {
		log.Warn("automation workflow failed", zap.Error(err))
	}

	if err := s.support.OpenConversation(ctx, email, "", "Member flagged at high churn risk. Check in before they drift away."); err != nil {
		log.Warn("support conversation failed", zap.Error(err))
	}

	s.settle(ctx, log,
		Action{Name: "slack", Run: func(ctx context.Context) error {
			return s.slack.PostMessage(ctx, fmt.Sprintf(":warning: High churn risk: %s (score %.2f)", email, score))
		}},
		Action{Name: "composio", Run: func(ctx context.Context) error {
			return s.action.ExecuteAction(ctx, "notion", "NOTION_ADD_PAGE_CONTENT", map[string]any{
				"user_id": userID,
				"email":   email,
				"event":   "churn_risk",
				"score":   score,
			})
		}},
	)

	s.count("high_churn_risk")
}

func (s *Service) recordCancelAttempt(ctx context.Context, log *zap.Logger, userID, reason string) {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || id == 0 {
		log.Warn("cannot record cancel attempt for malformed user id")
		return
	}
	event := &engagementdomain.SubscriptionEvent{
		ID:        s.genID.Generate(),
		UserID:    id,
		Type:      engagementdomain.SubscriptionEventCancelAttempt,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.engagementRepo.RecordSubscriptionEvent(ctx, s.db, event); err != nil {
		log.Warn("failed to record cancel attempt", zap.Error(err))
	}
}

func (s *Service) settle(ctx context.Context, log *zap.Logger, actions ...Action) {
	for _, outcome := range Settle(ctx, actions...) {
		if outcome.Err != nil {
			log.Warn("best-effort notification failed",
				zap.String("action", outcome.Name),
				zap.Error(outcome.Err),
			)
		}
	}
}

func (s *Service) count(event string) {
	if s.metrics != nil {
		s.metrics.TriggerRunsTotal.WithLabelValues(event, "completed").Inc()
	}
}

func (s *Service) countOffer(offer offerdomain.RetentionOffer) {
	if s.metrics != nil {
		s.metrics.OffersTotal.WithLabelValues(string(offer.Kind)).Inc()
	}
}
