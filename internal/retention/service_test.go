package retention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	churndomain "github.com/retainflow/retainflow/internal/churn/domain"
	"github.com/retainflow/retainflow/internal/emailqueue"
	engagementdomain "github.com/retainflow/retainflow/internal/engagement/domain"
	offerdomain "github.com/retainflow/retainflow/internal/offer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeQueue struct {
	mu   sync.Mutex
	jobs []emailqueue.Job
	err  error
}

func (f *fakeQueue) Add(ctx context.Context, job emailqueue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) AddBulk(ctx context.Context, jobs []emailqueue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, jobs...)
	return nil
}

type fakeOfferService struct {
	offer offerdomain.RetentionOffer
	err   error
	calls []offerdomain.GenerateOfferRequest
}

func (f *fakeOfferService) Generate(ctx context.Context, req offerdomain.GenerateOfferRequest) (offerdomain.RetentionOffer, error) {
	f.calls = append(f.calls, req)
	return f.offer, f.err
}

func (f *fakeOfferService) Apply(ctx context.Context, req offerdomain.ApplyOfferRequest) (offerdomain.RetentionOffer, error) {
	return offerdomain.RetentionOffer{}, offerdomain.ErrNotFound
}

func (f *fakeOfferService) ListByUser(ctx context.Context, req offerdomain.ListOffersRequest) ([]offerdomain.RetentionOffer, error) {
	return nil, nil
}

type fakeChurnService struct {
	score float64
	err   error
}

func (f *fakeChurnService) Score(ctx context.Context, req churndomain.ScoreRequest) (churndomain.ScoreResult, error) {
	if f.err != nil {
		return churndomain.ScoreResult{}, f.err
	}
	return churndomain.ScoreResult{
		Prediction: churndomain.ChurnPrediction{Score: f.score},
	}, nil
}

func (f *fakeChurnService) Latest(ctx context.Context, req churndomain.LatestRequest) (churndomain.ChurnPrediction, error) {
	return churndomain.ChurnPrediction{}, churndomain.ErrNotFound
}

type fakeEngagementRepo struct {
	mu     sync.Mutex
	events []*engagementdomain.SubscriptionEvent
}

func (f *fakeEngagementRepo) RecordMessage(ctx context.Context, db *gorm.DB, event *engagementdomain.MessageEvent) error {
	return nil
}

func (f *fakeEngagementRepo) RecordSubscriptionEvent(ctx context.Context, db *gorm.DB, event *engagementdomain.SubscriptionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEngagementRepo) CountMessagesSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, since time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeEngagementRepo) CountSubscriptionEventsSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, eventType engagementdomain.SubscriptionEventType, since time.Time) (int64, error) {
	return 0, nil
}

// Every outbound provider fails.
type failingProviders struct{}

func (failingProviders) Capture(ctx context.Context, event, distinctID string, properties map[string]any) error {
	return errors.New("analytics down")
}

func (failingProviders) OpenConversation(ctx context.Context, email, name, message string) error {
	return errors.New("support down")
}

func (failingProviders) TriggerWorkflow(ctx context.Context, workflowID string, payload map[string]any) error {
	return errors.New("automation down")
}

func (failingProviders) ExecuteAction(ctx context.Context, app, action string, params map[string]any) error {
	return errors.New("composio down")
}

func (failingProviders) PostMessage(ctx context.Context, message string) error {
	return errors.New("slack down")
}

type fixture struct {
	triggers   Triggers
	queue      *fakeQueue
	offers     *fakeOfferService
	churn      *fakeChurnService
	engagement *fakeEngagementRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := &fixture{
		queue: &fakeQueue{},
		offers: &fakeOfferService{
			offer: offerdomain.RetentionOffer{
				Kind:            offerdomain.KindDiscount,
				DiscountPercent: 50,
				Description:     "Here's 50% off your next month.",
				OfferCode:       "RETAINAB12CD34",
			},
		},
		churn:      &fakeChurnService{score: 0.2},
		engagement: &fakeEngagementRepo{},
	}
	f.triggers = New(Params{
		Log:            zap.NewNop(),
		GenID:          node,
		Queue:          f.queue,
		OfferSvc:       f.offers,
		ChurnSvc:       f.churn,
		EngagementRepo: f.engagement,
		Analytics:      failingProviders{},
		Support:        failingProviders{},
		Workflow:       failingProviders{},
		Action:         failingProviders{},
		Slack:          failingProviders{},
	})
	return f
}

func TestSignupEnqueuesWelcomeDespiteProviderOutages(t *testing.T) {
	f := newFixture(t)

	f.triggers.TriggerSignup(context.Background(), "42", "dana@example.com", "Dana")

	require.Len(t, f.queue.jobs, 2)
	assert.Equal(t, emailqueue.TemplateWelcome, f.queue.jobs[0].Template)
	assert.Equal(t, emailqueue.TemplateOnboarding, f.queue.jobs[1].Template)
	for _, job := range f.queue.jobs {
		assert.Equal(t, "dana@example.com", job.To)
		assert.Equal(t, "Dana", job.Data["name"])
	}
}

func TestCancellationSendsExactlyOneRetentionEmail(t *testing.T) {
	f := newFixture(t)

	f.triggers.TriggerSubscriptionCancelled(context.Background(), "42", "dana@example.com", "too_expensive")

	require.Len(t, f.queue.jobs, 1)
	job := f.queue.jobs[0]
	assert.Equal(t, emailqueue.TemplateRetention, job.Template)
	assert.Equal(t, "RETAINAB12CD34", job.Data["offer_code"])
	assert.Equal(t, 50, job.Data["discount_percent"])
	assert.Equal(t, "too_expensive", job.Data["reason"])

	// Offer tier came from the fresh churn score.
	require.Len(t, f.offers.calls, 1)
	assert.InDelta(t, 0.2, f.offers.calls[0].ChurnScore, 1e-9)
	assert.Equal(t, "subscription_cancelled", f.offers.calls[0].Reason)

	// The cancel attempt was recorded for future scoring.
	require.Len(t, f.engagement.events, 1)
	assert.Equal(t, engagementdomain.SubscriptionEventCancelAttempt, f.engagement.events[0].Type)
	assert.Equal(t, "too_expensive", f.engagement.events[0].Reason)
}

func TestCancellationSurvivesScoringFailure(t *testing.T) {
	f := newFixture(t)
	f.churn.err = errors.New("db gone")

	f.triggers.TriggerSubscriptionCancelled(context.Background(), "42", "dana@example.com", "switching")

	// Score falls back to 0, the highest-value offer tier.
	require.Len(t, f.offers.calls, 1)
	assert.Zero(t, f.offers.calls[0].ChurnScore)

	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, emailqueue.TemplateRetention, f.queue.jobs[0].Template)
}

func TestCancellationEmailSentEvenWithoutOffer(t *testing.T) {
	f := newFixture(t)
	f.offers.err = errors.New("insert failed")

	f.triggers.TriggerSubscriptionCancelled(context.Background(), "42", "dana@example.com", "other")

	require.Len(t, f.queue.jobs, 1)
	job := f.queue.jobs[0]
	assert.Equal(t, emailqueue.TemplateRetention, job.Template)
	assert.NotContains(t, job.Data, "offer_code")
}

func TestHighChurnRiskEnqueuesPreventionEmail(t *testing.T) {
	f := newFixture(t)

	f.triggers.TriggerHighChurnRisk(context.Background(), "42", "dana@example.com", 0.15)

	require.Len(t, f.queue.jobs, 1)
	job := f.queue.jobs[0]
	assert.Equal(t, emailqueue.TemplateChurnPrevention, job.Template)
	assert.Equal(t, "RETAINAB12CD34", job.Data["offer_code"])

	require.Len(t, f.offers.calls, 1)
	assert.Equal(t, "high_churn_risk", f.offers.calls[0].Reason)
	assert.InDelta(t, 0.15, f.offers.calls[0].ChurnScore, 1e-9)
}

func TestTriggersNeverPanicOnQueueFailure(t *testing.T) {
	f := newFixture(t)
	f.queue.err = errors.New("redis down")

	assert.NotPanics(t, func() {
		f.triggers.TriggerSignup(context.Background(), "42", "dana@example.com", "Dana")
		f.triggers.TriggerSubscriptionCancelled(context.Background(), "42", "dana@example.com", "bye")
		f.triggers.TriggerHighChurnRisk(context.Background(), "42", "dana@example.com", 0.1)
	})
	assert.Empty(t, f.queue.jobs)
}
