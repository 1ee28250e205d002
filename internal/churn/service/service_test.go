package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/churn/domain"
	"github.com/retainflow/retainflow/internal/churn/repository"
	"github.com/retainflow/retainflow/internal/clock"
	"github.com/retainflow/retainflow/internal/emailqueue"
	engagementdomain "github.com/retainflow/retainflow/internal/engagement/domain"
	userdomain "github.com/retainflow/retainflow/internal/user/domain"
	"github.com/retainflow/retainflow/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, clk clock.Clock) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&userdomain.User{},
		&engagementdomain.MessageEvent{},
		&engagementdomain.SubscriptionEvent{},
		&domain.ChurnPrediction{},
		&emailqueue.EmailLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clk,
	})
	return svc, dbConn, node
}

func seedUser(t *testing.T, dbConn *gorm.DB, node *snowflake.Node, lastActiveAt *time.Time) userdomain.User {
	t.Helper()

	user := userdomain.User{
		ID:           node.Generate(),
		Email:        uniqueEmail(node),
		Name:         "Test User",
		Active:       true,
		LastActiveAt: lastActiveAt,
	}
	require.NoError(t, dbConn.Create(&user).Error)
	return user
}

func uniqueEmail(node *snowflake.Node) string {
	return node.Generate().String() + "@example.com"
}

func TestComputeScoreDisengagedUser(t *testing.T) {
	score, factors := ComputeScore(domain.Signals{
		DaysSinceLastActive: 30,
		MessagesLast30Days:  0,
		CancelAttempts:      2,
		EmailOpenRate:       0,
	})

	// 0.5 + 0.2 (fully idle) + 0.2*2/3 (cancel attempts) with nothing
	// pulling the score down.
	assert.InDelta(t, 0.8333, score, 0.001)
	assert.Equal(t, domain.RiskLow, RiskLevelFor(score))
	assert.Contains(t, factors, "inactive_for_30_days")
	assert.Contains(t, factors, "low_message_volume")
	assert.Contains(t, factors, "cancel_attempts_2")
	assert.Contains(t, factors, "low_email_open_rate")
}

func TestComputeScoreEngagedUser(t *testing.T) {
	score, factors := ComputeScore(domain.Signals{
		DaysSinceLastActive: 0,
		MessagesLast30Days:  50,
		CancelAttempts:      0,
		EmailOpenRate:       1,
	})

	assert.InDelta(t, 0.1, score, 0.001)
	assert.Equal(t, domain.RiskHigh, RiskLevelFor(score))
	assert.Empty(t, factors)
}

func TestComputeScoreCapsSignals(t *testing.T) {
	capped, _ := ComputeScore(domain.Signals{
		DaysSinceLastActive: 30,
		MessagesLast30Days:  50,
		CancelAttempts:      3,
	})
	extreme, _ := ComputeScore(domain.Signals{
		DaysSinceLastActive: 400,
		MessagesLast30Days:  9000,
		CancelAttempts:      25,
	})

	assert.InDelta(t, capped, extreme, 1e-9)
}

func TestComputeScoreDeterministic(t *testing.T) {
	signals := domain.Signals{
		DaysSinceLastActive: 12,
		MessagesLast30Days:  7,
		CancelAttempts:      1,
		EmailOpenRate:       0.4,
	}

	first, _ := ComputeScore(signals)
	second, _ := ComputeScore(signals)
	assert.Equal(t, first, second)
	assert.False(t, math.IsNaN(first))
}

func TestRiskLevelBoundaries(t *testing.T) {
	assert.Equal(t, domain.RiskHigh, RiskLevelFor(0))
	assert.Equal(t, domain.RiskHigh, RiskLevelFor(0.3))
	assert.Equal(t, domain.RiskMedium, RiskLevelFor(0.31))
	assert.Equal(t, domain.RiskMedium, RiskLevelFor(0.6))
	assert.Equal(t, domain.RiskLow, RiskLevelFor(0.61))
	assert.Equal(t, domain.RiskLow, RiskLevelFor(1))
}

func TestScorePersistsPrediction(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, dbConn, node := newTestService(t, clk)

	lastActive := clk.Now().AddDate(0, 0, -10)
	user := seedUser(t, dbConn, node, &lastActive)

	result, err := svc.Score(context.Background(), domain.ScoreRequest{UserID: user.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, 10, result.Signals.DaysSinceLastActive)
	assert.Equal(t, "v1", result.Prediction.ModelVersion)
	assert.InDelta(t, 0.8, result.Prediction.Confidence, 1e-9)
	assert.Equal(t, RiskLevelFor(result.Prediction.Score), result.Prediction.RiskLevel)

	latest, err := svc.Latest(context.Background(), domain.LatestRequest{UserID: user.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, result.Prediction.ID, latest.ID)
	assert.Equal(t, result.Prediction.Score, latest.Score)
}

func TestScoreAppendsNewRows(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, dbConn, node := newTestService(t, clk)

	user := seedUser(t, dbConn, node, nil)

	_, err := svc.Score(context.Background(), domain.ScoreRequest{UserID: user.ID.String()})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	second, err := svc.Score(context.Background(), domain.ScoreRequest{UserID: user.ID.String()})
	require.NoError(t, err)

	var count int64
	require.NoError(t, dbConn.Model(&domain.ChurnPrediction{}).
		Where("user_id = ?", user.ID).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)

	latest, err := svc.Latest(context.Background(), domain.LatestRequest{UserID: user.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, second.Prediction.ID, latest.ID)
}

func TestScoreReadsEngagementSignals(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, dbConn, node := newTestService(t, clk)

	now := clk.Now()
	user := seedUser(t, dbConn, node, &now)

	for i := 0; i < 3; i++ {
		require.NoError(t, dbConn.Create(&engagementdomain.MessageEvent{
			ID:        node.Generate(),
			UserID:    user.ID,
			CreatedAt: now.AddDate(0, 0, -i),
		}).Error)
	}
	// Outside the 30 day window; must not count.
	require.NoError(t, dbConn.Create(&engagementdomain.MessageEvent{
		ID:        node.Generate(),
		UserID:    user.ID,
		CreatedAt: now.AddDate(0, 0, -45),
	}).Error)

	require.NoError(t, dbConn.Create(&engagementdomain.SubscriptionEvent{
		ID:        node.Generate(),
		UserID:    user.ID,
		Type:      engagementdomain.SubscriptionEventCancelAttempt,
		CreatedAt: now.AddDate(0, 0, -2),
	}).Error)

	opened := now.AddDate(0, 0, -1)
	require.NoError(t, dbConn.Create(&emailqueue.EmailLog{
		ID:        node.Generate(),
		UserID:    user.ID,
		Recipient: user.Email,
		Template:  "welcome",
		SentAt:    now.AddDate(0, 0, -3),
		OpenedAt:  &opened,
	}).Error)
	require.NoError(t, dbConn.Create(&emailqueue.EmailLog{
		ID:        node.Generate(),
		UserID:    user.ID,
		Recipient: user.Email,
		Template:  "retention",
		SentAt:    now.AddDate(0, 0, -2),
	}).Error)

	result, err := svc.Score(context.Background(), domain.ScoreRequest{UserID: user.ID.String()})
	require.NoError(t, err)

	assert.EqualValues(t, 3, result.Signals.MessagesLast30Days)
	assert.EqualValues(t, 1, result.Signals.CancelAttempts)
	assert.InDelta(t, 0.5, result.Signals.EmailOpenRate, 1e-9)
}

func TestScoreUnknownUser(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _, node := newTestService(t, clk)

	_, err := svc.Score(context.Background(), domain.ScoreRequest{UserID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestScoreInvalidID(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _, _ := newTestService(t, clk)

	_, err := svc.Score(context.Background(), domain.ScoreRequest{UserID: "not-a-snowflake"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestLatestWithoutPrediction(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, dbConn, node := newTestService(t, clk)

	user := seedUser(t, dbConn, node, nil)

	_, err := svc.Latest(context.Background(), domain.LatestRequest{UserID: user.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
