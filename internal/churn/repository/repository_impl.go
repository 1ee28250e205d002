package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/churn/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, prediction *domain.ChurnPrediction) error {
	return db.WithContext(ctx).Create(prediction).Error
}

func (r *repo) LatestByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.ChurnPrediction, error) {
	var prediction domain.ChurnPrediction
	err := db.WithContext(ctx).
		Model(&domain.ChurnPrediction{}).
		Where("user_id = ?", userID).
		Order("predicted_at desc, id desc").
		Limit(1).
		Find(&prediction).Error
	if err != nil {
		return nil, err
	}
	if prediction.ID == 0 {
		return nil, nil
	}
	return &prediction, nil
}

func (r *repo) GatherSignals(ctx context.Context, db *gorm.DB, userID snowflake.ID, now time.Time) (domain.Signals, error) {
	var user struct {
		ID           snowflake.ID
		LastActiveAt *time.Time
	}
	err := db.WithContext(ctx).Raw(
		`SELECT id, last_active_at FROM users WHERE id = ?`,
		userID,
	).Scan(&user).Error
	if err != nil {
		return domain.Signals{}, err
	}
	if user.ID == 0 {
		return domain.Signals{}, domain.ErrUserNotFound
	}

	signals := domain.Signals{}
	if user.LastActiveAt != nil {
		signals.DaysSinceLastActive = int(now.Sub(user.LastActiveAt.UTC()).Hours() / 24)
	} else {
		// A user that never showed up counts as idle for the full cap.
		signals.DaysSinceLastActive = 30
	}

	windowStart := now.AddDate(0, 0, -30)

	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM message_events WHERE user_id = ? AND created_at >= ?`,
		userID,
		windowStart,
	).Scan(&signals.MessagesLast30Days).Error; err != nil {
		return domain.Signals{}, err
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM subscription_events WHERE user_id = ? AND type = ? AND created_at >= ?`,
		userID,
		"cancel_attempt",
		windowStart,
	).Scan(&signals.CancelAttempts).Error; err != nil {
		return domain.Signals{}, err
	}

	var delivery struct {
		Sent   int64
		Opened int64
	}
	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS sent,
		        COUNT(opened_at) AS opened
		 FROM email_logs WHERE user_id = ? AND sent_at >= ?`,
		userID,
		windowStart,
	).Scan(&delivery).Error; err != nil {
		return domain.Signals{}, err
	}
	if delivery.Sent > 0 {
		signals.EmailOpenRate = float64(delivery.Opened) / float64(delivery.Sent)
	}

	return signals, nil
}
