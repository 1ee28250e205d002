package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/engagement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) RecordMessage(ctx context.Context, db *gorm.DB, event *domain.MessageEvent) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO message_events (id, user_id, created_at) VALUES (?, ?, ?)`,
		event.ID,
		event.UserID,
		event.CreatedAt,
	).Error
}

func (r *repo) RecordSubscriptionEvent(ctx context.Context, db *gorm.DB, event *domain.SubscriptionEvent) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscription_events (id, user_id, type, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		event.ID,
		event.UserID,
		event.Type,
		event.Reason,
		event.CreatedAt,
	).Error
}

func (r *repo) CountMessagesSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.MessageEvent{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *repo) CountSubscriptionEventsSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, eventType domain.SubscriptionEventType, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.SubscriptionEvent{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, eventType, since).
		Count(&count).Error
	return count, err
}
