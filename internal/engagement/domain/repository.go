package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	RecordMessage(ctx context.Context, db *gorm.DB, event *MessageEvent) error
	RecordSubscriptionEvent(ctx context.Context, db *gorm.DB, event *SubscriptionEvent) error
	CountMessagesSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, since time.Time) (int64, error)
	CountSubscriptionEventsSince(ctx context.Context, db *gorm.DB, userID snowflake.ID, eventType SubscriptionEventType, since time.Time) (int64, error)
}
