package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MessageEvent records one community message sent by a user. The churn
// scorer counts these over a trailing window.
type MessageEvent struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time    `gorm:"not null;index" json:"created_at"`
}

type SubscriptionEventType string

const (
	SubscriptionEventCancelAttempt SubscriptionEventType = "cancel_attempt"
	SubscriptionEventCancelled     SubscriptionEventType = "cancelled"
	SubscriptionEventRenewed       SubscriptionEventType = "renewed"
)

type SubscriptionEvent struct {
	ID        snowflake.ID          `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID          `gorm:"not null;index" json:"user_id"`
	Type      SubscriptionEventType `gorm:"not null;index" json:"type"`
	Reason    string                `json:"reason,omitempty"`
	CreatedAt time.Time             `gorm:"not null;index" json:"created_at"`
}
