package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type OfferKind string

const (
	KindDiscount       OfferKind = "discount"
	KindFeatureUpgrade OfferKind = "feature_upgrade"
)

type RetentionOffer struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID `gorm:"not null;index" json:"user_id"`
	Reason          string       `gorm:"not null" json:"reason"`
	Kind            OfferKind    `gorm:"not null" json:"kind"`
	DiscountPercent int          `json:"discount_percent,omitempty"`
	Description     string       `gorm:"not null" json:"description"`
	OfferCode       string       `gorm:"not null;uniqueIndex" json:"offer_code"`
	ExpiresAt       time.Time    `gorm:"not null" json:"expires_at"`
	Used            bool         `gorm:"not null;default:false" json:"used"`
	UsedAt          *time.Time   `json:"used_at,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
