package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, offer *RetentionOffer) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*RetentionOffer, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*RetentionOffer, error)
	// MarkUsed flips used exactly once; it reports false when the offer was
	// already redeemed by a concurrent caller.
	MarkUsed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)
}
